package resolve

import (
	"context"
	"fmt"

	"github.com/l3aro/importfix/pkg/types"
)

// Engine resolves references against the filesystem and a fixed candidate
// universe. An Engine holds no mutable state and may be shared by goroutines.
type Engine struct {
	prober   Prober
	universe []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithProber replaces the default FSProber.
func WithProber(p Prober) Option {
	return func(e *Engine) {
		e.prober = p
	}
}

// NewEngine creates an Engine over universe. The slice is copied; its order
// is kept because it decides proximity ties.
func NewEngine(universe []string, opts ...Option) *Engine {
	e := &Engine{
		prober:   FSProber{},
		universe: append([]string(nil), universe...),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UniverseSize returns the number of candidate files.
func (e *Engine) UniverseSize() int {
	return len(e.universe)
}

// Resolve probes the conventional locations for ref in order and stops at the
// first hit. On a total miss it falls back to FuzzyMatch. The error is
// non-nil only for a malformed reference or a cancelled context.
func (e *Engine) Resolve(ctx context.Context, ref types.ImportReference) (Resolution, error) {
	for _, probe := range GenerateProbes(ref.Origin, ref.Specifier) {
		if e.prober.Exists(ctx, probe) {
			return Resolution{Status: StatusIntact, Target: probe}, nil
		}
		if err := ctx.Err(); err != nil {
			return NotFound, fmt.Errorf("probing %s: %w", probe, err)
		}
	}

	return FuzzyMatch(ref.Origin, ref.Specifier, e.universe)
}
