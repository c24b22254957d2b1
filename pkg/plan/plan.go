// Package plan persists the changes of a repair run so they can be reviewed
// and applied later. Each file entry carries the SHA-256 of the content the
// changes were computed against; Apply refuses to touch a file that has since
// changed.
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/l3aro/importfix/pkg/rewrite"
	"github.com/l3aro/importfix/pkg/types"
)

// Version is the current on-disk plan version.
const Version = 1

// ErrStale is returned when a file no longer matches the hash in the plan.
var ErrStale = errors.New("file changed since plan was created")

// Format selects the plan encoding.
type Format string

const (
	FormatMsgpack Format = "msgpack"
	FormatJSON    Format = "json"
)

// Plan is the serialisable record of a repair run.
type Plan struct {
	ID        string             `json:"id" msgpack:"id"`
	Version   int                `json:"version" msgpack:"version"`
	CreatedAt time.Time          `json:"created_at" msgpack:"created_at"`
	Files     []types.FileReport `json:"files" msgpack:"files"`
}

// New builds a plan from the reports that contain at least one change.
func New(reports []types.FileReport) *Plan {
	p := &Plan{ID: uuid.New().String(), Version: Version, CreatedAt: time.Now().UTC()}
	for _, r := range reports {
		if r.Changed() {
			p.Files = append(p.Files, r)
		}
	}
	return p
}

// ChangeCount returns the number of changes across all files.
func (p *Plan) ChangeCount() int {
	n := 0
	for _, f := range p.Files {
		n += len(f.Changes)
	}
	return n
}

// Encode writes the plan to w.
func (p *Plan) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatMsgpack, "":
		return msgpack.NewEncoder(w).Encode(p)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	default:
		return fmt.Errorf("unknown plan format: %s", format)
	}
}

// Decode reads a plan from r.
func Decode(r io.Reader, format Format) (*Plan, error) {
	var p Plan
	var err error
	switch format {
	case FormatMsgpack, "":
		err = msgpack.NewDecoder(r).Decode(&p)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&p)
	default:
		return nil, fmt.Errorf("unknown plan format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	if p.Version != Version {
		return nil, fmt.Errorf("unsupported plan version %d", p.Version)
	}
	return &p, nil
}

// FormatForPath picks JSON for ".json" files and msgpack otherwise.
func FormatForPath(path string) Format {
	if filepath.Ext(path) == ".json" {
		return FormatJSON
	}
	return FormatMsgpack
}

// SaveFile writes the plan to path.
func (p *Plan) SaveFile(path string, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	defer f.Close()

	if err := p.Encode(f, format); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return f.Close()
}

// LoadFile reads a plan from path, choosing the format from the extension.
func LoadFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan file: %w", err)
	}
	defer f.Close()

	return Decode(f, FormatForPath(path))
}

// Hash returns the hex SHA-256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Result is the outcome of applying one file entry.
type Result struct {
	Path    string
	Changes int
	Err     error
}

// Apply writes every file entry in the plan. A file whose current hash
// differs from the recorded one is skipped with ErrStale; other files are
// still processed. With dryRun nothing is written.
func (p *Plan) Apply(dryRun bool) []Result {
	results := make([]Result, 0, len(p.Files))
	for _, f := range p.Files {
		err := applyFile(f, dryRun)
		results = append(results, Result{Path: f.Path, Changes: len(f.Changes), Err: err})
	}
	return results
}

func applyFile(f types.FileReport, dryRun bool) error {
	info, err := os.Stat(f.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.Path, err)
	}
	_, updated, err := render(f)
	if err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	if err := os.WriteFile(f.Path, updated, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", f.Path, err)
	}
	return nil
}

// render returns the current content of the entry's file and the content
// after its changes, refusing files that no longer match the recorded hash.
func render(f types.FileReport) ([]byte, []byte, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	if Hash(content) != f.Hash {
		return nil, nil, fmt.Errorf("%s: %w", f.Path, ErrStale)
	}

	updated, err := rewrite.Apply(content, rewrite.FromChanges(f.Changes))
	if err != nil {
		return nil, nil, fmt.Errorf("rewriting %s: %w", f.Path, err)
	}
	return content, updated, nil
}
