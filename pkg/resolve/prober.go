package resolve

import (
	"context"
	"os"
)

// Prober reports whether a path names an existing regular file.
// Implementations must return false, never an error, for missing paths.
type Prober interface {
	Exists(ctx context.Context, path string) bool
}

// FSProber checks the local filesystem. Symlinks are followed; directories
// and other non-regular files do not count as existing.
type FSProber struct{}

// Exists implements Prober.
func (FSProber) Exists(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
