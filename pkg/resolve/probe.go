// Package resolve decides whether a relative import still resolves and, when
// it does not, picks the most plausible replacement from a known set of files.
//
// Resolution runs in two phases. GenerateProbes lists the paths a conventional
// module resolver would try, in priority order, and a Prober checks them one at
// a time. Only when every probe misses does FuzzyMatch search the candidate
// universe by basename, index-directory equivalence and filesystem proximity.
package resolve

import (
	"path/filepath"

	"github.com/l3aro/importfix/pkg/pathutil"
)

// ProbeExtensions are appended to an extensionless reference, in order.
var ProbeExtensions = []string{
	".ts",
	".tsx",
	".d.ts",
	".js",
	".jsx",
	".mjs",
	".json",
	".vue",
	".svelte",
}

// IndexFilenames are tried as children of an extensionless reference, in order.
var IndexFilenames = []string{
	"index.ts",
	"index.tsx",
	"index.d.ts",
	"index.js",
	"index.jsx",
}

// GenerateProbes returns the ordered list of absolute paths a resolver would
// try for reference, written inside the file at origin. The reference must be
// relative; callers filter with pathutil.IsRelative first. A query suffix
// ("?raw") is not part of the path and is dropped.
func GenerateProbes(origin, reference string) []string {
	reference = pathutil.StripQuery(reference)
	base := filepath.Join(filepath.Dir(origin), reference)

	if pathutil.HasExtension(reference) {
		return []string{base}
	}

	probes := make([]string, 0, len(ProbeExtensions)+len(IndexFilenames))
	for _, ext := range ProbeExtensions {
		probes = append(probes, base+ext)
	}
	for _, name := range IndexFilenames {
		probes = append(probes, filepath.Join(base, name))
	}
	return probes
}
