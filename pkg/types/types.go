// Package types defines the data passed between discovery, resolution and
// rewriting: discovered imports, the references built from them, and the
// per-file record of what changed.
package types

// ImportKind identifies the syntax an import specifier came from.
type ImportKind string

const (
	KindImport  ImportKind = "import"  // import x from './x'
	KindExport  ImportKind = "export"  // export { x } from './x'
	KindRequire ImportKind = "require" // const x = require('./x')
	KindDynamic ImportKind = "dynamic" // import('./x')
)

// Import represents an import statement
type Import struct {
	Module     string     `json:"module" msgpack:"module"`
	Names      []string   `json:"names" msgpack:"names"`
	IsFrom     bool       `json:"is_from" msgpack:"is_from"`
	LineNumber int        `json:"line_number" msgpack:"line_number"`
	Kind       ImportKind `json:"kind" msgpack:"kind"`
	// Start and End delimit the specifier text inside its quotes.
	Start int `json:"start" msgpack:"start"`
	End   int `json:"end" msgpack:"end"`
}

// ImportReference is a specifier together with the absolute path of the
// file it appears in.
type ImportReference struct {
	Origin     string `json:"origin"`
	Specifier  string `json:"specifier"`
	LineNumber int    `json:"line_number"`
}

// Reference builds the ImportReference for imp found in origin.
func (imp Import) Reference(origin string) ImportReference {
	return ImportReference{
		Origin:     origin,
		Specifier:  imp.Module,
		LineNumber: imp.LineNumber,
	}
}

// Change is one specifier substitution.
type Change struct {
	LineNumber int    `json:"line_number" msgpack:"line_number"`
	Start      int    `json:"start" msgpack:"start"`
	End        int    `json:"end" msgpack:"end"`
	From       string `json:"from" msgpack:"from"`
	To         string `json:"to" msgpack:"to"`
	Target     string `json:"target" msgpack:"target"`
}

// Unresolved records a reference that was left untouched.
type Unresolved struct {
	LineNumber int    `json:"line_number" msgpack:"line_number"`
	Specifier  string `json:"specifier" msgpack:"specifier"`
	Reason     string `json:"reason" msgpack:"reason"`
}

// FileReport summarises the work done on one source file.
type FileReport struct {
	Path       string       `json:"path" msgpack:"path"`
	Hash       string       `json:"hash" msgpack:"hash"`
	References int          `json:"references" msgpack:"references"`
	Changes    []Change     `json:"changes,omitempty" msgpack:"changes"`
	Unresolved []Unresolved `json:"unresolved,omitempty" msgpack:"unresolved"`
	Failures   []Unresolved `json:"failures,omitempty" msgpack:"failures"`
	Err        string       `json:"error,omitempty" msgpack:"error"`
	Written    bool         `json:"written" msgpack:"written"`
}

// Changed reports whether any substitution was made.
func (r *FileReport) Changed() bool {
	return len(r.Changes) > 0
}
