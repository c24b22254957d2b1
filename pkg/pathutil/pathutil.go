// Package pathutil holds the small string helpers shared by probe generation,
// fuzzy matching and the rewrite step. Every helper is pure.
package pathutil

import (
	"path/filepath"
	"strings"
)

// knownExtensions are the suffixes that make a reference name a file
// directly. Any other dotted tail ("user.service", "Button.styles") is part of
// the module name.
var knownExtensions = map[string]bool{
	// scripts and declarations
	"ts": true, "tsx": true, "mts": true, "cts": true,
	"js": true, "jsx": true, "mjs": true, "cjs": true,
	// components
	"vue": true, "svelte": true, "astro": true,
	// data
	"json": true, "json5": true, "yaml": true, "yml": true, "toml": true,
	"xml": true, "csv": true, "txt": true, "md": true, "mdx": true,
	"graphql": true, "gql": true, "wasm": true, "html": true,
	// styles
	"css": true, "scss": true, "sass": true, "less": true, "styl": true,
	// assets
	"svg": true, "png": true, "jpg": true, "jpeg": true, "gif": true,
	"webp": true, "avif": true, "ico": true, "bmp": true,
	"woff": true, "woff2": true, "ttf": true, "otf": true, "eot": true,
	"mp3": true, "mp4": true, "webm": true, "wav": true,
}

// typeScriptSuffixes are removed from a rewritten specifier, longest first.
var typeScriptSuffixes = []string{".d.ts", ".tsx", ".ts"}

// IsRelative reports whether a specifier is written relative to its origin
// ("./x", "../x", ".").
func IsRelative(specifier string) bool {
	return strings.HasPrefix(specifier, ".")
}

// StripQuery removes everything from the first '?' onward.
// "./icon.svg?raw" -> "./icon.svg"
func StripQuery(specifier string) string {
	if i := strings.IndexByte(specifier, '?'); i >= 0 {
		return specifier[:i]
	}
	return specifier
}

// QuerySuffix returns the part of the specifier that StripQuery removes.
func QuerySuffix(specifier string) string {
	if i := strings.IndexByte(specifier, '?'); i >= 0 {
		return specifier[i:]
	}
	return ""
}

// StripExtension removes everything from the final '.' onward, as long as at
// least one character follows it. "Widget.vue" -> "Widget", "foo.d.ts" -> "foo.d"
func StripExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return name
	}
	if strings.ContainsAny(name[i+1:], `/\`) {
		return name
	}
	return name[:i]
}

// HasExtension reports whether the final segment of p ends in a known
// file-type suffix such as ".ts", ".json" or ".svg". Case is ignored.
// "./user.service" has none.
func HasExtension(p string) bool {
	seg := LastSegment(p)
	i := strings.LastIndexByte(seg, '.')
	if i < 0 {
		return false
	}
	return knownExtensions[strings.ToLower(seg[i+1:])]
}

// LastSegment returns the text after the final '/' or '\'.
func LastSegment(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}

// ToSlash converts every platform separator, and any stray backslash, to '/'.
func ToSlash(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}

// HasRelativeMarker reports whether p already begins with "./" or "../", or
// is exactly "." or "..".
func HasRelativeMarker(p string) bool {
	switch {
	case p == "." || p == "..":
		return true
	case strings.HasPrefix(p, "./"), strings.HasPrefix(p, "../"):
		return true
	}
	return false
}

// EnsureRelativePrefix prepends "./" unless p already starts with a
// relative marker. "q/foo" -> "./q/foo", "../q/foo" is returned unchanged.
func EnsureRelativePrefix(p string) string {
	if HasRelativeMarker(p) {
		return p
	}
	return "./" + p
}

// StripTypeScriptExtension drops a trailing ".d.ts", ".tsx" or ".ts" so the
// specifier matches how TypeScript sources are usually imported.
func StripTypeScriptExtension(p string) string {
	for _, suffix := range typeScriptSuffixes {
		if strings.HasSuffix(p, suffix) && len(p) > len(suffix) {
			return strings.TrimSuffix(p, suffix)
		}
	}
	return p
}

// CountSeparators counts '/' and '\' occurrences in p.
func CountSeparators(p string) int {
	return strings.Count(p, "/") + strings.Count(p, `\`)
}
