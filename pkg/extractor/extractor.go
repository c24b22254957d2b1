// Package extractor discovers import specifiers in JavaScript and TypeScript
// sources using tree-sitter.
package extractor

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language represents a supported source dialect.
type Language string

const (
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	JavaScript Language = "javascript"
)

// extensions maps file extensions to the grammar used to parse them.
var extensions = map[string]Language{
	".ts":  TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
	".tsx": TSX,
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
}

// Grammar returns the tree-sitter language for lang.
func (lang Language) Grammar() *sitter.Language {
	switch lang {
	case TypeScript:
		return typescript.GetLanguage()
	case TSX:
		return tsx.GetLanguage()
	case JavaScript:
		return javascript.GetLanguage()
	default:
		return nil
	}
}

// DetectLanguage returns the language for a file path based on its extension.
func DetectLanguage(filePath string) (Language, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == "" {
		return "", fmt.Errorf("file has no extension: %s", filePath)
	}

	lang, ok := extensions[ext]
	if !ok {
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}
	return lang, nil
}

// IsSupported checks if a file extension is supported.
func IsSupported(filePath string) bool {
	_, err := DetectLanguage(filePath)
	return err == nil
}

// SupportedExtensions lists every extension the extractor can parse.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
