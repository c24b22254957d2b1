package extractor

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/l3aro/importfix/pkg/types"
)

// ImportParser finds import specifiers with tree-sitter. A parser is not safe
// for concurrent use; create one per goroutine.
type ImportParser struct {
	parser *sitter.Parser
}

// NewImportParser creates a new import parser.
func NewImportParser() *ImportParser {
	return &ImportParser{parser: sitter.NewParser()}
}

// Close releases the underlying tree-sitter parser.
func (p *ImportParser) Close() {
	p.parser.Close()
}

// ParseImports extracts all import specifiers from the file at filePath.
func (p *ImportParser) ParseImports(ctx context.Context, filePath string) ([]types.Import, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return p.ParseImportsFromBytes(ctx, content, filePath)
}

// ParseImportsFromBytes extracts imports from source bytes. filePath picks the
// grammar and is not read.
func (p *ImportParser) ParseImportsFromBytes(ctx context.Context, content []byte, filePath string) ([]types.Import, error) {
	lang, err := DetectLanguage(filePath)
	if err != nil {
		return nil, err
	}
	p.parser.SetLanguage(lang.Grammar())

	tree, err := p.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parsing failed")
	}
	defer tree.Close()

	var imports []types.Import
	p.walkNode(tree.RootNode(), content, &imports)

	return imports, nil
}

// walkNode recursively walks the AST to find import specifiers.
func (p *ImportParser) walkNode(node *sitter.Node, content []byte, imports *[]types.Import) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "import_statement":
		// import x from './x', import './x', import x = require('./x')
		if imp := p.parseImportStatement(node, content); imp != nil {
			*imports = append(*imports, *imp)
		}
		return
	case "export_statement":
		// export { x } from './x', export * from './x'
		if source := node.ChildByFieldName("source"); source != nil {
			if imp := p.newImport(source, content, types.KindExport); imp != nil {
				imp.IsFrom = true
				imp.Names = p.parseExportClause(node, content)
				*imports = append(*imports, *imp)
			}
			return
		}
	case "call_expression":
		// require('./x') or import('./x')
		if imp := p.parseCall(node, content); imp != nil {
			*imports = append(*imports, *imp)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		p.walkNode(node.Child(i), content, imports)
	}
}

// parseImportStatement handles both ES imports and TypeScript's
// import-equals-require form.
func (p *ImportParser) parseImportStatement(node *sitter.Node, content []byte) *types.Import {
	if source := node.ChildByFieldName("source"); source != nil {
		imp := p.newImport(source, content, types.KindImport)
		if imp == nil {
			return nil
		}
		imp.IsFrom = true
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child != nil && child.Type() == "import_clause" {
				imp.Names = p.parseImportClause(child, content)
			}
		}
		return imp
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() != "import_require_clause" {
			continue
		}
		var name string
		var source *sitter.Node
		for j := 0; j < int(child.NamedChildCount()); j++ {
			c := child.NamedChild(j)
			switch c.Type() {
			case "identifier":
				name = c.Content(content)
			case "string":
				source = c
			}
		}
		if source == nil {
			return nil
		}
		imp := p.newImport(source, content, types.KindRequire)
		if imp != nil && name != "" {
			imp.Names = []string{name}
		}
		return imp
	}

	return nil
}

// parseImportClause parses the import clause to get imported names.
func (p *ImportParser) parseImportClause(node *sitter.Node, content []byte) []string {
	var names []string

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "identifier":
			// import x from 'module'
			names = append(names, child.Content(content))
		case "named_imports":
			// import { x, y as z } from 'module'
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec == nil || spec.Type() != "import_specifier" {
					continue
				}
				if name := spec.ChildByFieldName("name"); name != nil {
					names = append(names, name.Content(content))
				}
			}
		case "namespace_import":
			// import * as x from 'module'
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if alias := child.NamedChild(j); alias != nil && alias.Type() == "identifier" {
					names = append(names, "*"+alias.Content(content))
					break
				}
			}
		}
	}

	return names
}

// parseExportClause returns the names re-exported by an export-from statement.
func (p *ImportParser) parseExportClause(node *sitter.Node, content []byte) []string {
	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() != "export_clause" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			spec := child.NamedChild(j)
			if spec == nil || spec.Type() != "export_specifier" {
				continue
			}
			if name := spec.ChildByFieldName("name"); name != nil {
				names = append(names, name.Content(content))
			}
		}
	}
	if len(names) == 0 {
		names = []string{"*"}
	}
	return names
}

// parseCall parses require('module') and import('module') calls.
func (p *ImportParser) parseCall(node *sitter.Node, content []byte) *types.Import {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return nil
	}

	var kind types.ImportKind
	switch {
	case fn.Type() == "import":
		kind = types.KindDynamic
	case fn.Type() == "identifier" && fn.Content(content) == "require":
		kind = types.KindRequire
	default:
		return nil
	}

	args := node.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return nil
	}
	arg := args.NamedChild(0)
	if arg == nil || arg.Type() != "string" {
		return nil
	}

	imp := p.newImport(arg, content, kind)
	if imp == nil {
		return nil
	}

	// const x = require('./x')
	if parent := node.Parent(); parent != nil && parent.Type() == "variable_declarator" {
		if name := parent.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
			imp.Names = []string{name.Content(content)}
		}
	}
	return imp
}

// newImport builds an Import from a string literal node. The recorded span
// excludes the quotes so a rewrite keeps the original quoting style.
func (p *ImportParser) newImport(str *sitter.Node, content []byte, kind types.ImportKind) *types.Import {
	if str == nil || str.Type() != "string" {
		return nil
	}
	start, end := int(str.StartByte()), int(str.EndByte())
	if end-start < 2 || end > len(content) {
		return nil
	}
	start, end = start+1, end-1

	return &types.Import{
		Module:     string(content[start:end]),
		Kind:       kind,
		LineNumber: int(str.StartPoint().Row) + 1,
		Start:      start,
		End:        end,
	}
}
