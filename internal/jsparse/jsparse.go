// Package jsparse is the parser frontend of the extractor. It wraps the
// tree-sitter JavaScript and TypeScript grammars behind a small API that
// exposes the concrete syntax tree, node byte spans, and offset-to-position
// lookup for diagnostics.
package jsparse

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language selects which tree-sitter grammar parses a file.
type Language int

const (
	JavaScript Language = iota
	TypeScript
	TSX
)

// LanguageForFilename picks a grammar from the file extension. TSX handles
// the unknown case: it is the superset grammar the authoring primitives are
// most commonly written in.
func LanguageForFilename(name string) Language {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ts", ".mts", ".cts":
		return TypeScript
	case ".js", ".mjs", ".cjs":
		return JavaScript
	default:
		return TSX
	}
}

// File is a parsed source file. Close must be called to release the
// tree-sitter tree.
type File struct {
	Filename   string
	Source     []byte
	tree       *tree_sitter.Tree
	parser     *tree_sitter.Parser
	lineStarts []int
}

// Parse parses source with the grammar selected by the filename. Grammar
// errors do not fail the call; callers check HasSyntaxError to implement the
// parse-failure pass-through.
func Parse(filename string, source []byte) (*File, error) {
	lang, err := grammar(LanguageForFilename(filename))
	if err != nil {
		return nil, err
	}

	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(tree_sitter.NewLanguage(lang)); err != nil {
		parser.Close()
		return nil, fmt.Errorf("setting language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil || tree.RootNode() == nil {
		parser.Close()
		return nil, fmt.Errorf("parse returned no tree for %s", filename)
	}

	return &File{
		Filename:   filename,
		Source:     source,
		tree:       tree,
		parser:     parser,
		lineStarts: buildLineStarts(source),
	}, nil
}

// Close releases the parse tree and parser.
func (f *File) Close() {
	if f == nil {
		return
	}
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
	if f.parser != nil {
		f.parser.Close()
		f.parser = nil
	}
}

// Root returns the root CST node.
func (f *File) Root() *tree_sitter.Node {
	return f.tree.RootNode()
}

// HasSyntaxError reports whether the grammar flagged any part of the file.
func (f *File) HasSyntaxError() bool {
	root := f.tree.RootNode()
	return root == nil || root.HasError()
}

// Text extracts the source text of a node.
func (f *File) Text(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(f.Source)
}

// Position converts a byte offset into a 1-based (line, column) pair using
// the precomputed line-start index.
func (f *File) Position(offset uint) (line, col int) {
	pos := int(offset)
	i := sort.Search(len(f.lineStarts), func(i int) bool { return f.lineStarts[i] > pos }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, pos - f.lineStarts[i] + 1
}

func buildLineStarts(source []byte) []int {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func grammar(lang Language) (unsafe.Pointer, error) {
	switch lang {
	case JavaScript:
		return tree_sitter_javascript.Language(), nil
	case TypeScript:
		return tree_sitter_typescript.LanguageTypescript(), nil
	case TSX:
		return tree_sitter_typescript.LanguageTSX(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %d", lang)
	}
}
