package syntax

import (
	"context"
	"fmt"
	"math"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// File is a parsed JavaScript source. For snippets embedded in markdown,
// Path names the host file and LineBase/ByteBase locate the snippet within
// it; for standalone files both are zero.
type File struct {
	Path     string
	Source   []byte
	LineBase int
	ByteBase int

	tree *sitter.Tree
}

// Parse parses JavaScript source into a File
func Parse(ctx context.Context, path string, source []byte) (*File, error) {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &File{Path: path, Source: source, tree: tree}, nil
}

// Root returns the root node of the parsed tree
func (f *File) Root() *sitter.Node {
	return f.tree.RootNode()
}

// Text returns the source text of a node
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.Source)
}

// Line returns the 1-based line of a node in the host file
func (f *File) Line(n *sitter.Node) int {
	return asInt(n.StartPoint().Row) + 1 + f.LineBase
}

// Column returns the 1-based column of a node
func (f *File) Column(n *sitter.Node) int {
	return asInt(n.StartPoint().Column) + 1
}

// EndLine returns the 1-based line of a node's end in the host file
func (f *File) EndLine(n *sitter.Node) int {
	return asInt(n.EndPoint().Row) + 1 + f.LineBase
}

// EndColumn returns the 1-based column just past a node's end
func (f *File) EndColumn(n *sitter.Node) int {
	return asInt(n.EndPoint().Column) + 1
}

// Span returns the byte range of a node in host-file coordinates
func (f *File) Span(n *sitter.Node) (start, end int) {
	return f.ByteBase + asInt(n.StartByte()), f.ByteBase + asInt(n.EndByte())
}

// Walk calls fn for every node in the subtree rooted at n, parent before
// children. Returning false skips the node's children.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		Walk(n.Child(i), fn)
	}
}

// asInt converts a tree-sitter offset, clamping where int is 32-bit
func asInt(v uint32) int {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return math.MaxInt32
	}
	return n
}
