package parser

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"collint/internal/syntax"
)

// fenceLangs are the info strings that mark a fenced block as JavaScript.
var fenceLangs = map[string]bool{
	"js":         true,
	"javascript": true,
	"mjs":        true,
	"cjs":        true,
	"jsx":        true,
}

// markdownFragments extracts and parses every fenced JavaScript block in a
// markdown file. Each fragment carries the byte and line offset of its body
// within the host file, so positions reported against it land on the right
// markdown line.
func markdownFragments(ctx context.Context, path string, source []byte) ([]*syntax.File, error) {
	md := goldmark.New()
	reader := text.NewReader(source)
	root := md.Parser().Parse(reader)

	var fragments []*syntax.File
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		lang := strings.ToLower(string(fence.Language(source)))
		if !fenceLangs[lang] {
			return ast.WalkContinue, nil
		}

		start, stop, ok := fenceBody(fence)
		if !ok {
			return ast.WalkContinue, nil
		}

		file, err := syntax.Parse(ctx, path, source[start:stop])
		if err != nil {
			return ast.WalkStop, err
		}
		file.ByteBase = start
		file.LineBase = bytes.Count(source[:start], []byte("\n"))
		fragments = append(fragments, file)
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return fragments, nil
}

// fenceBody returns the byte range of a fence's content in the host file.
// Blocks inside blockquotes or list items have a stripped prefix on each
// line, so their segments are not contiguous in the source; those are
// skipped rather than reported at wrong offsets.
func fenceBody(fence *ast.FencedCodeBlock) (start, stop int, ok bool) {
	lines := fence.Lines()
	if lines.Len() == 0 {
		return 0, 0, false
	}
	start = lines.At(0).Start
	stop = lines.At(lines.Len() - 1).Stop
	for i := 1; i < lines.Len(); i++ {
		if lines.At(i).Start != lines.At(i-1).Stop {
			return 0, 0, false
		}
	}
	return start, stop, true
}
