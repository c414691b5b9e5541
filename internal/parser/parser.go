// Package parser turns lintable files into parsed JavaScript fragments.
// Standalone JavaScript files become a single fragment; markdown files
// contribute one fragment per fenced JavaScript code block.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"collint/internal/syntax"
)

// Document is one lintable file: the raw bytes plus every JavaScript
// fragment found inside. Fragment positions are in host-file coordinates,
// so issues and edits produced from them apply to Source directly.
type Document struct {
	Path      string
	Source    []byte
	Fragments []*syntax.File
}

// scriptExts are extensions parsed as whole-file JavaScript.
var scriptExts = map[string]bool{
	".js":  true,
	".mjs": true,
	".cjs": true,
	".jsx": true,
}

// markdownExts are extensions scanned for fenced JavaScript blocks.
var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
}

// Supported reports whether path has an extension the linter understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return scriptExts[ext] || markdownExts[ext]
}

// Parse reads and parses one file into a Document.
func Parse(ctx context.Context, path string) (*Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseBytes(ctx, path, source)
}

// ParseBytes parses source that was already read. Markdown is scanned for
// fenced blocks; everything else is treated as JavaScript, which lets
// callers lint stdin or editor buffers without a real extension.
func ParseBytes(ctx context.Context, path string, source []byte) (*Document, error) {
	doc := &Document{Path: path, Source: source}

	if markdownExts[strings.ToLower(filepath.Ext(path))] {
		fragments, err := markdownFragments(ctx, path, source)
		if err != nil {
			return nil, err
		}
		doc.Fragments = fragments
		return doc, nil
	}

	file, err := syntax.Parse(ctx, path, source)
	if err != nil {
		return nil, err
	}
	doc.Fragments = []*syntax.File{file}
	return doc, nil
}
