package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"collint/internal/config"
	"collint/internal/parser"
)

// defaultSkipDirs are directory names never worth descending into.
var defaultSkipDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"coverage":         true,
	".git":             true,
}

// Discover returns the lintable files under root in sorted order. A root
// that is itself a file is returned unconditionally: naming a file is
// intent enough.
func Discover(root string, cfg *config.Config) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if defaultSkipDirs[d.Name()] || matchesSkip(cfg.Skip, root, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".min.js") {
			return nil
		}
		if !parser.Supported(path) {
			return nil
		}
		if matchesSkip(cfg.Skip, root, path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// matchesSkip reports whether a path matches any configured skip glob.
// Globs are tried against the base name and the root-relative path.
func matchesSkip(globs []string, root, path string) bool {
	if len(globs) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, g := range globs {
		if ok, _ := filepath.Match(g, base); ok {
			return true
		}
		if ok, _ := filepath.Match(g, rel); ok {
			return true
		}
	}
	return false
}
