// Package engine orchestrates lint runs: file discovery, parallel
// per-file checking, and the results cache.
package engine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"collint/internal/config"
	"collint/internal/parser"
	"collint/internal/rules"
	"collint/internal/version"
	"collint/internal/vocab"
)

// Options configures one lint run.
type Options struct {
	Root     string
	Config   *config.Config
	Registry *rules.Registry
	Jobs     int
	NoCache  bool
	// Deep marks runs whose classifications consult the oracle; their
	// results live under a separate cache key space.
	Deep bool
	// Progress, when non-nil, is called from worker goroutines after each
	// file completes. done counts finished files.
	Progress func(done, total int, path string)
}

// Result is the outcome of a lint run. Issues are ordered by file path,
// then by position within the file.
type Result struct {
	Files  int
	Cached int
	Issues []rules.Issue
}

// Run lints every discoverable file under opts.Root.
func Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(opts.Root, opts.Config)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	if len(files) == 0 {
		return &Result{}, nil
	}

	var cache *Cache
	if opts.Config.Cache && !opts.NoCache {
		// A cache that cannot be opened is skipped, not fatal.
		cache, _ = OpenCache()
	}
	fingerprint := runFingerprint(opts.Config, opts.Deep)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine owns one index; no mutex needed.
	results := make([][]rules.Issue, len(files))
	cached := make([]bool, len(files))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			issues, fromCache, err := lintFile(gctx, path, opts, cache, fingerprint)
			if err != nil {
				return err
			}
			results[i] = issues
			cached[i] = fromCache
			if opts.Progress != nil {
				opts.Progress(int(done.Add(1)), len(files), path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Files: len(files)}
	for i, issues := range results {
		res.Issues = append(res.Issues, issues...)
		if cached[i] {
			res.Cached++
		}
	}
	return res, nil
}

// lintFile lints one file. I/O, parse, and rule failures come back as
// issues so one bad file never aborts the batch; only cancellation is an
// error.
func lintFile(ctx context.Context, path string, opts Options, cache *Cache, fingerprint string) ([]rules.Issue, bool, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return []rules.Issue{failure(path, "io", fmt.Sprintf("read file: %v", err))}, false, nil
	}

	key := Key(source, fingerprint)
	if issues, ok := cache.Get(key); ok {
		return issues, true, nil
	}

	doc, err := parser.ParseBytes(ctx, path, source)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return []rules.Issue{failure(path, "parse", err.Error())}, false, nil
	}

	var issues []rules.Issue
	for _, rule := range opts.Registry.Rules() {
		out, err := rule.Check(ctx, doc, opts.Config)
		if err != nil {
			if ctx.Err() != nil {
				return nil, false, ctx.Err()
			}
			issues = append(issues, failure(path, rule.Name(), fmt.Sprintf("rule failed: %v", err)))
			continue
		}
		issues = append(issues, out...)
	}

	_ = cache.Put(key, issues)
	return issues, false, nil
}

// failure wraps an operational error as a reportable issue.
func failure(path, rule, msg string) rules.Issue {
	return rules.Issue{
		Rule:     rule,
		Severity: rules.Error,
		Message:  msg,
		File:     path,
		Line:     1,
		Column:   1,
	}
}

// runFingerprint keys cached results to everything that can change them.
func runFingerprint(cfg *config.Config, deep bool) string {
	parts := []string{cfg.Fingerprint(), vocab.DefaultChecksum(), version.Version}
	if deep {
		parts = append(parts, "deep")
	}
	return strings.Join(parts, "|")
}
