package fixer

import (
	"fmt"
	"os"
	"sort"

	"collint/internal/rules"
	"collint/internal/ui"
)

// Options configures the fixer behavior
type Options struct {
	// DryRun previews edits without writing any file
	DryRun bool
	// All applies recommended fixes even when they change behavior
	All bool
}

// Skipped records an issue whose fix was not applied and why
type Skipped struct {
	Issue  rules.Issue
	Reason string
}

// Result summarizes one fix run
type Result struct {
	Applied int
	NoFix   int
	Skipped []Skipped
	Files   []string
}

// Fixer applies recommended fixes to the files they were reported against
type Fixer struct {
	opts Options
	ui   *ui.UI
}

// New creates a new Fixer
func New(opts Options, u *ui.UI) *Fixer {
	return &Fixer{opts: opts, ui: u}
}

type candidate struct {
	issue rules.Issue
	fix   rules.Fix
}

// Apply applies the recommended fix of every issue that has one. Each edit
// is verified against the current file contents before it is spliced in, so
// stale analysis skips instead of corrupting the file, and every file is
// written at most once.
func (f *Fixer) Apply(issues []rules.Issue) (*Result, error) {
	res := &Result{}

	byFile := make(map[string][]candidate)
	for _, issue := range issues {
		if issue.Fix == nil || len(issue.Fix.Edits) == 0 {
			res.NoFix++
			continue
		}
		fix := *issue.Fix
		if fix.Unsafe && !f.opts.All {
			f.skip(res, issue, "recommended fix changes behavior; rerun with --all or pick with --interactive")
			continue
		}
		path := fix.Edits[0].File
		sameFile := true
		for _, e := range fix.Edits[1:] {
			if e.File != path {
				sameFile = false
				break
			}
		}
		if !sameFile {
			f.skip(res, issue, "fix spans multiple files")
			continue
		}
		byFile[path] = append(byFile[path], candidate{issue: issue, fix: fix})
	}

	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := f.applyFile(path, byFile[path], res); err != nil {
			return res, err
		}
	}
	sort.Strings(res.Files)
	return res, nil
}

// applyFile splices the candidate fixes for one file, highest offset first.
// Bottom-up application keeps the offsets of not-yet-applied edits valid,
// since those all sit below everything already spliced.
func (f *Fixer) applyFile(path string, cands []candidate, res *Result) error {
	content, err := os.ReadFile(path)
	if err != nil {
		for _, c := range cands {
			f.skip(res, c.issue, fmt.Sprintf("read failed: %v", err))
		}
		return nil
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].fix.Edits[0].Start > cands[j].fix.Edits[0].Start
	})

	var applied []rules.Edit
	changed := false
	for _, c := range cands {
		if reason := verify(content, c.fix, applied); reason != "" {
			f.skip(res, c.issue, reason)
			continue
		}

		edits := append([]rules.Edit(nil), c.fix.Edits...)
		sort.Slice(edits, func(i, j int) bool { return edits[i].Start > edits[j].Start })
		if !f.opts.DryRun {
			for _, e := range edits {
				var buf []byte
				buf = append(buf, content[:e.Start]...)
				buf = append(buf, e.NewText...)
				buf = append(buf, content[e.End:]...)
				content = buf
			}
		}
		applied = append(applied, c.fix.Edits...)
		changed = true
		res.Applied++
		f.printApplied(c.issue, c.fix)
	}

	if !changed {
		return nil
	}
	if !f.opts.DryRun {
		if err := os.WriteFile(path, content, mode); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	res.Files = append(res.Files, path)
	return nil
}

// verify reports why a fix cannot be applied to content, or "" when it can.
func verify(content []byte, fix rules.Fix, applied []rules.Edit) string {
	for _, e := range fix.Edits {
		switch {
		case e.Start < 0 || e.End > len(content) || e.Start > e.End:
			return "edit is out of range"
		case string(content[e.Start:e.End]) != e.OldText:
			return "file changed since analysis"
		case conflicts(e, applied):
			return "overlaps an already applied fix"
		}
	}
	return ""
}

// conflicts reports whether e overlaps any already applied edit. Spans are
// half-open byte ranges.
func conflicts(e rules.Edit, applied []rules.Edit) bool {
	for _, a := range applied {
		if e.Start < a.End && a.Start < e.End {
			return true
		}
	}
	return false
}

func (f *Fixer) printApplied(issue rules.Issue, fix rules.Fix) {
	s := f.ui.Styles
	loc := fmt.Sprintf("%s:%d:%d", issue.File, issue.Line, issue.Column)
	if f.opts.DryRun {
		fmt.Fprintf(f.ui.Writer, "%s %s\n", s.Suggestion.Render("would fix"), loc)
	} else {
		fmt.Fprintf(f.ui.Writer, "%s %s\n", s.Success.Render(s.IconSuccess+" fixed"), loc)
	}
	for _, e := range fix.Edits {
		fmt.Fprintln(f.ui.Writer, s.Error.Render("    - "+preview(e.OldText)))
		fmt.Fprintln(f.ui.Writer, s.Success.Render("    + "+preview(e.NewText)))
	}
	fmt.Fprintf(f.ui.Writer, "    %s\n", s.Subheader.Render(fix.Description))
}

func (f *Fixer) skip(res *Result, issue rules.Issue, reason string) {
	res.Skipped = append(res.Skipped, Skipped{Issue: issue, Reason: reason})
	s := f.ui.Styles
	fmt.Fprintf(f.ui.Writer, "%s %s:%d:%d %s\n",
		s.Warning.Render(s.IconWarning+" skipped"),
		issue.File, issue.Line, issue.Column,
		s.Subheader.Render("("+reason+")"))
}

// preview truncates long replacement text for display
func preview(text string) string {
	if len(text) > 100 {
		return text[:100] + "..."
	}
	return text
}
