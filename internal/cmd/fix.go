package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"collint/internal/engine"
	"collint/internal/fixer"
	"collint/internal/rules"
	"collint/internal/ui"
)

var (
	dryRun      bool
	fixAll      bool
	interactive bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Apply the recommended emptiness checks",
	Long: `Lint and rewrite collection truthiness tests in place.

By default only behavior-preserving recommended fixes are applied. Use
--all to also apply recommendations that change what the code computes,
or --interactive to choose among the alternatives for each issue.

Examples:
  collint fix .
  collint fix --dry-run src/
  collint fix --interactive app.js`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runFix,
	SilenceUsage: true,
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show fixes without applying them")
	fixCmd.Flags().BoolVar(&fixAll, "all", false, "Apply recommended fixes even when they change behavior")
	fixCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Choose the repair for each issue")
	fixCmd.Flags().IntVar(&jobs, "jobs", 0, "Number of files to lint in parallel (0 = GOMAXPROCS)")
	fixCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the on-disk result cache")
	RootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	u := GetUI()
	if interactive && !u.IsInteractive() {
		return fmt.Errorf("--interactive requires a terminal")
	}

	cfg, _, err := resolveConfig(cmd, absPath)
	if err != nil {
		return err
	}
	v, err := cfg.Vocab()
	if err != nil {
		return fmt.Errorf("compile vocabulary: %w", err)
	}
	registry := rules.DefaultRegistry(v, nil)

	spin := u.StartSimpleSpinner(u.ErrWriter, "Analyzing...")
	res, err := engine.Run(cmd.Context(), engine.Options{
		Root:     absPath,
		Config:   cfg,
		Registry: registry,
		Jobs:     jobs,
		NoCache:  noCache,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	var fixableIssues []rules.Issue
	for _, issue := range res.Issues {
		if issue.Fix != nil {
			fixableIssues = append(fixableIssues, issue)
		}
	}

	if len(fixableIssues) == 0 {
		color.Green("No fixable issues found")
		return nil
	}

	fmt.Fprintf(u.Writer, "Found %d fixable issues\n\n", len(fixableIssues))

	opts := fixer.Options{DryRun: dryRun, All: fixAll}
	if interactive {
		fixableIssues, err = pickFixes(u, fixableIssues)
		if err != nil {
			return err
		}
		// The user approved each replacement personally.
		opts.All = true
	}

	result, err := fixer.New(opts, u).Apply(fixableIssues)
	if err != nil {
		color.Red("Fix failed: %v", err)
		return err
	}

	fmt.Fprintln(u.Writer)
	if dryRun {
		fmt.Fprintf(u.Writer, "Would fix %d issues in %d files\n", result.Applied, len(result.Files))
	} else {
		fmt.Fprintf(u.Writer, "Fixed %d issues in %d files\n", result.Applied, len(result.Files))
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(u.Writer, "Skipped %d issues\n", len(result.Skipped))
	}
	return nil
}

// pickFixes asks the user to choose a repair for each issue. Skipped
// issues are dropped; the chosen alternative becomes the recommended fix.
func pickFixes(u *ui.UI, issues []rules.Issue) ([]rules.Issue, error) {
	var chosen []rules.Issue
	for _, issue := range issues {
		opts := make([]ui.PickerOption, 0, len(issue.Alternatives))
		alts := make([]int, 0, len(issue.Alternatives))
		for i, alt := range issue.Alternatives {
			if len(alt.Edits) == 0 {
				continue
			}
			opts = append(opts, ui.PickerOption{
				Label: alt.Description,
				Text:  alt.Edits[0].NewText,
			})
			alts = append(alts, i)
		}
		if len(opts) == 0 {
			continue
		}

		title := fmt.Sprintf("%s:%d:%d  %s", issue.File, issue.Line, issue.Column, issue.Message)
		idx, err := u.PickFix(title, issue.Context, opts)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			continue
		}
		issue.Fix = &issue.Alternatives[alts[idx]]
		chosen = append(chosen, issue)
	}
	return chosen, nil
}
