package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"collint/internal/config"
	"collint/internal/engine"
	"collint/internal/oracle"
	"collint/internal/reporter"
	"collint/internal/rules"
	"collint/internal/ui"
)

var (
	deep                 bool
	jobs                 int
	noCache              bool
	checkArrays          bool
	checkObjects         bool
	checkArrayLike       bool
	allowExplicitBoolean bool
	strictNaming         bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Find collections tested for truthiness",
	Long: `Analyze JavaScript sources for collections used in boolean positions.

Examples:
  collint lint .
  collint lint src/app.js
  collint lint --deep .
  collint lint --format json . > report.json`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runLint,
	SilenceUsage: true,
}

func init() {
	lintCmd.Flags().BoolVar(&deep, "deep", false, "Resolve ambiguous expressions with the Claude API")
	lintCmd.Flags().IntVar(&jobs, "jobs", 0, "Number of files to lint in parallel (0 = GOMAXPROCS)")
	lintCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the on-disk result cache")
	lintCmd.Flags().BoolVar(&checkArrays, "arrays", true, "Check array expressions")
	lintCmd.Flags().BoolVar(&checkObjects, "objects", true, "Check plain-object expressions")
	lintCmd.Flags().BoolVar(&checkArrayLike, "arraylike", true, "Check Set/Map style containers")
	lintCmd.Flags().BoolVar(&allowExplicitBoolean, "allow-explicit-boolean", true, "Keep Boolean(x) and !!x wrappers quiet")
	lintCmd.Flags().BoolVar(&strictNaming, "strict-naming", false, "Flag names that only look like collections")
	RootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	u := GetUI()
	progress := u.StartProgress()
	defer func() { progress.Done(nil) }()

	progress.SetStage(ui.StageLoadConfig)
	cfg, cfgPath, err := resolveConfig(cmd, absPath)
	if err != nil {
		return err
	}

	v, err := cfg.Vocab()
	if err != nil {
		return fmt.Errorf("compile vocabulary: %w", err)
	}

	var o oracle.Oracle
	if deep {
		if llm := oracle.NewLLMOracle(); llm != nil {
			o = llm
		} else {
			fmt.Fprintln(os.Stderr, u.Styles.Warning.Render(
				u.Styles.IconWarning+" ANTHROPIC_API_KEY not set; running without deep analysis"))
		}
	}
	registry := rules.DefaultRegistry(v, o)

	if verbose {
		fmt.Fprintf(u.Writer, "Linting %s\n", absPath)
		if cfgPath != "" {
			fmt.Fprintf(u.Writer, "Config: %s\n", cfgPath)
		}
	}

	progress.SetStage(ui.StageDiscover)
	progress.SetOperation(absPath)
	var lintStage sync.Once
	res, err := engine.Run(cmd.Context(), engine.Options{
		Root:     absPath,
		Config:   cfg,
		Registry: registry,
		Jobs:     jobs,
		NoCache:  noCache,
		// Without an oracle a deep run produces shallow results, so it may
		// share the shallow cache key space.
		Deep: deep && o != nil,
		Progress: func(done, total int, path string) {
			lintStage.Do(func() {
				progress.SetStage(ui.StageLint)
				progress.SetFileCount(total)
			})
			progress.FileDone(path)
		},
	})

	// Stop progress before reporting
	progress.Done(nil)
	progress = nil

	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(u.Writer, "Linted %d files (%d cached)\n\n", res.Files, res.Cached)
	}

	var rep reporter.Reporter
	if u.IsJSON() {
		rep = reporter.NewJSONReporter(u.Writer)
	} else {
		rep = reporter.NewTerminalReporter(u.Writer)
	}
	return rep.Report(res.Issues)
}

// resolveConfig builds the effective configuration for a target path:
// preset defaults, then the explicit or discovered config file, then any
// flag overrides set on the invoking command.
func resolveConfig(cmd *cobra.Command, absPath string) (*config.Config, string, error) {
	dir := absPath
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	cfg, cfgPath, err := config.Resolve(configPath, preset, dir)
	if err != nil {
		return nil, "", err
	}

	flags := cmd.Flags()
	if flags.Changed("arrays") {
		cfg.CheckArrays = checkArrays
	}
	if flags.Changed("objects") {
		cfg.CheckObjects = checkObjects
	}
	if flags.Changed("arraylike") {
		cfg.CheckArrayLike = checkArrayLike
	}
	if flags.Changed("allow-explicit-boolean") {
		cfg.AllowExplicitBoolean = allowExplicitBoolean
	}
	if flags.Changed("strict-naming") {
		cfg.StrictNaming = strictNaming
	}
	if flags.Changed("no-cache") && noCache {
		cfg.Cache = false
	}
	return cfg, cfgPath, nil
}
