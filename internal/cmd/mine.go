package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/mdtask/internal/config"
	"github.com/harrison/mdtask/internal/display"
	"github.com/harrison/mdtask/internal/filelock"
	"github.com/harrison/mdtask/internal/fileutil"
	"github.com/harrison/mdtask/internal/logger"
	"github.com/harrison/mdtask/internal/mining"
	"github.com/harrison/mdtask/internal/parser"
	"github.com/harrison/mdtask/internal/search"
)

// commitTimeout bounds the wait for another run's lock on the --output file
const commitTimeout = 10 * time.Second

func addMineFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "Path to config file (default: $MDTASK_CONFIG or <user config dir>/mdtask/config.yaml)")

	cmd.Flags().IntP("after-context", "A", 20, "Lines after a task that may continue it")
	cmd.Flags().IntP("before-context", "B", 0, "Lines before a match handed to the engine")
	cmd.Flags().StringSlice("ext", []string{".md"}, "File extensions mined when walking directories")
	cmd.Flags().Bool("hidden", false, "Include hidden files and directories")
	cmd.Flags().Bool("follow-links", true, "Follow symbolic links")
	cmd.Flags().Bool("no-ignore", false, "Do not honour .gitignore and .ignore files")
	cmd.Flags().String("pattern", "", "Regular expression selecting heading and task lines")
	cmd.Flags().Bool("separator-on-match-only", false, "Only print a document's separator when it has tasks")
	cmd.Flags().Bool("skip-code-blocks", false, "Never match lines inside code blocks")
	cmd.Flags().Bool("skip-front-matter", false, "Never match lines inside YAML front matter")
	cmd.Flags().String("color", "", "Color separators and headings: never, auto, always")
	cmd.Flags().String("log-level", "", "Log level for stderr diagnostics: trace, debug, info, warn, error")
	cmd.Flags().StringP("output", "o", "", "Write tasks to this file instead of stdout")
	cmd.Flags().Bool("progress", false, "Report each document on stderr")
}

// loadConfig loads the config file and applies the flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, path, err := config.Load(configPath)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.MergeWithFlags(flagOverrides(cmd))

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

// flagOverrides collects the flags the user actually set.
func flagOverrides(cmd *cobra.Command) config.FlagOverrides {
	var f config.FlagOverrides
	flags := cmd.Flags()

	if flags.Changed("after-context") {
		v, _ := flags.GetInt("after-context")
		f.AfterContext = &v
	}
	if flags.Changed("before-context") {
		v, _ := flags.GetInt("before-context")
		f.BeforeContext = &v
	}
	if flags.Changed("ext") {
		v, _ := flags.GetStringSlice("ext")
		f.Extensions = &v
	}
	if flags.Changed("hidden") {
		v, _ := flags.GetBool("hidden")
		f.Hidden = &v
	}
	if flags.Changed("follow-links") {
		v, _ := flags.GetBool("follow-links")
		f.FollowLinks = &v
	}
	if flags.Changed("no-ignore") {
		v, _ := flags.GetBool("no-ignore")
		honour := !v
		f.IgnoreFiles = &honour
	}
	if flags.Changed("pattern") {
		v, _ := flags.GetString("pattern")
		f.Pattern = &v
	}
	if flags.Changed("separator-on-match-only") {
		v, _ := flags.GetBool("separator-on-match-only")
		f.SeparatorOnMatchOnly = &v
	}
	if flags.Changed("skip-code-blocks") {
		v, _ := flags.GetBool("skip-code-blocks")
		f.SkipCodeBlocks = &v
	}
	if flags.Changed("skip-front-matter") {
		v, _ := flags.GetBool("skip-front-matter")
		f.SkipFrontMatter = &v
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		f.Color = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		f.LogLevel = &v
	}
	return f
}

// colorEnabled resolves a color mode against the writer output goes to.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorAuto:
		f, ok := w.(*os.File)
		if !ok {
			return false
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	default:
		return false
	}
}

// runMine implements the default command: discover documents, mine them, report.
func runMine(cmd *cobra.Command, args []string) error {
	cfg, cfgPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	log := logger.NewConsoleLogger(stderr, cfg.LogLevel)
	log.LogDebug(fmt.Sprintf("config %s: %+v", cfgPath, *cfg))
	log.LogDebug(fmt.Sprintf("paths: %q", args))

	scan, err := fileutil.Discover(args, fileutil.DiscoverOptions{
		Extensions:  cfg.Extensions,
		ExcludeDirs: cfg.ExcludeDirs,
		Hidden:      cfg.Hidden,
		FollowLinks: cfg.FollowLinks,
		IgnoreFiles: cfg.IgnoreFiles,
	})
	if err != nil {
		return err
	}
	for _, f := range scan.Files {
		log.LogTrace("discovered " + f)
	}
	stderrColored := colorEnabled(cfg.Color, stderr)
	if len(scan.Errors) > 0 {
		for _, e := range scan.Errors {
			log.LogDebug(e.Error())
		}
		display.WarnSkippedPaths(scan.Errors, stderrColored).Display(stderr)
	}

	matcher, err := search.NewMatcher(cfg.Pattern)
	if err != nil {
		return err
	}
	searcher := &search.Searcher{
		BeforeContext: cfg.BeforeContext,
		AfterContext:  cfg.AfterContext,
		Exclude: parser.Excluder(parser.ExcludeOptions{
			FrontMatter: cfg.SkipFrontMatter,
			CodeBlocks:  cfg.SkipCodeBlocks,
		}),
	}

	outputPath, _ := cmd.Flags().GetString("output")
	var (
		sink     io.Writer
		colored  bool
		complete func() error
	)
	if outputPath != "" {
		file := filelock.NewOutputFile(outputPath)
		sink = file
		colored = cfg.Color == config.ColorAlways
		complete = func() error {
			// An interrupted run still publishes what it mined
			ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), commitTimeout)
			defer cancel()
			if err := file.Commit(ctx); err != nil {
				return &mining.WriteError{Err: err}
			}
			return nil
		}
	} else {
		buffered := bufio.NewWriter(cmd.OutOrStdout())
		sink = buffered
		colored = colorEnabled(cfg.Color, cmd.OutOrStdout())
		complete = func() error {
			if err := buffered.Flush(); err != nil {
				return &mining.WriteError{Err: err}
			}
			return nil
		}
	}

	session := mining.NewSession(sink,
		mining.WithColor(colored),
		mining.WithSeparatorOnMatchOnly(cfg.SeparatorOnMatchOnly),
	)
	runner := mining.NewRunner(searcher, matcher, session, log)
	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress {
		progress := display.NewProgressIndicator(stderr, len(scan.Files), stderrColored)
		progress.Start()
		runner.SetProgress(progress)
	}

	start := time.Now()
	result, runErr := runner.Run(cmd.Context(), scan.Files)
	if runErr != nil {
		aborted := fmt.Errorf("mining aborted after %d documents: %w", result.Documents, runErr)
		var werr *mining.WriteError
		if errors.As(runErr, &werr) {
			return aborted
		}
		// Keep what was mined before the interruption
		return errors.Join(aborted, complete())
	}
	if err := complete(); err != nil {
		return err
	}

	log.LogRunSummary(result.Documents, result.Tasks, len(result.Failures), time.Since(start))

	if len(result.Failures) > 0 {
		display.WarnFailedDocuments(result.Failures, stderrColored).Display(stderr)
		return fmt.Errorf("%d of %d documents failed", len(result.Failures), result.Documents)
	}
	return nil
}
