package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dshills/vetter/internal/checklist"
	"github.com/dshills/vetter/internal/config"
	"github.com/dshills/vetter/internal/gitctx"
	"github.com/dshills/vetter/internal/output"
	"github.com/dshills/vetter/internal/providers"
	"github.com/dshills/vetter/internal/redact"
	"github.com/dshills/vetter/internal/review"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Shared review flags
var (
	flagProvider     string
	flagModel        string
	flagReviewURL    string
	flagChecklistURL string
	flagRetries      int
	flagConcurrency  int
	flagFormat       string
	flagOut          string
	flagFailOn       string
	flagNoRedact     bool
)

// reviewFlags is added to every review subcommand.
var reviewFlags = newReviewFlagSet()

func newReviewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("review", pflag.ContinueOnError)
	fs.StringVar(&flagProvider, "provider", "", "Review provider (generate, openai)")
	fs.StringVar(&flagModel, "model", "", "Model name")
	fs.StringVar(&flagReviewURL, "review-url", "", "Base URL of the review endpoint")
	fs.StringVar(&flagChecklistURL, "checklist-url", "", "Checklist page URL")
	fs.IntVar(&flagRetries, "retries", 0, "Attempts per file before giving up")
	fs.IntVar(&flagConcurrency, "concurrency", 0, "Files reviewed in parallel")
	fs.StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	fs.StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	fs.StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, minor, major, critical)")
	fs.BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	return fs
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagRepo != "" {
		m["repository"] = flagRepo
	}
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagReviewURL != "" {
		m["reviewURL"] = flagReviewURL
	}
	if flagChecklistURL != "" {
		m["checklistURL"] = flagChecklistURL
	}
	if flagRetries > 0 {
		m["retries"] = strconv.Itoa(flagRetries)
	}
	if flagConcurrency > 0 {
		m["concurrency"] = strconv.Itoa(flagConcurrency)
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	return m
}

// loadConfig loads and validates the effective config. On failure it reports
// the problem and sets a usage exit code.
func loadConfig(overrides map[string]string) (config.Config, bool) {
	cfg, err := config.Load(overrides)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return cfg, false
	}
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		logger.Warn("secret redaction is disabled")
	}
	return cfg, true
}

// runContext bounds a run by the configured timeout and cancels it on
// SIGINT or SIGTERM.
func runContext(cfg config.Config) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout())
	return ctx, func() {
		cancel()
		stop()
	}
}

// loadChecklist fetches the checklist text. A run without a checklist URL
// proceeds without one; any fetch or document error is fatal.
func loadChecklist(ctx context.Context, cfg config.Config) (string, int, error) {
	if cfg.ChecklistURL == "" {
		logger.Warn("no checklist URL configured, reviewing without a checklist")
		return "", ExitSuccess, nil
	}

	src, err := checklist.NewSource(cfg.DocsAPIURL, cfg.Tokens.Docs, cfg.RequestTimeout())
	if err != nil {
		return "", ExitAuthError, err
	}

	logger.Info("fetching checklist", "url", cfg.ChecklistURL)
	text, err := src.Checklist(ctx, cfg.ChecklistURL)
	if err != nil {
		var docErr *checklist.InvalidDocumentError
		if errors.As(err, &docErr) {
			return "", ExitRuntimeError, err
		}
		return "", ExitRuntimeError, fmt.Errorf("fetching checklist: %w", err)
	}
	if text == "" {
		logger.Warn("checklist is empty")
	}
	return text, ExitSuccess, nil
}

// reviewDiff runs segmentation, redaction, orchestration and aggregation over
// one raw diff.
func reviewDiff(ctx context.Context, cfg config.Config, source, diffText, checklistText string) (*output.Report, error) {
	start := time.Now()

	bundle := review.Segment(diffText)
	logger.Debug("segmented diff", "files", len(bundle), "paths", bundle.Paths())
	policy := redact.Policy{Secrets: cfg.Privacy.RedactSecrets, Paths: cfg.Privacy.RedactPaths}
	bundle, summary := policy.Apply(bundle)
	if summary.Secrets > 0 || len(summary.Files) > 0 {
		logger.Info("redacted diff content", "secrets", summary.Secrets, "files", len(summary.Files))
	}

	report := &output.Report{
		Tool:    "vetter",
		Version: version,
		Source:  source,
		Results: review.Results{},
	}

	if len(bundle) == 0 {
		logger.Info("diff contains no files, nothing to review")
		report.Submission = review.Aggregate(report.Results)
		return report, nil
	}

	reviewer, err := providers.New(cfg.Provider, cfg.Model, providers.Options{
		BaseURL: cfg.ReviewURL,
		APIKey:  cfg.Tokens.ReviewAPIKey,
		Timeout: cfg.RequestTimeout(),
	})
	if err != nil {
		return nil, err
	}

	engine := &review.Engine{
		Reviewer:    reviewer,
		Retries:     cfg.Retries,
		Concurrency: cfg.Concurrency,
		RetryDelay:  cfg.RetryDelay(),
		Logger:      logger,
	}

	logger.Info("reviewing files", "files", len(bundle), "provider", reviewer.Name(), "model", cfg.Model)
	report.Results = engine.Review(ctx, bundle, checklistText)
	report.Submission = review.Aggregate(report.Results)
	report.Timing.ReviewMs = time.Since(start).Milliseconds()

	if failed := report.Results.Failed(); failed > 0 {
		logger.Warn("some files could not be reviewed", "failed", failed, "files", len(report.Results))
	}
	return report, nil
}

// finish writes the report and derives the exit code from the run state and
// the failOn threshold. An exit code already set by an earlier step wins.
func finish(ctx context.Context, cfg config.Config, report *output.Report) {
	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	if exitCode != ExitSuccess {
		return
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: review cancelled: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	if review.MeetsThreshold(report.Results.HighestSeverity(), cfg.FailOn) {
		exitCode = ExitFindings
	}
}

// runLocal reviews a diff that did not come from a pull request. The review
// is never posted.
func runLocal(cfg config.Config, source, diffText string) {
	ctx, cancel := runContext(cfg)
	defer cancel()

	start := time.Now()
	checklistText, code, err := loadChecklist(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = code
		return
	}
	fetchMs := time.Since(start).Milliseconds()

	report, err := reviewDiff(ctx, cfg, source, diffText, checklistText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return
	}
	report.Timing.FetchMs = fetchMs
	report.Timing.TotalMs = time.Since(start).Milliseconds()

	finish(ctx, cfg, report)
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review code changes",
	Long:  "Review code changes against the configured checklist. Use subcommands to choose the change set.",
}

var reviewDiffCmd = &cobra.Command{
	Use:   "diff <file|->",
	Short: "Review a unified diff read from a file or stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ok := loadConfig(buildOverrides())
		if !ok {
			return nil
		}

		var (
			data   []byte
			err    error
			source = args[0]
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
			source = "stdin"
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading diff: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		runLocal(cfg, source, string(data))
		return nil
	},
}

var (
	flagStaged       bool
	flagRange        string
	flagMergeBase    bool
	flagContextLines int
)

var reviewLocalCmd = &cobra.Command{
	Use:   "local",
	Short: "Review changes in the local git repository",
	Long: "Review unstaged changes (default), staged changes (--staged), or a revision " +
		"range (--range origin/main..HEAD) of the repository in the working directory.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ok := loadConfig(buildOverrides())
		if !ok {
			return nil
		}

		req := gitctx.Request{
			Mode:         gitctx.ModeUnstaged,
			ContextLines: flagContextLines,
		}
		switch {
		case flagRange != "":
			req.Mode = gitctx.ModeRange
			req.Range = flagRange
			req.MergeBase = flagMergeBase
		case flagStaged:
			req.Mode = gitctx.ModeStaged
		}

		res, err := gitctx.Diff(cmd.Context(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		runLocal(cfg, res.Label, res.Diff)
		return nil
	},
}

func init() {
	reviewCmd.AddCommand(reviewPRCmd)
	reviewCmd.AddCommand(reviewDiffCmd)
	reviewCmd.AddCommand(reviewLocalCmd)

	reviewPRCmd.Flags().AddFlagSet(reviewFlags)
	reviewDiffCmd.Flags().AddFlagSet(reviewFlags)
	reviewLocalCmd.Flags().AddFlagSet(reviewFlags)

	reviewLocalCmd.Flags().BoolVar(&flagStaged, "staged", false, "Review staged changes instead of the working tree")
	reviewLocalCmd.Flags().StringVar(&flagRange, "range", "", "Review a revision range (e.g. origin/main..HEAD)")
	reviewLocalCmd.Flags().BoolVar(&flagMergeBase, "merge-base", false, "Diff the range against its merge base")
	reviewLocalCmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines in diff")
}
