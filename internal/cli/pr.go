package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dshills/vetter/internal/config"
	"github.com/dshills/vetter/internal/github"
	"github.com/spf13/cobra"
)

var (
	flagRepo   string
	flagDryRun bool
)

var reviewPRCmd = &cobra.Command{
	Use:   "pr [number]",
	Short: "Review a GitHub pull request and post the result",
	Long: "Fetch a pull request diff from GitHub, review every file against the checklist, " +
		"and post one review with a comment per file. The number defaults to VETTER_PR_NUMBER.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := buildOverrides()
		if len(args) == 1 {
			if n, err := strconv.Atoi(args[0]); err != nil || n < 1 {
				fmt.Fprintf(os.Stderr, "Error: invalid pull request number %q\n", args[0])
				exitCode = ExitUsageError
				return nil
			}
			overrides["pullNumber"] = args[0]
		}

		cfg, ok := loadConfig(overrides)
		if !ok {
			return nil
		}

		ctx, cancel := runContext(cfg)
		defer cancel()

		runPR(ctx, cfg)
		return nil
	},
}

func runPR(ctx context.Context, cfg config.Config) {
	if cfg.Repository == "" {
		if repo, err := github.DetectRepo(ctx); err == nil {
			logger.Debug("detected repository from git remote", "repo", repo.String())
			cfg.Repository = repo.String()
		}
	}
	if err := cfg.ValidatePR(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	repo, err := github.ParseRepository(cfg.Repository)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}

	ghClient, err := github.NewClient(cfg.GitHubAPIURL, cfg.Tokens.GitHub, cfg.RequestTimeout())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return
	}

	start := time.Now()

	logger.Info("fetching pull request", "repo", repo.String(), "number", cfg.PullNumber)
	diff, err := ghClient.GetPRDiff(ctx, repo, cfg.PullNumber)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitRuntimeError
		if github.IsAuthError(err) {
			exitCode = ExitAuthError
		}
		return
	}

	checklistText, code, err := loadChecklist(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = code
		return
	}
	fetchMs := time.Since(start).Milliseconds()

	source := fmt.Sprintf("%s#%d", repo, cfg.PullNumber)
	report, err := reviewDiff(ctx, cfg, source, diff, checklistText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitAuthError
		return
	}
	report.Timing.FetchMs = fetchMs

	switch {
	case ctx.Err() != nil:
		logger.Warn("run cancelled, not posting a partial review", "reason", ctx.Err())
	case flagDryRun:
		logger.Info("dry run, not posting to GitHub", "comments", len(report.Submission.Comments))
	case len(report.Results) == 0:
		logger.Info("pull request has no file changes, not posting")
	default:
		rev := github.BuildReview(report.Submission)
		logger.Info("posting review", "comments", len(rev.Comments))
		if err := ghClient.PostReview(ctx, repo, cfg.PullNumber, rev); err != nil {
			fmt.Fprintf(os.Stderr, "Error posting review: %v\n", err)
			exitCode = ExitRuntimeError
			if github.IsAuthError(err) {
				exitCode = ExitAuthError
			}
		} else {
			report.Posted = true
			logger.Info("review posted", "pr", source)
		}
	}
	report.Timing.TotalMs = time.Since(start).Milliseconds()

	finish(ctx, cfg, report)
}

func init() {
	reviewPRCmd.Flags().StringVar(&flagRepo, "repo", "", "Repository as owner/name (default: GITHUB_REPOSITORY or the origin remote)")
	reviewPRCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Run the review but don't post to GitHub")
}
