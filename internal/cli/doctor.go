package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/vetter/internal/providers"
	"github.com/dshills/vetter/internal/review"
	"github.com/spf13/cobra"
)

const doctorPrompt = `Respond with exactly this JSON object and nothing else: {"ok": true}`

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the review endpoint is reachable and answers in JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ok := loadConfig(buildOverrides())
		if !ok {
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Checking %s (%s at %s)...\n", cfg.Provider, cfg.Model, cfg.ReviewURL)

		p, err := providers.New(cfg.Provider, cfg.Model, providers.Options{
			BaseURL: cfg.ReviewURL,
			APIKey:  cfg.Tokens.ReviewAPIKey,
			Timeout: cfg.RequestTimeout(),
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := p.Review(ctx, providers.ReviewRequest{Prompt: doctorPrompt, JSON: true})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %v\n", err)
			if providers.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}

		if !review.LooksLikeJSON(resp.Content) {
			fmt.Fprintf(out, "WARN: %s responded, but not with a JSON object; reviews will likely exhaust their retries\n", p.Name())
			return nil
		}

		fmt.Fprintf(out, "OK: %s is configured and responding\n", p.Name())
		return nil
	},
}

func init() {
	doctorCmd.Flags().AddFlagSet(reviewFlags)
}
