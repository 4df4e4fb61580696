package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist [url]",
	Short: "Print the checklist text extracted from a document page",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]string{}
		if len(args) == 1 {
			overrides["checklistURL"] = args[0]
		}
		cfg, ok := loadConfig(overrides)
		if !ok {
			return nil
		}
		if cfg.ChecklistURL == "" {
			fmt.Fprintln(os.Stderr, "Error: no checklist URL (argument, VETTER_CHECKLIST_URL or config)")
			exitCode = ExitUsageError
			return nil
		}

		ctx, cancel := runContext(cfg)
		defer cancel()

		text, code, err := loadChecklist(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = code
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
