package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/nutriscout/internal/flow"
	"github.com/csheth/nutriscout/internal/logger"
	"github.com/csheth/nutriscout/internal/source"
)

func newWatchCommand(opts *rootOptions) *cobra.Command {
	var (
		selector string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-rate an ingredient file every time it is saved",
		Long: `Rate the ingredients in a .txt, .html or .pdf file, then rate them again
each time the file changes. Press Ctrl+C to stop watching.`,
		Example: `  nutriscout watch shopping.txt
  nutriscout watch recipe.html --selector "#ingredients" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			path := args[0]
			log := logger.New("watch", cmd.ErrOrStderr(), cfg.Log.Verbose)
			orch := newOrchestrator(cfg, log)

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			state := flow.Initial()
			log.Info("watching %s", path)
			return source.Watch(ctx, path, source.Options{Selector: selector}, func(text string, err error) {
				if err != nil {
					log.Warn("failed to read %s: %v", path, err)
					return
				}
				state = orch.Analyze(ctx, state, text)
				if asJSON {
					if err := writeReportJSON(out, state); err != nil {
						log.Error("failed to write report: %v", err)
					}
					return
				}
				fmt.Fprintf(out, "== %s %s ==\n", path, time.Now().Format("15:04:05"))
				if state.Panel == flow.PanelResults {
					writeReportText(out, state.View)
				} else {
					fmt.Fprintf(out, "Error:       %s\n", state.Message)
				}
			})
		},
	}

	cmd.Flags().StringVar(&selector, "selector", "", "CSS selector for ingredients in HTML files")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print each result as JSON")

	return cmd
}
