package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/csheth/nutriscout/internal/flow"
	"github.com/csheth/nutriscout/internal/health"
	"github.com/csheth/nutriscout/internal/logger"
	"github.com/csheth/nutriscout/internal/source"
)

var errNoInput = errors.New("no ingredients given: pass them as arguments, with --file, or on stdin")

type analyzeReport struct {
	Status  string       `json:"status"`
	Message string       `json:"message,omitempty"`
	Result  *health.View `json:"result,omitempty"`
}

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var (
		file     string
		selector string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [ingredients...]",
		Short: "Rate one ingredient list and exit",
		Long: `Rate one ingredient list without opening the terminal UI.

Ingredients come from the arguments, from --file (.txt, .html or .pdf), or
from stdin. The exit status is non-zero when the list could not be rated.`,
		Example: `  nutriscout analyze apple, spinach, water
  nutriscout analyze --file recipe.html --selector ".ingredients"
  echo "sugar, palm oil" | nutriscout analyze --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			raw, err := analyzeInput(cmd.InOrStdin(), args, file, selector)
			if err != nil {
				return err
			}

			log := logger.New("nutriscout", cmd.ErrOrStderr(), cfg.Log.Verbose)
			state := newOrchestrator(cfg, log).Analyze(commandContext(cmd), flow.Initial(), raw)

			if asJSON {
				if err := writeReportJSON(cmd.OutOrStdout(), state); err != nil {
					return err
				}
			} else if state.Panel == flow.PanelResults {
				writeReportText(cmd.OutOrStdout(), state.View)
			}
			if state.Panel != flow.PanelResults {
				return errors.New(state.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read ingredients from a .txt, .html or .pdf file")
	cmd.Flags().StringVar(&selector, "selector", "", "CSS selector for ingredients in HTML files")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// analyzeInput picks the ingredient text: --file, then arguments, then a
// piped stdin.
func analyzeInput(in io.Reader, args []string, file, selector string) (string, error) {
	if file != "" {
		return source.Read(file, source.Options{Selector: selector})
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func writeReportText(w io.Writer, v health.View) {
	fmt.Fprintf(w, "Rating:      %s / 10\n", v.Rating)
	fmt.Fprintf(w, "Level:       %s\n", v.Level)
	if v.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", v.Description)
	}
	fmt.Fprintf(w, "Gauge:       arc %.2f, dash offset %.2f of %.0f\n", v.Gauge.Progress, v.Gauge.DashOffset, health.Circumference)
}

func writeReportJSON(w io.Writer, s flow.State) error {
	report := analyzeReport{Status: s.Panel.String()}
	if s.Panel == flow.PanelResults {
		view := s.View
		report.Result = &view
	} else {
		report.Message = s.Message
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
