package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/nutriscout/internal/classifier"
	"github.com/csheth/nutriscout/internal/config"
	"github.com/csheth/nutriscout/internal/flow"
	"github.com/csheth/nutriscout/internal/health"
	"github.com/csheth/nutriscout/internal/logger"
	"github.com/csheth/nutriscout/internal/source"
	"github.com/csheth/nutriscout/internal/tui"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	cfgFile     string
	verbose     bool
	endpoint    string
	timeout     time.Duration
	gaugePolicy string
	overlap     string

	noAltScreen bool
	logFile     string
	file        string
	selector    string
}

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "nutriscout",
		Short: "Rate how healthy a list of ingredients is",
		Long: `NutriScout sends an ingredient list to a health classifier service and
shows the rating, health level and a short explanation.

Running nutriscout without a subcommand opens the interactive terminal UI.
Use analyze for one-shot ratings and batch to rate a whole spreadsheet.
watch re-rates a file whenever it is saved.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "classifier base URL (default http://localhost:5000)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout, 0 waits indefinitely")
	rootCmd.PersistentFlags().StringVar(&opts.gaugePolicy, "gauge-policy", "", "out-of-range ratings on the gauge: preserve or clamp")
	rootCmd.PersistentFlags().StringVar(&opts.overlap, "overlap", "", "submissions while a request is in flight: reject or latest")

	// Interactive-only flags
	rootCmd.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	rootCmd.Flags().StringVar(&opts.logFile, "log-file", "", "write diagnostics to this file")
	rootCmd.Flags().StringVar(&opts.file, "file", "", "prefill the input from a .txt, .html or .pdf file")
	rootCmd.Flags().StringVar(&opts.selector, "selector", "", "CSS selector for ingredients in HTML files")

	rootCmd.AddCommand(newAnalyzeCommand(opts))
	rootCmd.AddCommand(newBatchCommand(opts))
	rootCmd.AddCommand(newWatchCommand(opts))
	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// loadConfig merges config files, environment and flags, then validates.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.NewLoader().Load(opts.cfgFile)
	if err != nil {
		return nil, err
	}
	if opts.endpoint != "" {
		cfg.Endpoint = opts.endpoint
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if opts.gaugePolicy != "" {
		cfg.GaugePolicy = health.GaugePolicy(opts.gaugePolicy)
	}
	if opts.overlap != "" {
		cfg.Overlap = flow.OverlapPolicy(opts.overlap)
	}
	if opts.verbose {
		cfg.Log.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newOrchestrator(cfg *config.Config, log *logger.Logger) *flow.Orchestrator {
	client := classifier.New(cfg.ClassifierConfig())
	return flow.NewOrchestrator(client, cfg.Policy(), log)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if opts.noAltScreen {
		cfg.UI.AltScreen = false
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}

	// The program owns the terminal, so diagnostics go to a file or nowhere.
	log := logger.Discard()
	if cfg.Log.File != "" {
		f, err := tea.LogToFile(cfg.Log.File, "nutriscout")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log = logger.New("nutriscout", f, cfg.Log.Verbose)
	}

	initial := ""
	if opts.file != "" {
		initial, err = source.Read(opts.file, source.Options{Selector: opts.selector})
		if err != nil {
			return fmt.Errorf("failed to read ingredients from %s: %w", opts.file, err)
		}
	}

	log.InfoWithFields("starting", []logger.Field{
		logger.F("endpoint", cfg.Endpoint),
		logger.F("overlap", cfg.Overlap),
		logger.F("gauge", cfg.GaugePolicy),
	})

	programOpts := []tea.ProgramOption{}
	if cfg.UI.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Orchestrator: newOrchestrator(cfg, log),
			Presets:      cfg.Presets,
			Endpoint:     cfg.Endpoint,
			InitialInput: initial,
			Logger:       log,
		}),
		programOpts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			writeVersion(cmd.OutOrStdout(), version, commit, date)
		},
	}
}

func writeVersion(w io.Writer, version, commit, date string) {
	displayVersion := version
	displayCommit := commit
	displayDate := date

	if version == "dev" || version == "" {
		displayVersion = "development"
	}
	if commit == "none" || commit == "" {
		displayCommit = "local-build"
	}
	if date == "unknown" || date == "" {
		displayDate = "local-build"
	}

	fmt.Fprintf(w, "NutriScout %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
	fmt.Fprintf(w, "Go version: %s\n", runtime.Version())
	fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
