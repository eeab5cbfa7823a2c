package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/san-kum/conflictsim/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	dbPath   string

	// Scenario selection
	configFile string
	preset     string

	// Overrides
	horizon int
	noClamp bool
	trials  int
	workers int
	seed    uint64
	padding string
	z       float64

	// Output
	plotMetric  string
	showPlot    bool
	svgFile     string
	jsonOut     string
	ensembleOut string
	csvOut      string
	presetOut   string
	side        string
	noSave      bool
	scenario    string
)

// main registers the conflictsim commands and executes the root command with
// a context that is cancelled on SIGINT or SIGTERM. It exits with status 1 if
// command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "conflictsim",
		Short: "two-actor war economy simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				logrus.Fatalf("invalid log level: %s", logLevel)
			}
			logrus.SetLevel(level)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".conflictsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one deterministic trial",
		Args:  cobra.NoArgs,
		RunE:  runTrial,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot military capability of both sides")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run an ensemble of trials with sampled coefficients",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	scenarioFlags(mcCmd)
	ensembleFlags(mcCmd)
	mcCmd.Flags().StringVar(&padding, "padding", "", "padding for ragged histories (tail-hold, mean-interpolate)")
	mcCmd.Flags().Float64Var(&z, "z", 0, "confidence band z score")
	mcCmd.Flags().BoolVar(&showPlot, "plot", false, "plot confidence bands")
	mcCmd.Flags().StringVar(&plotMetric, "metric", "military_capability", "metric to plot")
	mcCmd.Flags().StringVar(&svgFile, "svg", "", "write the band chart as svg")
	mcCmd.Flags().StringVar(&ensembleOut, "out", "", "write outcomes and bands as json (- for stdout)")
	mcCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the ensemble")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one ensemble per investment split and interference level",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	ensembleFlags(sweepCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a metric of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotMetric, "metric", "military_capability", "metric to plot")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export one side's history as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&side, "side", "a", "side to export (a, b)")
	exportCSVCmd.Flags().StringVar(&csvOut, "out", "-", "output file (- for stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run with both histories as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&jsonOut, "out", "-", "output file (- for stdout)")

	ensemblesCmd := &cobra.Command{
		Use:   "ensembles [ensemble_id]",
		Short: "list stored ensembles or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listEnsembles,
	}
	ensemblesCmd.Flags().StringVar(&dbPath, "db", "", "ensemble database (default <data>/ensembles.db)")
	ensemblesCmd.Flags().StringVar(&scenario, "scenario", "", "only list ensembles of this scenario")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or write one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}
	presetsCmd.Flags().StringVar(&presetOut, "out", "", "write the preset to this yaml file")

	rootCmd.AddCommand(runCmd, mcCmd, sweepCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, ensemblesCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	cmd.Flags().IntVar(&horizon, "horizon", config.DefaultHorizon, "maximum days per trial")
	cmd.Flags().BoolVar(&noClamp, "no-clamp", false, "let stocks go negative")
}

func ensembleFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&trials, "trials", config.DefaultTrials, "trials per ensemble")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent trials (default GOMAXPROCS)")
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "master seed")
	cmd.Flags().StringVar(&dbPath, "db", "", "ensemble database (default <data>/ensembles.db)")
}

// loadConfig resolves the scenario: defaults, then a preset, then a config
// file, then any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if flags.Changed("no-clamp") {
		cfg.ClampStocks = !noClamp
	}
	if flags.Lookup("trials") != nil {
		if flags.Changed("trials") {
			cfg.MonteCarlo.Trials = trials
		}
		if flags.Changed("workers") {
			cfg.MonteCarlo.Workers = workers
		}
		if flags.Changed("seed") {
			cfg.MonteCarlo.Seed = seed
		}
	}
	if flags.Lookup("padding") != nil {
		if flags.Changed("padding") {
			cfg.MonteCarlo.Padding = padding
		}
		if flags.Changed("z") {
			cfg.MonteCarlo.Z = z
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ensembleDB() string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(dataDir, "ensembles.db")
}
