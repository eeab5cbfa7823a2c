package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/san-kum/conflictsim/internal/aggregate"
	"github.com/san-kum/conflictsim/internal/config"
	"github.com/san-kum/conflictsim/internal/export"
	"github.com/san-kum/conflictsim/internal/metrics"
	"github.com/san-kum/conflictsim/internal/model"
	"github.com/san-kum/conflictsim/internal/montecarlo"
	"github.com/san-kum/conflictsim/internal/sim"
	"github.com/san-kum/conflictsim/internal/storage"
	"github.com/san-kum/conflictsim/internal/sweep"
	"github.com/san-kum/conflictsim/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func runTrial(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	a, b, err := cfg.Belligerents()
	if err != nil {
		return err
	}

	s := sim.New(cfg.PhasedSchedule())
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	s.AddObserver(sim.ProgressLogger{Every: 365})

	start := time.Now()
	result, err := s.Run(cmd.Context(), a, b, cfg.SimConfig())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Name, cfg.Horizon, result)
	if err != nil {
		return err
	}

	fmt.Println(viz.Outcome(fmt.Sprintf("%s vs %s", a.Name(), b.Name()), result.Outcome))
	fmt.Println(viz.Metrics(result.Metrics))

	if showPlot {
		for _, actor := range []*model.Belligerent{a, b} {
			caption := fmt.Sprintf("%s: %s", actor.Name(), model.MetricMilitaryCapability.Label())
			fmt.Println(viz.Series(caption, actor.History().Series(model.MetricMilitaryCapability), viz.DefaultWidth, viz.DefaultHeight))
			fmt.Println()
		}
	}

	fmt.Printf("run %s saved (%d days in %s)\n", runID, result.StepsTaken, elapsed.Round(time.Microsecond))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	metric, ok := model.ParseMetric(plotMetric)
	if !ok {
		return fmt.Errorf("unknown metric: %s", plotMetric)
	}
	if showPlot || svgFile != "" || ensembleOut != "" {
		cfg.MonteCarlo.KeepHistories = true
	}

	sc := cfg.Scenario()
	progress := func(done, total int) {
		if done%max(total/20, 1) == 0 || done == total {
			fmt.Fprintf(os.Stderr, "\r%s / %s trials", humanize.Comma(int64(done)), humanize.Comma(int64(total)))
		}
	}

	ens, runErr := montecarlo.Run(cmd.Context(), sc, progress)
	fmt.Fprintln(os.Stderr)
	if ens == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "interrupted: keeping %s of %s trials\n",
			humanize.Comma(int64(len(ens.Trials))), humanize.Comma(int64(sc.Trials)))
	}

	sum := ens.Summary()
	fmt.Println(viz.Summary(fmt.Sprintf("%s (%s)", sc.Name, ens.ID), sum))
	fmt.Printf("elapsed %s, started %s\n", ens.Finished.Sub(ens.Started).Round(time.Millisecond), humanize.Time(ens.Started))

	if !noSave {
		if err := saveEnsemble(ens, nil); err != nil {
			return err
		}
	}

	if cfg.MonteCarlo.KeepHistories && len(ens.Trials) > 0 {
		bands, err := ensembleBands(ens, cfg.Padding(), cfg.MonteCarlo.Z)
		if err != nil {
			return err
		}
		if showPlot {
			for _, name := range []string{sc.A.Name, sc.B.Name} {
				caption := fmt.Sprintf("%s: %s, %s", name, metric.Label(), cfg.Padding())
				fmt.Println(viz.Bands(caption, bands[name][metric], viz.DefaultWidth, viz.DefaultHeight))
				fmt.Println()
			}
		}
		if svgFile != "" {
			svg := export.BandsToSVG([]export.Layer{
				{Name: sc.A.Name, Bands: bands[sc.A.Name][metric], Color: "#ff4444"},
				{Name: sc.B.Name, Bands: bands[sc.B.Name][metric], Color: "#00ccff"},
			}, 960, 480)
			if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("chart written to %s\n", svgFile)
		}
		if ensembleOut != "" {
			err := storage.ExportFile(ensembleOut, func(w io.Writer) error {
				return storage.ExportEnsemble(w, ens, bands)
			})
			if err != nil {
				return err
			}
		}
	}

	return runErr
}

// ensembleBands aggregates every metric of both sides, keyed by actor name.
func ensembleBands(ens *montecarlo.Ensemble, pad aggregate.Padding, z float64) (map[string]aggregate.SideBands, error) {
	out := make(map[string]aggregate.SideBands, 2)
	for _, side := range []sim.Side{sim.SideA, sim.SideB} {
		histories := ens.Histories(side)
		b, err := aggregate.Histories(histories, aggregate.MaxLength(histories), pad, z)
		if err != nil {
			return nil, fmt.Errorf("aggregate side %s: %w", side, err)
		}
		name := ens.Scenario.A.Name
		if side == sim.SideB {
			name = ens.Scenario.B.Name
		}
		out[name] = b
	}
	return out, nil
}

func saveEnsemble(ens *montecarlo.Ensemble, params map[string]float64) error {
	es, err := openEnsembleStore()
	if err != nil {
		return err
	}
	defer es.Close()

	if err := es.SaveEnsemble(ens, params); err != nil {
		return err
	}
	fmt.Printf("ensemble %s saved to %s\n", ens.ID, ensembleDB())
	return nil
}

func openEnsembleStore() (*storage.EnsembleStore, error) {
	path := ensembleDB()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return storage.OpenEnsembleStore(path)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("trials") && configFile == "" && preset == "" {
		cfg.MonteCarlo.Trials = 100
	}

	es, err := openEnsembleStore()
	if err != nil {
		return err
	}
	defer es.Close()

	grid := sweep.DefaultGrid()
	start := time.Now()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CELL\tINVESTMENT\tSANCTIONS_A\tAID_B\tMEAN_DAYS\tWINNER\tINCONCLUSIVE")
	results, err := sweep.Run(cmd.Context(), cfg.Scenario(), grid, es, func(i, n int, r sweep.CellResult) {
		inv := r.Cell.Investment
		fmt.Fprintf(w, "%d/%d\t%.2f/%.2f/%.2f/%.2f\t%.2f\t%.2f\t%.1f\t%s\t%d\n",
			i+1, n,
			inv.MilitaryTechnology, inv.IndustrialTechnology, inv.MilitaryIndustrial, inv.CivilianIndustrial,
			r.Cell.SanctionsA, r.Cell.AidB,
			r.Summary.MeanLength, r.Summary.ModalWinner, r.Summary.Inconclusive,
		)
		w.Flush()
	})
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}

	fmt.Printf("%s cells in %s\n", humanize.Comma(int64(len(results))), time.Since(start).Round(time.Second))
	if errors.Is(err, context.Canceled) {
		logrus.Warn("sweep interrupted")
	}
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tHORIZON\tDAYS\tWINNER\tREASON")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Horizon,
			run.Outcome.Length,
			run.Outcome.Winner,
			run.Outcome.Reason,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	metric, ok := model.ParseMetric(plotMetric)
	if !ok {
		return fmt.Errorf("unknown metric: %s", plotMetric)
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Outcome(meta.ID, meta.Outcome))
	for _, s := range []sim.Side{sim.SideA, sim.SideB} {
		h, err := st.LoadHistory(runID, s)
		if err != nil {
			return err
		}
		name := meta.ActorA
		if s == sim.SideB {
			name = meta.ActorB
		}
		fmt.Println(viz.Series(fmt.Sprintf("%s: %s", name, metric.Label()), h.Series(metric), viz.DefaultWidth, viz.DefaultHeight))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	var s sim.Side
	switch side {
	case "a":
		s = sim.SideA
	case "b":
		s = sim.SideB
	default:
		return fmt.Errorf("unknown side: %s (a or b)", side)
	}

	st := storage.New(dataDir)
	h, err := st.LoadHistory(args[0], s)
	if err != nil {
		return err
	}
	return storage.ExportFile(csvOut, func(w io.Writer) error {
		return storage.WriteHistoryCSV(w, h)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return storage.ExportFile(jsonOut, func(w io.Writer) error {
		return st.ExportRun(w, args[0])
	})
}

func listEnsembles(cmd *cobra.Command, args []string) error {
	es, err := openEnsembleStore()
	if err != nil {
		return err
	}
	defer es.Close()

	if len(args) == 1 {
		return showEnsemble(es, args[0])
	}

	records, err := es.ListEnsembles(scenario)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no ensembles found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tCREATED\tTRIALS\tMEAN_DAYS\tWINNER\tINCONCLUSIVE")
	for _, r := range records {
		trials := humanize.Comma(int64(r.Completed))
		if r.Interrupted {
			trials += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%s\t%d\n",
			r.ID,
			r.Scenario,
			humanize.Time(r.Created()),
			trials,
			r.MeanLength,
			r.ModalWinner,
			r.Inconclusive,
		)
	}
	return w.Flush()
}

func showEnsemble(es *storage.EnsembleStore, id string) error {
	r, err := es.GetEnsemble(id)
	if err != nil {
		return fmt.Errorf("ensemble %s: %w", id, err)
	}
	outcomes, err := es.Outcomes(id)
	if err != nil {
		return err
	}

	sum := montecarlo.Summarize(outcomes)
	sum.Failed = r.Failed
	fmt.Println(viz.Summary(fmt.Sprintf("%s (%s)", r.Scenario, r.ID), sum))

	params, err := r.Params()
	if err != nil {
		return err
	}
	if len(params) > 0 {
		fmt.Println(viz.Metrics(params))
	}
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, name := range config.ListPresets() {
			fmt.Println(name)
		}
		return nil
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if presetOut == "" {
		fmt.Printf("%s: horizon %d, %s trials, %s vs %s\n",
			cfg.Name, cfg.Horizon, humanize.Comma(int64(cfg.MonteCarlo.Trials)), cfg.ActorA.Name, cfg.ActorB.Name)
		return nil
	}
	if err := config.Save(presetOut, cfg); err != nil {
		return err
	}
	fmt.Printf("preset %s written to %s\n", args[0], presetOut)
	return nil
}
