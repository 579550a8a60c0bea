package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/pvsim/internal/automation"
	"github.com/san-kum/pvsim/internal/config"
	"github.com/san-kum/pvsim/internal/curves"
	"github.com/san-kum/pvsim/internal/experiment"
	"github.com/san-kum/pvsim/internal/export"
	"github.com/san-kum/pvsim/internal/gui"
	"github.com/san-kum/pvsim/internal/metrics"
	"github.com/san-kum/pvsim/internal/server"
	"github.com/san-kum/pvsim/internal/sim"
	"github.com/san-kum/pvsim/internal/storage"
	"github.com/san-kum/pvsim/internal/thermo"
	"github.com/san-kum/pvsim/internal/viz"
)

var (
	dataDir    string
	preset     string
	configFile string
	seed       int64
	logLevel   string
	logFile    string
	engineName string

	theme    string
	addr     string
	interval time.Duration

	scenario string
	ticks    int
	runs     int
	save     bool

	format   string
	outFile  string
	volume   float64
	pressure float64
	traceRun string
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "pvsim",
		Short:             "ideal gas piston and PV diagram demonstration",
		PersistentPreRunE: setupLogging,
		RunE:              runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".pvsim", "data directory")
	pf.StringVar(&preset, "preset", "classic", "configuration preset")
	pf.StringVar(&configFile, "config", "", "config file path (yaml or ini), overrides --preset")
	pf.Int64Var(&seed, "seed", 0, "random seed")
	pf.StringVar(&logLevel, "log-level", "info", "log level")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&engineName, "engine", "collide", "physics engine")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the terminal frontend",
		RunE:  runTUI,
	}
	rootCmd.Flags().StringVar(&theme, "theme", "classic", "colour theme")
	tuiCmd.Flags().StringVar(&theme, "theme", "classic", "colour theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the desktop window",
		RunE:  runGUI,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream simulations over websocket",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().DurationVar(&interval, "interval", server.DefaultInterval, "time between ticks")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&scenario, "scenario", "", "builtin scenario name or yaml path")
	runCmd.Flags().IntVar(&ticks, "ticks", 0, "tick count (defaults to the scenario length)")
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeds to run in parallel")
	runCmd.Flags().BoolVar(&save, "save", true, "record the trace to the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	diagramCmd := &cobra.Command{
		Use:   "diagram",
		Short: "export the PV diagram as svg or png",
		RunE:  exportDiagram,
	}
	diagramCmd.Flags().StringVar(&format, "format", "svg", "svg or png")
	diagramCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")
	diagramCmd.Flags().Float64Var(&volume, "volume", 0, "state volume (plot centre when unset)")
	diagramCmd.Flags().Float64Var(&pressure, "pressure", 0, "state pressure (plot centre when unset)")
	diagramCmd.Flags().StringVar(&traceRun, "run", "", "overlay the trace of a stored run")

	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "print the gas state at a point of the PV plot",
		RunE:  printState,
	}
	stateCmd.Flags().Float64Var(&volume, "volume", 0, "volume (plot centre when unset)")
	stateCmd.Flags().Float64Var(&pressure, "pressure", 0, "pressure (plot centre when unset)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets, scenarios and engines",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, serveCmd, runCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, diagramCmd, stateCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		log.SetOutput(f)
		log.SetFormatter(&log.JSONFormatter{})
	case cmd.Name() == "pvsim" || cmd.Name() == "tui" || cmd.Name() == "gui":
		// Full-screen frontends own the terminal.
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
	return nil
}

// loadConfig resolves --config or --preset and applies --seed when given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := experiment.NewRegistry().GetConfig(preset, configFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func factoryFor(cmd *cobra.Command) (func() (*sim.Simulation, error), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	newEngine, err := experiment.NewRegistry().EngineFactory(engineName)
	if err != nil {
		return nil, err
	}
	return func() (*sim.Simulation, error) {
		c := *cfg
		return sim.New(&c, newEngine(&c))
	}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	factory, err := factoryFor(cmd)
	if err != nil {
		return err
	}
	return viz.Run(factory, theme)
}

func runGUI(cmd *cobra.Command, args []string) error {
	factory, err := factoryFor(cmd)
	if err != nil {
		return err
	}
	return gui.Run(factory)
}

func runServe(cmd *cobra.Command, args []string) error {
	factory, err := factoryFor(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return server.New(addr, factory).WithInterval(interval).ListenAndServe(ctx)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if runs > 1 {
		return runBatch(ctx, cfg)
	}

	registry := experiment.NewRegistry()
	recorder := storage.NewRecorder()
	exp := experiment.New(experiment.Config{
		Preset:   preset,
		Path:     configFile,
		Engine:   engineName,
		Scenario: scenario,
		Ticks:    ticks,
	})
	if err := exp.Setup(registry, cfg, recorder); err != nil {
		return err
	}

	label := exp.ScenarioName()
	if label == "" {
		label = "idle"
	}
	fmt.Printf("running %s for %d ticks...\n", label, exp.Ticks())
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Preset:   preset,
			Scenario: exp.ScenarioName(),
			Law:      cfg.Law,
			Seed:     cfg.Seed,
			Dt:       cfg.Dt,
			Ticks:    result.Ticks,
			Metrics:  result.Metrics,
		}, recorder.Samples())
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Printf("ticks: %d\n", result.Ticks)
	if f := result.Final; f != nil {
		fmt.Println()
		fmt.Println(f.Readout.String())
	}
	printMetrics(result.Metrics)
	return nil
}

func runBatch(ctx context.Context, cfg *config.Config) error {
	registry := experiment.NewRegistry()
	newEngine, err := registry.EngineFactory(engineName)
	if err != nil {
		return err
	}

	var src sim.InputSource = sim.Idle
	n := ticks
	if scenario != "" {
		sc, err := registry.GetScenario(scenario)
		if err != nil {
			return err
		}
		m, err := thermo.NewModel(cfg)
		if err != nil {
			return err
		}
		if src, err = sc.Source(m); err != nil {
			return err
		}
		if n == 0 {
			n = sc.Ticks(cfg.Dt)
		}
	}
	if n <= 0 {
		return fmt.Errorf("--ticks is required without a scenario")
	}

	fmt.Printf("running %d seeds from %d for %d ticks...\n", runs, cfg.Seed, n)
	results, err := sim.NewBatch(cfg, newEngine, runs, cfg.Seed).
		WithMetrics(metrics.Default).
		Run(ctx, src, n)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	names := metricNames(results[0].Metrics)
	fmt.Fprintln(w, "SEED\t"+strings.ToUpper(strings.Join(names, "\t")))
	for i, r := range results {
		row := []string{fmt.Sprintf("%d", cfg.Seed+int64(i))}
		for _, name := range names {
			row = append(row, fmt.Sprintf("%.6g", r.Metrics[name]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func metricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for _, metric := range metrics.Default() {
		if _, ok := m[metric.Name()]; ok {
			names = append(names, metric.Name())
		}
	}
	return names
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	for _, name := range metricNames(m) {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
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
	fmt.Fprintln(w, "ID\tSCENARIO\tPRESET\tLAW\tTIME\tTICKS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Preset,
			run.Law,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Seed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(trace))

	series := []struct {
		caption string
		value   func(storage.Sample) float64
	}{
		{"volume", func(s storage.Sample) float64 { return s.Volume }},
		{"pressure", func(s storage.Sample) float64 { return s.Pressure }},
		{"temperature (K)", func(s storage.Sample) float64 { return s.Temperature }},
		{"work on the gas (J)", func(s storage.Sample) float64 { return s.Work }},
		{"heat (J)", func(s storage.Sample) float64 { return s.Heat }},
	}
	for _, sr := range series {
		data := make([]float64, len(trace))
		for i, s := range trace {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, trace)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	return storage.WriteJSON(os.Stdout, *meta, trace)
}

// statePoint returns the plot point for --volume/--pressure, defaulting
// each unset one to the plot centre.
func statePoint(cmd *cobra.Command, m *thermo.Model) (thermo.GasState, error) {
	at := m.Center()
	if cmd.Flags().Changed("volume") {
		at[0] = m.XFromVolume(volume)
	}
	if cmd.Flags().Changed("pressure") {
		at[1] = m.YFromPressure(pressure)
	}
	if !m.InPlot(at) {
		return thermo.GasState{}, fmt.Errorf("V=%v P=%v is outside the plot", m.Volume(at[0]), m.Pressure(at[1]))
	}
	return m.State(m.Clamp(at)), nil
}

func exportDiagram(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := thermo.NewModel(cfg)
	if err != nil {
		return err
	}
	state, err := statePoint(cmd, m)
	if err != nil {
		return err
	}

	d := export.NewDiagram(m, m.PointFor(state.Volume, state.Pressure))
	if traceRun != "" {
		trace, err := storage.New(dataDir).LoadTrace(traceRun)
		if err != nil {
			return err
		}
		d = d.WithTrace(trace)
	}

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "svg":
		_, err = io.WriteString(out, export.DiagramToSVG(d, 800, 400))
	case "png":
		err = export.WriteDiagramPNG(out, d, 8, 4)
	default:
		err = fmt.Errorf("unknown format: %s (svg or png)", format)
	}
	if err != nil {
		return err
	}
	if outFile != "" {
		log.WithFields(log.Fields{"file": outFile, "format": format}).Info("diagram written")
	}
	return nil
}

func printState(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	m, err := thermo.NewModel(cfg)
	if err != nil {
		return err
	}
	state, err := statePoint(cmd, m)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "law\t%s\n", cfg.Law)
	fmt.Fprintf(w, "volume\t%.4f\n", state.Volume)
	fmt.Fprintf(w, "pressure\t%.4f\n", state.Pressure)
	fmt.Fprintf(w, "temperature\t%.4f K\n", state.Temperature)
	fmt.Fprintf(w, "internal energy\t%.4f J\n", state.InternalEnergy)
	fmt.Fprintf(w, "gamma\t%.4f\n", m.Gamma())
	for _, c := range curves.All(m, m.PointFor(state.Volume, state.Pressure)) {
		fmt.Fprintf(w, "%s curve\t%d points\n", c.Kind, c.Points())
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tLAW\tPARTICLES\tDOF")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", name, cfg.Law, cfg.NumParticles(), cfg.Gas.DegreesOfFreedom)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nscenarios: %s\n", strings.Join(automation.ListBuiltin(), ", "))
	fmt.Printf("easings:   %s\n", strings.Join(automation.Easings(), ", "))
	fmt.Printf("engines:   %s\n", strings.Join(experiment.NewRegistry().ListEngines(), ", "))
	return nil
}
