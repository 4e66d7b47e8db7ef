package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spherevi/internal/config"
	"github.com/san-kum/spherevi/internal/experiment"
	"github.com/san-kum/spherevi/internal/export"
	"github.com/san-kum/spherevi/internal/optim"
	"github.com/san-kum/spherevi/internal/solver"
	"github.com/san-kum/spherevi/internal/storage"
	"github.com/san-kum/spherevi/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool
	trace   bool

	configFile string
	preset     string
	noSave     bool

	rStep, rMin, rMax             float64
	thetaStep, thetaMin, thetaMax float64
	phiStep, phiMin, phiMax       float64

	goalReward     float64
	obstacleReward float64
	moveCost       float64
	initialValue   float64

	noise     float64
	gamma     float64
	sweeps    int
	tolerance float64
	seed      int64

	ring        int
	phiIndex    int
	jsonOut     string
	heatmapOut  string
	benchPreset string

	searchParams   []string
	searchMetric   string
	searchMaximize bool
)

// main runs the spherevi command tree and exits with status 1 when a command
// fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spherevi",
		Short: "value iteration over a spherical grid",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spherevi", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log run diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "log every state after each sweep (small grids only)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "solve the grid and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSolver,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "solve with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "spherevi.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot residuals and a value profile",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&ring, "ring", 0, "radial index of the profile")
	plotCmd.Flags().IntVar(&phiIndex, "phi-index", 0, "elevation index of the profile")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export values and policy to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&jsonOut, "out", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export values and policy to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	heatmapCmd := &cobra.Command{
		Use:   "heatmap [run_id]",
		Short: "render a value heatmap of one radial shell",
		Args:  cobra.ExactArgs(1),
		RunE:  heatmapRun,
	}
	heatmapCmd.Flags().IntVar(&ring, "ring", 0, "radial index of the shell")
	heatmapCmd.Flags().StringVar(&heatmapOut, "out", "heatmap.png", "output image (png, svg or pdf)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time sweeps on a preset",
		Args:  cobra.NoArgs,
		RunE:  benchSolver,
	}
	benchCmd.Flags().StringVar(&benchPreset, "preset", "coarse", "preset to benchmark")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search over solver parameters",
		Args:  cobra.NoArgs,
		RunE:  searchParamsRun,
	}
	searchCmd.Flags().StringVar(&configFile, "config", "", "base config file path (yaml)")
	searchCmd.Flags().StringVar(&preset, "preset", "", "base preset configuration")
	searchCmd.Flags().StringArrayVar(&searchParams, "param", nil, "parameter values as name=v1,v2,... (repeatable)")
	searchCmd.Flags().StringVar(&searchMetric, "metric", "mean_value", "metric to rank by, or sweeps")
	searchCmd.Flags().BoolVar(&searchMaximize, "maximize", false, "rank highest first")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, initConfigCmd, listCmd, plotCmd,
		exportCmd, exportJSONCmd, exportCSVCmd, heatmapCmd, benchCmd, searchCmd)
	return rootCmd
}

func addConfigFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")

	f.Float64Var(&rStep, "r-step", def.Grid.R.Step, "radial resolution")
	f.Float64Var(&rMin, "r-min", def.Grid.R.Min, "minimum radius")
	f.Float64Var(&rMax, "r-max", def.Grid.R.Max, "maximum radius")
	f.Float64Var(&thetaStep, "theta-step", def.Grid.Theta.Step, "azimuth resolution (degrees)")
	f.Float64Var(&thetaMin, "theta-min", def.Grid.Theta.Min, "minimum azimuth")
	f.Float64Var(&thetaMax, "theta-max", def.Grid.Theta.Max, "maximum azimuth")
	f.Float64Var(&phiStep, "phi-step", def.Grid.Phi.Step, "elevation resolution (degrees)")
	f.Float64Var(&phiMin, "phi-min", def.Grid.Phi.Min, "minimum elevation")
	f.Float64Var(&phiMax, "phi-max", def.Grid.Phi.Max, "maximum elevation")

	f.Float64Var(&goalReward, "goal", def.Rewards.Goal, "goal reward")
	f.Float64Var(&obstacleReward, "obstacle", def.Rewards.Obstacle, "obstacle reward")
	f.Float64Var(&moveCost, "move", def.Rewards.Move, "per-move reward")
	f.Float64Var(&initialValue, "initial", def.Rewards.Initial, "initial value of free states")

	f.Float64Var(&noise, "noise", def.Noise, "action noise probability")
	f.Float64Var(&gamma, "gamma", def.Gamma, "discount factor")
	f.IntVar(&sweeps, "sweeps", def.Sweeps, "number of sweeps")
	f.Float64Var(&tolerance, "tolerance", def.Tolerance, "stop once a sweep changes no value by more than this (0 disables)")
	f.Int64Var(&seed, "seed", def.Seed, "seed of the initial policy")
}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadWithBase(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	floats := []struct {
		name string
		src  float64
		dst  *float64
	}{
		{"r-step", rStep, &cfg.Grid.R.Step},
		{"r-min", rMin, &cfg.Grid.R.Min},
		{"r-max", rMax, &cfg.Grid.R.Max},
		{"theta-step", thetaStep, &cfg.Grid.Theta.Step},
		{"theta-min", thetaMin, &cfg.Grid.Theta.Min},
		{"theta-max", thetaMax, &cfg.Grid.Theta.Max},
		{"phi-step", phiStep, &cfg.Grid.Phi.Step},
		{"phi-min", phiMin, &cfg.Grid.Phi.Min},
		{"phi-max", phiMax, &cfg.Grid.Phi.Max},
		{"goal", goalReward, &cfg.Rewards.Goal},
		{"obstacle", obstacleReward, &cfg.Rewards.Obstacle},
		{"move", moveCost, &cfg.Rewards.Move},
		{"initial", initialValue, &cfg.Rewards.Initial},
		{"noise", noise, &cfg.Noise},
		{"gamma", gamma, &cfg.Gamma},
		{"tolerance", tolerance, &cfg.Tolerance},
	}
	for _, fl := range floats {
		if f.Changed(fl.name) {
			*fl.dst = fl.src
		}
	}
	if f.Changed("sweeps") {
		cfg.Sweeps = sweeps
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func setupLogging() {
	var diag, tr io.Writer
	if verbose || trace {
		diag = os.Stderr
	}
	if trace {
		tr = os.Stderr
	}
	solver.SetLogWriters(os.Stderr, diag, tr)
	experiment.SetLogWriter(diag)
}

func runSolver(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	g := exp.Grid()
	nr, ntheta, nphi := g.Dims()
	fmt.Fprintf(out, "nr=%d ntheta=%d nphi=%d\n", nr, ntheta, nphi)
	fmt.Fprintf(out, "Number of states is %d\n", g.Size())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Time elapsed = %f ms\n", float64(result.Elapsed.Nanoseconds())/1e6)

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Config(), g, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run id: %s\n", runID)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, viz.RenderSummary(g, exp.Labels(), result))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	m := viz.NewModel(exp.GetSolver(), exp.Config().GetRunConfig())
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	if fm, ok := final.(viz.Model); ok {
		fmt.Printf("stopped after %d sweeps\n", fm.Sweeps())
	}
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tDIMS\tSTATES\tSWEEPS\tCONVERGED\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%dx%d\t%d\t%d\t%t\t%.1fms\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dims[0], run.Dims[1], run.Dims[2],
			run.States,
			run.Sweeps,
			run.Converged,
			run.ElapsedMs,
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
	values, _, err := st.LoadValues(runID)
	if err != nil {
		return err
	}
	g, err := meta.Grid()
	if err != nil {
		return err
	}

	nr, ntheta, nphi := g.Dims()
	if ring < 0 || ring >= nr {
		return fmt.Errorf("ring %d out of range [0,%d)", ring, nr)
	}
	if phiIndex < 0 || phiIndex >= nphi {
		return fmt.Errorf("phi index %d out of range [0,%d)", phiIndex, nphi)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("states: %d\n\n", meta.States)

	if len(meta.Residuals) > 1 {
		graph := asciigraph.Plot(meta.Residuals,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("residual per sweep"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	profile := make([]float64, ntheta)
	for j := range profile {
		profile[j] = values[g.Index(ring, j, phiIndex)]
	}
	graph := asciigraph.Plot(profile,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("J along theta at r=%g phi=%g", g.R.Coords[ring], g.Phi.Coords[phiIndex])),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	values, policy, err := st.LoadValues(runID)
	if err != nil {
		return err
	}
	g, err := meta.Grid()
	if err != nil {
		return err
	}

	data := export.NewExportData(meta.ID, &meta.Config, g, values, policy)
	if jsonOut == "" {
		return export.WriteJSON(os.Stdout, data)
	}
	if err := export.ExportJSON(jsonOut, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", jsonOut)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	values, policy, err := st.LoadValues(runID)
	if err != nil {
		return err
	}
	g, err := meta.Grid()
	if err != nil {
		return err
	}
	return storage.WriteValuesCSV(os.Stdout, g, values, policy)
}

func heatmapRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	values, _, err := st.LoadValues(runID)
	if err != nil {
		return err
	}
	g, err := meta.Grid()
	if err != nil {
		return err
	}

	if err := export.SaveHeatmap(heatmapOut, g, values, ring); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", heatmapOut)
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(benchPreset)
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", benchPreset, config.ListPresets())
	}

	fmt.Printf("benchmarking %s\n\n", benchPreset)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SWEEPS\tSTATES\tTIME\tUPDATES/SEC")

	for _, n := range []int{1, 10, 100} {
		cfg := base.Clone()
		cfg.Sweeps = n
		cfg.Tolerance = 0

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return err
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		updates := float64(result.Sweeps) * float64(exp.Grid().Size())
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", result.Sweeps, exp.Grid().Size(), elapsed, updates/elapsed.Seconds())
	}
	return w.Flush()
}

func searchParamsRun(cmd *cobra.Command, args []string) error {
	if len(searchParams) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", optim.Params())
	}

	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(searchParams))
	ranges := make([][]float64, 0, len(searchParams))
	for _, spec := range searchParams {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid --param %q, want name=v1,v2", spec)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("invalid value in --param %q: %w", spec, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	gs, err := optim.NewGridSearch(names, ranges, searchMaximize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	trials, err := gs.Search(ctx, base, searchMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := strings.ToUpper(strings.Join(names, "\t"))
	fmt.Fprintf(w, "%s\t%s\tSWEEPS\tCONVERGED\n", header, strings.ToUpper(searchMetric))
	for _, tr := range trials {
		for _, name := range names {
			fmt.Fprintf(w, "%g\t", tr.Params[name])
		}
		fmt.Fprintf(w, "%.6g\t%d\t%t\n", tr.Value, tr.Sweeps, tr.Converged)
	}
	return w.Flush()
}
