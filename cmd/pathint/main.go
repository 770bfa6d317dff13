package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pathint/internal/config"
	"github.com/san-kum/pathint/internal/integrand"
	"github.com/san-kum/pathint/internal/quad"
	"github.com/san-kum/pathint/internal/store"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	order      int
	atol       float64
	rtol       float64
	tInit      float64
	tFinal     float64
	initPoints int
	minSpacing float64
	maxRounds  int
	saveRun    bool
	// Integrand shape parameters
	freq   float64
	center float64
	width  float64
	radius float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pathint",
		Short: "adaptive batched quadrature for path integrals",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pathint", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [integrand]",
		Short: "integrate an integrand over [t0, t1]",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIntegration,
	}
	addEngineFlags(runCmd)
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run to the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run's samples and grid spacing",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [integrand]",
		Short: "list presets for an integrand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for integrand: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	integrandsCmd := &cobra.Command{
		Use:   "integrands",
		Short: "list built-in integrands",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range integrand.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [integrand]",
		Short: "integrate with a live view of the refinement rounds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addEngineFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportJSONCmd, presetsCmd, integrandsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&order, "p", config.DefaultP, "quadrature degree")
	cmd.Flags().Float64Var(&atol, "atol", config.DefaultAtol, "absolute tolerance")
	cmd.Flags().Float64Var(&rtol, "rtol", config.DefaultRtol, "relative tolerance")
	cmd.Flags().Float64Var(&tInit, "t0", config.DefaultTInit, "lower bound")
	cmd.Flags().Float64Var(&tFinal, "t1", config.DefaultTFinal, "upper bound")
	cmd.Flags().IntVar(&initPoints, "points", config.DefaultInitPoints, "uniform seed size")
	cmd.Flags().Float64Var(&minSpacing, "min-spacing", 0, "coarsening threshold (0 disables)")
	cmd.Flags().IntVar(&maxRounds, "max-rounds", config.DefaultMaxRounds, "refinement round budget")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&freq, "freq", 20, "frequency (sine)")
	cmd.Flags().Float64Var(&center, "center", 0.5, "bump center (gauss)")
	cmd.Flags().Float64Var(&width, "width", 0.05, "bump width (gauss)")
	cmd.Flags().Float64Var(&radius, "radius", 1, "path radius (circle)")
}

// resolveConfig folds preset, config file, and CLI flags into one Config;
// flags win over the file, the file wins over the preset.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := ""
	if len(args) > 0 {
		name = args[0]
		cfg.Integrand = name
	}

	if preset != "" {
		if name == "" {
			return nil, fmt.Errorf("preset requires an integrand argument")
		}
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		pc := *p
		pc.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			pc.Params[k] = v
		}
		cfg = &pc
		cfg.Normalize()
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if name != "" {
			cfg.Integrand = name
		}
	}

	if cmd.Flags().Changed("p") {
		cfg.P = order
	}
	if cmd.Flags().Changed("atol") {
		cfg.Atol = atol
	}
	if cmd.Flags().Changed("rtol") {
		cfg.Rtol = rtol
	}
	if cmd.Flags().Changed("t0") {
		cfg.TInit = tInit
	}
	if cmd.Flags().Changed("t1") {
		cfg.TFinal = tFinal
	}
	if cmd.Flags().Changed("points") {
		cfg.InitPoints = initPoints
	}
	if cmd.Flags().Changed("min-spacing") {
		cfg.MinSpacing = minSpacing
	}
	if cmd.Flags().Changed("max-rounds") {
		cfg.MaxRounds = maxRounds
	}
	if cfg.Params == nil {
		cfg.Params = map[string]float64{}
	}
	for flag, key := range map[string]string{
		"freq": "freq", "center": "center", "width": "width", "radius": "radius",
	} {
		if cmd.Flags().Changed(flag) {
			cfg.Params[key] = mustFloat(cmd, flag)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mustFloat(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}

func buildIntegrator(cfg *config.Config, onRound func(quad.RoundStats)) (*quad.ParallelAdaptive, quad.Evaluator, error) {
	ev, err := integrand.New(cfg.Integrand, cfg.Params)
	if err != nil {
		return nil, nil, err
	}
	pa, err := quad.NewParallelAdaptive(quad.Options{
		P:          cfg.P,
		Atol:       cfg.Atol,
		Rtol:       cfg.Rtol,
		TInit:      cfg.TInit,
		TFinal:     cfg.TFinal,
		InitPoints: cfg.InitPoints,
		MinSpacing: cfg.MinSpacing,
		MaxRounds:  cfg.MaxRounds,
		OnRound:    onRound,
	})
	if err != nil {
		return nil, nil, err
	}
	return pa, ev, nil
}

func runIntegration(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	pa, ev, err := buildIntegrator(cfg, func(rs quad.RoundStats) {
		fmt.Printf("round %d: %d points (+%d, -%d), %d flagged, worst ratio %.3g\n",
			rs.Round, rs.Points, rs.Added, rs.Removed, rs.Flagged, rs.MaxRatio)
	})
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := pa.Integrate(context.Background(), ev, nil, cfg.TInit, cfg.TFinal, nil)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("\nintegrand: %s over [%g, %g]\n", cfg.Integrand, cfg.TInit, cfg.TFinal)
	fmt.Printf("integral:  %v\n", []float64(out.Integral))
	fmt.Printf("grid:      %d points, %d evaluations, %d rounds, %v\n",
		len(out.Times), out.Evals, out.Rounds, elapsed)
	if out.Degenerate {
		fmt.Println("warning: coarsening removed every interior point; min-spacing is too coarse for this data")
	}

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, out)
		if err != nil {
			return err
		}
		fmt.Printf("saved:     %s\n", runID)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINTEGRAND\tP\tPOINTS\tEVALS\tROUNDS\tINTEGRAL")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%v\n",
			r.ID, r.Integrand, r.P, r.Points, r.Evals, r.Rounds, r.Integral)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, samples, err := st.LoadGrid(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("integrand: %s, %d grid points\n\n", meta.Integrand, len(times))

	numVars := len(samples[0])
	if numVars > 4 {
		numVars = 4
	}
	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(samples))
		for i := range samples {
			if varIdx < len(samples[i]) {
				data[i] = samples[i][varIdx]
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("y%d over the grid", varIdx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	// Grid spacing reveals where refinement concentrated points.
	if len(times) > 1 {
		spacing := make([]float64, len(times)-1)
		for i := 1; i < len(times); i++ {
			spacing[i-1] = times[i] - times[i-1]
		}
		graph := asciigraph.Plot(spacing,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("grid spacing"),
		)
		fmt.Println(graph)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
