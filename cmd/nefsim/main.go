package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"nefsim/internal/analysis"
	"nefsim/internal/config"
	"nefsim/internal/export"
	"nefsim/internal/nef"
	"nefsim/internal/networks"
	"nefsim/internal/optim"
	"nefsim/internal/sim"
	"nefsim/internal/storage"
	"nefsim/internal/viz"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	seed        int64
	neurons     int
	neuronModel string
	synapse     float64
	sampleEvery int
	spikes      bool
	configFile  string
	preset      string
	probeName   string
	xDim        int
	yDim        int
	sweepRuns   int
	outFile     string
	metricName  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nefsim",
		Short: "spiking neural network simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nefsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [network]",
		Short: "run simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	networksCmd := &cobra.Command{
		Use:   "networks",
		Short: "list built-in networks",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range networks.List() {
				fmt.Println(name)
			}
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot probe traces",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&probeName, "probe", "", "plot only this probe")

	rasterCmd := &cobra.Command{
		Use:   "raster [run_id] [probe]",
		Short: "spike raster from a recorded spike probe",
		Args:  cobra.ExactArgs(2),
		RunE:  rasterRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id] [probe]",
		Short: "2D trajectory plot of a probe",
		Args:  cobra.ExactArgs(2),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xDim, "x-dim", 0, "probe component for x-axis")
	phaseCmd.Flags().IntVar(&yDim, "y-dim", 1, "probe component for y-axis")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id] [probe]",
		Short: "export a probe series to CSV",
		Args:  cobra.ExactArgs(2),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [probe]",
		Short: "export a probe trace as SVG",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	tuneCmd := &cobra.Command{
		Use:   "tune [network]",
		Short: "grid-search neurons and synapse tau for the lowest tracking error",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneNetwork,
	}
	tuneCmd.Flags().Float64Var(&dt, "dt", 0.001, "timestep")
	tuneCmd.Flags().Float64Var(&duration, "time", 2.0, "duration")
	tuneCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	tuneCmd.Flags().StringVar(&metricName, "metric", "", "metric to minimize (default first rmse_*)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id] [probe]",
		Short: "frequency analysis of a probe",
		Args:  cobra.ExactArgs(2),
		RunE:  analyzeRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [network]",
		Short: "benchmark network",
		Args:  cobra.ExactArgs(1),
		RunE:  benchNetwork,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [network] [model1] [model2] ...",
		Short: "compare neuron models on the same network",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareModels,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", 0.001, "timestep")
	compareCmd.Flags().Float64Var(&duration, "time", 2.0, "duration")
	compareCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	sweepCmd := &cobra.Command{
		Use:   "sweep [network]",
		Short: "run several seeds in parallel and compare metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepNetwork,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 4, "number of seeds")

	presetsCmd := &cobra.Command{
		Use:   "presets [network]",
		Short: "list available presets for a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for network: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [network]",
		Short: "run simulation with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, networksCmd, plotCmd, rasterCmd, phaseCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, analyzeCmd, benchCmd,
		compareCmd, sweepCmd, tuneCmd, presetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", 0.001, "timestep")
	cmd.Flags().Float64Var(&duration, "time", 1.0, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano()%1_000_000_000, "random seed")
	cmd.Flags().IntVar(&neurons, "neurons", 0, "neurons per scalar ensemble (0 keeps default)")
	cmd.Flags().StringVar(&neuronModel, "neuron", "", "neuron model (lif, lifrate, relu)")
	cmd.Flags().Float64Var(&synapse, "synapse", 0, "synaptic filter tau override")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "record every Nth step")
	cmd.Flags().BoolVar(&spikes, "spikes", false, "probe spikes per ensemble")
}

// settings merges preset, config file, and flags into one file-level config.
// Flags that were explicitly set win over the file, which wins over the
// preset.
func settings(cmd *cobra.Command, network string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Network = network

	if preset != "" {
		p := config.GetPreset(network, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(network))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		*cfg = *loaded
		cfg.Network = network
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("neurons") {
		cfg.Neurons = neurons
	}
	if cmd.Flags().Changed("neuron") {
		cfg.Model = neuronModel
	}
	if cmd.Flags().Changed("synapse") {
		cfg.Synapse = synapse
	}
	if cmd.Flags().Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if cmd.Flags().Changed("spikes") {
		cfg.Spikes = spikes
	}
	return cfg, nil
}

func buildNetwork(cfg *config.Config) (*nef.Network, error) {
	return networks.Get(cfg.Network, networks.Params{
		Neurons: cfg.Neurons,
		Model:   cfg.Model,
		Synapse: cfg.Synapse,
		Spikes:  cfg.Spikes,
	})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd, args[0])
	if err != nil {
		return err
	}

	net, err := buildNetwork(cfg)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s := sim.New(net)
	for _, m := range networks.DefaultMetrics(cfg.Network) {
		s.AddMetric(m)
	}

	fmt.Printf("running %s simulation...\n", cfg.Network)
	start := time.Now()

	result, err := s.Run(context.Background(), cfg.SimConfig())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Network, cfg.Model, cfg.SimConfig(), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
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
	fmt.Fprintln(w, "ID\tNETWORK\tMODEL\tTIME\tDURATION\tDT\tPROBES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			run.Network,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			len(run.Probes),
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

	targets := meta.Probes
	if probeName != "" {
		targets = []string{probeName}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("network: %s\n\n", meta.Network)

	for _, probe := range targets {
		if strings.HasSuffix(probe, ".spikes") {
			continue
		}
		_, series, err := st.LoadSeries(runID, probe)
		if err != nil {
			return err
		}
		if len(series) == 0 {
			continue
		}

		for d := range series[0] {
			data := make([]float64, len(series))
			for i := range series {
				if d < len(series[i]) {
					data[i] = series[i][d]
				}
			}

			caption := probe
			if len(series[0]) > 1 {
				caption = fmt.Sprintf("%s[%d]", probe, d)
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(caption),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return nil
}

func rasterRun(cmd *cobra.Command, args []string) error {
	runID, probe := args[0], args[1]

	st := storage.New(dataDir)
	_, series, err := st.LoadSeries(runID, probe)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	const width = 80
	r := viz.NewRaster(len(series[0]), width*2)
	// Downsample so the whole run fits in the window.
	stride := len(series) / (width * 2)
	if stride < 1 {
		stride = 1
	}
	for i := 0; i < len(series); i += stride {
		r.Observe(series[i])
	}

	fmt.Printf("spike raster: %s %s\n\n", runID, probe)
	fmt.Println(r.Render(width, 12))
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID, probe := args[0], args[1]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	_, series, err := st.LoadSeries(runID, probe)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if len(series[0]) <= xDim || len(series[0]) <= yDim {
		return fmt.Errorf("probe dimension too small for selected axes")
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i := range series {
		xs[i] = series[i][xDim]
		ys[i] = series[i][yDim]
	}

	fmt.Printf("trajectory: %s %s\n", meta.ID, probe)
	fmt.Printf("x: [%d], y: [%d]\n\n", xDim, yDim)
	fmt.Println(analysis.NewTrajectory(xs, ys).ToASCII(70, 20))
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

func exportCSV(cmd *cobra.Command, args []string) error {
	runID, probe := args[0], args[1]

	st := storage.New(dataDir)
	times, series, err := st.LoadSeries(runID, probe)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range series[0] {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range series {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range series[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	result := &nef.Result{
		Probes:  make(map[string][]nef.Signal),
		Metrics: meta.Metrics,
	}
	for _, probe := range meta.Probes {
		times, series, err := st.LoadSeries(runID, probe)
		if err != nil {
			return err
		}
		result.Probes[probe] = series
		if len(times) > len(result.Times) {
			result.Times = times
		}
	}
	result.StepsTaken = len(result.Times)

	cfg := nef.Config{Dt: meta.Dt, Duration: meta.Duration, Seed: meta.Seed}
	return storage.ExportJSON(os.Stdout, meta.Network, meta.Model, cfg, result)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID, probe := args[0], args[1]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, series, err := st.LoadSeries(runID, probe)
	if err != nil {
		return err
	}
	if len(series) == 0 || len(series[0]) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s %s\n", meta.ID, probe)
	fmt.Printf("network: %s\n\n", meta.Network)

	data := make([]float64, len(series))
	for i := range series {
		data[i] = series[i][0]
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	sampleDt := meta.Dt
	if len(times) > 1 {
		sampleDt = times[1] - times[0]
	}
	freq, _ := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func benchNetwork(cmd *cobra.Command, args []string) error {
	network := args[0]

	net, err := networks.Get(network, networks.Params{})
	if err != nil {
		return err
	}

	durations := []float64{0.5, 1.0, 2.0}
	dts := []float64{0.0005, 0.001, 0.002}

	fmt.Printf("benchmarking %s\n\n", network)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	s := sim.New(net)
	for _, dur := range durations {
		for _, stepDt := range dts {
			cfg := nef.Config{Dt: stepDt, Duration: dur, Seed: 42, SampleEvery: 1, ValidateState: true}

			start := time.Now()
			result, err := s.Run(context.Background(), cfg)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, stepDt, result.StepsTaken, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func compareModels(cmd *cobra.Command, args []string) error {
	network := args[0]
	models := args[1:]

	fmt.Printf("comparing neuron models for %s (dt=%.4f, duration=%.1fs)\n\n", network, dt, duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tMEAN_RATE\tRMSE\tTIME_MS")

	for _, model := range models {
		net, err := networks.Get(network, networks.Params{Model: model})
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", model, err)
			continue
		}

		s := sim.New(net)
		for _, m := range networks.DefaultMetrics(network) {
			s.AddMetric(m)
		}

		cfg := nef.Config{Dt: dt, Duration: duration, Seed: seed, SampleEvery: 1, ValidateState: true}
		start := time.Now()
		result, err := s.Run(context.Background(), cfg)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", model, err)
			continue
		}

		rmse := 0.0
		for name, val := range result.Metrics {
			if strings.HasPrefix(name, "rmse_") {
				rmse = val
			}
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.4f\t%.2f\n",
			model, result.Metrics["mean_rate"], rmse, float64(elapsed.Microseconds())/1000)
	}

	return w.Flush()
}

func sweepNetwork(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd, args[0])
	if err != nil {
		return err
	}

	net, err := buildNetwork(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %d seeds...\n", cfg.Network, sweepRuns)
	start := time.Now()

	results, err := sim.Sweep(context.Background(), net, cfg.SimConfig(), sweepRuns, func() []nef.Metric {
		return networks.DefaultMetrics(cfg.Network)
	})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	names := []string(nil)
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "SEED")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", strings.ToUpper(name))
	}
	fmt.Fprintln(w)

	for i, result := range results {
		fmt.Fprintf(w, "%d", cfg.Seed+int64(i))
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", result.Metrics[name])
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID, probe := args[0], args[1]

	st := storage.New(dataDir)
	times, series, err := st.LoadSeries(runID, probe)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to export")
	}

	var svg string
	if len(series[0]) >= 2 {
		points := make([]struct{ X, Y float64 }, len(series))
		for i := range series {
			points[i] = struct{ X, Y float64 }{X: series[i][0], Y: series[i][1]}
		}
		svg = export.TrajectoryToSVG(points, 600, 600, "#00ff88")
	} else {
		values := make([]float64, len(series))
		for i := range series {
			values[i] = series[i][0]
		}
		svg = export.TraceToSVG(times, values, 800, 300, "#00ff88")
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func tuneNetwork(cmd *cobra.Command, args []string) error {
	network := args[0]

	// Pick the tracking metric to minimize.
	metric := metricName
	if metric == "" {
		for _, m := range networks.DefaultMetrics(network) {
			if strings.HasPrefix(m.Name(), "rmse_") {
				metric = m.Name()
			}
		}
	}
	if metric == "" {
		return fmt.Errorf("network %s has no tracking metric; pass --metric", network)
	}

	search := optim.NewGridSearch(
		[]string{"neurons", "synapse"},
		[][]float64{
			{50, 100, 200},
			{0.002, 0.005, 0.01},
		},
	)

	run := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		net, err := networks.Get(network, networks.Params{
			Neurons: int(params["neurons"]),
			Synapse: params["synapse"],
		})
		if err != nil {
			return nil, err
		}

		s := sim.New(net)
		for _, m := range networks.DefaultMetrics(network) {
			s.AddMetric(m)
		}
		cfg := nef.Config{Dt: dt, Duration: duration, Seed: seed, SampleEvery: 1, ValidateState: true}
		result, err := s.Run(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return result.Metrics, nil
	}

	fmt.Printf("tuning %s to minimize %s...\n", network, metric)
	start := time.Now()

	best, val, err := search.Search(context.Background(), run, metric)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))
	if best == nil {
		return fmt.Errorf("no configuration produced metric %s", metric)
	}
	fmt.Printf("best %s: %.6f\n", metric, val)
	fmt.Printf("  neurons: %.0f\n", best["neurons"])
	fmt.Printf("  synapse: %.4f\n", best["synapse"])
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd, args[0])
	if err != nil {
		return err
	}
	// Rasters need spike probes.
	if !cmd.Flags().Changed("spikes") {
		cfg.Spikes = true
	}

	net, err := buildNetwork(cfg)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(net, networks.DefaultMetrics(cfg.Network), cfg.Dt, cfg.Seed)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
