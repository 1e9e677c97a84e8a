package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/experiment"
	"github.com/san-kum/orbitsim/internal/export"
	"github.com/san-kum/orbitsim/internal/logging"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/resolve"
	"github.com/san-kum/orbitsim/internal/storage"
	"github.com/san-kum/orbitsim/internal/viz"
)

var (
	dataDir  string
	logLevel string
	logFile  string
	log      = zerolog.Nop()
	closeLog = func() error { return nil }

	numBodies     int
	numFrames     int
	dt            float64
	seed          uint64
	cube          bool
	initialBounds bool
	workers       int
	massArgs      []string
	positionArgs  []string
	velocityArgs  []string
	configFile    string
	preset        string
	noSave        bool

	minBodies int
	maxBodies int
	since     time.Duration
	limit     int

	pair       string
	plotWidth  int
	plotHeight int
	themeName  string
	outFile    string
	svgPlane   string
	svgSize    int

	benchBodies  []int
	benchSteps   int
	benchWorkers int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "n-body gravity simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadSettings(cmd); err != nil {
				return err
			}
			return setupLogging()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLog()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append logs to this file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "resolve bodies, record a run and save it",
		Long: `Resolve bodies from directives, record the run and save it.

Selectors address bodies by 1-based index: "a" for all, "2" for one body,
"1-3" for a range and "1.4-5" to join groups. Positions take a single index.

  -m SEL,MASS         mass in kg
  -p N,V | N,X,Y,Z    position in m; keyed form N,xV,zV sets only those axes
  -v SEL,V | SEL,X,Y,Z | SEL,xV,...  velocity in m/s

Directives apply in order, so later ones overwrite earlier ones. Anything
left unset is drawn at random from --seed.`,
		Args: cobra.NoArgs,
		RunE: runSimulation,
	}
	runCmd.Flags().IntVarP(&numBodies, "bodies", "n", config.DefaultBodies, "number of bodies")
	runCmd.Flags().IntVarP(&numFrames, "frames", "f", config.DefaultFrames, "number of steps to record")
	runCmd.Flags().Float64VarP(&dt, "dt", "t", config.DefaultDt, "timestep in seconds (may be negative)")
	runCmd.Flags().StringArrayVarP(&massArgs, "mass", "m", nil, "mass directive SEL,MASS (repeatable)")
	runCmd.Flags().StringArrayVarP(&positionArgs, "position", "p", nil, "position directive N,... (repeatable)")
	runCmd.Flags().StringArrayVarP(&velocityArgs, "velocity", "v", nil, "velocity directive SEL,... (repeatable)")
	runCmd.Flags().BoolVar(&cube, "cube", false, "use one cubic interval for all axes")
	runCmd.Flags().BoolVar(&initialBounds, "initial-bounds", false, "compute bounds from the first frame only")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for unset attributes (0 draws one)")
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "named scenario")
	runCmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "goroutines for force evaluation")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without saving the run")
	runCmd.MarkFlagsMutuallyExclusive("config", "preset")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	listCmd.Flags().IntVar(&minBodies, "min-bodies", 0, "only runs with at least this many bodies")
	listCmd.Flags().IntVar(&maxBodies, "max-bodies", 0, "only runs with at most this many bodies")
	listCmd.Flags().DurationVar(&since, "since", 0, "only runs recorded within this duration")
	listCmd.Flags().IntVar(&limit, "limit", 0, "show only the most recent runs")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id...]",
		Short: "delete saved runs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  deleteRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the distance between two bodies",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pair, "pair", "1,2", "bodies to compare, or a single body for its distance from the origin")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "replay a run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  viewRun,
	}
	viewCmd.Flags().StringVar(&themeName, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw body tracks as an SVG image",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "write to file instead of stdout")
	exportSVGCmd.Flags().StringVar(&svgPlane, "plane", "xy", "projection plane (xy, xz, yz)")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the integrator",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	benchCmd.Flags().IntSliceVarP(&benchBodies, "bodies", "n", []int{10, 100, 500}, "body counts")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 50, "steps per measurement")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 4, "goroutines for the parallel column")

	rootCmd.AddCommand(runCmd, listCmd, deleteCmd, showCmd, plotCmd, viewCmd, exportJSONCmd, exportSVGCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadSettings fills the shared options from flags, environment and an
// orbitsim.yaml in the working or user config directory.
func loadSettings(cmd *cobra.Command) error {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "orbitsim"))
	}

	s, err := config.LoadSettings(cmd.Flags(), paths...)
	if err != nil {
		return err
	}
	dataDir, logLevel, logFile = s.DataDir, s.LogLevel, s.LogFile
	return nil
}

func setupLogging() error {
	var file io.Writer
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		file = f
		closeLog = f.Close
	}
	log = logging.New(os.Stderr, file, logging.ParseLevel(logLevel))
	return nil
}

// scenario builds the run configuration: preset or file first, then any
// flags given on the command line.
func scenario(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Bodies = numBodies
	}
	if flags.Changed("frames") {
		cfg.Frames = numFrames
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("cube") {
		cfg.Cube = cube
	}
	if flags.Changed("initial-bounds") {
		cfg.InitialBounds = initialBounds
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, nil
}

// flagDirectives parses -m, -p and -v in that order. Kinds touch disjoint
// fields, so grouping them keeps every field's command-line order.
func flagDirectives() ([]resolve.Directive, error) {
	var out []resolve.Directive
	groups := []struct {
		args  []string
		parse func(string) (resolve.Directive, error)
	}{
		{massArgs, resolve.ParseMass},
		{positionArgs, resolve.ParsePosition},
		{velocityArgs, resolve.ParseVelocity},
	}
	for _, g := range groups {
		for _, arg := range g.args {
			d, err := g.parse(arg)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	return out, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := scenario(cmd)
	if err != nil {
		return err
	}
	extra, err := flagDirectives()
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, extra...)
	exp.SetLogger(log)

	fmt.Printf("recording %d bodies for %d steps...\n", cfg.Bodies, cfg.Frames)
	res, err := exp.Run()
	if err != nil {
		return err
	}
	log.Info().Str("command", res.Command).Msg("reproduce")

	st := viz.NewStyles(viz.Themes[0])
	fmt.Println(st.Field("elapsed", res.Elapsed.Round(time.Microsecond)))
	fmt.Println(st.Field("seed", res.Seed))

	if !noSave {
		runID, err := saveRun(res.Metadata(cfg), res.Frames)
		if err != nil {
			return err
		}
		fmt.Println(st.Field("run id", runID))
	}

	fmt.Println("\nmetrics:")
	for _, name := range experiment.NewRegistry().ListMetrics() {
		fmt.Printf("  %s: %.6g\n", name, res.Metrics[name])
	}
	fmt.Println("\nreproduce with:")
	fmt.Println("  " + res.Command)
	return nil
}

func saveRun(meta storage.RunMetadata, frames dynamo.FrameSequence) (string, error) {
	store := storage.New(dataDir)
	runID, err := store.Save(meta, frames)
	if err != nil {
		return "", err
	}

	saved, err := store.Load(runID)
	if err != nil {
		return "", err
	}
	catalog, err := store.OpenCatalog()
	if err != nil {
		log.Warn().Err(err).Msg("run index unavailable")
		return runID, nil
	}
	defer catalog.Close()
	if err := catalog.Add(*saved); err != nil {
		log.Warn().Err(err).Str("run", runID).Msg("failed to index run")
	}
	return runID, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	catalog, err := store.OpenCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	if err := catalog.Sync(store); err != nil {
		return err
	}
	filter := storage.Filter{MinBodies: minBodies, MaxBodies: maxBodies, Limit: limit}
	if since > 0 {
		filter.Since = time.Now().Add(-since)
	}
	runs, err := catalog.Query(filter)
	if err != nil {
		return err
	}
	log.Debug().Int("runs", len(runs)).Str("data", dataDir).Msg("listed runs")

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBODIES\tFRAMES\tDT\tENERGY DRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%gs\t%.3g\n",
			run.ID,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Frames,
			run.Dt,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func deleteRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	catalog, err := store.OpenCatalog()
	if err != nil {
		return err
	}
	defer catalog.Close()

	for _, runID := range args {
		if err := store.Delete(runID); err != nil {
			return err
		}
		if err := catalog.Remove(runID); err != nil {
			return err
		}
		log.Info().Str("run", runID).Msg("deleted")
		fmt.Println("deleted", runID)
	}
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := storage.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}

	st := viz.NewStyles(viz.Themes[0])
	var b strings.Builder
	b.WriteString(st.Title.Render(meta.ID) + "\n\n")
	b.WriteString(st.Field("recorded", meta.Timestamp.Format(time.RFC3339)) + "\n")
	b.WriteString(st.Field("frames", meta.Frames) + "\n")
	b.WriteString(st.Field("dt", fmt.Sprintf("%gs", meta.Dt)) + "\n")
	b.WriteString(st.Field("seed", meta.Seed) + "\n")
	for _, axis := range []struct {
		name string
		iv   [2]float64
	}{
		{"x", [2]float64{meta.Bounds.X.Min, meta.Bounds.X.Max}},
		{"y", [2]float64{meta.Bounds.Y.Min, meta.Bounds.Y.Max}},
		{"z", [2]float64{meta.Bounds.Z.Min, meta.Bounds.Z.Max}},
	} {
		b.WriteString(st.Field(axis.name+" bounds", fmt.Sprintf("[%.4g, %.4g]", axis.iv[0], axis.iv[1])) + "\n")
	}

	bodies := make([]dynamo.Body, len(meta.Bodies))
	for i, r := range meta.Bodies {
		bodies[i] = r.Body()
	}
	b.WriteString(st.Field("energy", fmt.Sprintf("%.6g J", physics.Energy(bodies))) + "\n")

	b.WriteString("\n" + st.Separator(60) + "\n")
	for i, body := range bodies {
		fmt.Fprintf(&b, "%3d  m=%-10.4g  p=(%.4g, %.4g, %.4g)  v=(%.4g, %.4g, %.4g)\n",
			i+1, body.Mass,
			body.Position.X, body.Position.Y, body.Position.Z,
			body.Velocity.X, body.Velocity.Y, body.Velocity.Z)
	}

	if len(meta.Metrics) > 0 {
		b.WriteString("\n" + st.Separator(60) + "\n")
		for _, name := range experiment.NewRegistry().ListMetrics() {
			if v, ok := meta.Metrics[name]; ok {
				b.WriteString(st.Field(name, fmt.Sprintf("%.6g", v)) + "\n")
			}
		}
	}

	b.WriteString("\n" + st.KeyHint.Render(meta.Command))
	fmt.Println(st.Panel.Render(b.String()))
	return nil
}

func parsePair(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return nil, fmt.Errorf("pair %q: expected one or two body indices", s)
	}
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("pair %q: %w", s, err)
		}
		if v < 1 || v > n {
			return nil, fmt.Errorf("pair %q: body %d out of range 1-%d", s, v, n)
		}
		out[i] = v - 1
	}
	return out, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	idx, err := parsePair(pair, frames.Bodies())
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("frames: %d\n\n", len(frames))

	if len(idx) == 1 {
		caption := fmt.Sprintf("distance of body %d from origin (m)", idx[0]+1)
		fmt.Println(viz.PlotSeries(viz.Radii(frames, idx[0]), caption, plotWidth, plotHeight))
		return nil
	}
	fmt.Println(viz.DistancePlot(frames, idx[0], idx[1], plotWidth, plotHeight))
	return nil
}

func viewRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewPlayer(meta.ID, frames, meta.Bounds, viz.GetTheme(themeName)), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if outFile != "" {
		return storage.ExportJSON(outFile, *meta, frames)
	}
	return storage.WriteJSON(os.Stdout, *meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	plane, err := export.ParsePlane(svgPlane)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	svg := export.TracksToSVG(frames, meta.Bounds, plane, svgSize, svgSize)
	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func listPresets(cmd *cobra.Command, args []string) error {
	theme := viz.Themes[0]
	fmt.Println(viz.GradientText("presets", theme.Secondary, theme.Primary))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tFRAMES\tDT")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%d\t%gs\n", name, p.Bodies, p.Frames, p.Dt)
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	fmt.Printf("benchmarking %d steps\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "BODIES\tWORKERS\tTIME\tSTEPS/SEC\n")

	for _, n := range benchBodies {
		cfg := config.DefaultConfig()
		cfg.Bodies = n
		cfg.Seed = 42
		bodies, err := experiment.New(cfg).Resolve()
		if err != nil {
			return err
		}

		for _, wk := range []int{1, benchWorkers} {
			integ, err := registry.GetIntegrator(experiment.DefaultIntegrator, wk)
			if err != nil {
				return err
			}

			work := dynamo.CloneBodies(bodies)
			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				if err := integ.Step(work, config.DefaultDt); err != nil {
					return err
				}
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, wk, elapsed, float64(benchSteps)/elapsed.Seconds())
			if benchWorkers == 1 {
				break
			}
		}
	}

	return w.Flush()
}
