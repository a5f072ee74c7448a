package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hausweber/heatnet/pkg/geoio"
	"github.com/hausweber/heatnet/pkg/store"
	"github.com/hausweber/heatnet/pkg/synth"
)

type synthFlags struct {
	config    string
	osm       string
	output    string
	label     string
	threshold float64
	offsetX   float64
	offsetY   float64
	maxPrune  int
	noCache   bool
	storeRun  bool
}

// synthCommand creates the "synth" command, the main pipeline entry point.
func (c *CLI) synthCommand() *cobra.Command {
	var flags synthFlags

	cmd := &cobra.Command{
		Use:   "synth [scene file]",
		Short: "Synthesize a dual-pipe network topology from a street scene",
		Long: `Synth loads a street scene (JSON or GeoJSON) containing the street graph
and the building and generator terminals, runs the synthesis pipeline and
writes the resulting networks as a GeoJSON FeatureCollection.

With --osm the street graph is read from an OpenStreetMap XML extract
instead; the scene file then only supplies the terminals.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSynth(cmd.Context(), args, &flags)
		},
	}

	cmd.Flags().StringVar(&flags.config, "config", "", "TOML project file")
	cmd.Flags().StringVar(&flags.osm, "osm", "", "OSM XML street extract replacing the scene's graph")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output GeoJSON path (default: <scene>.result.geojson)")
	cmd.Flags().StringVar(&flags.label, "label", "", "label for the recorded run")
	cmd.Flags().Float64Var(&flags.threshold, "node-threshold", 0, "endpoint snap distance")
	cmd.Flags().Float64Var(&flags.offsetX, "offset-x", 0, "return network x offset")
	cmd.Flags().Float64Var(&flags.offsetY, "offset-y", 0, "return network y offset")
	cmd.Flags().IntVar(&flags.maxPrune, "max-prune-iterations", 0, "dead-end pruning pass cap")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the result cache")
	cmd.Flags().BoolVar(&flags.storeRun, "store", false, "record the run in the run history")

	return cmd
}

func (c *CLI) runSynth(ctx context.Context, args []string, flags *synthFlags) error {
	logger := loggerFromContext(ctx)

	var cfg *ProjectConfig
	if flags.config != "" {
		var err error
		if cfg, err = LoadProjectConfig(flags.config); err != nil {
			return err
		}
	}

	scenePath := ""
	if len(args) > 0 {
		scenePath = args[0]
	} else if cfg != nil {
		scenePath = cfg.Streets
	}
	if scenePath == "" && flags.osm == "" {
		return fmt.Errorf("no scene file given (argument, --osm or config streets)")
	}

	scene, err := loadScene(ctx, scenePath, flags.osm)
	if err != nil {
		return err
	}
	if cfg != nil {
		if err := mergeTerminalFiles(scene, cfg.Buildings, cfg.Generators); err != nil {
			return err
		}
	}
	logger.Info("scene loaded",
		"nodes", len(scene.Graph.Nodes()),
		"edges", len(scene.Graph.Edges()),
		"buildings", len(scene.Buildings),
		"generators", len(scene.Generators))

	opts := flags.options(cfg)

	runner := c.newRunner(flags.noCache)
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Synthesizing network topology...")
	spin.Start()
	prog := newProgress(logger)
	res, err := runner.Execute(ctx, scene.Graph, scene.Buildings, scene.Generators, opts)
	if err != nil {
		spin.StopWithError(fmt.Sprintf("Synthesis failed: %v", err))
		return err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Synthesized %d supply segments", res.Stats.SupplySegments))

	if !res.Stats.PruneConverged {
		printWarning("Dead-end pruning hit the iteration cap before converging")
	}

	outPath := flags.output
	if outPath == "" && cfg != nil {
		outPath = cfg.Output
	}
	if outPath == "" {
		outPath = defaultOutputPath(scenePath, flags.osm)
	}
	if err := writeResult(res.Result, outPath); err != nil {
		return err
	}

	printSuccess("Network written")
	printFile(outPath)
	printNetworkStats(res.Stats.SupplySegments+res.Stats.ReturnSegments, res.Stats.TotalLength, res.Cached)

	if flags.storeRun {
		if err := c.recordRun(ctx, flags.label, res, opts); err != nil {
			printWarning("Run not recorded: %v", err)
		}
	}
	return nil
}

func (f *synthFlags) options(cfg *ProjectConfig) synth.Options {
	var opts synth.Options
	if cfg != nil {
		opts = cfg.Synthesis.Options()
	}
	if f.threshold != 0 {
		opts.NodeThreshold = f.threshold
	}
	if f.offsetX != 0 || f.offsetY != 0 {
		opts.OffsetX = f.offsetX
		opts.OffsetY = f.offsetY
	}
	if f.maxPrune != 0 {
		opts.MaxPruneIterations = f.maxPrune
	}
	return opts
}

// loadScene reads the scene file and optionally swaps in an OSM street graph.
func loadScene(ctx context.Context, scenePath, osmPath string) (*geoio.Scene, error) {
	var scene *geoio.Scene
	if scenePath != "" {
		var err error
		if scene, err = importScene(scenePath); err != nil {
			return nil, err
		}
	} else {
		scene = &geoio.Scene{}
	}

	if osmPath != "" {
		g, err := geoio.ImportOSM(ctx, osmPath)
		if err != nil {
			return nil, err
		}
		scene.Graph = g
	}
	return scene, nil
}

func importScene(path string) (*geoio.Scene, error) {
	if strings.ToLower(filepath.Ext(path)) == ".geojson" {
		return geoio.ImportGeoJSON(path)
	}
	return geoio.ImportJSON(path)
}

// mergeTerminalFiles appends terminals from separate building and generator
// files configured in the project file. Each file is a scene on its own;
// only the matching terminal kind is taken from it.
func mergeTerminalFiles(scene *geoio.Scene, buildingsPath, generatorsPath string) error {
	if buildingsPath != "" {
		extra, err := importScene(buildingsPath)
		if err != nil {
			return err
		}
		scene.Buildings = append(scene.Buildings, extra.Buildings...)
	}
	if generatorsPath != "" {
		extra, err := importScene(generatorsPath)
		if err != nil {
			return err
		}
		scene.Generators = append(scene.Generators, extra.Generators...)
	}
	return nil
}

func defaultOutputPath(scenePath, osmPath string) string {
	base := scenePath
	if base == "" {
		base = osmPath
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".result.geojson"
}

func writeResult(res *synth.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return geoio.WriteResultGeoJSON(res, f)
}

func (c *CLI) recordRun(ctx context.Context, label string, res *synth.RunResult, opts synth.Options) error {
	s, err := newRunStore("")
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	rec := store.NewRunRecord(label, res.InputHash, opts, res.Stats)
	if err := s.Save(ctx, rec); err != nil {
		return err
	}
	printDetail("Run recorded as %s", rec.ID)
	return nil
}
