package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hausweber/heatnet/pkg/geoio"
	"github.com/hausweber/heatnet/pkg/render"
)

// renderCommand creates the "render" command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		kind   string
		format string
		output string
		scale  float64
		labels bool
	)

	cmd := &cobra.Command{
		Use:   "render <result file>",
		Short: "Render a synthesis result as a plan or schematic",
		Long: `Render reads a result FeatureCollection produced by "heatnet synth" and
draws it either as a to-scale geometric plan or as a Graphviz schematic
of the network topology.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := geoio.ImportResultGeoJSON(args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch kind {
			case "plan":
				if format != "svg" {
					return fmt.Errorf("plan rendering supports only svg, got %q", format)
				}
				opts := []render.PlanOption{render.WithScale(scale)}
				if labels {
					opts = append(opts, render.WithLabels())
				}
				data = render.RenderPlanSVG(res, opts...)
			case "schematic":
				dot := render.ToDOT(res)
				switch format {
				case "dot":
					data = []byte(dot)
				case "svg":
					if data, err = render.RenderSVG(cmd.Context(), dot); err != nil {
						return err
					}
				case "png":
					if data, err = render.RenderPNG(cmd.Context(), dot); err != nil {
						return err
					}
				default:
					return fmt.Errorf("unknown format %q (svg, png, dot)", format)
				}
			default:
				return fmt.Errorf("unknown render type %q (plan, schematic)", kind)
			}

			path := output
			if path == "" {
				path = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + format
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			printSuccess("Rendered %s", kind)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "plan", "render type: plan or schematic")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png or dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: derived from input)")
	cmd.Flags().Float64Var(&scale, "scale", 10, "plan SVG units per meter")
	cmd.Flags().BoolVar(&labels, "labels", false, "label attachment points with terminal IDs")

	return cmd
}
