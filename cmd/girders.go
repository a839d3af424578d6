package cmd

import (
	"fmt"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/gofd/internal/config"
	"github.com/alexiusacademia/gofd/internal/diagram"
	"github.com/alexiusacademia/gofd/internal/girder"
	"github.com/alexiusacademia/gofd/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	girdersInputs          inputs
	girdersOutputs         outputs
	girdersGroups          []string
	girdersAxis            string
	girdersCheckContinuity bool
	girdersWorkers         int
	girdersScales          map[string]string
	girdersAutoScale       float64
	girdersAzimuth         float64
	girdersElevation       float64
	girdersHTML            bool
)

var girdersCmd = &cobra.Command{
	Use:   "girders",
	Short: "Draw 3D force diagrams over several girders",
	Long: `Reconstruct the node path of every girder from its element chain and
offset each node along the displacement axis by scale × force. One
projected 3D figure is written per configured diagram (SFD from Vy and
BMD from Mz by default), showing the undisplaced frame, the displaced
polyline and the connectors between them.

Files are written as task2_3d_<diagram>.<format> in the output directory,
plus task2_3d_<diagram>.html interactive pages with --html.

Examples:
  gofd girders -n nodes.yaml -e elements.yaml -d forces.yaml
  gofd girders -n nodes.yaml -e elements.yaml -d forces.yaml --scale BMD=0.01,SFD=0.05
  gofd girders -n nodes.yaml -e elements.yaml -d forces.yaml --auto-scale 0.15 --workers 4
  gofd girders -n nodes.yaml -e elements.yaml -d forces.yaml --html
  gofd girders -n nodes.yaml -e elements.yaml -d forces.yaml --group "Edge=13,22,31" --group "Middle=15,24,33"`,
	RunE: runGirders,
}

func init() {
	rootCmd.AddCommand(girdersCmd)

	addModelFlags(girdersCmd, &girdersInputs)
	addDatasetFlag(girdersCmd, &girdersInputs)

	// Girder definition
	girdersCmd.Flags().StringArrayVarP(&girdersGroups, "group", "g", nil, `Girder as "Name=id,id,..." in chain order (repeatable, replaces config groups)`)
	girdersCmd.Flags().StringVar(&girdersAxis, "axis", "", "Displacement axis: x, y or z")
	girdersCmd.Flags().BoolVar(&girdersCheckContinuity, "check-continuity", false, "Reject chains whose consecutive elements do not share a node")
	girdersCmd.Flags().IntVarP(&girdersWorkers, "workers", "w", 0, "Build girders concurrently with this many workers")

	// Scaling
	girdersCmd.Flags().StringToStringVar(&girdersScales, "scale", nil, "Scale per diagram, e.g. BMD=0.01,SFD=0.05")
	girdersCmd.Flags().Float64Var(&girdersAutoScale, "auto-scale", 0, "Draw the largest force as this fraction of the model span (0 = off)")

	// View
	girdersCmd.Flags().Float64Var(&girdersAzimuth, "azimuth", 0, "View azimuth in degrees")
	girdersCmd.Flags().Float64Var(&girdersElevation, "elevation", 0, "View elevation in degrees")
	girdersCmd.Flags().BoolVar(&girdersHTML, "html", false, "Also write interactive 3D pages")

	addOutputFlags(girdersCmd, &girdersOutputs)
}

func runGirders(cmd *cobra.Command, args []string) error {
	gc, err := girdersConfig(cmd)
	if err != nil {
		return err
	}
	spec, err := gc.Spec()
	if err != nil {
		return err
	}
	out, err := girdersOutputs.resolve()
	if err != nil {
		return err
	}

	m, rep, err := girdersInputs.loadModel()
	if err != nil {
		return err
	}
	ds, err := girdersInputs.loadDataset()
	if err != nil {
		return err
	}

	diagrams, err := girder.BuildPaths(m, ds, spec)
	if err != nil {
		return err
	}
	logger.Info("girder diagrams built",
		zap.Int("groups", len(spec.Groups)),
		zap.Int("diagrams", len(diagrams)),
		zap.Int("workers", spec.Workers))

	view := diagram.View{Azimuth: gc.View.Azimuth, Elevation: gc.View.Elevation, Up: spec.Axis}

	var written []string
	for k, dc := range gc.Diagrams {
		if dc.AutoScale > 0 {
			sf := girder.AutoScale(&diagrams[k], m, dc.AutoScale)
			diagrams[k] = girder.Rescale(&diagrams[k], sf)
			logger.Info("automatic scale", zap.String("diagram", dc.Name), zap.Float64("scale", sf))
		}

		file := diagram.Filename(out.dir, "task2_3d_"+dc.Name, out.format)
		if err := diagram.ExportPathDiagram(&diagrams[k], dc.TitleFor(""), view, file, canvas()); err != nil {
			return fmt.Errorf("error exporting %s: %w", dc.Name, err)
		}
		logger.Debug("diagram written", zap.String("diagram", dc.Name), zap.String("file", file))
		written = append(written, file)

		if girdersHTML {
			page := diagram.Filename(out.dir, "task2_3d_"+dc.Name, "html")
			if err := diagram.ExportPathHTML(&diagrams[k], dc.TitleFor(""), page); err != nil {
				return fmt.Errorf("error exporting %s: %w", dc.Name, err)
			}
			written = append(written, page)
		}
	}

	printGirders(diagrams)

	if out.ascii {
		for k, dc := range gc.Diagrams {
			fmt.Print(diagram.DrawPathGraph(&diagrams[k], dc.TitleFor("")))
		}
	}

	extras, err := writeExtras(out,
		func(path string) error { return diagram.ExportWorkbook(nil, diagrams, path) },
		report.Summary{
			Title:   "3D Girder Force Diagrams",
			Sources: girdersInputs.sources(rep),
			Paths:   diagrams,
			Images:  written,
		})
	written = append(written, extras...)
	printWritten(written)
	return err
}

// girdersConfig applies the command line flags over the configured girders
func girdersConfig(cmd *cobra.Command) (config.GirdersConfig, error) {
	gc := cfg.Girders
	gc.Diagrams = append([]config.DiagramConfig(nil), gc.Diagrams...)
	flags := cmd.Flags()

	if flags.Changed("group") {
		gc.Groups = nil
		for _, g := range girdersGroups {
			grp, err := parseGroup(g)
			if err != nil {
				return gc, err
			}
			gc.Groups = append(gc.Groups, grp)
		}
	}
	if flags.Changed("axis") {
		gc.DisplacementAxis = girdersAxis
	}
	if flags.Changed("check-continuity") {
		gc.CheckContinuity = girdersCheckContinuity
	}
	if flags.Changed("workers") {
		gc.Workers = girdersWorkers
	}
	if flags.Changed("azimuth") {
		gc.View.Azimuth = girdersAzimuth
	}
	if flags.Changed("elevation") {
		gc.View.Elevation = girdersElevation
	}

	for _, name := range slices.Sorted(maps.Keys(girdersScales)) {
		raw := girdersScales[name]
		i := findDiagram(gc.Diagrams, name)
		if i < 0 {
			return gc, fmt.Errorf("--scale: unknown diagram %q", name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return gc, fmt.Errorf("--scale %s: %w", name, err)
		}
		gc.Diagrams[i].Scale = &v
	}
	if flags.Changed("auto-scale") {
		if girdersAutoScale < 0 {
			return gc, fmt.Errorf("--auto-scale must not be negative")
		}
		for i := range gc.Diagrams {
			gc.Diagrams[i].AutoScale = girdersAutoScale
		}
	}

	if len(gc.Groups) == 0 {
		return gc, fmt.Errorf("no girders defined")
	}
	return gc, nil
}

// parseGroup parses "Name=13,22,31"
func parseGroup(s string) (config.GroupConfig, error) {
	name, list, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return config.GroupConfig{}, fmt.Errorf("--group %q: expected Name=id,id,...", s)
	}

	grp := config.GroupConfig{Name: name}
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		id, err := strconv.Atoi(f)
		if err != nil {
			return config.GroupConfig{}, fmt.Errorf("--group %q: element id %q is not an integer", s, f)
		}
		grp.Elements = append(grp.Elements, id)
	}
	if len(grp.Elements) == 0 {
		return config.GroupConfig{}, fmt.Errorf("--group %q: no element ids", s)
	}
	return grp, nil
}

func findDiagram(diagrams []config.DiagramConfig, name string) int {
	for i, d := range diagrams {
		if strings.EqualFold(d.Name, name) {
			return i
		}
	}
	return -1
}

func printGirders(diagrams []girder.PathDiagram) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     GIRDER DIAGRAMS")
	fmt.Println("═══════════════════════════════════════════════════════════════")

	for _, d := range diagrams {
		fmt.Println()
		fmt.Printf("%s (%s, scale %.4g, axis %s):\n", d.Kind.Name, d.Kind.Pair, d.Kind.Scale, d.Axis)
		fmt.Println("───────────────────────────────────────────────────────────────")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  Group\tNodes\tFirst node\tLast node\tMax |force|")
		for _, o := range d.Overlays {
			var peak float64
			for _, f := range o.Forces {
				peak = max(peak, math.Abs(f))
			}
			fmt.Fprintf(w, "  %s\t%d\t%d\t%d\t%.4g\n", o.Group, len(o.Nodes), o.Nodes[0], o.Nodes[len(o.Nodes)-1], peak)
		}
		w.Flush()
	}
}
