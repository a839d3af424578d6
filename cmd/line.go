package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/gofd/internal/diagram"
	"github.com/alexiusacademia/gofd/internal/girder"
	"github.com/alexiusacademia/gofd/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	lineInputs      inputs
	lineOutputs     outputs
	lineName        string
	lineElementIDs  []int
	lineStationAxis string
)

var lineCmd = &cobra.Command{
	Use:   "line",
	Short: "Draw 2D force diagrams along one structural line",
	Long: `Sample every element of a structural line at both ends, sort the
samples by station and draw one diagram per configured component
(BMD from Mz, SFD from Vy by default).

Files are written as task1_<diagram>.<format> in the output directory.

Examples:
  gofd line -n nodes.yaml -e elements.yaml -d forces.yaml
  gofd line -n nodes.yaml -e elements.yaml -d forces.xlsx --ids 15,24,33 --ascii
  gofd line -n nodes.json -e elements.json -d forces.csv --station-axis z -f svg`,
	RunE: runLine,
}

func init() {
	rootCmd.AddCommand(lineCmd)

	addModelFlags(lineCmd, &lineInputs)
	addDatasetFlag(lineCmd, &lineInputs)

	// Line definition
	lineCmd.Flags().StringVar(&lineName, "name", "", "Name of the line (default from config: Central Girder)")
	lineCmd.Flags().IntSliceVar(&lineElementIDs, "ids", nil, "Element ids of the line, in any order")
	lineCmd.Flags().StringVar(&lineStationAxis, "station-axis", "", "Coordinate used as station: x, y or z")

	addOutputFlags(lineCmd, &lineOutputs)
}

func runLine(cmd *cobra.Command, args []string) error {
	lc := cfg.Line
	if cmd.Flags().Changed("name") {
		lc.Name = lineName
	}
	if cmd.Flags().Changed("ids") {
		lc.Elements = lineElementIDs
	}
	if cmd.Flags().Changed("station-axis") {
		lc.StationAxis = lineStationAxis
	}
	if len(lc.Elements) == 0 {
		return fmt.Errorf("%s: no elements", lc.Name)
	}

	spec, err := lc.Spec()
	if err != nil {
		return err
	}
	out, err := lineOutputs.resolve()
	if err != nil {
		return err
	}

	m, rep, err := lineInputs.loadModel()
	if err != nil {
		return err
	}
	ds, err := lineInputs.loadDataset()
	if err != nil {
		return err
	}

	d, err := girder.BuildLine(m, ds, spec)
	if err != nil {
		return err
	}
	logger.Info("line diagram built",
		zap.String("line", d.Name),
		zap.Int("elements", len(spec.Elements)),
		zap.Int("points", len(d.Stations)))

	var written []string
	for k, dc := range lc.Diagrams {
		file := diagram.Filename(out.dir, "task1_"+dc.Name, out.format)
		if err := diagram.ExportLineSeries(d, d.Series[k], dc.TitleFor(d.Name), file, canvas()); err != nil {
			return fmt.Errorf("error exporting %s: %w", dc.Name, err)
		}
		logger.Debug("diagram written", zap.String("diagram", dc.Name), zap.String("file", file))
		written = append(written, file)
	}

	printLine(d)

	if out.ascii {
		for k, dc := range lc.Diagrams {
			fmt.Print(diagram.DrawLineGraph(d, d.Series[k], dc.TitleFor(d.Name)))
		}
	}

	extras, err := writeExtras(out,
		func(path string) error { return diagram.ExportWorkbook(d, nil, path) },
		report.Summary{
			Title:   fmt.Sprintf("Force Diagrams: %s", d.Name),
			Sources: lineInputs.sources(rep),
			Line:    d,
			Images:  written,
		})
	written = append(written, extras...)
	printWritten(written)
	return err
}

func printLine(d *girder.LineDiagram) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     LINE DIAGRAM - %s\n", d.Name)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("STATIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "  Station (%s)\t", d.Axis)
	for _, s := range d.Series {
		fmt.Fprintf(w, "%s\t", s.Pair)
	}
	fmt.Fprintln(w)
	for i, station := range d.Stations {
		fmt.Fprintf(w, "  %.3f\t", station)
		for _, s := range d.Series {
			fmt.Fprintf(w, "%.4g\t", s.Values[i])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}
