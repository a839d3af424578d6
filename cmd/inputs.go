package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexiusacademia/gofd/internal/diagram"
	"github.com/alexiusacademia/gofd/internal/model"
	"github.com/alexiusacademia/gofd/internal/report"
	"github.com/alexiusacademia/gofd/internal/results"
	"github.com/alexiusacademia/gofd/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

// inputs are the model and dataset files shared by the diagram commands
type inputs struct {
	nodes    string
	elements string
	dataset  string
}

func addModelFlags(cmd *cobra.Command, in *inputs) {
	cmd.Flags().StringVarP(&in.nodes, "nodes", "n", "", "Path to the nodes file (YAML or JSON) [required]")
	cmd.Flags().StringVarP(&in.elements, "elements", "e", "", "Path to the elements file (YAML or JSON) [required]")
	cmd.MarkFlagRequired("nodes")
	cmd.MarkFlagRequired("elements")
}

func addDatasetFlag(cmd *cobra.Command, in *inputs) {
	cmd.Flags().StringVarP(&in.dataset, "dataset", "d", "", "Path to the element forces (yaml, json, csv, xlsx) [required]")
	cmd.MarkFlagRequired("dataset")
}

func (in *inputs) loadModel() (*model.Model, *model.Report, error) {
	m, rep, err := model.Load(in.nodes, in.elements, model.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("error loading model: %w", err)
	}
	logger.Info("model loaded",
		zap.String("nodes", rep.Nodes.Name),
		zap.String("elements", rep.Elements.Name),
		zap.Int("node_count", len(m.Nodes)),
		zap.Int("element_count", len(m.Elements)))
	return m, rep, nil
}

func (in *inputs) loadDataset() (*results.Dataset, error) {
	ds, err := results.Load(in.dataset)
	if err != nil {
		return nil, fmt.Errorf("error loading dataset: %w", err)
	}
	logger.Info("dataset loaded",
		zap.String("path", in.dataset),
		zap.Int("elements", len(ds.Elements())),
		zap.Strings("components", ds.Components()))
	return ds, nil
}

func (in *inputs) sources(rep *model.Report) []string {
	return []string{
		fmt.Sprintf("Nodes: %s (%s)", in.nodes, rep.Nodes.Name),
		fmt.Sprintf("Elements: %s (%s)", in.elements, rep.Elements.Name),
		fmt.Sprintf("Dataset: %s", in.dataset),
	}
}

// outputs are the destinations shared by the diagram commands. Empty
// values fall back to the configuration.
type outputs struct {
	dir    string
	format string
	ascii  bool
	xlsx   string
	report string
}

func addOutputFlags(cmd *cobra.Command, out *outputs) {
	cmd.Flags().StringVarP(&out.dir, "out", "o", "", "Output directory (default from config: outputs)")
	cmd.Flags().StringVarP(&out.format, "format", "f", "", "Image format: png, svg, pdf (default from config: png)")
	cmd.Flags().BoolVar(&out.ascii, "ascii", false, "Also print the diagrams as terminal graphs")
	cmd.Flags().StringVar(&out.xlsx, "xlsx", "", "Also export the diagram data to an Excel workbook")
	cmd.Flags().StringVar(&out.report, "report", "", "Also write a PDF report")
}

// resolve fills unset outputs from the configuration
func (out outputs) resolve() (outputs, error) {
	if out.dir == "" {
		out.dir = cfg.Output.Dir
	}
	if out.format == "" {
		out.format = cfg.Output.Format
	}
	out.format = strings.ToLower(strings.TrimPrefix(out.format, "."))
	if !slices.Contains(diagram.Formats, out.format) {
		return out, fmt.Errorf("unsupported image format %q (expected one of %s)", out.format, strings.Join(diagram.Formats, ", "))
	}
	return out, nil
}

func canvas() diagram.Canvas {
	return diagram.Canvas{
		Width:  vg.Length(cfg.Output.Width) * vg.Inch,
		Height: vg.Length(cfg.Output.Height) * vg.Inch,
	}
}

// writeExtras writes the optional workbook and report and returns the
// files written.
func writeExtras(out outputs, workbook func(string) error, summary report.Summary) ([]string, error) {
	var written []string
	if out.xlsx != "" {
		if err := workbook(out.xlsx); err != nil {
			return written, fmt.Errorf("error exporting workbook: %w", err)
		}
		written = append(written, out.xlsx)
	}
	if out.report != "" {
		summary.Generator = version.Generator()
		if err := report.Write(summary, out.report); err != nil {
			return written, fmt.Errorf("error writing report: %w", err)
		}
		written = append(written, out.report)
	}
	return written, nil
}

func printWritten(files []string) {
	fmt.Println()
	fmt.Print(writtenSummary(files))
	fmt.Println()
}

// writtenSummary boxes the numbered list of output files
func writtenSummary(files []string) string {
	lines := make([]string, 0, len(files)+1)
	for i, f := range files {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, f))
	}
	lines = append(lines, fmt.Sprintf("✓ %d file(s) written", len(files)))
	return diagram.DrawSummaryBox("OUTPUT FILES", lines)
}
