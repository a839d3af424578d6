package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/gofd/internal/model"
	"github.com/spf13/cobra"
)

var modelInputs inputs

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Show which named values were detected as nodes and elements",
	Long: `Scan the nodes and elements files and report which named value was
taken as the node table and which as the element table, in what form,
and which other candidates matched or were rejected.

Values are scanned in name order and the first one with a matching shape
wins. Accepted shapes:
  nodes:    {node_id: [x, y, z]}      or  [[node_id, x, y, z], ...]
  elements: {elem_id: [node_i, node_j]} or  [[elem_id, node_i, node_j], ...]

Examples:
  gofd model -n nodes.yaml -e elements.yaml`,
	RunE: runModel,
}

func init() {
	rootCmd.AddCommand(modelCmd)
	addModelFlags(modelCmd, &modelInputs)
}

func runModel(cmd *cobra.Command, args []string) error {
	nb, err := model.LoadBundle("nodes", modelInputs.nodes)
	if err != nil {
		return err
	}
	eb, err := model.LoadBundle("elements", modelInputs.elements)
	if err != nil {
		return err
	}

	m, rep, err := model.Normalize(nb, eb, model.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     MODEL DETECTION")
	fmt.Println("═══════════════════════════════════════════════════════════════")

	printDetection(nb, rep.Nodes)
	printDetection(eb, rep.Elements)

	nodeIDs, elemIDs := m.NodeIDs(), m.ElementIDs()
	fmt.Println()
	fmt.Println("MODEL:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Nodes:\t%d\t%s\n", len(nodeIDs), idRange(nodeIDs))
	fmt.Fprintf(w, "  Elements:\t%d\t%s\n", len(elemIDs), idRange(elemIDs))
	fmt.Fprintf(w, "  Span:\t%.4g\t\n", m.Span())
	w.Flush()
	fmt.Println()
	return nil
}

func printDetection(b *model.Bundle, d *model.Detection) {
	fmt.Println()
	fmt.Printf("%s (%s):\n", strings.ToUpper(b.Name), b.Source)
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Detected:\t%s\n", d.Name)
	fmt.Fprintf(w, "  Form:\t%s\n", d.Matcher.Expected())
	fmt.Fprintf(w, "  Values scanned:\t%s\n", strings.Join(b.Names(), ", "))
	if d.Ambiguous() {
		fmt.Fprintf(w, "  Also matching:\t%s\n", strings.Join(d.Matches[1:], ", "))
	}
	for _, r := range d.Rejected {
		fmt.Fprintf(w, "  Rejected %s:\t%s\n", r.Name, r.Reason)
	}
	w.Flush()
}

func idRange(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	return fmt.Sprintf("ids %d..%d", ids[0], ids[len(ids)-1])
}
