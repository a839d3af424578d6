package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var componentsInputs inputs

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List the force components of a dataset",
	Long: `Print the component axis of an element forces dataset and the
quantities that have both an _i and a _j component, i.e. those that can
be drawn as diagrams.

Examples:
  gofd components -d forces.yaml
  gofd components -d forces.xlsx`,
	RunE: runComponents,
}

func init() {
	rootCmd.AddCommand(componentsCmd)
	addDatasetFlag(componentsCmd, &componentsInputs)
}

func runComponents(cmd *cobra.Command, args []string) error {
	ds, err := componentsInputs.loadDataset()
	if err != nil {
		return err
	}

	comps := ds.Components()
	var quantities []string
	for _, c := range comps {
		q, ok := strings.CutSuffix(c, "_i")
		if ok && ds.HasComponent(q+"_j") {
			quantities = append(quantities, q)
		}
	}

	fmt.Println()
	fmt.Println("DATASET:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Source:\t%s\n", componentsInputs.dataset)
	fmt.Fprintf(w, "  Elements:\t%d\n", len(ds.Elements()))
	fmt.Fprintf(w, "  Components:\t%s\n", strings.Join(comps, ", "))
	fmt.Fprintf(w, "  Drawable:\t%s\n", strings.Join(quantities, ", "))
	w.Flush()
	fmt.Println()
	return nil
}
