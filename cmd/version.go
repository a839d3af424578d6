package cmd

import (
	"fmt"

	"github.com/alexiusacademia/gofd/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gofd",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gofd v%s\n", version.Version)
		fmt.Println("Shear force and bending moment diagrams from frame analysis results")
		fmt.Printf("Commit: %s  Built: %s\n", version.GitCommit, version.BuildTime)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
