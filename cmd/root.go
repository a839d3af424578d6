package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/gofd/internal/config"
	"github.com/alexiusacademia/gofd/internal/logging"
	"github.com/alexiusacademia/gofd/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	logLevel   string
	logFormat  string

	// set by PersistentPreRunE for every subcommand
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "gofd",
	Short: "Force diagrams from frame analysis results",
	Long: `gofd - Go Force Diagrams

A CLI tool that turns the element end forces of a 3D frame analysis
into shear force and bending moment diagrams.

The structural model is read from two files holding named values
(nodes and elements, YAML or JSON); the table names are detected from
their shape. Element forces are read from a YAML, JSON, CSV or XLSX
dataset with one sample per element and component (Vy_i, Mz_j, ...).

  - line     2D diagrams along one structural line
  - girders  3D diagrams drawn over several girders
  - model    show which named values were detected as nodes and elements
  - components  list the force components of a dataset`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gofd v%-50s║\n", version.Version)
		fmt.Println("  ║   Go Force Diagrams                                       ║")
		fmt.Printf("  ║   %-56s║\n", fmt.Sprintf("%s ©  %s", version.Author, version.Year))
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  Shear force and bending moment diagrams from")
		fmt.Println("  per-element analysis results.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Station-sorted 2D diagrams along a structural line")
		fmt.Println("    • 3D girder diagrams with scaled displacement")
		fmt.Println("    • Automatic detection of node and element tables")
		fmt.Println("    • PNG, SVG, PDF, XLSX and terminal output")
		fmt.Println()
		fmt.Println("  Use 'gofd --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML or JSON configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
}

// setup loads the configuration and builds the logger. Flags given on the
// command line win over the configuration file and environment.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		c.LogFormat = logFormat
	}

	l, err := logging.New(c.LogLevel, c.LogFormat)
	if err != nil {
		return err
	}

	cfg, logger = c, l
	logger.Debug("configuration loaded", zap.Strings("sources", cfg.LoadedFrom))
	return nil
}
