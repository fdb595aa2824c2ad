package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LibrePCB/interactive-html-bom-go/pkg/ibom"
)

var (
	// Global flags
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ibom",
	Short: "Interactive HTML BOM generator for KiCad boards",
	Long: `Generates a single self-contained HTML page from a KiCad board file,
combining an interactive bill of materials with a rendered board view.

Examples:
  ibom generate board.kicad_pcb                      # Write board.html
  ibom generate -o out/bom.html board.kicad_pcb      # Choose the output path
  ibom generate --dark --title "Rev B" board.kicad_pcb`,
	Version: ibom.Version(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
