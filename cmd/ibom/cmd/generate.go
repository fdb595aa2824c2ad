package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LibrePCB/interactive-html-bom-go/pkg/kicad"
)

var (
	outputPath string

	titleOverride    string
	companyOverride  string
	revisionOverride string
	dateOverride     string

	darkMode      bool
	noSilkscreen  bool
	noFabrication bool
	noPads        bool

	userHeaderFile string
	userFooterFile string
	userJSFile     string
)

var generateCmd = &cobra.Command{
	Use:   "generate <board.kicad_pcb>",
	Short: "Generate an interactive BOM page from a board file",
	Long: `Parse a KiCad board file and write a self-contained interactive BOM
HTML page next to it. Title block metadata is taken from the board and can be
overridden per field.

Examples:
  ibom generate board.kicad_pcb
  ibom generate -o bom.html --dark board.kicad_pcb
  ibom generate --revision "B2" --date "2026-08-24" board.kicad_pcb`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "",
		"output HTML file (default: input path with .html extension)")

	generateCmd.Flags().StringVar(&titleOverride, "title", "", "override the board title")
	generateCmd.Flags().StringVar(&companyOverride, "company", "", "override the company name")
	generateCmd.Flags().StringVar(&revisionOverride, "revision", "", "override the revision")
	generateCmd.Flags().StringVar(&dateOverride, "date", "", "override the date")

	generateCmd.Flags().BoolVar(&darkMode, "dark", false, "use the dark viewer theme")
	generateCmd.Flags().BoolVar(&noSilkscreen, "no-silkscreen", false, "hide the silkscreen initially")
	generateCmd.Flags().BoolVar(&noFabrication, "no-fabrication", false, "hide the fabrication layer initially")
	generateCmd.Flags().BoolVar(&noPads, "no-pads", false, "hide pads initially")

	generateCmd.Flags().StringVar(&userHeaderFile, "user-header-file", "",
		"HTML file inserted at the top of the page")
	generateCmd.Flags().StringVar(&userFooterFile, "user-footer-file", "",
		"HTML file inserted at the bottom of the page")
	generateCmd.Flags().StringVar(&userJSFile, "user-js-file", "",
		"JavaScript file inserted into the page")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	boardPath := args[0]

	logger.Info("parsing board", zap.String("file", boardPath))
	board, err := kicad.ParseFile(boardPath)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", boardPath, err)
	}
	logger.Info("board parsed",
		zap.Int("footprints", len(board.Footprints)),
		zap.Int("tracks", len(board.Tracks)),
		zap.Int("nets", len(board.Nets)))

	if titleOverride != "" {
		board.Title = titleOverride
	}
	if companyOverride != "" {
		board.Company = companyOverride
	}
	if revisionOverride != "" {
		board.Revision = revisionOverride
	}
	if dateOverride != "" {
		board.Date = dateOverride
	}

	doc, err := kicad.Convert(board)
	if err != nil {
		return fmt.Errorf("failed to convert board: %w", err)
	}

	doc.DarkMode = darkMode
	doc.ShowSilkscreen = !noSilkscreen
	doc.ShowFabrication = !noFabrication
	doc.ShowPads = !noPads

	if doc.UserHeader, err = readOptional(userHeaderFile); err != nil {
		return err
	}
	if doc.UserFooter, err = readOptional(userFooterFile); err != nil {
		return err
	}
	if doc.UserJS, err = readOptional(userJSFile); err != nil {
		return err
	}

	html, err := doc.GenerateHTML()
	if err != nil {
		return fmt.Errorf("failed to generate BOM: %w", err)
	}

	out := outputPath
	if out == "" {
		out = strings.TrimSuffix(boardPath, filepath.Ext(boardPath)) + ".html"
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("BOM written", zap.String("file", out), zap.Int("bytes", len(html)))
	return nil
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
