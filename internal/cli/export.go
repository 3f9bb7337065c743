package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pagewright/internal/export"
	"github.com/dgallion1/pagewright/internal/navigation"
	"github.com/dgallion1/pagewright/internal/pagination"
)

var (
	exportOutput     string
	exportHeader     string
	exportFooter     string
	exportFontSize   int
	exportFontFamily string
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a paginated document to PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default: input name with .pdf)")
	exportCmd.Flags().StringVar(&exportHeader, "header", "", "header text printed on every page")
	exportCmd.Flags().StringVar(&exportFooter, "footer", "", "footer template, e.g. 'Page {{pageNumber}} of {{totalPages}}'")
	exportCmd.Flags().IntVar(&exportFontSize, "font-size", navigation.DefaultFontSize, "body font size")
	exportCmd.Flags().StringVar(&exportFontFamily, "font-family", navigation.DefaultFontFamily, "font family")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	out := exportOutput
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pdf"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	pages := pagination.Paginate(doc.Content, budget())
	n, err := export.WritePDF(f, pages, export.Options{
		Title:            doc.Title,
		Header:           exportHeader,
		Footer:           exportFooter,
		ShowHeaderFooter: exportHeader != "" || exportFooter != "",
		FontSize:         exportFontSize,
		FontFamily:       exportFontFamily,
		Date:             time.Now(),
	})
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}
	cmd.Printf("wrote %d pages (%d sheets) to %s\n", len(pages), n, out)
	return nil
}
