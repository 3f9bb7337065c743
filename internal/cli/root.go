// Package cli implements the pagectl command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/navigation"
	"github.com/dgallion1/pagewright/internal/parser"
)

var version = "dev"

var wordsPerPage int

var rootCmd = &cobra.Command{
	Use:   "pagectl",
	Short: "Paginate, watch and export documents",
	Long: `pagectl splits documents into pages of roughly equal word count.
Input may be plain text, Markdown, HTML, CSV, PDF or DOCX.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&wordsPerPage, "words-per-page", "w", navigation.DefaultWordsPerPage,
		fmt.Sprintf("page budget in words (%d-%d)", navigation.MinWordsPerPage, navigation.MaxWordsPerPage))
}

// Execute runs the root command. ctx is handed to long-running commands.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadDocument parses a file into block markup.
func loadDocument(path string) (doctree.Document, error) {
	p, err := parser.ForFile(path)
	if err != nil {
		return doctree.Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return doctree.Document{}, err
	}
	defer f.Close()

	doc, err := p.Parse(f, path)
	if err != nil {
		return doctree.Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func budget() int {
	return navigation.ClampWordsPerPage(wordsPerPage)
}
