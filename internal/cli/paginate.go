package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/pagewright/internal/doctree"
	"github.com/dgallion1/pagewright/internal/pagination"
)

var (
	paginateJSON bool
	paginatePage int
)

var paginateCmd = &cobra.Command{
	Use:   "paginate [file]",
	Short: "Split a document into pages",
	Long: `Splits a document into pages and prints one line per page.
With --page the markup of a single page is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runPaginate,
}

func init() {
	paginateCmd.Flags().BoolVar(&paginateJSON, "json", false, "output pages as JSON")
	paginateCmd.Flags().IntVarP(&paginatePage, "page", "p", 0, "print only this page's markup")
	rootCmd.AddCommand(paginateCmd)
}

func runPaginate(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	wpp := budget()

	if paginatePage != 0 {
		page, ok := pagination.PageContent(doc.Content, paginatePage, wpp)
		if !ok {
			return fmt.Errorf("page %d does not exist", paginatePage)
		}
		if paginateJSON {
			return outputJSON(cmd, page)
		}
		cmd.Println(page.Content)
		return nil
	}

	pages := pagination.Paginate(doc.Content, wpp)
	if paginateJSON {
		return outputJSON(cmd, pages)
	}
	outputPageTable(cmd, doc.Title, doc.Content, pages)
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pages: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputPageTable(cmd *cobra.Command, title, content string, pages []doctree.Page) {
	if title != "" {
		cmd.Println(title)
		cmd.Println()
	}
	for _, p := range pages {
		// Format: [N] words - preview
		cmd.Printf("[%d] %4d words  %s\n", p.ID, p.WordCount, p.Preview)
	}
	cmd.Println()
	cmd.Printf("%d pages, %d words, ~%d min read\n",
		len(pages), pagination.TotalWords(pages), pagination.ReadingTime(content, pagination.DefaultWordsPerMinute))
}
