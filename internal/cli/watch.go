package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dgallion1/pagewright/internal/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-paginate a document every time it is saved",
	Long: `Watches a file and prints the page count after every write.
Each write counts as an edit and returns navigation to page 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}

	sess := session.New(session.Options{
		Title:        doc.Title,
		Content:      doc.Content,
		WordsPerPage: budget(),
	})

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	// Watch the directory; editors often replace files by rename.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	cmd.Printf("watching %s\n", args[0])
	printView(cmd, sess.View())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			doc, err := loadDocument(path)
			if err != nil {
				cmd.PrintErrf("reload failed: %v\n", err)
				continue
			}
			printView(cmd, sess.OnContentChange(doc.Content))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", args[0], err)
		}
	}
}

func printView(cmd *cobra.Command, v session.View) {
	cmd.Printf("%d pages, %d words, page %d/%d\n", v.TotalPages, v.TotalWords, v.CurrentPage, v.TotalPages)
}
