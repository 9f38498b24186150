package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var addName string

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add content to the knowledge base",
	Long: `Adds content for this session: inline text, a local file, or a
web page. For recurring ingestion from a directory or site, register
a source instead (see "ragman source").`,
}

var addTextCmd = &cobra.Command{
	Use:   "text [content]",
	Short: "Add inline text",
	Long: `Stores a block of text as a document. Reads stdin when no
argument is given, so content can be piped in.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAddText,
}

var addFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Add a local file",
	Long: `Reads, normalises, and stores a single file. Plaintext, markdown,
HTML, PDF, DOCX, and email formats are supported.`,
	Args: cobra.ExactArgs(1),
	RunE: runAddFile,
}

var addURLCmd = &cobra.Command{
	Use:   "url [address]",
	Short: "Add a web page",
	Long:  `Fetches a page and stores its readable content.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAddURL,
}

func init() {
	addTextCmd.Flags().StringVarP(&addName, "name", "t", "", "document name (default: first words of the text)")

	addCmd.AddCommand(addTextCmd)
	addCmd.AddCommand(addFileCmd)
	addCmd.AddCommand(addURLCmd)
	rootCmd.AddCommand(addCmd)
}

func runAddText(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var content string
	if len(args) > 0 {
		content = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		content = string(data)
	}

	doc, err := ingestService.IngestText(context.Background(), addName, content)
	if err != nil {
		return fmt.Errorf("failed to add text: %w", err)
	}

	cmd.Printf("Added document %s (%q, %d tokens)\n", doc.ID, doc.DisplayName(), doc.TokenCount())
	return nil
}

func runAddFile(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	doc, err := ingestService.IngestFile(context.Background(), path)
	if err != nil {
		return fmt.Errorf("failed to add file: %w", err)
	}

	cmd.Printf("Added document %s (%q, %d tokens)\n", doc.ID, doc.DisplayName(), doc.TokenCount())
	return nil
}

func runAddURL(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	doc, err := ingestService.IngestURL(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to add url: %w", err)
	}

	cmd.Printf("Added document %s (%q, %d tokens)\n", doc.ID, doc.DisplayName(), doc.TokenCount())
	return nil
}
