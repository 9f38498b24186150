package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `List, inspect, or remove documents from the knowledge base.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document and its content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents in the knowledge base.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name:   %s\n", docs[i].DisplayName())
		cmd.Printf("    Kind:   %s\n", docs[i].Metadata.SourceKind)
		cmd.Printf("    Tokens: %d\n", docs[i].TokenCount())
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:       %s\n", doc.DisplayName())
	cmd.Printf("  Kind:       %s\n", doc.Metadata.SourceKind)
	if doc.SourceID != "" {
		cmd.Printf("  Source:     %s\n", doc.SourceID)
	}
	cmd.Printf("  Size:       %d bytes\n", doc.Metadata.SizeBytes)
	cmd.Printf("  Tokens:     %d\n", doc.TokenCount())
	cmd.Printf("  Dimensions: %d\n", len(doc.Embedding))
	cmd.Printf("  Added:      %s\n", doc.Metadata.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	removed, err := documentService.Remove(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	if !removed {
		cmd.Printf("No document with ID %s.\n", args[0])
		return nil
	}

	cmd.Printf("Removed document %s.\n", args[0])
	return nil
}
