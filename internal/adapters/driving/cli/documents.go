package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	documentsJSON   bool
	documentsChunks bool
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List the documents the backend has processed",
	RunE:  runDocuments,
}

func init() {
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")
	documentsCmd.Flags().BoolVar(&documentsChunks, "chunks", false, "list stored chunks instead of documents")
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if err := requireDocumentService(); err != nil {
		return err
	}

	ctx := context.Background()

	if documentsChunks {
		return outputChunks(ctx, cmd)
	}

	docs, err := documentService.Documents(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	if documentsJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded yet.")
		return nil
	}

	cmd.Println("Documents:")
	for _, doc := range docs {
		cmd.Printf("  %s  %d chunks  %s", doc.Filename, doc.ChunksCount, doc.Status)
		if doc.UploadDate != "" {
			cmd.Printf("  (%s)", doc.UploadDate)
		}
		cmd.Println()
	}
	return nil
}

func outputChunks(ctx context.Context, cmd *cobra.Command) error {
	chunks, err := documentService.Chunks(ctx)
	if err != nil {
		return fmt.Errorf("list chunks: %w", err)
	}

	if documentsJSON {
		data, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chunks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("%d chunks:\n", len(chunks))
	for _, chunk := range chunks {
		cmd.Printf("  %s  page %d  %s\n", chunk.ID, chunk.Page, excerpt(chunk.Content, 80))
	}
	return nil
}
