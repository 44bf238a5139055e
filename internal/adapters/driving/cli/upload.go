package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var uploadWatch bool

var uploadCmd = &cobra.Command{
	Use:   "upload [path]",
	Short: "Upload a PDF document for indexing",
	Long: `Uploads a PDF to the backend, which parses and vectorises it for
question answering. Only PDF files are accepted; anything else is
rejected before a request is made.

With --watch, the path is a directory that is monitored for new or
changed PDFs, each of which is uploaded automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadWatch, "watch", false, "watch a directory and upload new PDFs")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := requireDocumentService(); err != nil {
		return err
	}

	ctx := context.Background()
	progress := func(percent int) {
		fmt.Fprintf(cmd.OutOrStdout(), "\rUploading... %3d%%", percent)
	}

	if uploadWatch {
		return documentService.Watch(ctx, args[0], progress)
	}

	receipt, err := documentService.Upload(ctx, args[0], progress)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	cmd.Println()
	cmd.Printf("%s\n", receipt.Message)
	cmd.Printf("  %s: %d chunks in %.2fs\n", receipt.Filename, receipt.ChunksCount, receipt.ProcessingTime)
	return nil
}
