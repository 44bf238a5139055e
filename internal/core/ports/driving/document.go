package driving

import (
	"context"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

// DocumentService uploads documents and lists what the backend has
// processed.
type DocumentService interface {
	// Upload validates and sends one file. Non-PDF files fail with
	// domain.ErrUnsupportedFileType before any network call.
	// progress may be nil.
	Upload(ctx context.Context, path string, progress domain.ProgressFunc) (*domain.UploadReceipt, error)

	// Documents lists the processed documents.
	Documents(ctx context.Context) ([]domain.DocumentInfo, error)

	// Chunks lists the stored retrieval chunks.
	Chunks(ctx context.Context) ([]domain.Chunk, error)

	// Watch uploads PDFs as they appear in dir until ctx is
	// cancelled. Returns domain.ErrInvalidInput when no watcher is
	// configured.
	Watch(ctx context.Context, dir string, progress domain.ProgressFunc) error
}
