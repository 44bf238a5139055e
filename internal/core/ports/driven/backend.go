package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

// ChatBackend opens the streaming answer channel of the Q&A backend.
//
// The returned stream multiplexes two logical channels over one byte
// sequence: free-form answer tokens, then the literal metadata
// sentinel, then one JSON metadata document. Decoding is the caller's
// concern; the backend adapter only moves bytes.
type ChatBackend interface {
	// AskStream submits a question together with the prior
	// conversation and returns the raw response body to consume.
	// The caller owns the stream and must close it. One attempt per
	// call: implementations never retry.
	//
	// history must contain only committed user/assistant messages,
	// in conversation order.
	AskStream(ctx context.Context, question string, history []domain.Message) (io.ReadCloser, error)
}

// DocumentBackend uploads documents to the backend and lists what it
// has already processed.
type DocumentBackend interface {
	// Upload sends one file as a multipart request. size is the
	// total payload length used to derive progress percentages.
	// progress may be nil.
	Upload(ctx context.Context, filename string, file io.Reader, size int64, progress domain.ProgressFunc) (*domain.UploadReceipt, error)

	// Documents lists the processed documents.
	Documents(ctx context.Context) ([]domain.DocumentInfo, error)

	// Chunks lists the stored retrieval chunks. Debug surface.
	Chunks(ctx context.Context) ([]domain.Chunk, error)
}
