package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/finqa-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// acceptedExtension is the only document type the backend ingests.
const acceptedExtension = ".pdf"

// watchUploadsPerSecond throttles watch mode so an editor writing a
// file in bursts does not trigger a flood of uploads.
const watchUploadsPerSecond = 1

// DocumentService validates and uploads documents and exposes the
// backend's document listings.
type DocumentService struct {
	backend driven.DocumentBackend
	watcher driven.FileWatcher
	limiter *rate.Limiter
}

// NewDocumentService creates a new document service. watcher is
// optional; without it Watch is unavailable.
func NewDocumentService(backend driven.DocumentBackend, watcher driven.FileWatcher) *DocumentService {
	return &DocumentService{
		backend: backend,
		watcher: watcher,
		limiter: rate.NewLimiter(watchUploadsPerSecond, 1),
	}
}

// Upload validates and sends one file to the backend.
// Validation happens before any network call: a file whose extension
// is not .pdf never produces a request.
func (s *DocumentService) Upload(ctx context.Context, path string, progress domain.ProgressFunc) (*domain.UploadReceipt, error) {
	if !strings.EqualFold(filepath.Ext(path), acceptedExtension) {
		return nil, fmt.Errorf("%w: %s (only PDF files are supported)", domain.ErrUnsupportedFileType, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	logger.Section("Document Upload")
	logger.Debug("File: %s (%d bytes)", path, info.Size())

	receipt, err := s.backend.Upload(ctx, filepath.Base(path), f, info.Size(), progress)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}

	logger.Debug("Processed into %d chunks in %.2fs", receipt.ChunksCount, receipt.ProcessingTime)
	return receipt, nil
}

// Documents lists the processed documents.
func (s *DocumentService) Documents(ctx context.Context) ([]domain.DocumentInfo, error) {
	return s.backend.Documents(ctx)
}

// Chunks lists the stored retrieval chunks.
func (s *DocumentService) Chunks(ctx context.Context) ([]domain.Chunk, error) {
	return s.backend.Chunks(ctx)
}

// Watch uploads PDFs as they appear in dir until ctx is cancelled.
// Upload failures are logged and do not stop the watch; the next
// event gets its own attempt.
func (s *DocumentService) Watch(ctx context.Context, dir string, progress domain.ProgressFunc) error {
	if s.watcher == nil {
		return fmt.Errorf("%w: no file watcher configured", domain.ErrInvalidInput)
	}

	events, err := s.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("Watching %s for new PDF documents", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			if _, err := s.Upload(ctx, event.Path, progress); err != nil {
				logger.Warn("Watched upload failed: %v", err)
			}
		}
	}
}
