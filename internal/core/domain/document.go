package domain

// UploadReceipt is the backend's response to a successful document
// upload. Field names mirror the upload endpoint's JSON payload.
type UploadReceipt struct {
	// Message is the human-readable status line.
	Message string `json:"message"`

	// Filename is the stored file name.
	Filename string `json:"filename"`

	// ChunksCount is how many chunks the document produced.
	ChunksCount int `json:"chunks_count"`

	// ProcessingTime is the server-side processing time in seconds.
	ProcessingTime float64 `json:"processing_time"`
}

// DocumentInfo describes one processed document on the backend.
type DocumentInfo struct {
	// Filename is the uploaded file name.
	Filename string `json:"filename"`

	// UploadDate is the backend's upload timestamp, passed through
	// as the raw string the backend emitted.
	UploadDate string `json:"upload_date"`

	// ChunksCount is how many chunks the document produced.
	ChunksCount int `json:"chunks_count"`

	// Status is the backend's processing status.
	Status string `json:"status"`
}

// Chunk is one stored retrieval unit, as exposed by the backend's
// debug listing.
type Chunk struct {
	// ID is the backend-assigned chunk identifier.
	ID string `json:"id"`

	// Content is the chunk text.
	Content string `json:"content"`

	// Page is the page the chunk was extracted from.
	Page int `json:"page"`

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any `json:"metadata"`
}
