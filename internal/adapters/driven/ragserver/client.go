// Package ragserver provides the HTTP adapter for the FinQA backend.
// It implements the ChatBackend and DocumentBackend driven ports
// against the backend's /api endpoints.
package ragserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
	"github.com/custodia-labs/finqa-cli/internal/core/ports/driven"
)

// Ensure Client implements the interfaces.
var (
	_ driven.ChatBackend     = (*Client)(nil)
	_ driven.DocumentBackend = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout bounds uploads and listings (default: 120s). The chat
	// stream is exempt: answers may take arbitrarily long and the
	// protocol has no client-side read deadline.
	Timeout time.Duration
}

// Client talks to the FinQA backend over HTTP.
type Client struct {
	client  *http.Client // bounded requests: upload, listings
	stream  *http.Client // unbounded: the chat answer stream
	baseURL string
}

// chatRequest is the /api/chat request format.
type chatRequest struct {
	Question    string        `json:"question"`
	ChatHistory []chatMessage `json:"chat_history"`
}

// chatMessage is the chat history entry format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// documentsResponse is the /api/documents response format.
type documentsResponse struct {
	Documents []domain.DocumentInfo `json:"documents"`
}

// chunksResponse is the /api/chunks response format.
type chunksResponse struct {
	Chunks     []domain.Chunk `json:"chunks"`
	TotalCount int            `json:"total_count"`
}

// NewClient creates a new backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		stream:  &http.Client{},
		baseURL: cfg.BaseURL,
	}
}

// AskStream submits a question and returns the raw answer stream.
// The caller owns the returned body. One attempt, no retry.
func (c *Client) AskStream(ctx context.Context, question string, history []domain.Message) (io.ReadCloser, error) {
	reqBody := chatRequest{
		Question:    question,
		ChatHistory: make([]chatMessage, 0, len(history)),
	}
	for _, msg := range history {
		// Only committed user/assistant entries travel as history.
		if !msg.Role.IsValid() {
			continue
		}
		reqBody.ChatHistory = append(reqBody.ChatHistory, chatMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/chat",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("%w: chat endpoint returned status %d", domain.ErrTransport, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: chat endpoint returned status %d: %s", domain.ErrTransport, resp.StatusCode, string(body))
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, domain.ErrMissingBody
	}

	return resp.Body, nil
}

// Upload sends one file as a multipart request and reports progress
// as bytes written to the transport over the total payload length.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader, _ int64, progress domain.ProgressFunc) (*domain.UploadReceipt, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read upload payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	total := int64(body.Len())
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/upload",
		newProgressReader(&body, total, progress),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("%w: upload returned status %d", domain.ErrTransport, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: upload returned status %d: %s", domain.ErrTransport, resp.StatusCode, string(respBody))
	}

	var receipt domain.UploadReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}

	return &receipt, nil
}

// Documents lists the processed documents.
func (c *Client) Documents(ctx context.Context) ([]domain.DocumentInfo, error) {
	var out documentsResponse
	if err := c.getJSON(ctx, "/api/documents", &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// Chunks lists the stored retrieval chunks.
func (c *Client) Chunks(ctx context.Context) ([]domain.Chunk, error) {
	var out chunksResponse
	if err := c.getJSON(ctx, "/api/chunks", &out); err != nil {
		return nil, err
	}
	return out.Chunks, nil
}

// Ping validates the backend is reachable via its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: backend returned status %d", domain.ErrTransport, resp.StatusCode)
	}
	return nil
}

// getJSON performs a GET request and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("%w: %s returned status %d", domain.ErrTransport, path, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s returned status %d: %s", domain.ErrTransport, path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
