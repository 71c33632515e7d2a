package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pwalczak/flashdeck/internal/logger"
	"github.com/pwalczak/flashdeck/internal/models"
)

// Client issues JSON requests against the flashdeck REST API. Any non-2xx
// response fails with a generic error; there are no retries and no
// status-specific handling, failures propagate to the caller as-is.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logger.Default().WithPrefix("client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("request: %s %s", method, url)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("request error: %s %s: %v", method, url, err)
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("response: %s %s: status=%d in %v", method, url, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body for the log, then fail generically.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error("request failed: %s %s: status=%d, body=%s", method, url, resp.StatusCode, string(snippet))
		return fmt.Errorf("request failed: %s %s: status %d", method, url, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Error("failed to decode response: %v", err)
		return err
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// ListFlashcards fetches one page of flashcards. Values are forwarded to
// the server without client-side validation.
func (c *Client) ListFlashcards(ctx context.Context, page, pageSize int) (*models.FlashcardList, error) {
	var list models.FlashcardList
	path := fmt.Sprintf("/api/flashcards?page=%d&pageSize=%d", page, pageSize)
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateFlashcard creates a flashcard and returns the stored record with
// its server-assigned id and timestamps.
func (c *Client) CreateFlashcard(ctx context.Context, cmd models.CreateFlashcardCommand) (*models.Flashcard, error) {
	var card models.Flashcard
	if err := c.post(ctx, "/api/flashcards", cmd, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// UpdateFlashcard applies a partial update and returns the updated record.
func (c *Client) UpdateFlashcard(ctx context.Context, id string, cmd models.UpdateFlashcardCommand) (*models.Flashcard, error) {
	var card models.Flashcard
	if err := c.patch(ctx, "/api/flashcards/"+id, cmd, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteFlashcard deletes a flashcard.
func (c *Client) DeleteFlashcard(ctx context.Context, id string) error {
	return c.delete(ctx, "/api/flashcards/"+id)
}
