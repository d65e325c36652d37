package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/flashdeck/flashdeck/internal/deck"
)

// DefaultBaseURL points at a local development backend.
const DefaultBaseURL = "http://127.0.0.1:8000"

// maxErrorBody caps how much of an error response is carried in ErrStatus.
const maxErrorBody = 512

// HTTPClient talks to the flashcard backend over HTTP.
type HTTPClient struct {
	baseURL  string
	client   *http.Client
	validate *validator.Validate
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithBaseURL overrides the backend base URL.
func WithBaseURL(u string) HTTPOption {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the underlying http.Client. The default has a
// 30s timeout; Generate overrides the deadline through its context.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// NewHTTPClient creates a backend client.
func NewHTTPClient(opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:  DefaultBaseURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) Hand(ctx context.Context, deckID string, n int, order Order) ([]deck.Card, error) {
	if order == "" {
		order = OrderDoc
	}
	q := url.Values{}
	q.Set("deck_id", deckID)
	if n > 0 {
		q.Set("n", strconv.Itoa(n))
	} else {
		q.Set("n", "all")
	}
	q.Set("order", string(order))

	var cards []deck.Card
	if err := c.getJSON(ctx, "/api/flashcards/hand/", q, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *HTTPClient) TOC(ctx context.Context, deckID string) ([]deck.TOCEntry, error) {
	q := url.Values{}
	q.Set("deck_id", deckID)

	var entries []deck.TOCEntry
	if err := c.getJSON(ctx, "/api/flashcards/toc/", q, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (*BuildResult, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid generate request: %w", err)
	}

	body := &strings.Builder{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}
	if err := w.WriteField("deck_name", req.DeckName); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if err := w.WriteField("cards_wanted", strconv.Itoa(req.CardsWanted)); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if len(req.Allocations) > 0 {
		alloc, err := json.Marshal(req.Allocations)
		if err != nil {
			return nil, fmt.Errorf("marshal allocations: %w", err)
		}
		if err := w.WriteField("allocations", string(alloc)); err != nil {
			return nil, fmt.Errorf("build upload form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/flashcards/generate/", strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var result BuildResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ErrDecode{Err: err}
	}
	return &result, nil
}

// getJSON performs a GET against path with query q and decodes the 2xx
// response into out.
func (c *HTTPClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &ErrUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ErrDecode{Err: err}
	}
	return nil
}

// statusError drains a bounded slice of the error body for the message.
func statusError(resp *http.Response) *ErrStatus {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &ErrStatus{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
