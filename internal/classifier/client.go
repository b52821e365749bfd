package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/csheth/nutriscout/internal/health"
)

const (
	// PredictPath is the classifier's only endpoint.
	PredictPath = "/predict"
	// DefaultEndpoint is where the classifier's development server listens.
	DefaultEndpoint = "http://localhost:5000"
)

// Config describes how to build a classifier client. A zero Timeout leaves
// requests unbounded.
type Config struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Request is the body sent to the classifier.
type Request struct {
	Ingredients string `json:"ingredients"`
}

// Client predicts a health rating for an ingredient list.
type Client interface {
	Predict(ctx context.Context, ingredients string) (health.Result, error)
	Endpoint() string
}

// New returns an HTTP client for the classifier at cfg.Endpoint.
func New(cfg Config) Client {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &httpClient{
		endpoint: endpoint,
		client:   pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: timeout}
}

type httpClient struct {
	endpoint string
	client   *http.Client
}

func (c *httpClient) Endpoint() string {
	return c.endpoint
}

// Predict sends one request. Failures are ErrTransport, *ServerError or
// ErrMalformedResponse; there are no retries.
func (c *httpClient) Predict(ctx context.Context, ingredients string) (health.Result, error) {
	buf, err := json.Marshal(Request{Ingredients: ingredients})
	if err != nil {
		return health.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+PredictPath, bytes.NewReader(buf))
	if err != nil {
		return health.Result{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return health.Result{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// A body cut short still leaves the status; the message is dropped.
		serverErr := &ServerError{StatusCode: resp.StatusCode, Status: resp.Status}
		if readErr == nil {
			serverErr.Message = errorField(body)
		}
		return health.Result{}, serverErr
	}
	if readErr != nil {
		return health.Result{}, fmt.Errorf("%w: read body: %w", ErrTransport, readErr)
	}
	return decodeResult(body)
}

// wireResult uses pointers so absent fields can be told apart from zero
// values.
type wireResult struct {
	Rating *float64 `json:"rating"`
	Level  *string  `json:"level"`
	Color  *string  `json:"color"`
}

func decodeResult(body []byte) (health.Result, error) {
	var parsed wireResult
	if err := json.Unmarshal(body, &parsed); err != nil {
		return health.Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	var missing []string
	if parsed.Rating == nil {
		missing = append(missing, "rating")
	}
	if parsed.Level == nil {
		missing = append(missing, "level")
	}
	if parsed.Color == nil {
		missing = append(missing, "color")
	}
	if len(missing) > 0 {
		return health.Result{}, fmt.Errorf("%w: missing %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}
	return health.Result{
		Rating: *parsed.Rating,
		Level:  *parsed.Level,
		Color:  *parsed.Color,
	}, nil
}

func errorField(body []byte) string {
	var parsed struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Error) == 0 {
		return ""
	}
	var message string
	if err := json.Unmarshal(parsed.Error, &message); err != nil {
		return ""
	}
	return message
}
