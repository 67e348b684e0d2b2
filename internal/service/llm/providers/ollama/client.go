package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dossier/internal/domain"
	domainllm "dossier/internal/domain/services/llm"
)

// DefaultBaseURL is the local Ollama daemon address.
const DefaultBaseURL = "http://localhost:11434"

const (
	defaultTimeout = 120 * time.Second
	backoffBase    = 500 * time.Millisecond
)

// Client talks to an Ollama daemon's generate endpoint. Transport
// failures are retried with exponential backoff; a missing model is
// reported immediately since retrying cannot help.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the daemon at baseURL. An empty
// baseURL selects the default local address.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: 3,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "ollama"
}

// SupportsModel returns true for any model; the daemon decides what it
// actually serves.
func (c *Client) SupportsModel(model string) bool {
	return model != ""
}

type generatePayload struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type generateResult struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Error           string `json:"error"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Complete sends one prompt to /api/generate and returns the model's
// text. Retries cover connection failures, 5xx responses and bodies
// that do not decode.
func (c *Client) Complete(ctx context.Context, req *domainllm.CompletionRequest) (*domainllm.CompletionResponse, error) {
	payload := generatePayload{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding generate request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := backoffBase << (attempt - 1)
			c.logger.Warn("retrying ollama request",
				"attempt", attempt,
				"wait", wait,
				"model", req.Model,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, retryable, err := c.generate(ctx, body)
		if err == nil {
			return resp, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// generate performs a single request. The second return value reports
// whether the failure is worth retrying.
func (c *Client) generate(ctx context.Context, body []byte) (*domainllm.CompletionResponse, bool, error) {
	endpoint := c.baseURL + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("building generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, &domain.TransportError{Endpoint: endpoint, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, true, &domain.TransportError{Endpoint: endpoint, Err: err}
	}

	var result generateResult
	if jsonErr := json.Unmarshal(raw, &result); jsonErr != nil && httpResp.StatusCode == http.StatusOK {
		// Malformed HTTP counts as a transport fault, same as a
		// dropped connection.
		return nil, true, &domain.TransportError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("undecodable response body: %w", jsonErr),
		}
	}

	switch {
	case httpResp.StatusCode == http.StatusOK && result.Error == "":
		return &domainllm.CompletionResponse{
			Text:         result.Response,
			Model:        result.Model,
			InputTokens:  result.PromptEvalCount,
			OutputTokens: result.EvalCount,
		}, false, nil

	case isModelNotFound(httpResp.StatusCode, result.Error):
		var req generatePayload
		_ = json.Unmarshal(body, &req)
		return nil, false, &domain.ModelUnavailableError{Model: req.Model}

	case httpResp.StatusCode >= 500:
		return nil, true, &domain.TransportError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("status %d: %s", httpResp.StatusCode, firstLine(result.Error, raw)),
		}

	default:
		return nil, false, &domain.TransportError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("status %d: %s", httpResp.StatusCode, firstLine(result.Error, raw)),
		}
	}
}

// isModelNotFound recognizes the daemon's "model not found" shape: a
// 404, or an error message naming a model that is not pulled.
func isModelNotFound(status int, errMsg string) bool {
	if errMsg == "" {
		return status == http.StatusNotFound
	}
	msg := strings.ToLower(errMsg)
	return status == http.StatusNotFound ||
		(strings.Contains(msg, "model") && strings.Contains(msg, "not found"))
}

func firstLine(errMsg string, raw []byte) string {
	s := errMsg
	if s == "" {
		s = string(raw)
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
