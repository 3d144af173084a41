package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"ats-backend/internal/llm"
	"ats-backend/internal/shared/telemetry"
)

const (
	maxAttempts = 3

	defaultTemperature = 0.4
	defaultNumPredict  = 400
)

// Client implements llm.Client against a locally hosted Ollama endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client

	// after is swapped out in tests so backoff does not slow the suite.
	after func(time.Duration) <-chan time.Time
}

// NewClient constructs an Ollama client with a bounded per-request timeout.
func NewClient(baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("OLLAMA_URL is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("OLLAMA_MODEL is required")
	}
	if timeout <= 0 {
		timeout = 600 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		after:      time.After,
	}, nil
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// errEmptyResponse marks a 2xx reply with no generated text. It is treated
// as transient and follows the timeout-retry path.
var errEmptyResponse = errors.New("empty response from llm")

type attemptTimeoutError struct {
	err error
}

func (e attemptTimeoutError) Error() string { return "llm request timeout: " + e.err.Error() }
func (e attemptTimeoutError) Unwrap() error { return e.err }

// Generate sends the prompt and returns the model's response text.
//
// Timeouts and empty responses are retried up to maxAttempts total with
// exponential backoff (1s, 2s). Connection failures are not retried; HTTP
// 404 and 500 map to model errors, other statuses to a service error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", llm.ErrEmptyPrompt
	}

	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: defaultTemperature,
			NumPredict:  defaultNumPredict,
		},
	})
	if err != nil {
		return "", err
	}

	for attempt := 1; ; attempt++ {
		text, err := c.generateOnce(ctx, payload)
		if err == nil {
			return text, nil
		}
		if !isTransient(err) {
			return "", err
		}

		telemetry.Error("llm.generate.transient", map[string]any{
			"attempt": attempt,
			"model":   c.model,
			"err":     err.Error(),
		})
		if attempt >= maxAttempts {
			return "", &llm.TimeoutError{Attempts: maxAttempts, Model: c.model}
		}

		backoff := time.Duration(1<<(attempt-1)) * time.Second
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-c.after(backoff):
		}
	}
}

func (c *Client) generateOnce(ctx context.Context, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", attemptTimeoutError{err: err}
		}
		return "", &llm.UnavailableError{URL: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", &llm.ModelError{Kind: llm.ModelNotFound, Model: c.model}
	case resp.StatusCode == http.StatusInternalServerError:
		return "", &llm.ModelError{Kind: llm.ModelInternal, Model: c.model}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &llm.ServiceError{Status: resp.StatusCode}
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		if errors.Is(err, io.EOF) {
			return "", errEmptyResponse
		}
		return "", fmt.Errorf("decode llm response: %w", err)
	}
	if strings.TrimSpace(parsed.Response) == "" {
		return "", errEmptyResponse
	}
	return parsed.Response, nil
}

func isTransient(err error) bool {
	if errors.Is(err, errEmptyResponse) {
		return true
	}
	var at attemptTimeoutError
	return errors.As(err, &at)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout")
}

var _ llm.Client = (*Client)(nil)
