package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Request holds the parameters for a completion call.
type Request struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// Response holds the result of a completion call.
type Response struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Client provides access to a language model for structured completions.
type Client interface {
	// Complete sends a prompt pair and returns the raw text response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Available reports whether the client is configured to reach the API.
	Available() bool
}

// backoffCap bounds a single retry delay.
const backoffCap = 10 * time.Second

// openaiClient implements Client using the OpenAI chat completions API.
type openaiClient struct {
	cfg      Config
	api      *openai.Client
	observer Observer
}

// NewOpenAIClient creates a Client backed by the OpenAI API. A custom
// BaseURL in cfg redirects calls, which tests use to stand in a local server.
func NewOpenAIClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return &openaiClient{
		cfg:      cfg,
		api:      openai.NewClientWithConfig(apiCfg),
		observer: observer,
	}
}

func (c *openaiClient) Available() bool {
	return c.cfg.Enabled && c.cfg.APIKey != ""
}

func (c *openaiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	apiReq := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: effectiveTemperature(temp),
		MaxTokens:   maxTok,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	used := 0

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(c.backoff(i)):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			break
		}

		used++
		resp, err := c.api.CreateChatCompletion(ctx, apiReq)
		if err == nil {
			if len(resp.Choices) == 0 {
				lastErr = fmt.Errorf("%w: response contained no choices", ErrInvalidOutput)
				break
			}
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(CallEvent{
				Task:      req.Task,
				Model:     resp.Model,
				Attempts:  used,
				LatencyMs: latency,
				Success:   true,
			})
			return &Response{
				Text:      strings.TrimSpace(resp.Choices[0].Message.Content),
				Model:     resp.Model,
				LatencyMs: latency,
			}, nil
		}
		lastErr = err

		if ctx.Err() != nil || !isRetryable(err) {
			break
		}
	}

	translated := c.translateErr(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		Task:      req.Task,
		Model:     c.cfg.Model,
		Attempts:  used,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(translated),
	})
	return nil, translated
}

// backoff returns the delay before retry attempt n (1-based): exponential
// growth from the configured base, capped, with up to 25% random jitter.
func (c *openaiClient) backoff(attempt int) time.Duration {
	d := time.Duration(c.cfg.BackoffBaseMs) * time.Millisecond << (attempt - 1)
	if d > backoffCap {
		d = backoffCap
	}
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}

func (c *openaiClient) translateErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
	if code, ok := httpStatus(err); ok {
		switch {
		case code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case code >= 500:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if errors.Is(err, ErrInvalidOutput) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, err)
}

// effectiveTemperature converts the configured value to the API field type.
// go-openai marshals Temperature with omitempty, so an exact zero would be
// dropped and the service would apply its default of 1; the smallest
// positive float stands in for zero.
func effectiveTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func isRetryable(err error) bool {
	if code, ok := httpStatus(err); ok {
		return code == http.StatusTooManyRequests || code >= 500
	}
	return isConnectionError(err)
}

func httpStatus(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrRateLimited):
		return "RATE_LIMITED"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
