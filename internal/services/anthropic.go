package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

// LLMResponse is the result of one model call, with the usage metadata the
// prompt log persists.
type LLMResponse struct {
	Content          string
	Model            string
	InputTokens      int
	OutputTokens     int
	LatencyMS        int
	EstimatedCostUSD float64
}

type AnthropicClient interface {
	Call(ctx context.Context, system, userMessage, model string, maxTokens int) (*LLMResponse, error)
	DailyModel() string
	WeeklyModel() string
}

type anthropicClient struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	dailyModel  string
	weeklyModel string
	httpClient  *http.Client

	maxRetries int
}

func NewAnthropicClient(baseLog *logger.Logger) (AnthropicClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing ANTHROPIC_API_KEY")
	}

	baseURL := os.Getenv("ANTHROPIC_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	daily := os.Getenv("ANTHROPIC_DAILY_MODEL")
	if daily == "" {
		daily = "claude-sonnet-4-5-20250929"
	}
	weekly := os.Getenv("ANTHROPIC_WEEKLY_MODEL")
	if weekly == "" {
		weekly = "claude-opus-4-6"
	}

	timeoutSec := 120
	if v := os.Getenv("ANTHROPIC_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 4
	if v := os.Getenv("ANTHROPIC_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &anthropicClient{
		log:         baseLog.With("service", "AnthropicClient"),
		baseURL:     baseURL,
		apiKey:      apiKey,
		dailyModel:  daily,
		weeklyModel: weekly,
		httpClient:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries:  maxRetries,
	}, nil
}

func (c *anthropicClient) DailyModel() string  { return c.dailyModel }
func (c *anthropicClient) WeeklyModel() string { return c.weeklyModel }

// Pricing per million tokens. Unknown models are billed at the high end so
// the budget guard errs toward refusing, not overspending.
type modelPricing struct {
	Input  float64
	Output float64
}

var pricingTable = map[string]modelPricing{
	"claude-sonnet-4-5-20250929": {Input: 3.0, Output: 15.0},
	"claude-opus-4-6":            {Input: 15.0, Output: 75.0},
}

var fallbackPricing = modelPricing{Input: 15.0, Output: 75.0}

func EstimateCostUSD(model string, inputTokens, outputTokens int) float64 {
	p, ok := pricingTable[model]
	if !ok {
		p = fallbackPricing
	}
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1_000_000
}

type anthropicHTTPError struct {
	StatusCode int
	Body       string
}

func (e *anthropicHTTPError) Error() string {
	return fmt.Sprintf("anthropic http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	if code >= 500 && code <= 599 {
		return true
	}
	return false
}

func isRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true
		}
	}
	var httpErr *anthropicHTTPError
	if errors.As(err, &httpErr) {
		return isRetryableHTTP(httpErr.StatusCode)
	}
	return false
}

func jitterSleep(base time.Duration) time.Duration {
	// +/- 20%
	if base <= 0 {
		return 0
	}
	j := 0.2
	delta := base.Seconds() * j
	low := base.Seconds() - delta
	high := base.Seconds() + delta
	if low < 0 {
		low = 0
	}
	v := low + rand.Float64()*(high-low)
	return time.Duration(v * float64(time.Second))
}

type messagesRequest struct {
	Model     string            `json:"model"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
	Messages  []messagesMessage `json:"messages"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Call sends one message to the Messages API and returns the text content
// with usage stats.
func (c *anthropicClient) Call(ctx context.Context, system, userMessage, model string, maxTokens int) (*LLMResponse, error) {
	if model == "" {
		model = c.dailyModel
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	req := messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []messagesMessage{{Role: "user", Content: userMessage}},
	}

	start := time.Now()
	var resp messagesResponse
	if err := c.do(ctx, "POST", "/v1/messages", req, &resp); err != nil {
		return nil, err
	}
	latencyMS := int(time.Since(start).Milliseconds())

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	cost := EstimateCostUSD(model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	c.log.Info("LLM call finished",
		"model", model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"cost_usd", cost,
		"latency_ms", latencyMS,
	)

	return &LLMResponse{
		Content:          content.String(),
		Model:            model,
		InputTokens:      resp.Usage.InputTokens,
		OutputTokens:     resp.Usage.OutputTokens,
		LatencyMS:        latencyMS,
		EstimatedCostUSD: cost,
	}, nil
}

func (c *anthropicClient) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &anthropicHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *anthropicClient) do(ctx context.Context, method, path string, body any, out any) error {
	// exponential backoff: 1s, 2s, 4s, 8s (cap ~10s)
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("anthropic decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !isRetryableErr(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		// Respect Retry-After when present
		sleepFor := backoff
		if resp != nil {
			ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
			if ra != "" {
				if secs, parseErr := strconv.Atoi(ra); parseErr == nil && secs > 0 {
					sleepFor = time.Duration(secs) * time.Second
				}
			}
		}

		if sleepFor > 10*time.Second {
			sleepFor = 10 * time.Second
		}
		sleepFor = jitterSleep(sleepFor)

		c.log.Warn("Anthropic request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
