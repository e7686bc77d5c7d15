package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/time/rate"
)

// ChatProviderConfig configures the chat-completions translation provider.
type ChatProviderConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	// RequestsPerSecond caps outbound calls; zero disables the limiter.
	RequestsPerSecond float64
}

// ChatProvider implements Provider on top of an OpenAI-compatible
// chat-completions endpoint.
type ChatProvider struct {
	baseURL     string
	apiKey      string
	model       string
	httpClient  *http.Client
	limiter     *rate.Limiter
	retryConfig RetryConfig
	logger      *slog.Logger
}

// NewChatProvider creates a provider with a tuned transport and the default
// retry policy.
func NewChatProvider(cfg ChatProviderConfig) *ChatProvider {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &ChatProvider{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter:     limiter,
		retryConfig: DefaultRetryConfig(),
		logger:      slog.Default().With("component", "chat_provider"),
	}
}

// DetectLanguage asks the model for the ISO 639-1 code and a confidence.
func (p *ChatProvider) DetectLanguage(ctx context.Context, text string) (Detection, error) {
	prompt := fmt.Sprintf(
		"Identify the language of the following text. Answer with the ISO 639-1 code "+
			"and a confidence between 0 and 1, separated by a space, nothing else.\n\n%s",
		text)

	answer, err := p.complete(ctx, prompt)
	if err != nil {
		return Detection{}, err
	}
	return parseDetection(answer)
}

// Translate translates text into the target language.
func (p *ChatProvider) Translate(ctx context.Context, text string, target language.Tag) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following text to %s. Output only the translation.\n\n%s",
		display.English.Languages().Name(target), text)

	answer, err := p.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// complete sends one chat completion with retries and exponential backoff.
func (p *ChatProvider) complete(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.NewString()

	payload, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := p.baseURL + "/chat/completions"

	var lastErr error
	delay := p.retryConfig.InitialDelay

	for attempt := 0; attempt <= p.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Warn("retrying provider call",
				"request_id", requestID,
				"attempt", attempt,
				"max_retries", p.retryConfig.MaxRetries,
				"delay", delay)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * p.retryConfig.BackoffMultiplier)
			if delay > p.retryConfig.MaxDelay {
				delay = p.retryConfig.MaxDelay
			}
		}

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limiter: %w", err)
			}
		}

		answer, err := p.doRequest(ctx, url, payload, requestID)
		if err == nil {
			return answer, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("provider call failed after %d attempts: %w",
		p.retryConfig.MaxRetries+1, lastErr)
}

func (p *ChatProvider) doRequest(ctx context.Context, url string, payload []byte, requestID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("provider error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// parseDetection parses a "code confidence" answer such as "fr 0.93".
func parseDetection(answer string) (Detection, error) {
	parts := strings.Fields(strings.TrimSpace(answer))
	if len(parts) == 0 {
		return Detection{}, fmt.Errorf("empty detection answer")
	}

	tag, err := language.Parse(strings.ToLower(strings.Trim(parts[0], ".,")))
	if err != nil {
		return Detection{}, fmt.Errorf("unparseable language code %q: %w", parts[0], err)
	}

	confidence := 1.0
	if len(parts) > 1 {
		if c, err := strconv.ParseFloat(parts[1], 64); err == nil && c >= 0 && c <= 1 {
			confidence = c
		}
	}
	return Detection{Tag: tag, Confidence: confidence}, nil
}
