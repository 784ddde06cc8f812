package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"skill-gap/internal/config"
)

// Client sends a prompt to the generative-text service and returns the raw
// generated text. The text itself carries no format guarantee; callers
// repair-parse it downstream.
type Client interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

type httpGenerateClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *log.Logger
}

type generateRequest struct {
	Model       string  `json:"model,omitempty"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type generateResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// NewHTTPClient builds a client from config; nil when no base URL is set.
func NewHTTPClient(cfg config.LLMConfig, logger *log.Logger) Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &httpGenerateClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   strings.TrimSpace(cfg.Model),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *httpGenerateClient) Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("nil generative client")
	}
	endpoint := c.baseURL + "/generate"

	body := generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		if c.logger != nil {
			c.logger.Printf("LLM | generate error endpoint=%s status=%d body=%q", endpoint, resp.StatusCode, bodyStr)
		}
		return "", fmt.Errorf("generate failed: status=%d body=%s", resp.StatusCode, bodyStr)
	}

	var out generateResponse
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&out); err != nil {
		return "", fmt.Errorf("generate response decode: %w", err)
	}
	if strings.TrimSpace(out.Error) != "" {
		return "", fmt.Errorf("generate failed: %s", out.Error)
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", errors.New("generate returned empty text")
	}

	if c.logger != nil {
		c.logger.Printf("LLM | generate ok prompt_len=%d text_len=%d latency=%s", len(prompt), len(text), time.Since(start))
	}
	return text, nil
}

var _ Client = (*httpGenerateClient)(nil)
