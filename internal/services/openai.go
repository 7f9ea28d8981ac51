package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	// Timeout bounds each attempt, not the whole retry cycle.
	Timeout time.Duration
	// ProbeStructuredOutput checks once whether the endpoint accepts
	// response_format=json_object and drops it when it does not.
	ProbeStructuredOutput bool
	Retry                 RetryPolicy
	HTTPClient            *http.Client
}

type openAIClient struct {
	cfg        OpenAIConfig
	httpClient *http.Client

	probeOnce  sync.Once
	structured bool
}

func NewOpenAIClient(cfg OpenAIConfig) ModelClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 180 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryPolicy()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &openAIClient{
		cfg:        cfg,
		httpClient: httpClient,
		structured: true,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openAIClient) Name() string {
	return "openai/" + c.cfg.Model
}

// Complete implements ModelClient.
func (c *openAIClient) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	if c.cfg.ProbeStructuredOutput {
		// The check outlives the first caller; send bounds it with cfg.Timeout.
		c.probeOnce.Do(func() { c.probeStructuredOutput(context.WithoutCancel(ctx)) })
	}

	req := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	if c.structured {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var content string
	err := c.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		resp, err := c.send(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return &LLMError{Kind: LLMErrorServer, Body: "response contained no choices"}
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}

	return content, nil
}

// probeStructuredOutput sends a tiny json_object request. Any failure turns
// structured mode off for the lifetime of the client.
func (c *openAIClient) probeStructuredOutput(ctx context.Context) {
	_, err := c.send(ctx, chatCompletionRequest{
		Model:          c.cfg.Model,
		Messages:       []chatMessage{{Role: "user", Content: "Reply with an empty JSON object."}},
		MaxTokens:      5,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		log.Printf("⚠️ Structured output not available for %s, falling back to plain text: %v", c.cfg.Model, err)
		c.structured = false
	}
}

func (c *openAIClient) send(ctx context.Context, body chatCompletionRequest) (*chatCompletionResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		llmErr := classifyStatus(resp.StatusCode, string(payload))
		log.Printf("❌ Model API returned %d: %s", resp.StatusCode, llmErr.Body)
		return nil, llmErr
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, &LLMError{Kind: LLMErrorServer, StatusCode: resp.StatusCode, Body: truncateForLog(string(payload), maxErrorBodyChars), Cause: err}
	}

	return &result, nil
}
