package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	Retry       RetryPolicy
	// BaseURL overrides the Gemini endpoint; empty uses the SDK default.
	BaseURL string
}

type geminiClient struct {
	client *genai.Client
	cfg    GeminiConfig
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (ModelClient, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
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

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiClient{client: client, cfg: cfg}, nil
}

func (g *geminiClient) Name() string {
	return "gemini/" + g.cfg.Model
}

// Complete implements ModelClient.
func (g *geminiClient) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	temperature := g.cfg.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   int32(g.cfg.MaxTokens),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	var text string
	err := g.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()

		resp, err := g.client.Models.GenerateContent(attemptCtx, g.cfg.Model, genai.Text(prompt), config)
		if err != nil {
			return classifyGeminiError(ctx, err)
		}
		if resp == nil {
			return &LLMError{Kind: LLMErrorServer, Body: "no response generated (nil response)"}
		}

		text = resp.Text()
		if strings.TrimSpace(text) == "" {
			return &LLMError{Kind: LLMErrorServer, Body: "no text content in response"}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

func classifyGeminiError(ctx context.Context, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			// Gemini answers rejected keys with 403 as well as 401
			return &LLMError{Kind: LLMErrorAuth, StatusCode: apiErr.Code, Body: truncateForLog(apiErr.Message, maxErrorBodyChars)}
		}
		llmErr := classifyStatus(apiErr.Code, apiErr.Message)
		log.Printf("❌ Gemini API returned %d: %s", apiErr.Code, llmErr.Body)
		return llmErr
	}
	return classifyTransportError(ctx, err)
}
