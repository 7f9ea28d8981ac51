package services

import (
	"context"
	"errors"
	"log"
	"strings"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
)

type AnalyzerService interface {
	Analyze(ctx context.Context, resumeText string, jd map[string]any) (models.AnalysisResult, error)
}

type analyzerService struct {
	model         ModelClient
	promptBuilder *PromptBuilder
	cache         AnalysisCache
}

// NewAnalyzerService wires the analysis pipeline. cache may be nil.
func NewAnalyzerService(model ModelClient, promptBuilder *PromptBuilder, cache AnalysisCache) AnalyzerService {
	return &analyzerService{
		model:         model,
		promptBuilder: promptBuilder,
		cache:         cache,
	}
}

// Analyze builds the prompt, asks the model and repairs its reply. A reply
// that is not JSON still succeeds as a degraded result.
func (a *analyzerService) Analyze(ctx context.Context, resumeText string, jd map[string]any) (models.AnalysisResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperrors.ValidationField("resumeText", "resumeText is required")
	}

	req := a.promptBuilder.BuildAnalysisRequest(resumeText, jd)
	prompt := a.promptBuilder.BuildAnalysisPrompt(req)
	cacheKey := AnalysisCacheKey(a.model.Name(), AnalysisSystemInstruction, prompt)

	if a.cache != nil {
		cached, found, err := a.cache.Get(ctx, cacheKey)
		if err != nil {
			log.Printf("⚠️ Analysis cache lookup failed: %v", err)
		} else if found {
			log.Println("✅ Analysis served from cache")
			return cached, nil
		}
	}

	log.Printf("🤖 Analyzing résumé (%d chars) with %s...", len([]rune(req.ResumeText)), a.model.Name())
	raw, err := a.model.Complete(ctx, prompt, AnalysisSystemInstruction)
	if err != nil {
		var llmErr *LLMError
		if errors.As(err, &llmErr) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeExternalService, llmErr.UserMessage())
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExternalService, "model API request failed")
	}

	result := ParseAnalysisResponse(raw)
	if result.IsDegraded() {
		log.Println("⚠️ Model reply was not valid JSON, returning raw analysis")
		return result, nil
	}

	if a.cache != nil {
		if err := a.cache.Set(ctx, cacheKey, result); err != nil {
			log.Printf("⚠️ Failed to cache analysis: %v", err)
		}
	}

	log.Println("✅ Analysis completed")
	return result, nil
}
