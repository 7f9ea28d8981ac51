package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type AnalyzeHandler struct {
	analyzer services.AnalyzerService
}

func NewAnalyzeHandler(analyzer services.AnalyzerService) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer: analyzer,
	}
}

func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := decodeJSONBody(c, &req); err != nil {
		return respondError(c, apperrors.Validation("HTTP request does not contain valid JSON data"))
	}

	if strings.TrimSpace(req.ResumeText) == "" {
		return respondError(c, apperrors.ValidationField("resumeText", "resumeText is required"))
	}

	result, err := h.analyzer.Analyze(c.UserContext(), req.ResumeText, req.JDData)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
