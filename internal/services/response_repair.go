package services

import (
	"encoding/json"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// ParseAnalysisResponse never fails. It tries, in order: the whole reply as a
// JSON object, the span from the first '{' to the last '}', and finally wraps
// the raw reply under "raw_analysis".
func ParseAnalysisResponse(raw string) models.AnalysisResult {
	if obj, ok := decodeJSONObject(raw); ok {
		return obj
	}

	if candidate, ok := extractJSON(raw); ok {
		if obj, ok := decodeJSONObject(candidate); ok {
			return obj
		}
	}

	return models.AnalysisResult{models.RawAnalysisKey: raw}
}

func decodeJSONObject(text string) (models.AnalysisResult, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &obj); err != nil || obj == nil {
		return nil, false
	}
	return models.AnalysisResult(obj), true
}

// extractJSON returns the outermost brace-delimited span, which also strips
// markdown fences and chatter around the object.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
