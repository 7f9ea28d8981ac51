package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const truncationMarker = "...(truncated)"

// AnalysisSystemInstruction frames the model for every analysis request.
const AnalysisSystemInstruction = "You are an expert recruiter and résumé analyst. " +
	"You compare a candidate's résumé against a job description and answer strictly with a single JSON object."

// PromptLimits caps how much of each input reaches the model, in characters.
// A non-positive limit disables truncation for that field.
type PromptLimits struct {
	ResumeMaxChars           int
	PositionMaxChars         int
	RequirementsMaxChars     int
	ResponsibilitiesMaxChars int
	QuestionCount            int
}

func DefaultPromptLimits() PromptLimits {
	return PromptLimits{
		ResumeMaxChars:           8000,
		PositionMaxChars:         1000,
		RequirementsMaxChars:     2000,
		ResponsibilitiesMaxChars: 2000,
		QuestionCount:            5,
	}
}

type PromptBuilder struct {
	limits PromptLimits
}

func NewPromptBuilder(limits PromptLimits) *PromptBuilder {
	if limits.QuestionCount < 1 {
		limits.QuestionCount = DefaultPromptLimits().QuestionCount
	}
	return &PromptBuilder{limits: limits}
}

// BuildAnalysisRequest cuts the résumé and the relevant JD fields down to
// their budgets. Fields missing from jd become empty strings.
func (pb *PromptBuilder) BuildAnalysisRequest(resumeText string, jd map[string]any) models.AnalysisRequest {
	return models.AnalysisRequest{
		ResumeText: truncateWithMarker(resumeText, pb.limits.ResumeMaxChars),
		JD: models.JDExcerpt{
			Position:         truncateRunes(jdField(jd, "position"), pb.limits.PositionMaxChars),
			Category:         truncateRunes(jdField(jd, "category"), pb.limits.PositionMaxChars),
			Requirements:     truncateRunes(jdField(jd, "requirements"), pb.limits.RequirementsMaxChars),
			Responsibilities: truncateRunes(jdField(jd, "responsibilities"), pb.limits.ResponsibilitiesMaxChars),
		},
	}
}

// BuildAnalysisPrompt renders the analysis prompt. Identical requests always
// produce identical prompts.
func (pb *PromptBuilder) BuildAnalysisPrompt(req models.AnalysisRequest) string {
	jdJSON, err := json.MarshalIndent(req.JD, "", "  ")
	if err != nil {
		// JDExcerpt only holds strings
		jdJSON = []byte("{}")
	}

	return fmt.Sprintf(`Analyze the following résumé against the job description and answer in JSON.

JOB DESCRIPTION:
%s

RÉSUMÉ:
%s

Produce exactly these keys:
1. "fit_assessment": an object with "score" (integer 0-100, how well the candidate fits the position) and "reason" (2-4 sentences).
2. "interview_questions": an array of exactly %d questions tailored to this candidate and position.
3. "follow_up_points": an array of 3-5 objects with "point" (something in the résumé worth probing) and "reason".
4. "missing_skills": an array of 3-5 objects with "skill" and "importance" ("high", "medium" or "low").
5. "work_history": an array of objects with "company", "role" and "period", most recent first.

Respond with JSON only, using this structure:
{
  "fit_assessment": {"score": 0, "reason": ""},
  "interview_questions": [""],
  "follow_up_points": [{"point": "", "reason": ""}],
  "missing_skills": [{"skill": "", "importance": "high"}],
  "work_history": [{"company": "", "role": "", "period": ""}]
}`, string(jdJSON), req.ResumeText, pb.limits.QuestionCount)
}

func jdField(jd map[string]any, key string) string {
	v, ok := jd[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// truncateRunes keeps at most limit characters.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// truncateWithMarker keeps the first limit characters and appends the
// truncation marker when anything was cut.
func truncateWithMarker(s string, limit int) string {
	cut := truncateRunes(s, limit)
	if len(cut) == len(s) {
		return s
	}
	return cut + truncationMarker
}

// truncateForLog shortens external payloads before they reach the log.
func truncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	return truncateRunes(s, limit)
}
