package models

// JDExcerpt is the subset of a job description that goes into the prompt,
// already cut to its character budget.
type JDExcerpt struct {
	Position         string `json:"position"`
	Category         string `json:"category"`
	Requirements     string `json:"requirements"`
	Responsibilities string `json:"responsibilities"`
}

type AnalysisRequest struct {
	ResumeText string
	JD         JDExcerpt
}

// AnalysisResult is the model's reply as a JSON object. When the reply could
// not be parsed it holds a single "raw_analysis" key with the original text.
type AnalysisResult map[string]any

const RawAnalysisKey = "raw_analysis"

// IsDegraded reports whether the result is the raw-text fallback.
func (r AnalysisResult) IsDegraded() bool {
	if len(r) != 1 {
		return false
	}
	_, ok := r[RawAnalysisKey]
	return ok
}
