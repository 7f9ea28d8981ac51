package services

import (
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var (
	spreadsheetTokens = []string{"spreadsheetml", "excel", "sheet", "xlsx", "xls"}
	wordTokens        = []string{"wordprocessingml", "document", "docx", "doc", "msword"}
)

// DetectDocumentKind classifies an upload from its declared content type,
// falling back to the suffix of the filename hint. Matching is by lower-cased
// substring; the OOXML mime types never contain "xlsx" or "docx" literally so
// their "spreadsheetml" and "wordprocessingml" markers select the modern kinds.
func DetectDocumentKind(contentType, filenameHint string) models.DocumentKind {
	ct := strings.ToLower(contentType)

	switch {
	case strings.Contains(ct, "pdf"):
		return models.KindPDF
	case containsAny(ct, spreadsheetTokens):
		if containsAny(ct, []string{"xlsx", "spreadsheetml"}) {
			return models.KindXLSX
		}
		return models.KindXLS
	case containsAny(ct, wordTokens):
		if containsAny(ct, []string{"docx", "wordprocessingml"}) {
			return models.KindDOCX
		}
		return models.KindDOC
	}

	name := strings.ToLower(strings.TrimSpace(filenameHint))
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return models.KindPDF
	case strings.HasSuffix(name, ".docx"):
		return models.KindDOCX
	case strings.HasSuffix(name, ".xlsx"):
		return models.KindXLSX
	case strings.HasSuffix(name, ".xls"):
		return models.KindXLS
	case strings.HasSuffix(name, ".doc"):
		return models.KindDOC
	}

	return models.KindUnknown
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
