package services

import (
	"context"
	"fmt"
	"log"
	"os"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
)

type TextExtractor interface {
	Extract(ctx context.Context, data []byte, kind models.DocumentKind) (string, error)
}

type textExtractor struct {
	tempDir      string
	antiwordPath string
}

// NewTextExtractor creates an extractor that stages uploads as temporary
// files under tempDir ("" selects the OS default).
func NewTextExtractor(tempDir string) TextExtractor {
	return &textExtractor{
		tempDir:      tempDir,
		antiwordPath: "antiword",
	}
}

// Extract implements TextExtractor. Empty input yields empty text for every
// known kind; the staged file is removed before returning.
func (e *textExtractor) Extract(ctx context.Context, data []byte, kind models.DocumentKind) (string, error) {
	if kind == models.KindUnknown || kind.Extension() == "" {
		return "", apperrors.UnsupportedFormatf("unsupported document kind: %s", kind)
	}
	if len(data) == 0 {
		return "", nil
	}

	if kind.IsSpreadsheet() {
		kind = spreadsheetKindFromBytes(data, kind)
	}

	path, err := e.stage(data, kind)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to stage upload for extraction")
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to remove temp file %s: %v", path, err)
		}
	}()

	var text string
	switch kind {
	case models.KindPDF:
		text, err = extractPDFText(path)
	case models.KindDOCX:
		text, err = extractDOCXText(path)
	case models.KindDOC:
		text, err = extractDOCText(ctx, e.antiwordPath, path)
	case models.KindXLSX, models.KindXLS:
		text, err = renderWorkbook(path, kind)
	}
	if err != nil {
		return "", apperrors.Wrapf(err, apperrors.ErrCodeExtraction, "failed to extract %s text", kind)
	}

	return text, nil
}

func (e *textExtractor) stage(data []byte, kind models.DocumentKind) (string, error) {
	f, err := os.CreateTemp(e.tempDir, "upload-*"+kind.Extension())
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return f.Name(), nil
}
