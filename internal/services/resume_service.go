package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// ResumeService stores an uploaded résumé and pulls its text out.
type ResumeService interface {
	Process(ctx context.Context, data []byte, contentType, fileName string) (models.StoredDocument, string, error)
}

type resumeService struct {
	blobs     BlobStore
	extractor TextExtractor
	container string
}

func NewResumeService(blobs BlobStore, extractor TextExtractor, container string) ResumeService {
	return &resumeService{
		blobs:     blobs,
		extractor: extractor,
		container: container,
	}
}

// Process sniffs the format, saves the bytes as <uuid><ext> and then extracts
// text. A blob whose text cannot be extracted is removed again.
func (s *resumeService) Process(ctx context.Context, data []byte, contentType, fileName string) (models.StoredDocument, string, error) {
	if len(data) == 0 {
		return models.StoredDocument{}, "", apperrors.Validation("no file found in request body")
	}

	kind := DetectDocumentKind(contentType, fileName)
	if kind == models.KindUnknown {
		return models.StoredDocument{}, "", apperrors.UnsupportedFormatf("unsupported file format: %s", contentType)
	}

	fileID := uuid.New().String()
	doc := models.StoredDocument{
		FileID:    fileID,
		FileName:  fileID + kind.Extension(),
		Container: s.container,
		Kind:      kind,
		Size:      len(data),
	}

	if err := s.blobs.Save(ctx, doc.Container, doc.FileName, data); err != nil {
		return models.StoredDocument{}, "", err
	}
	log.Printf("📄 Stored résumé %s/%s (%d bytes)", doc.Container, doc.FileName, doc.Size)

	text, err := s.extractor.Extract(ctx, data, kind)
	if err != nil {
		if delErr := s.blobs.Delete(context.WithoutCancel(ctx), doc.Container, doc.FileName); delErr != nil {
			log.Printf("⚠️ Failed to remove unreadable résumé %s/%s: %v", doc.Container, doc.FileName, delErr)
		}
		return models.StoredDocument{}, "", err
	}

	return doc, text, nil
}
