package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type JDService interface {
	List(ctx context.Context, filter models.JDFilter) ([]models.JobDescription, error)
	Upsert(ctx context.Context, id string, data map[string]any) (*models.JobDescription, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, spreadsheet []byte) ([]models.JobDescription, error)
}

type jdService struct {
	repo repositories.JobDescriptionRepository
	now  func() time.Time
}

func NewJDService(repo repositories.JobDescriptionRepository) JDService {
	return &jdService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *jdService) List(ctx context.Context, filter models.JDFilter) ([]models.JobDescription, error) {
	return s.repo.List(ctx, filter)
}

// Upsert stores data under id, minting a new id when it is blank. The
// original creation time survives updates.
func (s *jdService) Upsert(ctx context.Context, id string, data map[string]any) (*models.JobDescription, error) {
	if data == nil {
		data = map[string]any{}
	}

	now := s.now()
	createdAt := now

	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.New().String()
	} else {
		existing, err := s.repo.FindByID(ctx, id)
		switch {
		case err == nil:
			createdAt = existing.CreatedAt
		case apperrors.IsNotFound(err):
		default:
			return nil, err
		}
	}

	jd := &models.JobDescription{
		ID:        id,
		Title:     jdField(data, "position"),
		Category:  jdField(data, "category"),
		Data:      data,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	if err := s.repo.Upsert(ctx, jd); err != nil {
		return nil, err
	}

	log.Printf("💾 Saved job description %s (%s)", jd.ID, jd.Title)
	return jd, nil
}

func (s *jdService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.ValidationField("id", "id is required to delete a job description")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("🗑️ Deleted job description %s", id)
	return nil
}

// Import parses a JD spreadsheet and stores every row with a fresh id. All
// rows share one timestamp and are written in a single transaction.
func (s *jdService) Import(ctx context.Context, spreadsheet []byte) ([]models.JobDescription, error) {
	rows, err := ParseJDSpreadsheet(spreadsheet)
	if err != nil {
		return nil, err
	}

	now := s.now()
	jds := make([]models.JobDescription, 0, len(rows))
	for _, row := range rows {
		jds = append(jds, models.JobDescription{
			ID:        uuid.New().String(),
			Title:     jdField(row, "position"),
			Category:  jdField(row, "category"),
			Data:      row,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.repo.UpsertMany(ctx, jds); err != nil {
		return nil, err
	}

	log.Printf("📥 Imported %d job descriptions", len(jds))
	return jds, nil
}
