package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
)

type JobDescriptionRepository interface {
	FindByID(ctx context.Context, id string) (*models.JobDescription, error)
	List(ctx context.Context, filter models.JDFilter) ([]models.JobDescription, error)
	Upsert(ctx context.Context, jd *models.JobDescription) error
	UpsertMany(ctx context.Context, jds []models.JobDescription) error
	Delete(ctx context.Context, id string) error
}

type jobDescriptionRepository struct {
	db *gorm.DB
}

func NewJobDescriptionRepository(db *gorm.DB) JobDescriptionRepository {
	return &jobDescriptionRepository{db: db}
}

// upsertClause replaces everything but created_at when the id already exists.
var upsertClause = clause.OnConflict{
	Columns:   []clause.Column{{Name: "id"}},
	DoUpdates: clause.AssignmentColumns([]string{"title", "category", "data", "updated_at"}),
}

// FindByID implements JobDescriptionRepository.
func (r *jobDescriptionRepository) FindByID(ctx context.Context, id string) (*models.JobDescription, error) {
	var jd models.JobDescription
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&jd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("job description %s not found", id)
		}

		return nil, apperrors.Wrap(err, apperrors.ErrCodeExternalService, "failed to find job description")
	}

	return &jd, nil
}

// List implements JobDescriptionRepository.
func (r *jobDescriptionRepository) List(ctx context.Context, filter models.JDFilter) ([]models.JobDescription, error) {
	var jds []models.JobDescription
	if err := listQuery(r.db.WithContext(ctx), filter).Find(&jds).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExternalService, "failed to list job descriptions")
	}

	return jds, nil
}

// Upsert implements JobDescriptionRepository.
func (r *jobDescriptionRepository) Upsert(ctx context.Context, jd *models.JobDescription) error {
	if err := r.db.WithContext(ctx).Clauses(upsertClause).Create(jd).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeExternalService, "failed to upsert job description")
	}

	return nil
}

// UpsertMany implements JobDescriptionRepository. Either every row lands or none does.
func (r *jobDescriptionRepository) UpsertMany(ctx context.Context, jds []models.JobDescription) error {
	if len(jds) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(upsertClause).CreateInBatches(jds, 100).Error
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeExternalService, fmt.Sprintf("failed to import %d job descriptions", len(jds)))
	}

	return nil
}

// Delete implements JobDescriptionRepository. Deleting a missing id is not an error.
func (r *jobDescriptionRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.JobDescription{}).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeExternalService, "failed to delete job description")
	}

	return nil
}

func listQuery(db *gorm.DB, filter models.JDFilter) *gorm.DB {
	query := db.Model(&models.JobDescription{})
	switch {
	case filter.ID != "":
		query = query.Where("id = ?", filter.ID)
	case filter.Category != "":
		query = query.Where("category = ?", filter.Category)
	}
	return query.Order("created_at ASC")
}
