package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hireloop/hireloop-api/internal/models"
)

// CandidateRepository reads candidate records referenced by submissions.
type CandidateRepository interface {
	GetByID(ctx context.Context, id uint) (models.Candidate, error)
}

// NewCandidateRepository constructs a read-only candidate repository.
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

type candidateRepository struct {
	db *gorm.DB
}

func (r *candidateRepository) GetByID(ctx context.Context, id uint) (models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).First(&candidate, id).Error; err != nil {
		return models.Candidate{}, err
	}
	return candidate, nil
}
