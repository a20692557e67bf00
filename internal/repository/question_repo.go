package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hireloop/hireloop-api/internal/models"
)

// QuestionFilter narrows catalog listings.
type QuestionFilter struct {
	Difficulty string
	Page       int
	PageSize   int
}

// QuestionRepository exposes persistence helpers for the coding question catalog.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.CodingQuestion) error
	GetByID(ctx context.Context, id uint) (models.CodingQuestion, error)
	List(ctx context.Context, filter QuestionFilter) ([]models.CodingQuestion, int64, error)
	Update(ctx context.Context, question *models.CodingQuestion) error
	Delete(ctx context.Context, id uint) error
}

// NewQuestionRepository constructs a question repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

type questionRepository struct {
	db *gorm.DB
}

func (r *questionRepository) Create(ctx context.Context, question *models.CodingQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.CodingQuestion, error) {
	var question models.CodingQuestion
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.CodingQuestion{}, err
	}
	return question, nil
}

func (r *questionRepository) List(ctx context.Context, filter QuestionFilter) ([]models.CodingQuestion, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CodingQuestion{})
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var questions []models.CodingQuestion
	err := query.
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&questions).Error
	return questions, total, err
}

func (r *questionRepository) Update(ctx context.Context, question *models.CodingQuestion) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.CodingQuestion{}, id).Error
}
