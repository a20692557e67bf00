package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hireloop/hireloop-api/internal/models"
)

// QuestionResultUpdate carries the fields persisted when grading of one
// question attempt finishes.
type QuestionResultUpdate struct {
	Status          string
	Result          string
	TestCasesPassed int
	TotalTestCases  int
	ExecutionTimeMs int64
	MemoryUsedMB    float64
	ErrorMessage    string
	LastRun         datatypes.JSON
}

// SubmissionRepository exposes persistence helpers for assessment submissions.
// Question attempts are always addressed by (submission_id, question_id) so
// concurrent writers for different questions never touch each other's rows.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	FindByCandidateAndDrive(ctx context.Context, candidateID, driveID uint) (models.Submission, error)
	ListByCandidate(ctx context.Context, candidateID uint) ([]models.Submission, error)
	ListByDrive(ctx context.Context, driveID uint) ([]models.Submission, error)
	GetQuestion(ctx context.Context, submissionID, questionID uint) (models.QuestionSubmission, error)
	CountQuestions(ctx context.Context, submissionID uint) (int64, error)
	CreateQuestion(ctx context.Context, question *models.QuestionSubmission) error
	ResetQuestionAttempt(ctx context.Context, submissionID, questionID uint, sourceCode, language string, timeTaken, totalTestCases int) (int64, error)
	SetQuestionStatus(ctx context.Context, submissionID, questionID uint, status string) (int64, error)
	UpdateQuestionResult(ctx context.Context, submissionID, questionID uint, update QuestionResultUpdate) (int64, error)
	UpdateStatistics(ctx context.Context, submissionID uint, solved int, score float64, totalTime int) error
	MarkFinalSubmitted(ctx context.Context, submissionID uint, submittedAt time.Time) error
}

// NewSubmissionRepository constructs a submission repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

type submissionRepository struct {
	db *gorm.DB
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		First(&submission, id).Error
	if err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) FindByCandidateAndDrive(ctx context.Context, candidateID, driveID uint) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		Where("candidate_id = ? AND drive_id = ?", candidateID, driveID).
		First(&submission).Error
	if err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) ListByCandidate(ctx context.Context, candidateID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) ListByDrive(ctx context.Context, driveID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_number ASC")
		}).
		Where("drive_id = ?", driveID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) GetQuestion(ctx context.Context, submissionID, questionID uint) (models.QuestionSubmission, error) {
	var question models.QuestionSubmission
	err := r.db.WithContext(ctx).
		Where("submission_id = ? AND question_id = ?", submissionID, questionID).
		First(&question).Error
	if err != nil {
		return models.QuestionSubmission{}, err
	}
	return question, nil
}

func (r *submissionRepository) CountQuestions(ctx context.Context, submissionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.QuestionSubmission{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) CreateQuestion(ctx context.Context, question *models.QuestionSubmission) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *submissionRepository) ResetQuestionAttempt(ctx context.Context, submissionID, questionID uint, sourceCode, language string, timeTaken, totalTestCases int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.QuestionSubmission{}).
		Where("submission_id = ? AND question_id = ?", submissionID, questionID).
		Updates(map[string]interface{}{
			"source_code":      sourceCode,
			"language":         language,
			"time_taken":       timeTaken,
			"total_test_cases": totalTestCases,
			"status":           models.SubmissionStatusPending,
			"result":           "",
			"error_message":    "",
			"updated_at":       time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

func (r *submissionRepository) SetQuestionStatus(ctx context.Context, submissionID, questionID uint, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.QuestionSubmission{}).
		Where("submission_id = ? AND question_id = ?", submissionID, questionID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

func (r *submissionRepository) UpdateQuestionResult(ctx context.Context, submissionID, questionID uint, update QuestionResultUpdate) (int64, error) {
	// error_message and last_run are written unconditionally: a run that
	// fails before producing a breakdown must not keep the previous run's
	// per-test-case JSON or error text attached to its terminal state.
	fields := map[string]interface{}{
		"status":            update.Status,
		"result":            update.Result,
		"test_cases_passed": update.TestCasesPassed,
		"total_test_cases":  update.TotalTestCases,
		"execution_time_ms": update.ExecutionTimeMs,
		"memory_used_mb":    update.MemoryUsedMB,
		"error_message":     update.ErrorMessage,
		"last_run":          update.LastRun,
		"updated_at":        time.Now().UTC(),
	}

	result := r.db.WithContext(ctx).
		Model(&models.QuestionSubmission{}).
		Where("submission_id = ? AND question_id = ?", submissionID, questionID).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *submissionRepository) UpdateStatistics(ctx context.Context, submissionID uint, solved int, score float64, totalTime int) error {
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]interface{}{
			"questions_solved": solved,
			"score_percentage": score,
			"total_time_taken": totalTime,
			"updated_at":       time.Now().UTC(),
		}).Error
}

func (r *submissionRepository) MarkFinalSubmitted(ctx context.Context, submissionID uint, submittedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", submissionID).
		Updates(map[string]interface{}{
			"status":       models.SubmissionStatusCompleted,
			"submitted_at": submittedAt,
			"updated_at":   time.Now().UTC(),
		}).Error
}
