package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hireloop/hireloop-api/internal/dto"
	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/internal/repository"
)

// ErrInvalidDifficulty indicates an unknown difficulty value.
var ErrInvalidDifficulty = errors.New("invalid difficulty")

// QuestionService manages the coding question catalog.
type QuestionService interface {
	Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	Get(ctx context.Context, id uint) (dto.QuestionResponse, error)
	List(ctx context.Context, filter repository.QuestionFilter) (dto.QuestionListResponse, error)
	Update(ctx context.Context, id uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error)
	Delete(ctx context.Context, id uint) error
}

type questionService struct {
	questions repository.QuestionRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuestionService constructs the question catalog service.
func NewQuestionService(questions repository.QuestionRepository, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func toTestCases(payloads []dto.TestCasePayload) []models.TestCase {
	cases := make([]models.TestCase, 0, len(payloads))
	for _, payload := range payloads {
		cases = append(cases, models.TestCase{Input: payload.Input, Output: payload.Output})
	}
	return cases
}

func (s *questionService) Create(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	encoded, err := models.EncodeTestCases(toTestCases(payload.TestCases))
	if err != nil {
		return dto.QuestionResponse{}, fmt.Errorf("encode test cases: %w", err)
	}

	difficulty := payload.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	question := models.CodingQuestion{
		Title:       payload.Title,
		Description: payload.Description,
		Difficulty:  difficulty,
		TestCases:   encoded,
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, fmt.Errorf("create question: %w", err)
	}

	s.logger.Info().Uint("question_id", question.ID).Str("difficulty", question.Difficulty).Msg("question created")
	return dto.NewQuestionResponse(question, true), nil
}

func (s *questionService) Get(ctx context.Context, id uint) (dto.QuestionResponse, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}
	return dto.NewQuestionResponse(question, true), nil
}

func (s *questionService) List(ctx context.Context, filter repository.QuestionFilter) (dto.QuestionListResponse, error) {
	if filter.Difficulty != "" {
		switch filter.Difficulty {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		default:
			return dto.QuestionListResponse{}, fmt.Errorf("%w: %q", ErrInvalidDifficulty, filter.Difficulty)
		}
	}

	questions, total, err := s.questions.List(ctx, filter)
	if err != nil {
		return dto.QuestionListResponse{}, err
	}

	items := make([]dto.QuestionResponse, 0, len(questions))
	for _, question := range questions {
		// Listings omit test cases so candidates cannot scrape answers.
		items = append(items, dto.NewQuestionResponse(question, false))
	}

	return dto.QuestionListResponse{
		Questions: items,
		Total:     total,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}, nil
}

func (s *questionService) Update(ctx context.Context, id uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	if payload.Title != "" {
		question.Title = payload.Title
	}
	if payload.Description != nil {
		question.Description = *payload.Description
	}
	if payload.Difficulty != "" {
		question.Difficulty = payload.Difficulty
	}
	if len(payload.TestCases) > 0 {
		encoded, encodeErr := models.EncodeTestCases(toTestCases(payload.TestCases))
		if encodeErr != nil {
			return dto.QuestionResponse{}, fmt.Errorf("encode test cases: %w", encodeErr)
		}
		question.TestCases = encoded
	}

	if err := s.questions.Update(ctx, &question); err != nil {
		return dto.QuestionResponse{}, fmt.Errorf("update question: %w", err)
	}

	return dto.NewQuestionResponse(question, true), nil
}

func (s *questionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.questions.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}
	return s.questions.Delete(ctx, id)
}
