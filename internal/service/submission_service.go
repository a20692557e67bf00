package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hireloop/hireloop-api/internal/dto"
	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/internal/observability"
	"github.com/hireloop/hireloop-api/internal/repository"
	"github.com/hireloop/hireloop-api/pkg/ai"
	"github.com/hireloop/hireloop-api/pkg/judge"
)

// ErrSubmissionNotFound indicates the submission cannot be located.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrQuestionNotFound indicates the catalog question cannot be located.
var ErrQuestionNotFound = errors.New("coding question not found")

// ErrDriveNotFound indicates the hiring drive cannot be located.
var ErrDriveNotFound = errors.New("drive not found")

// ErrCandidateNotFound indicates the candidate cannot be located.
var ErrCandidateNotFound = errors.New("candidate not found")

// ErrNoQuestionsInDrive indicates the drive has no coding questions attached.
var ErrNoQuestionsInDrive = errors.New("drive has no coding questions")

// ErrNoTestCases indicates the question has no test cases to grade against.
var ErrNoTestCases = errors.New("question has no test cases")

// ErrEmptySourceCode indicates the submitted source code is blank.
var ErrEmptySourceCode = errors.New("source code is empty")

// ErrUnsupportedLanguage indicates the requested language is not allowed.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrReviewerUnavailable indicates no AI reviewer is configured.
var ErrReviewerUnavailable = errors.New("reviewer unavailable")

// ErrSubmissionOutOfSync indicates a store update matched zero rows, meaning
// the targeted record vanished underneath us.
var ErrSubmissionOutOfSync = errors.New("submission record out of sync")

// SubmissionService owns the submission lifecycle and grading orchestration.
type SubmissionService interface {
	CreateOrGet(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, bool, error)
	RunQuestion(ctx context.Context, payload dto.RunQuestionRequest) (dto.RunQuestionResponse, error)
	FinalSubmit(ctx context.Context, payload dto.FinalSubmitRequest) (dto.SubmissionStatisticsResponse, error)
	Get(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	Statistics(ctx context.Context, id uint) (dto.SubmissionStatisticsResponse, error)
	ListByCandidate(ctx context.Context, candidateID uint) ([]dto.SubmissionResponse, error)
	ListByDrive(ctx context.Context, driveID uint) ([]dto.SubmissionResponse, error)
	Feedback(ctx context.Context, id uint) (dto.SubmissionFeedbackResponse, error)
}

// SubmissionConfig carries the tunables of the submission service.
type SubmissionConfig struct {
	StatsCacheTTL time.Duration
}

type submissionService struct {
	submissions repository.SubmissionRepository
	questions   repository.QuestionRepository
	drives      repository.DriveRepository
	candidates  repository.CandidateRepository
	runner      TestRunner
	notifier    Notifier
	reviewer    ai.Reviewer
	cache       *redis.Client
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	questions repository.QuestionRepository,
	drives repository.DriveRepository,
	candidates repository.CandidateRepository,
	runner TestRunner,
	notifier Notifier,
	reviewer ai.Reviewer,
	cache *redis.Client,
	validate *validator.Validate,
	logger zerolog.Logger,
	cfg SubmissionConfig,
) SubmissionService {
	if cfg.StatsCacheTTL <= 0 {
		cfg.StatsCacheTTL = time.Minute
	}

	return &submissionService{
		submissions: submissions,
		questions:   questions,
		drives:      drives,
		candidates:  candidates,
		runner:      runner,
		notifier:    notifier,
		reviewer:    reviewer,
		cache:       cache,
		cacheTTL:    cfg.StatsCacheTTL,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/hireloop/hireloop-api/internal/service/submission"),
		now:         time.Now,
	}
}

func (s *submissionService) CreateOrGet(ctx context.Context, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, bool, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, false, err
	}

	submission, created, err := s.findOrCreate(ctx, payload.CandidateID, payload.DriveID)
	if err != nil {
		return dto.SubmissionResponse{}, false, err
	}

	return dto.NewSubmissionResponse(submission), created, nil
}

// findOrCreate resolves the single submission for a candidate/drive pair,
// creating it lazily. A concurrent duplicate insert loses the race at the
// unique index and is converted back into a lookup, so callers never see
// the conflict.
func (s *submissionService) findOrCreate(ctx context.Context, candidateID, driveID uint) (models.Submission, bool, error) {
	existing, err := s.submissions.FindByCandidateAndDrive(ctx, candidateID, driveID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Submission{}, false, fmt.Errorf("lookup submission: %w", err)
	}

	drive, err := s.drives.GetByID(ctx, driveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, false, ErrDriveNotFound
		}
		return models.Submission{}, false, fmt.Errorf("lookup drive: %w", err)
	}

	questionIDs, err := drive.QuestionIDs()
	if err != nil {
		return models.Submission{}, false, fmt.Errorf("decode drive questions: %w", err)
	}
	if len(questionIDs) < 1 {
		return models.Submission{}, false, ErrNoQuestionsInDrive
	}

	submission := models.Submission{
		CandidateID:    candidateID,
		DriveID:        driveID,
		TotalQuestions: len(questionIDs),
		Status:         models.SubmissionStatusPending,
		StartedAt:      s.now().UTC(),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := s.submissions.FindByCandidateAndDrive(ctx, candidateID, driveID)
			if lookupErr != nil {
				return models.Submission{}, false, fmt.Errorf("refetch after duplicate insert: %w", lookupErr)
			}
			return existing, false, nil
		}
		return models.Submission{}, false, fmt.Errorf("create submission: %w", err)
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("candidate_id", candidateID).
		Uint("drive_id", driveID).
		Int("total_questions", submission.TotalQuestions).
		Msg("submission created")

	return submission, true, nil
}

func (s *submissionService) RunQuestion(parent context.Context, payload dto.RunQuestionRequest) (dto.RunQuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RunQuestionResponse{}, err
	}

	if strings.TrimSpace(payload.SourceCode) == "" {
		return dto.RunQuestionResponse{}, ErrEmptySourceCode
	}

	languageID, err := judge.LanguageID(payload.Language)
	if err != nil {
		return dto.RunQuestionResponse{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, payload.Language)
	}

	question, err := s.questions.GetByID(parent, payload.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RunQuestionResponse{}, ErrQuestionNotFound
		}
		return dto.RunQuestionResponse{}, fmt.Errorf("lookup question: %w", err)
	}

	cases, err := question.DecodeTestCases()
	if err != nil {
		return dto.RunQuestionResponse{}, fmt.Errorf("decode test cases: %w", err)
	}
	if len(cases) == 0 {
		return dto.RunQuestionResponse{}, ErrNoTestCases
	}

	submission, _, err := s.findOrCreate(parent, payload.CandidateID, payload.DriveID)
	if err != nil {
		return dto.RunQuestionResponse{}, err
	}

	runCtx, span := s.tracer.Start(parent, "grading.run_question", trace.WithAttributes(
		attribute.Int64("submission.id", int64(submission.ID)),
		attribute.Int64("question.id", int64(payload.QuestionID)),
		attribute.String("language", payload.Language),
	))
	defer span.End()

	if err := s.upsertQuestionAttempt(runCtx, submission.ID, payload, len(cases)); err != nil {
		return dto.RunQuestionResponse{}, err
	}

	affected, err := s.submissions.SetQuestionStatus(runCtx, submission.ID, payload.QuestionID, models.SubmissionStatusRunning)
	if err != nil {
		return dto.RunQuestionResponse{}, fmt.Errorf("mark question running: %w", err)
	}
	if affected == 0 {
		observability.StoreInconsistencies().Inc()
		return dto.RunQuestionResponse{}, ErrSubmissionOutOfSync
	}

	// From here on the attempt row is live in the running state. Whatever
	// goes wrong next, the record must land in a terminal state rather
	// than staying stuck.
	defer func() {
		if rec := recover(); rec != nil {
			s.failQuestion(context.WithoutCancel(runCtx), submission.ID, payload.QuestionID, fmt.Errorf("panic during grading: %v", rec))
			panic(rec)
		}
	}()

	start := s.now()
	summary := s.runner.RunAll(runCtx, payload.SourceCode, languageID, cases)
	observability.GradingDuration().WithLabelValues(payload.Language).Observe(s.now().Sub(start).Seconds())

	lastRun, marshalErr := json.Marshal(summary.Results)
	if marshalErr != nil {
		s.logger.Warn().Err(marshalErr).Msg("failed to encode per-test-case breakdown")
		lastRun = nil
	}

	affected, err = s.submissions.UpdateQuestionResult(runCtx, submission.ID, payload.QuestionID, repository.QuestionResultUpdate{
		Status:          models.SubmissionStatusCompleted,
		Result:          summary.Result,
		TestCasesPassed: summary.TestCasesPassed,
		TotalTestCases:  summary.TotalTestCases,
		ExecutionTimeMs: summary.ExecutionTimeMs,
		MemoryUsedMB:    summary.MemoryUsedMB,
		ErrorMessage:    summary.ErrorMessage,
		LastRun:         datatypes.JSON(lastRun),
	})
	if err != nil {
		s.failQuestion(context.WithoutCancel(runCtx), submission.ID, payload.QuestionID, err)
		return dto.RunQuestionResponse{}, fmt.Errorf("persist question result: %w", err)
	}
	if affected == 0 {
		observability.StoreInconsistencies().Inc()
		return dto.RunQuestionResponse{}, ErrSubmissionOutOfSync
	}

	if err := s.refreshStatistics(runCtx, submission.ID); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to refresh submission statistics")
	}

	observability.GradingRuns().WithLabelValues(summary.Result).Inc()
	span.SetAttributes(attribute.String("grading.verdict", summary.Result))

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("question_id", payload.QuestionID).
		Str("verdict", summary.Result).
		Int("passed", summary.TestCasesPassed).
		Int("total", summary.TotalTestCases).
		Msg("question graded")

	results := make([]dto.TestCaseRunResponse, 0, len(summary.Results))
	for _, result := range summary.Results {
		results = append(results, dto.TestCaseRunResponse{
			TestCaseNumber: result.TestCaseNumber,
			Stdin:          result.Stdin,
			Expected:       result.Expected,
			Stdout:         result.Stdout,
			Stderr:         result.Stderr,
			CompileOutput:  result.CompileOutput,
			Status:         result.Status,
			TimeSeconds:    result.TimeSeconds,
			MemoryKB:       result.MemoryKB,
			Result:         result.Result,
		})
	}

	return dto.RunQuestionResponse{
		SubmissionID:    dto.FormatID(submission.ID),
		QuestionID:      dto.FormatID(payload.QuestionID),
		Result:          summary.Result,
		TestCasesPassed: summary.TestCasesPassed,
		TotalTestCases:  summary.TotalTestCases,
		ExecutionTimeMs: summary.ExecutionTimeMs,
		MemoryUsedMB:    summary.MemoryUsedMB,
		Results:         results,
	}, nil
}

// upsertQuestionAttempt overwrites an existing attempt for the question or
// appends a new one with the next sequential number. A concurrent first
// attempt for the same question loses the race at the unique index and falls
// back to the overwrite path.
func (s *submissionService) upsertQuestionAttempt(ctx context.Context, submissionID uint, payload dto.RunQuestionRequest, totalTestCases int) error {
	affected, err := s.submissions.ResetQuestionAttempt(ctx, submissionID, payload.QuestionID, payload.SourceCode, payload.Language, payload.TimeTaken, totalTestCases)
	if err != nil {
		return fmt.Errorf("reset question attempt: %w", err)
	}
	if affected > 0 {
		return nil
	}

	count, err := s.submissions.CountQuestions(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("count question attempts: %w", err)
	}

	attempt := models.QuestionSubmission{
		SubmissionID:   submissionID,
		QuestionID:     payload.QuestionID,
		QuestionNumber: int(count) + 1,
		SourceCode:     payload.SourceCode,
		Language:       payload.Language,
		TimeTaken:      payload.TimeTaken,
		TotalTestCases: totalTestCases,
		Status:         models.SubmissionStatusPending,
		SubmittedAt:    s.now().UTC(),
	}

	if err := s.submissions.CreateQuestion(ctx, &attempt); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, resetErr := s.submissions.ResetQuestionAttempt(ctx, submissionID, payload.QuestionID, payload.SourceCode, payload.Language, payload.TimeTaken, totalTestCases); resetErr != nil {
				return fmt.Errorf("reset after duplicate attempt: %w", resetErr)
			}
			return nil
		}
		return fmt.Errorf("create question attempt: %w", err)
	}

	return nil
}

// failQuestion forces the attempt into a terminal error state. Used on the
// failure paths after grading has started. The derived counters are
// recomputed afterwards: a previously accepted question whose re-run dies
// here no longer counts as solved, and the cached statistics must follow.
func (s *submissionService) failQuestion(ctx context.Context, submissionID, questionID uint, cause error) {
	_, err := s.submissions.UpdateQuestionResult(ctx, submissionID, questionID, repository.QuestionResultUpdate{
		Status:       models.SubmissionStatusError,
		Result:       models.ResultError,
		ErrorMessage: cause.Error(),
	})
	if err != nil {
		s.logger.Error().Err(err).
			Uint("submission_id", submissionID).
			Uint("question_id", questionID).
			Msg("failed to persist question error state")
	}

	if err := s.refreshStatistics(ctx, submissionID); err != nil {
		s.logger.Warn().Err(err).
			Uint("submission_id", submissionID).
			Msg("failed to refresh submission statistics after question error")
	}
}

// refreshStatistics recomputes the submission's derived counters from its
// question attempts. Overall status is left alone: completion is driven by
// an explicit final submit, never inferred from per-question state.
func (s *submissionService) refreshStatistics(ctx context.Context, submissionID uint) error {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("load submission: %w", err)
	}

	solved := 0
	totalTime := 0
	for _, question := range submission.Questions {
		if question.Solved() {
			solved++
		}
		totalTime += question.TimeTaken
	}

	score := 0.0
	if submission.TotalQuestions > 0 {
		score = roundScore(float64(solved) / float64(submission.TotalQuestions) * 100)
	}

	if err := s.submissions.UpdateStatistics(ctx, submissionID, solved, score, totalTime); err != nil {
		return fmt.Errorf("update statistics: %w", err)
	}

	s.invalidateStatsCache(ctx, submissionID)
	return nil
}

func (s *submissionService) FinalSubmit(ctx context.Context, payload dto.FinalSubmitRequest) (dto.SubmissionStatisticsResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionStatisticsResponse{}, err
	}

	submission, _, err := s.findOrCreate(ctx, payload.CandidateID, payload.DriveID)
	if err != nil {
		return dto.SubmissionStatisticsResponse{}, err
	}

	// A repeated final submit returns the existing statistics without
	// re-firing any side effect: no second finalized event, no counter bump.
	if submission.IsFinalized() {
		return s.Statistics(ctx, submission.ID)
	}

	submittedAt := s.now().UTC()
	if err := s.submissions.MarkFinalSubmitted(ctx, submission.ID, submittedAt); err != nil {
		return dto.SubmissionStatisticsResponse{}, fmt.Errorf("mark final submitted: %w", err)
	}

	observability.AssessmentsFinalized().Inc()
	s.invalidateStatsCache(ctx, submission.ID)

	stats, err := s.Statistics(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionStatisticsResponse{}, err
	}

	event := AssessmentFinalizedEvent{
		SubmissionID:    stats.SubmissionID,
		CandidateID:     stats.CandidateID,
		DriveID:         stats.DriveID,
		QuestionsSolved: stats.QuestionsSolved,
		TotalQuestions:  stats.TotalQuestions,
		ScorePercentage: stats.ScorePercentage,
		SubmittedAt:     submittedAt,
	}
	if candidate, candidateErr := s.candidates.GetByID(ctx, payload.CandidateID); candidateErr == nil {
		event.CandidateName = candidate.Name
		event.CandidateEmail = candidate.Email
	}
	if s.notifier != nil {
		s.notifier.AssessmentFinalized(ctx, event)
	}

	return stats, nil
}

func (s *submissionService) Get(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Statistics(ctx context.Context, id uint) (dto.SubmissionStatisticsResponse, error) {
	cacheKey := statsCacheKey(id)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.SubmissionStatisticsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("submission_id", id).Msg("statistics cache hit")
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read statistics cache")
		}
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionStatisticsResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionStatisticsResponse{}, err
	}

	response := buildStatistics(submission)

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store statistics cache")
			}
		}
	}

	return response, nil
}

func (s *submissionService) ListByCandidate(ctx context.Context, candidateID uint) ([]dto.SubmissionResponse, error) {
	if _, err := s.candidates.GetByID(ctx, candidateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, err
	}

	submissions, err := s.submissions.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return newSubmissionResponses(submissions), nil
}

func (s *submissionService) ListByDrive(ctx context.Context, driveID uint) ([]dto.SubmissionResponse, error) {
	if _, err := s.drives.GetByID(ctx, driveID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriveNotFound
		}
		return nil, err
	}

	submissions, err := s.submissions.ListByDrive(ctx, driveID)
	if err != nil {
		return nil, err
	}
	return newSubmissionResponses(submissions), nil
}

func (s *submissionService) Feedback(ctx context.Context, id uint) (dto.SubmissionFeedbackResponse, error) {
	if s.reviewer == nil {
		return dto.SubmissionFeedbackResponse{}, ErrReviewerUnavailable
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionFeedbackResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionFeedbackResponse{}, err
	}

	input := ai.ReviewInput{
		QuestionsSolved: submission.QuestionsSolved,
		TotalQuestions:  submission.TotalQuestions,
		ScorePercentage: submission.ScorePercentage,
		TotalTimeSec:    submission.TotalTimeTaken,
	}

	if candidate, candidateErr := s.candidates.GetByID(ctx, submission.CandidateID); candidateErr == nil {
		input.CandidateName = candidate.Name
	}
	if drive, driveErr := s.drives.GetByID(ctx, submission.DriveID); driveErr == nil {
		input.Role = drive.Role
	}

	for _, question := range submission.Questions {
		outcome := ai.QuestionOutcome{
			QuestionNumber:  question.QuestionNumber,
			Language:        question.Language,
			Result:          question.Result,
			TestCasesPassed: question.TestCasesPassed,
			TotalTestCases:  question.TotalTestCases,
			TimeTakenSec:    question.TimeTaken,
		}
		if catalogQuestion, questionErr := s.questions.GetByID(ctx, question.QuestionID); questionErr == nil {
			outcome.Title = catalogQuestion.Title
		}
		input.Outcomes = append(input.Outcomes, outcome)
	}

	result, err := s.reviewer.Review(ctx, input)
	if err != nil {
		return dto.SubmissionFeedbackResponse{}, fmt.Errorf("review submission: %w", err)
	}

	return dto.SubmissionFeedbackResponse{
		SubmissionID: dto.FormatID(submission.ID),
		Score:        result.Score,
		Verdict:      result.Verdict,
		Feedback:     result.Feedback,
		Provider:     s.providerName(),
	}, nil
}

func (s *submissionService) providerName() string {
	switch s.reviewer.(type) {
	case *ai.OpenAIReviewer:
		return "openai"
	default:
		return "unknown"
	}
}

func (s *submissionService) invalidateStatsCache(ctx context.Context, submissionID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey(submissionID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submissionID).Msg("failed to invalidate statistics cache")
	}
}

func statsCacheKey(submissionID uint) string {
	return fmt.Sprintf("submission:stats:%d", submissionID)
}

func buildStatistics(submission models.Submission) dto.SubmissionStatisticsResponse {
	solved := 0
	totalTime := 0
	allCompleted := true
	breakdown := make([]dto.QuestionBreakdown, 0, len(submission.Questions))

	for _, question := range submission.Questions {
		if question.Solved() {
			solved++
		}
		totalTime += question.TimeTaken
		if question.Status != models.SubmissionStatusCompleted && question.Status != models.SubmissionStatusError {
			allCompleted = false
		}
		breakdown = append(breakdown, dto.QuestionBreakdown{
			QuestionID:      dto.FormatID(question.QuestionID),
			QuestionNumber:  question.QuestionNumber,
			Result:          question.Result,
			TestCasesPassed: question.TestCasesPassed,
			TotalTestCases:  question.TotalTestCases,
			TimeTaken:       question.TimeTaken,
			ExecutionTimeMs: question.ExecutionTimeMs,
			MemoryUsedMB:    question.MemoryUsedMB,
		})
	}

	score := 0.0
	if submission.TotalQuestions > 0 {
		score = roundScore(float64(solved) / float64(submission.TotalQuestions) * 100)
	}

	return dto.SubmissionStatisticsResponse{
		SubmissionID:      dto.FormatID(submission.ID),
		CandidateID:       dto.FormatID(submission.CandidateID),
		DriveID:           dto.FormatID(submission.DriveID),
		TotalQuestions:    submission.TotalQuestions,
		QuestionsSolved:   solved,
		ScorePercentage:   score,
		TotalTimeTaken:    totalTime,
		Status:            submission.Status,
		AllCompleted:      allCompleted,
		StartedAt:         dto.FormatTime(submission.StartedAt),
		SubmittedAt:       dto.FormatTimePtr(submission.SubmittedAt),
		QuestionBreakdown: breakdown,
	}
}

func newSubmissionResponses(submissions []models.Submission) []dto.SubmissionResponse {
	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.NewSubmissionResponse(submission))
	}
	return responses
}
