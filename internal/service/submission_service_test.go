package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hireloop/hireloop-api/internal/dto"
	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/internal/repository"
	"github.com/hireloop/hireloop-api/pkg/ai"
)

type attemptKey struct {
	submissionID uint
	questionID   uint
}

// memSubmissionRepo mimics the store's uniqueness and row-matching semantics
// in memory so orchestration can be tested without a database.
type memSubmissionRepo struct {
	nextID         uint
	subs           map[uint]models.Submission
	attempts       map[attemptKey]models.QuestionSubmission
	onCreate       func()
	onUpdateResult func(update repository.QuestionResultUpdate) error
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{
		subs:     make(map[uint]models.Submission),
		attempts: make(map[attemptKey]models.QuestionSubmission),
	}
}

func (m *memSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	if m.onCreate != nil {
		m.onCreate()
	}
	for _, existing := range m.subs {
		if existing.CandidateID == submission.CandidateID && existing.DriveID == submission.DriveID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	submission.ID = m.nextID
	m.subs[submission.ID] = *submission
	return nil
}

func (m *memSubmissionRepo) withQuestions(submission models.Submission) models.Submission {
	var questions []models.QuestionSubmission
	for key, attempt := range m.attempts {
		if key.submissionID == submission.ID {
			questions = append(questions, attempt)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].QuestionNumber < questions[j].QuestionNumber
	})
	submission.Questions = questions
	return submission
}

func (m *memSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := m.subs[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return m.withQuestions(submission), nil
}

func (m *memSubmissionRepo) FindByCandidateAndDrive(ctx context.Context, candidateID, driveID uint) (models.Submission, error) {
	for _, submission := range m.subs {
		if submission.CandidateID == candidateID && submission.DriveID == driveID {
			return m.withQuestions(submission), nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memSubmissionRepo) ListByCandidate(ctx context.Context, candidateID uint) ([]models.Submission, error) {
	var out []models.Submission
	for _, submission := range m.subs {
		if submission.CandidateID == candidateID {
			out = append(out, m.withQuestions(submission))
		}
	}
	return out, nil
}

func (m *memSubmissionRepo) ListByDrive(ctx context.Context, driveID uint) ([]models.Submission, error) {
	var out []models.Submission
	for _, submission := range m.subs {
		if submission.DriveID == driveID {
			out = append(out, m.withQuestions(submission))
		}
	}
	return out, nil
}

func (m *memSubmissionRepo) GetQuestion(ctx context.Context, submissionID, questionID uint) (models.QuestionSubmission, error) {
	attempt, ok := m.attempts[attemptKey{submissionID, questionID}]
	if !ok {
		return models.QuestionSubmission{}, gorm.ErrRecordNotFound
	}
	return attempt, nil
}

func (m *memSubmissionRepo) CountQuestions(ctx context.Context, submissionID uint) (int64, error) {
	var count int64
	for key := range m.attempts {
		if key.submissionID == submissionID {
			count++
		}
	}
	return count, nil
}

func (m *memSubmissionRepo) CreateQuestion(ctx context.Context, question *models.QuestionSubmission) error {
	key := attemptKey{question.SubmissionID, question.QuestionID}
	if _, exists := m.attempts[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.attempts[key] = *question
	return nil
}

func (m *memSubmissionRepo) ResetQuestionAttempt(ctx context.Context, submissionID, questionID uint, sourceCode, language string, timeTaken, totalTestCases int) (int64, error) {
	key := attemptKey{submissionID, questionID}
	attempt, ok := m.attempts[key]
	if !ok {
		return 0, nil
	}
	attempt.SourceCode = sourceCode
	attempt.Language = language
	attempt.TimeTaken = timeTaken
	attempt.TotalTestCases = totalTestCases
	attempt.Status = models.SubmissionStatusPending
	attempt.Result = ""
	attempt.ErrorMessage = ""
	m.attempts[key] = attempt
	return 1, nil
}

func (m *memSubmissionRepo) SetQuestionStatus(ctx context.Context, submissionID, questionID uint, status string) (int64, error) {
	key := attemptKey{submissionID, questionID}
	attempt, ok := m.attempts[key]
	if !ok {
		return 0, nil
	}
	attempt.Status = status
	m.attempts[key] = attempt
	return 1, nil
}

func (m *memSubmissionRepo) UpdateQuestionResult(ctx context.Context, submissionID, questionID uint, update repository.QuestionResultUpdate) (int64, error) {
	if m.onUpdateResult != nil {
		if err := m.onUpdateResult(update); err != nil {
			return 0, err
		}
	}
	key := attemptKey{submissionID, questionID}
	attempt, ok := m.attempts[key]
	if !ok {
		return 0, nil
	}
	attempt.Status = update.Status
	attempt.Result = update.Result
	attempt.TestCasesPassed = update.TestCasesPassed
	attempt.TotalTestCases = update.TotalTestCases
	attempt.ExecutionTimeMs = update.ExecutionTimeMs
	attempt.MemoryUsedMB = update.MemoryUsedMB
	attempt.ErrorMessage = update.ErrorMessage
	attempt.LastRun = update.LastRun
	m.attempts[key] = attempt
	return 1, nil
}

func (m *memSubmissionRepo) UpdateStatistics(ctx context.Context, submissionID uint, solved int, score float64, totalTime int) error {
	submission, ok := m.subs[submissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	submission.QuestionsSolved = solved
	submission.ScorePercentage = score
	submission.TotalTimeTaken = totalTime
	m.subs[submissionID] = submission
	return nil
}

func (m *memSubmissionRepo) MarkFinalSubmitted(ctx context.Context, submissionID uint, submittedAt time.Time) error {
	submission, ok := m.subs[submissionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	submission.Status = models.SubmissionStatusCompleted
	submission.SubmittedAt = &submittedAt
	m.subs[submissionID] = submission
	return nil
}

type stubDriveRepo struct {
	drives map[uint]models.Drive
}

func (s *stubDriveRepo) GetByID(ctx context.Context, id uint) (models.Drive, error) {
	drive, ok := s.drives[id]
	if !ok {
		return models.Drive{}, gorm.ErrRecordNotFound
	}
	return drive, nil
}

type stubCandidateRepo struct {
	candidates map[uint]models.Candidate
}

func (s *stubCandidateRepo) GetByID(ctx context.Context, id uint) (models.Candidate, error) {
	candidate, ok := s.candidates[id]
	if !ok {
		return models.Candidate{}, gorm.ErrRecordNotFound
	}
	return candidate, nil
}

type stubQuestionRepo struct {
	questions map[uint]models.CodingQuestion
}

func (s *stubQuestionRepo) Create(ctx context.Context, question *models.CodingQuestion) error {
	if question.ID == 0 {
		question.ID = uint(len(s.questions) + 1)
	}
	s.questions[question.ID] = *question
	return nil
}

func (s *stubQuestionRepo) GetByID(ctx context.Context, id uint) (models.CodingQuestion, error) {
	question, ok := s.questions[id]
	if !ok {
		return models.CodingQuestion{}, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (s *stubQuestionRepo) List(ctx context.Context, filter repository.QuestionFilter) ([]models.CodingQuestion, int64, error) {
	var out []models.CodingQuestion
	for _, question := range s.questions {
		if filter.Difficulty != "" && question.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, question)
	}
	return out, int64(len(out)), nil
}

func (s *stubQuestionRepo) Update(ctx context.Context, question *models.CodingQuestion) error {
	s.questions[question.ID] = *question
	return nil
}

func (s *stubQuestionRepo) Delete(ctx context.Context, id uint) error {
	delete(s.questions, id)
	return nil
}

type stubTestRunner struct {
	summary RunSummary
	calls   int
	lastLng int
}

func (s *stubTestRunner) RunAll(ctx context.Context, sourceCode string, languageID int, cases []models.TestCase) RunSummary {
	s.calls++
	s.lastLng = languageID
	summary := s.summary
	summary.TotalTestCases = len(cases)
	return summary
}

type stubNotifier struct {
	events []AssessmentFinalizedEvent
}

func (s *stubNotifier) AssessmentFinalized(ctx context.Context, event AssessmentFinalizedEvent) {
	s.events = append(s.events, event)
}

type stubReviewer struct {
	result ai.ReviewResult
	err    error
	input  ai.ReviewInput
}

func (s *stubReviewer) Review(ctx context.Context, input ai.ReviewInput) (ai.ReviewResult, error) {
	s.input = input
	if s.err != nil {
		return ai.ReviewResult{}, s.err
	}
	return s.result, nil
}

type submissionFixture struct {
	service    SubmissionService
	subs       *memSubmissionRepo
	questions  *stubQuestionRepo
	drives     *stubDriveRepo
	candidates *stubCandidateRepo
	runner     *stubTestRunner
	notifier   *stubNotifier
	cache      *redis.Client
}

func newSubmissionFixture(t *testing.T, reviewer ai.Reviewer) *submissionFixture {
	t.Helper()

	questionCases, err := models.EncodeTestCases([]models.TestCase{
		{Input: "1 2", Output: "3"},
		{Input: "3 4", Output: "7"},
	})
	require.NoError(t, err)

	fixture := &submissionFixture{
		subs: newMemSubmissionRepo(),
		questions: &stubQuestionRepo{questions: map[uint]models.CodingQuestion{
			10: {ID: 10, Title: "Two Sum", Difficulty: models.DifficultyEasy, TestCases: questionCases},
			11: {ID: 11, Title: "Reverse List", Difficulty: models.DifficultyMedium, TestCases: questionCases},
		}},
		drives: &stubDriveRepo{drives: map[uint]models.Drive{
			5: {ID: 5, CompanyName: "Acme", Role: "Backend Engineer", CodingQuestionIDs: mustJSON(t, []uint{10, 11})},
			6: {ID: 6, CompanyName: "Empty", Role: "QA", CodingQuestionIDs: mustJSON(t, []uint{})},
		}},
		candidates: &stubCandidateRepo{candidates: map[uint]models.Candidate{
			1: {ID: 1, Name: "Ada", Email: "ada@example.com", DriveID: 5},
		}},
		runner: &stubTestRunner{summary: RunSummary{
			Result:          models.ResultAccepted,
			TestCasesPassed: 2,
			ExecutionTimeMs: 120,
			MemoryUsedMB:    4.5,
			Results: []TestCaseResult{
				{TestCaseNumber: 1, Result: models.ResultAccepted},
				{TestCaseNumber: 2, Result: models.ResultAccepted},
			},
		}},
		notifier: &stubNotifier{},
	}

	mr := miniredis.RunT(t)
	fixture.cache = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	fixture.service = NewSubmissionService(
		fixture.subs,
		fixture.questions,
		fixture.drives,
		fixture.candidates,
		fixture.runner,
		fixture.notifier,
		reviewer,
		fixture.cache,
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.Nop(),
		SubmissionConfig{StatsCacheTTL: time.Minute},
	)

	return fixture
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return payload
}

func TestCreateOrGetCreatesOncePerCandidateDrive(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	first, created, err := fixture.service.CreateOrGet(context.Background(), dto.SubmissionCreateRequest{CandidateID: 1, DriveID: 5})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 2, first.TotalQuestions)
	require.Equal(t, models.SubmissionStatusPending, first.Status)

	second, created, err := fixture.service.CreateOrGet(context.Background(), dto.SubmissionCreateRequest{CandidateID: 1, DriveID: 5})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, fixture.subs.subs, 1)
}

func TestCreateOrGetUnknownDrive(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, _, err := fixture.service.CreateOrGet(context.Background(), dto.SubmissionCreateRequest{CandidateID: 1, DriveID: 99})
	require.ErrorIs(t, err, ErrDriveNotFound)
}

func TestCreateOrGetDriveWithoutQuestions(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, _, err := fixture.service.CreateOrGet(context.Background(), dto.SubmissionCreateRequest{CandidateID: 1, DriveID: 6})
	require.ErrorIs(t, err, ErrNoQuestionsInDrive)
}

func TestCreateOrGetSurvivesDuplicateInsertRace(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	// A competing request lands its row between our lookup and insert.
	fixture.subs.onCreate = func() {
		fixture.subs.onCreate = nil
		fixture.subs.nextID++
		fixture.subs.subs[fixture.subs.nextID] = models.Submission{
			ID:             fixture.subs.nextID,
			CandidateID:    1,
			DriveID:        5,
			TotalQuestions: 2,
			Status:         models.SubmissionStatusPending,
		}
	}

	response, created, err := fixture.service.CreateOrGet(context.Background(), dto.SubmissionCreateRequest{CandidateID: 1, DriveID: 5})
	require.NoError(t, err)
	require.False(t, created)
	require.NotEmpty(t, response.ID)
	require.Len(t, fixture.subs.subs, 1)
}

func TestRunQuestionGradesAndPersists(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	response, err := fixture.service.RunQuestion(context.Background(), dto.RunQuestionRequest{
		CandidateID: 1,
		DriveID:     5,
		QuestionID:  10,
		SourceCode:  "print(sum(map(int, input().split())))",
		Language:    "python",
		TimeTaken:   90,
	})
	require.NoError(t, err)
	require.Equal(t, models.ResultAccepted, response.Result)
	require.Equal(t, 2, response.TestCasesPassed)
	require.Equal(t, 2, response.TotalTestCases)
	require.Equal(t, 71, fixture.runner.lastLng)

	submission, err := fixture.subs.FindByCandidateAndDrive(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, submission.Questions, 1)

	attempt := submission.Questions[0]
	require.Equal(t, 1, attempt.QuestionNumber)
	require.Equal(t, models.SubmissionStatusCompleted, attempt.Status)
	require.Equal(t, models.ResultAccepted, attempt.Result)
	require.NotEmpty(t, attempt.LastRun)

	// Statistics are refreshed after each graded run.
	require.Equal(t, 1, submission.QuestionsSolved)
	require.Equal(t, 50.0, submission.ScorePercentage)
	require.Equal(t, 90, submission.TotalTimeTaken)
	// Overall status is untouched until the explicit final submit.
	require.Equal(t, models.SubmissionStatusPending, submission.Status)
}

func TestRunQuestionRerunOverwritesAttempt(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	payload := dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 10,
		SourceCode: "bad", Language: "python", TimeTaken: 30,
	}

	fixture.runner.summary.Result = models.ResultWrongAnswer
	fixture.runner.summary.TestCasesPassed = 0
	_, err := fixture.service.RunQuestion(context.Background(), payload)
	require.NoError(t, err)

	fixture.runner.summary.Result = models.ResultAccepted
	fixture.runner.summary.TestCasesPassed = 2
	payload.SourceCode = "good"
	payload.TimeTaken = 60
	_, err = fixture.service.RunQuestion(context.Background(), payload)
	require.NoError(t, err)

	submission, err := fixture.subs.FindByCandidateAndDrive(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, submission.Questions, 1)
	require.Equal(t, 1, submission.Questions[0].QuestionNumber)
	require.Equal(t, "good", submission.Questions[0].SourceCode)
	require.Equal(t, models.ResultAccepted, submission.Questions[0].Result)
	require.Equal(t, 1, submission.QuestionsSolved)
	require.Equal(t, 60, submission.TotalTimeTaken)
}

func TestRunQuestionAssignsSequentialNumbers(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	payload := dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 10,
		SourceCode: "code", Language: "python",
	}
	_, err := fixture.service.RunQuestion(context.Background(), payload)
	require.NoError(t, err)

	payload.QuestionID = 11
	_, err = fixture.service.RunQuestion(context.Background(), payload)
	require.NoError(t, err)

	submission, err := fixture.subs.FindByCandidateAndDrive(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, submission.Questions, 2)
	require.Equal(t, 1, submission.Questions[0].QuestionNumber)
	require.Equal(t, 2, submission.Questions[1].QuestionNumber)
}

func TestRunQuestionRejectsBlankSource(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.RunQuestion(context.Background(), dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 10,
		SourceCode: "   \n\t", Language: "python",
	})
	require.ErrorIs(t, err, ErrEmptySourceCode)
	require.Zero(t, fixture.runner.calls)
}

func TestRunQuestionRejectsUnsupportedLanguage(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.RunQuestion(context.Background(), dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 10,
		SourceCode: "code", Language: "ruby",
	})
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestRunQuestionUnknownQuestion(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.RunQuestion(context.Background(), dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 404,
		SourceCode: "code", Language: "python",
	})
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestRunQuestionWithoutTestCases(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)
	fixture.questions.questions[12] = models.CodingQuestion{ID: 12, Title: "Broken"}

	_, err := fixture.service.RunQuestion(context.Background(), dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 12,
		SourceCode: "code", Language: "python",
	})
	require.ErrorIs(t, err, ErrNoTestCases)
}

func TestRunQuestionPersistFailureDemotesSolvedCount(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	payload := dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 10,
		SourceCode: "code", Language: "python", TimeTaken: 45,
	}
	_, err := fixture.service.RunQuestion(context.Background(), payload)
	require.NoError(t, err)

	submission, err := fixture.subs.FindByCandidateAndDrive(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Equal(t, 1, submission.QuestionsSolved)

	// Warm the statistics cache with the solved count.
	stats, err := fixture.service.Statistics(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stats.QuestionsSolved)

	// The re-run's completed-result write dies; the follow-up error write
	// goes through.
	fixture.subs.onUpdateResult = func(update repository.QuestionResultUpdate) error {
		if update.Status == models.SubmissionStatusCompleted {
			fixture.subs.onUpdateResult = nil
			return errors.New("connection reset")
		}
		return nil
	}
	_, err = fixture.service.RunQuestion(context.Background(), payload)
	require.Error(t, err)

	submission, err = fixture.subs.FindByCandidateAndDrive(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, submission.Questions, 1)

	attempt := submission.Questions[0]
	require.Equal(t, models.SubmissionStatusError, attempt.Status)
	require.Equal(t, models.ResultError, attempt.Result)
	require.NotEmpty(t, attempt.ErrorMessage)
	require.Empty(t, attempt.LastRun)

	// The question no longer counts as solved and the cached numbers are gone.
	require.Equal(t, 0, submission.QuestionsSolved)
	require.Equal(t, 0.0, submission.ScorePercentage)

	stats, err = fixture.service.Statistics(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stats.QuestionsSolved)
	require.Equal(t, 0.0, stats.ScorePercentage)
}

func TestFinalSubmitMarksCompletedAndNotifies(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.RunQuestion(context.Background(), dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 10,
		SourceCode: "code", Language: "python", TimeTaken: 45,
	})
	require.NoError(t, err)

	stats, err := fixture.service.FinalSubmit(context.Background(), dto.FinalSubmitRequest{CandidateID: 1, DriveID: 5})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusCompleted, stats.Status)
	require.NotNil(t, stats.SubmittedAt)
	require.Equal(t, 1, stats.QuestionsSolved)
	require.Equal(t, 50.0, stats.ScorePercentage)

	require.Len(t, fixture.notifier.events, 1)
	event := fixture.notifier.events[0]
	require.Equal(t, stats.SubmissionID, event.SubmissionID)
	require.Equal(t, "Ada", event.CandidateName)
	require.Equal(t, "ada@example.com", event.CandidateEmail)
	require.Equal(t, 50.0, event.ScorePercentage)
}

func TestFinalSubmitIsIdempotent(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	first, err := fixture.service.FinalSubmit(context.Background(), dto.FinalSubmitRequest{CandidateID: 1, DriveID: 5})
	require.NoError(t, err)

	second, err := fixture.service.FinalSubmit(context.Background(), dto.FinalSubmitRequest{CandidateID: 1, DriveID: 5})
	require.NoError(t, err)
	require.Equal(t, first.SubmissionID, second.SubmissionID)
	require.Equal(t, models.SubmissionStatusCompleted, second.Status)
	require.Len(t, fixture.subs.subs, 1)

	// The repeat must not re-fire the finalized event.
	require.Len(t, fixture.notifier.events, 1)
}

func TestStatisticsUnknownSubmission(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.Statistics(context.Background(), 999)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestStatisticsServedFromCacheUntilInvalidated(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	created, _, err := fixture.service.CreateOrGet(context.Background(), dto.SubmissionCreateRequest{CandidateID: 1, DriveID: 5})
	require.NoError(t, err)

	submission, err := fixture.subs.FindByCandidateAndDrive(context.Background(), 1, 5)
	require.NoError(t, err)

	first, err := fixture.service.Statistics(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, first.SubmissionID)
	require.Equal(t, 0, first.QuestionsSolved)

	// Mutate the store behind the cache's back; the cached copy wins.
	require.NoError(t, fixture.subs.UpdateStatistics(context.Background(), submission.ID, 2, 100, 120))
	cached, err := fixture.service.Statistics(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, 0, cached.QuestionsSolved)

	// A graded run invalidates the entry and fresh numbers come through.
	_, err = fixture.service.RunQuestion(context.Background(), dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 10,
		SourceCode: "code", Language: "python", TimeTaken: 45,
	})
	require.NoError(t, err)

	fresh, err := fixture.service.Statistics(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, 1, fresh.QuestionsSolved)
}

func TestStatisticsAllCompletedFlag(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.RunQuestion(context.Background(), dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 10,
		SourceCode: "code", Language: "python",
	})
	require.NoError(t, err)

	submission, err := fixture.subs.FindByCandidateAndDrive(context.Background(), 1, 5)
	require.NoError(t, err)

	stats, err := fixture.service.Statistics(context.Background(), submission.ID)
	require.NoError(t, err)
	require.True(t, stats.AllCompleted)
	require.Len(t, stats.QuestionBreakdown, 1)

	// Drop a second attempt back to pending and the flag flips off.
	_, err = fixture.subs.ResetQuestionAttempt(context.Background(), submission.ID, 10, "code", "python", 0, 2)
	require.NoError(t, err)
	fixture.cache.Del(context.Background(), statsCacheKey(submission.ID))

	stats, err = fixture.service.Statistics(context.Background(), submission.ID)
	require.NoError(t, err)
	require.False(t, stats.AllCompleted)
}

func TestListByCandidateUnknownCandidate(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.ListByCandidate(context.Background(), 42)
	require.ErrorIs(t, err, ErrCandidateNotFound)
}

func TestListByDriveReturnsSubmissions(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, _, err := fixture.service.CreateOrGet(context.Background(), dto.SubmissionCreateRequest{CandidateID: 1, DriveID: 5})
	require.NoError(t, err)

	listed, err := fixture.service.ListByDrive(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = fixture.service.ListByDrive(context.Background(), 99)
	require.ErrorIs(t, err, ErrDriveNotFound)
}

func TestFeedbackRequiresReviewer(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.Feedback(context.Background(), 1)
	require.ErrorIs(t, err, ErrReviewerUnavailable)
}

func TestFeedbackBuildsReviewInput(t *testing.T) {
	reviewer := &stubReviewer{result: ai.ReviewResult{
		Score:    0.8,
		Verdict:  "hire",
		Feedback: "Solid problem solving.",
	}}
	fixture := newSubmissionFixture(t, reviewer)

	_, err := fixture.service.RunQuestion(context.Background(), dto.RunQuestionRequest{
		CandidateID: 1, DriveID: 5, QuestionID: 10,
		SourceCode: "code", Language: "python", TimeTaken: 45,
	})
	require.NoError(t, err)

	submission, err := fixture.subs.FindByCandidateAndDrive(context.Background(), 1, 5)
	require.NoError(t, err)

	feedback, err := fixture.service.Feedback(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, 0.8, feedback.Score)
	require.Equal(t, "hire", feedback.Verdict)
	require.Equal(t, "Solid problem solving.", feedback.Feedback)

	require.Equal(t, "Ada", reviewer.input.CandidateName)
	require.Equal(t, "Backend Engineer", reviewer.input.Role)
	require.Len(t, reviewer.input.Outcomes, 1)
	require.Equal(t, "Two Sum", reviewer.input.Outcomes[0].Title)
}
