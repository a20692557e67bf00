package dto

import (
	"strconv"
	"time"

	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/pkg/judge"
)

// Identifiers cross the API boundary as strings and timestamps as RFC3339;
// internal numeric IDs stay an implementation detail of the store.

// SubmissionCreateRequest asks for the submission record of a candidate/drive
// pair, creating it when absent.
type SubmissionCreateRequest struct {
	CandidateID uint `json:"candidate_id" validate:"required,gt=0"`
	DriveID     uint `json:"drive_id" validate:"required,gt=0"`
}

// RunQuestionRequest submits one question's code for grading.
type RunQuestionRequest struct {
	CandidateID uint   `json:"candidate_id" validate:"required,gt=0"`
	DriveID     uint   `json:"drive_id" validate:"required,gt=0"`
	QuestionID  uint   `json:"question_id" validate:"required,gt=0"`
	SourceCode  string `json:"source_code" validate:"required"`
	Language    string `json:"language" validate:"required"`
	TimeTaken   int    `json:"time_taken" validate:"gte=0"`
}

// FinalSubmitRequest marks a candidate's assessment as submitted.
type FinalSubmitRequest struct {
	CandidateID uint `json:"candidate_id" validate:"required,gt=0"`
	DriveID     uint `json:"drive_id" validate:"required,gt=0"`
}

// TestCaseRunResponse is the per-test-case breakdown returned from a run.
type TestCaseRunResponse struct {
	TestCaseNumber int          `json:"test_case_number"`
	Stdin          string       `json:"stdin"`
	Expected       string       `json:"expected"`
	Stdout         string       `json:"stdout"`
	Stderr         string       `json:"stderr,omitempty"`
	CompileOutput  string       `json:"compile_output,omitempty"`
	Status         judge.Status `json:"status"`
	TimeSeconds    float64      `json:"time_seconds"`
	MemoryKB       float64      `json:"memory_kb"`
	Result         string       `json:"result"`
}

// RunQuestionResponse reports the outcome of grading one question.
type RunQuestionResponse struct {
	SubmissionID    string                `json:"submission_id"`
	QuestionID      string                `json:"question_id"`
	Result          string                `json:"result"`
	TestCasesPassed int                   `json:"test_cases_passed"`
	TotalTestCases  int                   `json:"total_test_cases"`
	ExecutionTimeMs int64                 `json:"execution_time_ms"`
	MemoryUsedMB    float64               `json:"memory_used_mb"`
	Results         []TestCaseRunResponse `json:"results"`
}

// QuestionSubmissionResponse represents one graded question attempt.
type QuestionSubmissionResponse struct {
	QuestionID      string  `json:"question_id"`
	QuestionNumber  int     `json:"question_number"`
	Language        string  `json:"language"`
	TimeTaken       int     `json:"time_taken"`
	TestCasesPassed int     `json:"test_cases_passed"`
	TotalTestCases  int     `json:"total_test_cases"`
	Status          string  `json:"status"`
	Result          string  `json:"result,omitempty"`
	ExecutionTimeMs int64   `json:"execution_time_ms"`
	MemoryUsedMB    float64 `json:"memory_used_mb"`
	ErrorMessage    string  `json:"error_message,omitempty"`
	SubmittedAt     string  `json:"submitted_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// SubmissionResponse represents a full assessment submission.
type SubmissionResponse struct {
	ID              string                       `json:"id"`
	CandidateID     string                       `json:"candidate_id"`
	DriveID         string                       `json:"drive_id"`
	TotalQuestions  int                          `json:"total_questions"`
	QuestionsSolved int                          `json:"questions_solved"`
	ScorePercentage float64                      `json:"score_percentage"`
	TotalTimeTaken  int                          `json:"total_time_taken"`
	Status          string                       `json:"status"`
	StartedAt       string                       `json:"started_at"`
	SubmittedAt     *string                      `json:"submitted_at"`
	CreatedAt       string                       `json:"created_at"`
	UpdatedAt       string                       `json:"updated_at"`
	Questions       []QuestionSubmissionResponse `json:"questions"`
}

// QuestionBreakdown is the per-question slice of the statistics payload.
type QuestionBreakdown struct {
	QuestionID      string  `json:"question_id"`
	QuestionNumber  int     `json:"question_number"`
	Result          string  `json:"result,omitempty"`
	TestCasesPassed int     `json:"test_cases_passed"`
	TotalTestCases  int     `json:"total_test_cases"`
	TimeTaken       int     `json:"time_taken"`
	ExecutionTimeMs int64   `json:"execution_time_ms"`
	MemoryUsedMB    float64 `json:"memory_used_mb"`
}

// SubmissionStatisticsResponse aggregates a submission's counters.
type SubmissionStatisticsResponse struct {
	SubmissionID      string              `json:"submission_id"`
	CandidateID       string              `json:"candidate_id"`
	DriveID           string              `json:"drive_id"`
	TotalQuestions    int                 `json:"total_questions"`
	QuestionsSolved   int                 `json:"questions_solved"`
	ScorePercentage   float64             `json:"score_percentage"`
	TotalTimeTaken    int                 `json:"total_time_taken"`
	Status            string              `json:"status"`
	AllCompleted      bool                `json:"all_completed"`
	StartedAt         string              `json:"started_at"`
	SubmittedAt       *string             `json:"submitted_at"`
	QuestionBreakdown []QuestionBreakdown `json:"question_breakdown"`
}

// SubmissionFeedbackResponse carries AI-generated feedback for a submission.
type SubmissionFeedbackResponse struct {
	SubmissionID string  `json:"submission_id"`
	Score        float64 `json:"score"`
	Verdict      string  `json:"verdict"`
	Feedback     string  `json:"feedback"`
	Provider     string  `json:"provider"`
}

// FormatID renders a numeric identifier the way the API serializes it.
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// FormatTime renders a timestamp in the API's fixed textual format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatTimePtr renders an optional timestamp, preserving null.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := FormatTime(*t)
	return &formatted
}

// NewQuestionSubmissionResponse builds a response DTO from a model.
func NewQuestionSubmissionResponse(question models.QuestionSubmission) QuestionSubmissionResponse {
	return QuestionSubmissionResponse{
		QuestionID:      FormatID(question.QuestionID),
		QuestionNumber:  question.QuestionNumber,
		Language:        question.Language,
		TimeTaken:       question.TimeTaken,
		TestCasesPassed: question.TestCasesPassed,
		TotalTestCases:  question.TotalTestCases,
		Status:          question.Status,
		Result:          question.Result,
		ExecutionTimeMs: question.ExecutionTimeMs,
		MemoryUsedMB:    question.MemoryUsedMB,
		ErrorMessage:    question.ErrorMessage,
		SubmittedAt:     FormatTime(question.SubmittedAt),
		UpdatedAt:       FormatTime(question.UpdatedAt),
	}
}

// NewSubmissionResponse builds a response DTO from a model.
func NewSubmissionResponse(submission models.Submission) SubmissionResponse {
	questions := make([]QuestionSubmissionResponse, 0, len(submission.Questions))
	for _, question := range submission.Questions {
		questions = append(questions, NewQuestionSubmissionResponse(question))
	}

	return SubmissionResponse{
		ID:              FormatID(submission.ID),
		CandidateID:     FormatID(submission.CandidateID),
		DriveID:         FormatID(submission.DriveID),
		TotalQuestions:  submission.TotalQuestions,
		QuestionsSolved: submission.QuestionsSolved,
		ScorePercentage: submission.ScorePercentage,
		TotalTimeTaken:  submission.TotalTimeTaken,
		Status:          submission.Status,
		StartedAt:       FormatTime(submission.StartedAt),
		SubmittedAt:     FormatTimePtr(submission.SubmittedAt),
		CreatedAt:       FormatTime(submission.CreatedAt),
		UpdatedAt:       FormatTime(submission.UpdatedAt),
		Questions:       questions,
	}
}
