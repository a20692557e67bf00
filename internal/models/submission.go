package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubmissionStatus values shared by assessment submissions and individual
// question attempts.
const (
	SubmissionStatusPending   = "pending"
	SubmissionStatusRunning   = "running"
	SubmissionStatusCompleted = "completed"
	SubmissionStatusError     = "error"
)

// Graded verdicts for a question attempt.
const (
	ResultAccepted            = "Accepted"
	ResultWrongAnswer         = "Wrong Answer"
	ResultRuntimeError        = "Runtime Error"
	ResultCompilationError    = "Compilation Error"
	ResultTimeLimitExceeded   = "Time Limit Exceeded"
	ResultMemoryLimitExceeded = "Memory Limit Exceeded"
	ResultError               = "Error"
)

// Submission is a candidate's attempt record for an entire coding assessment.
// At most one exists per (candidate, drive) pair; the composite unique index
// is what resolves concurrent creation races.
type Submission struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	CandidateID     uint                 `gorm:"not null;uniqueIndex:idx_submissions_candidate_drive" json:"candidate_id"`
	DriveID         uint                 `gorm:"not null;uniqueIndex:idx_submissions_candidate_drive" json:"drive_id"`
	TotalQuestions  int                  `gorm:"not null" json:"total_questions"`
	QuestionsSolved int                  `gorm:"default:0" json:"questions_solved"`
	ScorePercentage float64              `gorm:"default:0" json:"score_percentage"`
	TotalTimeTaken  int                  `gorm:"default:0" json:"total_time_taken"`
	Status          string               `gorm:"size:32;not null" json:"status"`
	StartedAt       time.Time            `json:"started_at"`
	SubmittedAt     *time.Time           `json:"submitted_at"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Questions       []QuestionSubmission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions"`
}

// IsFinalized reports whether the candidate has explicitly submitted the
// assessment. Per-question completion never flips this on its own.
func (s Submission) IsFinalized() bool {
	return s.Status == SubmissionStatusCompleted && s.SubmittedAt != nil
}

// QuestionSubmission is one candidate's attempt record for a single question
// within a Submission, keyed by (submission, question). Re-submitting the same
// question overwrites this row rather than appending a sibling.
type QuestionSubmission struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	SubmissionID    uint           `gorm:"not null;uniqueIndex:idx_question_submissions_entry" json:"submission_id"`
	QuestionID      uint           `gorm:"not null;uniqueIndex:idx_question_submissions_entry" json:"question_id"`
	QuestionNumber  int            `gorm:"not null" json:"question_number"`
	SourceCode      string         `gorm:"type:text;not null" json:"source_code"`
	Language        string         `gorm:"size:32;not null" json:"language"`
	TimeTaken       int            `gorm:"default:0" json:"time_taken"`
	TestCasesPassed int            `gorm:"default:0" json:"test_cases_passed"`
	TotalTestCases  int            `gorm:"not null" json:"total_test_cases"`
	Status          string         `gorm:"size:32;not null" json:"status"`
	Result          string         `gorm:"size:32" json:"result"`
	ExecutionTimeMs int64          `gorm:"default:0" json:"execution_time_ms"`
	MemoryUsedMB    float64        `gorm:"default:0" json:"memory_used_mb"`
	ErrorMessage    string         `gorm:"type:text" json:"error_message"`
	LastRun         datatypes.JSON `json:"last_run"`
	SubmittedAt     time.Time      `json:"submitted_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Solved reports whether this attempt's grading ended in an accepted verdict.
func (q QuestionSubmission) Solved() bool {
	return q.Result == ResultAccepted
}
