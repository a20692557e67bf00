package ai

import "context"

// QuestionOutcome summarises one graded question for the reviewer model.
type QuestionOutcome struct {
	QuestionNumber  int
	Title           string
	Language        string
	Result          string
	TestCasesPassed int
	TotalTestCases  int
	TimeTakenSec    int
}

// ReviewInput contains the artefacts needed to write assessment feedback.
type ReviewInput struct {
	CandidateName   string
	Role            string
	QuestionsSolved int
	TotalQuestions  int
	ScorePercentage float64
	TotalTimeSec    int
	Outcomes        []QuestionOutcome
}

// ReviewResult is the structured feedback returned by the reviewer model.
type ReviewResult struct {
	Score    float64                `json:"score"`
	Verdict  string                 `json:"verdict"`
	Feedback string                 `json:"feedback"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}

// Reviewer describes an AI model capable of summarising assessment results.
type Reviewer interface {
	Review(ctx context.Context, input ReviewInput) (ReviewResult, error)
}
