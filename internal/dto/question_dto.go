package dto

import "github.com/hireloop/hireloop-api/internal/models"

// TestCasePayload is one input/expected-output pair in catalog requests.
type TestCasePayload struct {
	Input  string `json:"input"`
	Output string `json:"output" validate:"required"`
}

// QuestionCreateRequest adds a question to the catalog.
type QuestionCreateRequest struct {
	Title       string            `json:"title" validate:"required,min=1,max=255"`
	Description string            `json:"description"`
	Difficulty  string            `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TestCases   []TestCasePayload `json:"test_cases" validate:"required,min=1,dive"`
}

// QuestionUpdateRequest updates an existing catalog entry.
type QuestionUpdateRequest struct {
	Title       string            `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string           `json:"description"`
	Difficulty  string            `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TestCases   []TestCasePayload `json:"test_cases" validate:"omitempty,min=1,dive"`
}

// QuestionResponse represents a catalog question. Hidden test cases are only
// included for privileged callers.
type QuestionResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Difficulty    string            `json:"difficulty"`
	TestCaseCount int               `json:"test_case_count"`
	TestCases     []TestCasePayload `json:"test_cases,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

// QuestionListResponse pages through the catalog.
type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

// NewQuestionResponse builds a catalog DTO from a model.
func NewQuestionResponse(question models.CodingQuestion, includeTestCases bool) QuestionResponse {
	cases, _ := question.DecodeTestCases()

	response := QuestionResponse{
		ID:            FormatID(question.ID),
		Title:         question.Title,
		Description:   question.Description,
		Difficulty:    question.Difficulty,
		TestCaseCount: len(cases),
		CreatedAt:     FormatTime(question.CreatedAt),
		UpdatedAt:     FormatTime(question.UpdatedAt),
	}

	if includeTestCases {
		payload := make([]TestCasePayload, 0, len(cases))
		for _, c := range cases {
			payload = append(payload, TestCasePayload{Input: c.Input, Output: c.Output})
		}
		response.TestCases = payload
	}

	return response
}
