package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Question difficulty labels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// TestCase is one hidden input/expected-output pair for a coding question.
// The catalog may contain sloppy data; normalization happens at grading time,
// not here.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// CodingQuestion is a catalog entry candidates solve during an assessment.
// Test cases are stored as a JSON document alongside the question, mirroring
// how the catalog is authored.
type CodingQuestion struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Difficulty  string         `gorm:"size:16;default:easy" json:"difficulty"`
	TestCases   datatypes.JSON `json:"test_cases"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DecodeTestCases unmarshals the stored test-case document.
func (q CodingQuestion) DecodeTestCases() ([]TestCase, error) {
	if len(q.TestCases) == 0 {
		return nil, nil
	}
	var cases []TestCase
	if err := json.Unmarshal(q.TestCases, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// EncodeTestCases marshals test cases into the stored JSON representation.
func EncodeTestCases(cases []TestCase) (datatypes.JSON, error) {
	payload, err := json.Marshal(cases)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(payload), nil
}
