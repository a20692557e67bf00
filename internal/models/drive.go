package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Drive is a hiring round owning the set of coding questions that make up its
// assessment. The grading engine only ever reads it.
type Drive struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CompanyName       string         `gorm:"size:255" json:"company_name"`
	Role              string         `gorm:"size:255" json:"role"`
	CodingQuestionIDs datatypes.JSON `json:"coding_question_ids"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// QuestionIDs unmarshals the ordered question ID list attached to the drive.
func (d Drive) QuestionIDs() ([]uint, error) {
	if len(d.CodingQuestionIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	if err := json.Unmarshal(d.CodingQuestionIDs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
