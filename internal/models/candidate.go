package models

import "time"

// Candidate is the person taking an assessment. Profile enrichment (resume
// parsing, shortlisting) happens outside this service.
type Candidate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	DriveID   uint      `gorm:"index" json:"drive_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
