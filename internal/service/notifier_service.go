package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const finalizedSubject = "hireloop.assessment.finalized"

// AssessmentFinalizedEvent is published when a candidate explicitly submits
// an assessment. The email worker listening on the subject owns delivery;
// publishing is fire-and-forget so a broker outage never fails the submit.
type AssessmentFinalizedEvent struct {
	SubmissionID    string    `json:"submission_id"`
	CandidateID     string    `json:"candidate_id"`
	CandidateName   string    `json:"candidate_name,omitempty"`
	CandidateEmail  string    `json:"candidate_email,omitempty"`
	DriveID         string    `json:"drive_id"`
	QuestionsSolved int       `json:"questions_solved"`
	TotalQuestions  int       `json:"total_questions"`
	ScorePercentage float64   `json:"score_percentage"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// Notifier publishes platform events emitted by the grading engine.
type Notifier interface {
	AssessmentFinalized(ctx context.Context, event AssessmentFinalizedEvent)
}

type natsNotifier struct {
	conn      *nats.Conn
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewNotifier constructs a NATS backed notifier. A nil connection yields a
// notifier that only logs, which keeps local development broker-free.
func NewNotifier(conn *nats.Conn, logger zerolog.Logger) Notifier {
	return &natsNotifier{
		conn:      conn,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "notifier").Logger(),
	}
}

// sanitizeName strips markup from free-text names before they leave the
// service; candidate names are user input.
func (n *natsNotifier) sanitizeName(name string) string {
	return strings.TrimSpace(n.sanitizer.Sanitize(name))
}

func (n *natsNotifier) AssessmentFinalized(ctx context.Context, event AssessmentFinalizedEvent) {
	event.CandidateName = n.sanitizeName(event.CandidateName)

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to encode finalized event")
		return
	}

	if n.conn == nil {
		n.logger.Info().Str("submission_id", event.SubmissionID).Msg("no broker configured, skipping finalized event")
		return
	}

	if err := n.conn.Publish(finalizedSubject, payload); err != nil {
		n.logger.Error().Err(err).Str("submission_id", event.SubmissionID).Msg("failed to publish finalized event")
		return
	}

	n.logger.Info().
		Str("submission_id", event.SubmissionID).
		Str("drive_id", event.DriveID).
		Float64("score", event.ScorePercentage).
		Msg("assessment finalized event published")
}
