package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestionAnalysis is the normalized output of the question triage oracle.
type QuestionAnalysis struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	UserID            string           `json:"user_id" db:"user_id"`
	QuestionText      string           `json:"question_text" db:"question_text"`
	Category          QuestionCategory `json:"category" db:"category"`
	Urgency           Urgency          `json:"urgency" db:"urgency"`
	Confidence        float64          `json:"confidence" db:"confidence"`
	Summary           string           `json:"summary" db:"summary"`
	Advice            StringList       `json:"advice" db:"advice"`
	FollowUpQuestions StringList       `json:"follow_up_questions" db:"follow_up_questions"`
	SourceAPI         string           `json:"source_api" db:"source_api"`
	ProcessingTimeMs  int64            `json:"processing_time_ms" db:"processing_time_ms"`
	Timestamp         time.Time        `json:"timestamp" db:"timestamp"`
}
