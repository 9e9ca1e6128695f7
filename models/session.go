package models

import (
	"time"

	"gorm.io/gorm"
)

// Session represents one interview/practice attempt. AggregateScore is
// stored as a decimal in [0,1] (canonical percent divided by 100); every
// API representation is percent scale, converted at the boundary.
type Session struct {
	gorm.Model
	UserID          uint       `json:"user_id" gorm:"not null;index"`
	User            User       `json:"-" gorm:"foreignKey:UserID"`
	Module          string     `json:"module" gorm:"not null;index"` // english, daily, hr, technical, company, gd, mock
	TargetCompany   string     `json:"target_company"`
	TargetRole      string     `json:"target_role"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationMinutes int        `json:"duration_minutes"`
	AggregateScore  *float64   `json:"aggregate_score"` // 0.0 - 1.0
	Status          string     `json:"status"`          // Excellent, Good, Needs Practice, Incomplete

	Transcripts []Transcript `json:"transcripts,omitempty" gorm:"foreignKey:SessionID"`
}

// Transcript is one Q&A exchange within a session. Sub-scores arrive from
// the external evaluator on a 0-10 scale and are treated as untrusted input;
// any of them may be missing.
type Transcript struct {
	ID                uint     `json:"id" gorm:"primaryKey"`
	SessionID         uint     `json:"session_id" gorm:"not null;index"`
	TurnNumber        int      `json:"turn_number" gorm:"not null"` // 1-based order within the session
	Question          string   `json:"question"`
	UserAnswer        string   `json:"user_answer"`
	Clarity           *float64 `json:"clarity"`
	Relevance         *float64 `json:"relevance"`
	Grammar           *float64 `json:"grammar"`
	Confidence        *float64 `json:"confidence"`
	TechnicalAccuracy *float64 `json:"technical_accuracy"`
	QuestionScore     *float64 `json:"question_score"`
	Feedback          string   `json:"feedback"`
	IdealAnswer       string   `json:"ideal_answer"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
