package models

import (
	"time"
)

// QuestionType decides which answer field of a Response is filled
type QuestionType string

const (
	QuestionTypeRate  QuestionType = "rate"
	QuestionTypeCheck QuestionType = "check"
	QuestionTypeInput QuestionType = "input"
)

// Question is read-only reference data for feedback. Answers are only
// accepted once StartDate has passed.
type Question struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	QuestionType QuestionType `gorm:"not null" json:"question_type"`
	Question     string       `json:"question"`
	StartDate    time.Time    `gorm:"not null" json:"start_date"`
	EndDate      time.Time    `json:"end_date"`
	IsActive     bool         `gorm:"default:true" json:"is_active"`
}

// HasStarted reports whether answers are accepted at now
func (q *Question) HasStarted(now time.Time) bool {
	return !now.Before(q.StartDate)
}
