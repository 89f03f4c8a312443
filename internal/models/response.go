package models

import (
	"time"
)

// Response is one user's answer to one question about one room. Only the
// answer field matching the question type is set.
type Response struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	UserID           *uint      `json:"user_id" gorm:"index"`
	RoomID           uint       `json:"room_id" gorm:"not null;index"`
	QuestionID       uint       `json:"question_id" gorm:"not null;index"`
	Rate             *int       `json:"rate"`
	Check            *bool      `json:"check"`
	TextArea         *string    `json:"text_area"`
	Resolved         bool       `gorm:"not null;default:false" json:"resolved"`
	CreatedDate      time.Time  `gorm:"autoCreateTime" json:"created_date"`
	MissingResources []Resource `gorm:"many2many:response_missing_resources" json:"missing_resources,omitempty"`
}
