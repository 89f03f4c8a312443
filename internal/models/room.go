package models

import (
	"time"
)

type Room struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `gorm:"not null" json:"name"`
	LocationID uint      `gorm:"not null;index" json:"location_id"`
	Location   *Location `json:"location,omitempty"`
	State      State     `gorm:"not null;default:active" json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Resource is an item expected in a room (projector, marker, chair...).
// Feedback can flag resources as missing.
type Resource struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Name   string `gorm:"not null" json:"name"`
	RoomID uint   `gorm:"index" json:"room_id"`
	State  State  `gorm:"not null;default:active" json:"state"`
}
