package models

import (
	"time"

	"gorm.io/datatypes"
)

// State marks an entity as live or soft-deleted. Nothing in this service
// hard-deletes locations, rooms or resources.
type State string

const (
	StateActive   State = "active"
	StateArchived State = "archived"
)

// Location is an office or site that owns rooms
type Location struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `gorm:"not null;index" json:"name"`
	Abbreviation string         `gorm:"not null" json:"abbreviation"`
	Country      string         `gorm:"not null" json:"country"`
	ImageURL     string         `json:"image_url"`
	TimeZone     string         `gorm:"not null" json:"time_zone"`
	State        State          `gorm:"not null;default:active;index" json:"state"`
	Structure    datatypes.JSON `json:"structure,omitempty"`
	Rooms        []Room         `json:"rooms,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (l *Location) IsActive() bool {
	return l.State == StateActive
}
