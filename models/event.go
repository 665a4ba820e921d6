// File: /models/event.go
package models

import (
	"time"
)

// Event is a paid social event. The record is written exactly once, together
// with the creator's balance debit; there is no edit or delete flow.
type Event struct {
	ID          string      `json:"id" gorm:"primaryKey;size:191"`
	Name        string      `json:"name" gorm:"not null;size:255"`
	Date        string      `json:"date" gorm:"not null;size:50"`
	StartTime   string      `json:"start_time" gorm:"not null;size:50"`
	Location    string      `json:"location" gorm:"not null;size:255"`
	Coordinates Coordinates `json:"coordinates" gorm:"type:json"`
	EventType   string      `json:"event_type" gorm:"not null;size:50"`
	DressCode   string      `json:"dress_code" gorm:"not null;size:100"`
	Description string      `json:"description" gorm:"not null;type:text"`
	CreatorID   string      `json:"creator_id" gorm:"not null;size:191;index"`
	Image       *string     `json:"image" gorm:"size:500"`
	Amount      int64       `json:"amount" gorm:"not null"`
	CreatedAt   time.Time   `json:"created_at"`

	Creator User `json:"-" gorm:"foreignKey:CreatorID"`
}
