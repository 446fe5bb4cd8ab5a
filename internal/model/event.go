package model

import "time"

// Event represents a booking of a room and/or a user over a time span.
// Recurring events carry a compact rule string of the form
// FREQ=DAILY|WEEKLY|MONTHLY|YEARLY with optional INTERVAL=, BYDAY= and
// UNTIL= fields; ExceptionDates is a comma-joined list of yyyyMMdd tokens
// on which an otherwise matching occurrence is suppressed.
type Event struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"size:1024" json:"description"`
	StartTime   time.Time `gorm:"not null;index" json:"startTime"`
	EndTime     time.Time `gorm:"not null;index" json:"endTime"`
	RoomID      *int64    `gorm:"index" json:"roomId,omitempty"`
	UserID      *int64    `gorm:"index" json:"userId,omitempty"`
	Tags        TagList   `gorm:"type:text" json:"tags"`

	IsRecurring       bool       `json:"isRecurring"`
	RecurrenceRule    string     `gorm:"size:256" json:"recurrenceRule,omitempty"`
	RecurrenceEndDate *time.Time `json:"recurrenceEndDate,omitempty"`
	ExceptionDates    string     `gorm:"size:1024" json:"exceptionDates,omitempty"`
	// Reserved for one-off extra occurrences; persisted but not evaluated.
	AdditionalDates   string     `gorm:"size:1024" json:"additionalDates,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Room *Room `gorm:"constraint:OnDelete:SET NULL" json:"room,omitempty"`
	User *User `gorm:"constraint:OnDelete:SET NULL" json:"user,omitempty"`
}
