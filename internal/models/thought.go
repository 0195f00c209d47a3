package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Thought représente un message du fil "happy thoughts" dans la base de données.
type Thought struct {
	// Seq is the insertion sequence; it only breaks ties between equal CreatedAt values
	Seq       uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ID        string    `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Message   string    `gorm:"size:140;not null" json:"message"`
	Hearts    int64     `gorm:"not null;default:0" json:"hearts"`
	CreatedAt time.Time `gorm:"index;not null" json:"createdAt"`
}

// BeforeCreate assigns the identifier when the caller did not provide one.
// The storage layer is the only place identifiers come from.
func (t *Thought) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// NewThought creates a new thought with its defaults: no hearts, created now.
func NewThought(message string, createdAt time.Time) *Thought {
	return &Thought{
		Message:   message,
		Hearts:    0,
		CreatedAt: createdAt,
	}
}
