package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz is a titled set of questions at a difficulty level.
type Quiz struct {
	ID        uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string     `json:"title" gorm:"size:255;not null;index"`
	Level     string     `json:"level" gorm:"size:100;not null"`
	Questions []Question `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Question belongs to a quiz; Position keeps the order the client sent.
type Question struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	QuizID       uuid.UUID `json:"-" gorm:"type:char(36);not null;index"`
	Position     int       `json:"-" gorm:"not null"`
	QuestionText string    `json:"questionText" gorm:"type:text;not null"`
	Options      []string  `json:"options" gorm:"serializer:json;type:text;not null"`
}

// BeforeCreate sets UUID before creating the record.
func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
