package model

import (
	"time"

	"github.com/google/uuid"
)

// Member is a check-in message posted by an authenticated user.
// OwnerID is not a foreign key: messages outlive their owner if a user is removed out of band.
type Member struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Message   string    `json:"message" gorm:"size:150;not null"`
	OwnerID   uuid.UUID `json:"ownerId" gorm:"type:char(36);not null;index:idx_members_owner_created,priority:1"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_members_owner_created,priority:2"`
}
