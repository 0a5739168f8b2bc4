package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quizfit/internal/model"
)

// MemberRepository defines member message persistence operations.
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member message.
func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// ListByOwner returns the owner's newest messages first. The id breaks createdAt ties.
func (r *memberRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Member, error) {
	members := make([]model.Member, 0, limit)
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
