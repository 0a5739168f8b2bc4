package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	apperrors "quizfit/internal/errors"
	"quizfit/internal/metrics"
	"quizfit/internal/model"
	"quizfit/internal/repository"
)

const (
	minMessageLength = 2
	maxMessageLength = 150

	// DefaultMembersLimit caps how many messages a listing returns.
	DefaultMembersLimit = 20
)

// MemberService handles check-in messages owned by authenticated users.
type MemberService interface {
	Create(ctx context.Context, owner *model.User, message string) (*model.Member, error)
	ListRecent(ctx context.Context, owner *model.User) ([]model.Member, error)
}

type memberService struct {
	repo  repository.MemberRepository
	limit int
	now   func() time.Time
}

// NewMemberService creates a member service. A non-positive limit falls back to DefaultMembersLimit.
func NewMemberService(repo repository.MemberRepository, limit int) MemberService {
	if limit <= 0 {
		limit = DefaultMembersLimit
	}
	return &memberService{
		repo:  repo,
		limit: limit,
		now:   time.Now,
	}
}

// Create stores a message owned by owner.
func (s *memberService) Create(ctx context.Context, owner *model.User, message string) (*model.Member, error) {
	if n := utf8.RuneCountInString(message); n < minMessageLength || n > maxMessageLength {
		return nil, apperrors.ErrInvalidMessage
	}

	member := &model.Member{
		Message:   message,
		OwnerID:   owner.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("create member message: %w", err)
	}

	metrics.MemberMessagesTotal.Inc()
	return member, nil
}

// ListRecent returns the owner's newest messages first.
func (s *memberService) ListRecent(ctx context.Context, owner *model.User) ([]model.Member, error) {
	members, err := s.repo.ListByOwner(ctx, owner.ID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list member messages: %w", err)
	}
	return members, nil
}
