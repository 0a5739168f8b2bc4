package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quizfit/internal/cache"
	apperrors "quizfit/internal/errors"
	"quizfit/internal/model"
	"quizfit/internal/repository"
)

const (
	quizCacheTTL     = 5 * time.Minute
	quizListCacheKey = "quizzes:all"
)

// QuizService handles quiz operations.
type QuizService interface {
	Create(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	List(ctx context.Context) ([]model.Quiz, error)
	// Seed creates quizzes whose title is not stored yet and skips the rest.
	Seed(ctx context.Context, quizzes []model.Quiz) (created, skipped int, err error)
}

type quizService struct {
	repo  repository.QuizRepository
	cache *cache.Client
}

// NewQuizService creates a new quiz service.
func NewQuizService(repo repository.QuizRepository, cache *cache.Client) QuizService {
	return &quizService{
		repo:  repo,
		cache: cache,
	}
}

func (s *quizService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("quiz:%s", id.String())
}

// Create stores a quiz and invalidates the cached listing.
func (s *quizService) Create(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error) {
	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	if err := s.repo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	_ = s.cache.Delete(ctx, quizListCacheKey)
	return quiz, nil
}

// Get retrieves a quiz by ID with caching.
func (s *quizService) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Quiz
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	quiz, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	if payload, err := json.Marshal(quiz); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, quizCacheTTL)
	}
	return quiz, nil
}

// List returns every quiz, served from cache when possible.
func (s *quizService) List(ctx context.Context) ([]model.Quiz, error) {
	if data, _ := s.cache.Get(ctx, quizListCacheKey); data != nil {
		var cached []model.Quiz
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	quizzes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	if payload, err := json.Marshal(quizzes); err == nil {
		_ = s.cache.Set(ctx, quizListCacheKey, payload, quizCacheTTL)
	}
	return quizzes, nil
}

func (s *quizService) Seed(ctx context.Context, quizzes []model.Quiz) (created, skipped int, err error) {
	for i := range quizzes {
		quiz := quizzes[i]

		existing, err := s.repo.FindByTitle(ctx, quiz.Title)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, skipped, fmt.Errorf("seed quiz %q: %w", quiz.Title, err)
		}
		if existing != nil {
			skipped++
			continue
		}

		if _, err := s.Create(ctx, &quiz); err != nil {
			return created, skipped, fmt.Errorf("seed quiz %q: %w", quiz.Title, err)
		}
		created++
	}
	return created, skipped, nil
}
