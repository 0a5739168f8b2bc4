package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quizfit/internal/model"
)

// QuizRepository defines quiz persistence operations.
type QuizRepository interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	FindByTitle(ctx context.Context, title string) (*model.Quiz, error)
	List(ctx context.Context) ([]model.Quiz, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository creates a new quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create stores a quiz together with its questions.
func (r *quizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	for i := range quiz.Questions {
		quiz.Questions[i].Position = i
	}
	return r.db.WithContext(ctx).Create(quiz).Error
}

// FindByID finds a quiz by ID.
func (r *quizRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.WithContext(ctx).Preload("Questions", orderedQuestions).
		Where("id = ?", id).First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// FindByTitle finds the oldest quiz with the given title.
func (r *quizRepository) FindByTitle(ctx context.Context, title string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.WithContext(ctx).Preload("Questions", orderedQuestions).
		Where("title = ?", title).Order("created_at ASC").First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

// List lists all quizzes in creation order.
func (r *quizRepository) List(ctx context.Context) ([]model.Quiz, error) {
	quizzes := make([]model.Quiz, 0)
	if err := r.db.WithContext(ctx).Preload("Questions", orderedQuestions).
		Order("created_at ASC").Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}
