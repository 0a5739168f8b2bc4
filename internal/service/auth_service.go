package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"gorm.io/gorm"

	"quizfit/internal/auth"
	apperrors "quizfit/internal/errors"
	"quizfit/internal/metrics"
	"quizfit/internal/model"
	"quizfit/internal/repository"
)

const (
	minUsernameLength = 2
	maxUsernameLength = 30
	minPasswordLength = 6
	maxPasswordBytes  = 72
)

// AuthService handles registration, login and access token resolution.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
	// Authorize resolves an access token to its user. Missing and unknown tokens
	// yield ErrNotLoggedIn; store failures are returned wrapped.
	Authorize(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     auth.PasswordHasher
	issuer     auth.TokenIssuer
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	issuer auth.TokenIssuer,
	tokenStore auth.TokenStoreInterface,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		issuer:     issuer,
		tokenStore: tokenStore,
	}
}

// Register creates a user with a hashed password and a freshly issued access token.
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return nil, apperrors.ErrInvalidUsername
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, apperrors.ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return nil, apperrors.ErrPasswordTooLong
	}

	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue()
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hashedPassword,
		AccessToken:  token,
	}

	// A concurrent registration can still win between the lookup and the insert;
	// the unique index decides.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RegistrationsTotal.Inc()
	return user, nil
}

// Login verifies credentials. Unknown usernames and wrong passwords are indistinguishable.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("accepted").Inc()
	return user, nil
}

// Authorize resolves token, consulting the identity cache before the store.
func (s *authService) Authorize(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, apperrors.ErrNotLoggedIn
	}

	if identity, _ := s.tokenStore.GetIdentity(ctx, token); identity != nil {
		return &model.User{
			ID:          identity.UserID,
			Username:    identity.Username,
			AccessToken: token,
		}, nil
	}

	user, err := s.userRepo.FindByAccessToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotLoggedIn
		}
		return nil, fmt.Errorf("lookup access token: %w", err)
	}

	_ = s.tokenStore.StoreIdentity(ctx, token, auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
	}, auth.IdentityCacheTTL)

	return user, nil
}
