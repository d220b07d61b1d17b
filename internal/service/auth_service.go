package service

import (
	"context"
	"errors"

	"fitcoach/workout-api/internal/domain"
	"fitcoach/workout-api/internal/repository"
	"fitcoach/workout-api/internal/token"

	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = domain.NewConflict("user with this email already exists")
	ErrInvalidRole          = domain.NewInvalidInput("role must be either TRAINER or CLIENT")
	ErrAuthenticationFailed = domain.NewUnauthenticated("invalid email or password")
)

// --- Service Interface ---
type AuthService interface {
	Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (tok string, user *domain.User, err error)
	VerifyToken(tokenString string) (token.Identity, error)
}

// --- Service Implementation ---

// authService implements the AuthService interface.
type authService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register handles new user registration: dedupe, hash, persist.
// Email/password format validation is the binding layer's job.
func (s *authService) Register(ctx context.Context, email, password string, role domain.Role) (*domain.User, error) {
	// 1. Reject if a user with this email already exists.
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 2. Reject unknown roles.
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	// 3. Hash the password. DefaultCost is the fixed work factor 10.
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapInternal(err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	// 4. Persist. The unique index closes the race between the lookup
	// above and this insert.
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID

	// Never hand the hash back to callers.
	user.PasswordHash = ""
	return user, nil
}

// Login authenticates a user and issues a token bound to their identity.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	tok, err := s.tokens.Issue(token.Identity{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return "", nil, domain.WrapInternal(err)
	}

	user.PasswordHash = ""
	return tok, user, nil
}

// VerifyToken delegates to the token manager.
func (s *authService) VerifyToken(tokenString string) (token.Identity, error) {
	return s.tokens.Verify(tokenString)
}
