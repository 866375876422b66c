package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/danutama/loan-tracker/internal/domain"
	"github.com/danutama/loan-tracker/internal/repository"
	customError "github.com/danutama/loan-tracker/pkg/errors"
)

// AccountService handles registration, authentication and the out-of-band
// admin reset. Passwords only ever exist here as bcrypt hashes; bcrypt salts
// each hash, so identical passwords produce different stored values.
type AccountService struct {
	Users  repository.UserRepository
	logger *logrus.Logger
}

func NewAccountService(users repository.UserRepository, logger *logrus.Logger) *AccountService {
	return &AccountService{
		Users:  users,
		logger: logger,
	}
}

// Register creates a borrower account. The role is fixed to "user":
// self-registration can never produce an admin.
func (s *AccountService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, customError.WrapDuplicateEmail(user.Email)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.WithField("email", user.Email).Info("borrower registered")

	return user, nil
}

// Authenticate verifies the credentials of an account holding the given
// role. Unknown email and wrong password are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, email, role, password string) (*domain.User, error) {
	user, err := s.Users.GetByEmailAndRole(ctx, normalizeEmail(email), role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, customError.WrapInvalidCredentials()
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, customError.WrapInvalidCredentials()
	}

	return user, nil
}

// GetByID loads an account by primary key.
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, customError.NewBusinessError(
				customError.ErrCodeUserNotFound, "account not found", customError.ErrUserNotFound)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return user, nil
}

// ResetAdmin sets the admin account's email and password, creating the
// account when no admin exists yet. Only the reset CLI calls this.
func (s *AccountService) ResetAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin, err := s.Users.UpsertAdmin(ctx, strings.TrimSpace(name), normalizeEmail(email), string(hash))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.logger.WithField("email", admin.Email).Info("admin credentials reset")

	return admin, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
