package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/danutama/loan-tracker/internal/domain"
	"github.com/danutama/loan-tracker/internal/repository"
	customError "github.com/danutama/loan-tracker/pkg/errors"
	"github.com/danutama/loan-tracker/tests/mocks"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := &mocks.MockUserRepository{}
	service := NewAccountService(mockUserRepo, testLogger())

	mockUserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "alice@example.com" && u.Role == domain.RoleUser
	})).Return(nil)

	user, err := service.Register(context.Background(), &domain.RegisterRequest{
		Name:     "  Alice  ",
		Email:    " Alice@Example.COM ",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	assert.NotEqual(t, "secret123", user.PasswordHash)

	mockUserRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mockUserRepo := &mocks.MockUserRepository{}
	service := NewAccountService(mockUserRepo, testLogger())

	mockUserRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail)

	user, err := service.Register(context.Background(), &domain.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})

	assert.Nil(t, user)
	assert.ErrorIs(t, err, customError.ErrDuplicateEmail)

	mockUserRepo.AssertExpectations(t)
}

func TestAuthenticate_Success(t *testing.T) {
	mockUserRepo := &mocks.MockUserRepository{}
	service := NewAccountService(mockUserRepo, testLogger())

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	stored := &domain.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	mockUserRepo.On("GetByEmailAndRole", mock.Anything, "alice@example.com", domain.RoleUser).Return(stored, nil)

	user, err := service.Authenticate(context.Background(), " Alice@Example.com ", domain.RoleUser, "secret123")

	assert.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)

	mockUserRepo.AssertExpectations(t)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	mockUserRepo := &mocks.MockUserRepository{}
	service := NewAccountService(mockUserRepo, testLogger())

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	stored := &domain.User{
		ID:           uuid.New(),
		Email:        "alice@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}

	mockUserRepo.On("GetByEmailAndRole", mock.Anything, "alice@example.com", domain.RoleUser).Return(stored, nil)

	user, err := service.Authenticate(context.Background(), "alice@example.com", domain.RoleUser, "wrong")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, customError.ErrInvalidCredential)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	mockUserRepo := &mocks.MockUserRepository{}
	service := NewAccountService(mockUserRepo, testLogger())

	mockUserRepo.On("GetByEmailAndRole", mock.Anything, "nobody@example.com", domain.RoleUser).Return(nil, repository.ErrNotFound)

	user, err := service.Authenticate(context.Background(), "nobody@example.com", domain.RoleUser, "secret123")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, customError.ErrInvalidCredential)
}

func TestAuthenticate_RoleMismatch(t *testing.T) {
	// A borrower's credentials must not open the admin door: the lookup is
	// keyed by email and role together, so a miss comes back as not found.
	mockUserRepo := &mocks.MockUserRepository{}
	service := NewAccountService(mockUserRepo, testLogger())

	mockUserRepo.On("GetByEmailAndRole", mock.Anything, "alice@example.com", domain.RoleAdmin).Return(nil, repository.ErrNotFound)

	user, err := service.Authenticate(context.Background(), "alice@example.com", domain.RoleAdmin, "secret123")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, customError.ErrInvalidCredential)
}

func TestGetByID_NotFound(t *testing.T) {
	mockUserRepo := &mocks.MockUserRepository{}
	service := NewAccountService(mockUserRepo, testLogger())

	id := uuid.New()
	mockUserRepo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	user, err := service.GetByID(context.Background(), id)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, customError.ErrUserNotFound)
}

func TestResetAdmin_HashesPassword(t *testing.T) {
	mockUserRepo := &mocks.MockUserRepository{}
	service := NewAccountService(mockUserRepo, testLogger())

	var storedHash string
	mockUserRepo.On("UpsertAdmin", mock.Anything, "Administrator", "admin@example.com", mock.MatchedBy(func(hash string) bool {
		storedHash = hash
		return hash != "newpassword"
	})).Return(&domain.User{ID: uuid.New(), Email: "admin@example.com", Role: domain.RoleAdmin}, nil)

	admin, err := service.ResetAdmin(context.Background(), "Administrator", " Admin@Example.com ", "newpassword")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("newpassword")))

	mockUserRepo.AssertExpectations(t)
}

func TestResetAdmin_RepositoryError(t *testing.T) {
	mockUserRepo := &mocks.MockUserRepository{}
	service := NewAccountService(mockUserRepo, testLogger())

	mockUserRepo.On("UpsertAdmin", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	admin, err := service.ResetAdmin(context.Background(), "Administrator", "admin@example.com", "newpassword")

	assert.Nil(t, admin)
	assert.Error(t, err)
}
