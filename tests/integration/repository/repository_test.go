package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danutama/loan-tracker/internal/domain"
	"github.com/danutama/loan-tracker/internal/repository"
)

// Runs against a disposable database named by TEST_DATABASE_URL. Skipped when
// the variable is unset so the unit suite stays self-contained.

var testDB *sqlx.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn != "" {
		setup(dsn)
	}
	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func setup(dsn string) {
	mig, err := migrate.New("file://../../../migrations", dsn)
	if err != nil {
		panic(fmt.Sprintf("creating migrator: %v", err))
	}
	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		panic(fmt.Sprintf("applying migrations: %v", err))
	}

	testDB, err = sqlx.Connect("postgres", dsn)
	if err != nil {
		panic(fmt.Sprintf("connecting to test database: %v", err))
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
}

func seedUser(t *testing.T, role string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Integration Borrower",
		Email:        fmt.Sprintf("%s@example.com", uuid.New()),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         role,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repository.NewUserRepository(testDB).Create(context.Background(), user))
	return user
}

func seedLoan(t *testing.T, borrowerID uuid.UUID) *domain.Loan {
	t.Helper()
	loan := &domain.Loan{
		ID:         uuid.New(),
		BorrowerID: borrowerID,
		Principal:  decimal.NewFromInt(100000),
		AnnualRate: decimal.NewFromInt(10),
		TermMonths: 12,
		EMI:        decimal.RequireFromString("8791.59"),
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repository.NewLoanRepository(testDB).Create(context.Background(), loan))
	return loan
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	requireDB(t)

	repo := repository.NewUserRepository(testDB)
	user := seedUser(t, domain.RoleUser)

	dup := &domain.User{
		ID:           uuid.New(),
		Name:         "Someone Else",
		Email:        user.Email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         domain.RoleUser,
		CreatedAt:    time.Now(),
	}

	err := repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestUserRepository_GetByEmailAndRole(t *testing.T) {
	requireDB(t)

	repo := repository.NewUserRepository(testDB)
	user := seedUser(t, domain.RoleUser)

	found, err := repo.GetByEmailAndRole(context.Background(), user.Email, domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.GetByEmailAndRole(context.Background(), user.Email, domain.RoleAdmin)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLoanRepository_GetByIDJoinsBorrower(t *testing.T) {
	requireDB(t)

	user := seedUser(t, domain.RoleUser)
	loan := seedLoan(t, user.ID)

	found, err := repository.NewLoanRepository(testDB).GetByID(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Name, found.BorrowerName)
	assert.Equal(t, user.Email, found.BorrowerEmail)
	assert.True(t, found.EMI.Equal(loan.EMI))
}

func TestLoanRepository_GetByID_NotFound(t *testing.T) {
	requireDB(t)

	_, err := repository.NewLoanRepository(testDB).GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPaymentRepository_SumAndOrder(t *testing.T) {
	requireDB(t)

	user := seedUser(t, domain.RoleUser)
	loan := seedLoan(t, user.ID)
	repo := repository.NewPaymentRepository(testDB)

	older := &domain.Payment{
		ID:          uuid.New(),
		LoanID:      loan.ID,
		Amount:      decimal.RequireFromString("8791.59"),
		PaymentDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Now(),
	}
	newer := &domain.Payment{
		ID:          uuid.New(),
		LoanID:      loan.ID,
		Amount:      decimal.RequireFromString("100.41"),
		PaymentDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Now(),
	}

	require.NoError(t, repo.Create(context.Background(), older))
	require.NoError(t, repo.Create(context.Background(), newer))

	payments, err := repo.ListByLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, newer.ID, payments[0].ID, "newest payment first")

	total, err := repo.SumByLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("8892.00")), "got %s", total)
}

func TestPaymentRepository_SumEmptyLoan(t *testing.T) {
	requireDB(t)

	user := seedUser(t, domain.RoleUser)
	loan := seedLoan(t, user.ID)

	total, err := repository.NewPaymentRepository(testDB).SumByLoan(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestUserRepository_UpsertAdmin(t *testing.T) {
	requireDB(t)

	repo := repository.NewUserRepository(testDB)

	first, err := repo.UpsertAdmin(context.Background(), "Administrator", fmt.Sprintf("%s@example.com", uuid.New()), "$2a$10$hash1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.Role)

	// A second reset must update the same row, not add another admin.
	second, err := repo.UpsertAdmin(context.Background(), "Administrator", fmt.Sprintf("%s@example.com", uuid.New()), "$2a$10$hash2")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
