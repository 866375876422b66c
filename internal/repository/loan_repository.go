package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danutama/loan-tracker/internal/domain"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, borrower_id, principal, annual_rate, term_months, emi, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.BorrowerID,
		loan.Principal,
		loan.AnnualRate,
		loan.TermMonths,
		loan.EMI,
		loan.CreatedAt,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanWithBorrower, error) {
	query := `
		SELECT l.id, l.borrower_id, l.principal, l.annual_rate, l.term_months, l.emi, l.created_at,
		       u.name AS borrower_name, u.email AS borrower_email
		FROM loans l
		JOIN users u ON l.borrower_id = u.id
		WHERE l.id = $1
	`

	var loan domain.LoanWithBorrower
	err := r.db.GetContext(ctx, &loan, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*domain.Loan, error) {
	query := `
		SELECT id, borrower_id, principal, annual_rate, term_months, emi, created_at
		FROM loans
		WHERE borrower_id = $1
		ORDER BY created_at DESC
	`

	loans := []*domain.Loan{}
	err := r.db.SelectContext(ctx, &loans, query, borrowerID)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListAllWithBorrower(ctx context.Context) ([]*domain.LoanWithBorrower, error) {
	query := `
		SELECT l.id, l.borrower_id, l.principal, l.annual_rate, l.term_months, l.emi, l.created_at,
		       u.name AS borrower_name, u.email AS borrower_email
		FROM loans l
		JOIN users u ON l.borrower_id = u.id
		ORDER BY l.created_at DESC
	`

	loans := []*domain.LoanWithBorrower{}
	err := r.db.SelectContext(ctx, &loans, query)
	if err != nil {
		return nil, err
	}

	return loans, nil
}
