package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/danutama/loan-tracker/internal/domain"
	"github.com/danutama/loan-tracker/internal/notify"
	"github.com/danutama/loan-tracker/internal/pdf"
	"github.com/danutama/loan-tracker/internal/repository"
	customError "github.com/danutama/loan-tracker/pkg/errors"
	"github.com/danutama/loan-tracker/pkg/finance"
)

const balanceCacheTTL = 10 * time.Minute

// NotifyResult reports the outcome of a best-effort notification. It never
// carries an error: dispatch failures only qualify the confirmation message.
type NotifyResult struct {
	Attempted bool
	OK        bool
	Message   string
}

// LoanService implements the loan ledger use cases: loan creation with EMI
// computation, payment recording, balance aggregation, and statement export.
type LoanService struct {
	Loans      repository.LoanRepository
	Payments   repository.PaymentRepository
	dispatcher notify.Dispatcher
	cache      *redis.Client
	logger     *logrus.Logger
}

func NewLoanService(
	loans repository.LoanRepository,
	payments repository.PaymentRepository,
	dispatcher notify.Dispatcher,
	cache *redis.Client,
	logger *logrus.Logger,
) *LoanService {
	return &LoanService{
		Loans:      loans,
		Payments:   payments,
		dispatcher: dispatcher,
		cache:      cache,
		logger:     logger,
	}
}

// PreviewEMI computes an installment without persisting anything.
func (s *LoanService) PreviewEMI(req *domain.CalculateEMIRequest) (decimal.Decimal, error) {
	if err := validateLoanTerms(req.Principal, req.AnnualRate); err != nil {
		return decimal.Zero, err
	}

	emi, err := finance.CalculateEMI(req.Principal, req.AnnualRate, req.TermMonths)
	if err != nil {
		return decimal.Zero, customError.WrapInvalidTerm(err)
	}

	return emi, nil
}

// CreateLoan computes the installment once, persists the loan, and then
// dispatches the best-effort notification. The notification runs strictly
// after the write has committed, so its failure can never roll the loan back.
func (s *LoanService) CreateLoan(ctx context.Context, borrower *domain.User, req *domain.CreateLoanRequest) (*domain.Loan, NotifyResult, error) {
	if err := validateLoanTerms(req.Principal, req.AnnualRate); err != nil {
		return nil, NotifyResult{}, err
	}

	emi, err := finance.CalculateEMI(req.Principal, req.AnnualRate, req.TermMonths)
	if err != nil {
		return nil, NotifyResult{}, customError.WrapInvalidTerm(err)
	}

	loan := &domain.Loan{
		ID:         uuid.New(),
		BorrowerID: borrower.ID,
		Principal:  req.Principal.Round(2),
		AnnualRate: req.AnnualRate.Round(3),
		TermMonths: req.TermMonths,
		EMI:        emi,
		CreatedAt:  time.Now(),
	}

	if err := s.Loans.Create(ctx, loan); err != nil {
		return nil, NotifyResult{}, customError.WrapDatabaseError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"loan_id":  loan.ID,
		"borrower": borrower.ID,
		"emi":      emi.String(),
	}).Info("loan created")

	var result NotifyResult
	if req.Phone != "" {
		result.Attempted = true
		result.OK, result.Message = s.dispatcher.LoanCreated(ctx, req.Phone, notify.LoanNotice{
			BorrowerName: borrower.Name,
			Principal:    loan.Principal,
			AnnualRate:   loan.AnnualRate,
			TermMonths:   loan.TermMonths,
			EMI:          loan.EMI,
		})
	}

	return loan, result, nil
}

// Detail returns a loan with its payment history and derived balance,
// newest payment first.
func (s *LoanService) Detail(ctx context.Context, loanID uuid.UUID) (*domain.LoanDetail, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	payments, err := s.Payments.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	amounts := make([]decimal.Decimal, 0, len(payments))
	for _, p := range payments {
		amounts = append(amounts, p.Amount)
	}
	balance := finance.Aggregate(loan.EMI, loan.TermMonths, amounts)

	s.storeRemaining(ctx, loanID, balance.Remaining)

	return &domain.LoanDetail{
		Loan:         *loan,
		Payments:     payments,
		TotalPaid:    balance.TotalPaid,
		TotalPayable: balance.TotalPayable,
		Remaining:    balance.Remaining,
	}, nil
}

// ListForBorrower returns a borrower's own loans, newest first.
func (s *LoanService) ListForBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*domain.Loan, error) {
	loans, err := s.Loans.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// ListAll returns every loan joined with borrower identity (admin view).
func (s *LoanService) ListAll(ctx context.Context) ([]*domain.LoanWithBorrower, error) {
	loans, err := s.Loans.ListAllWithBorrower(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return loans, nil
}

// RecordPayment persists a payment against a loan the actor owns (or any
// loan, for admins), recomputes the remaining balance, and dispatches the
// best-effort notification after the write is committed. The amount is
// deliberately not checked against the remaining balance: overpayment and
// duplicate entries are accepted.
func (s *LoanService) RecordPayment(ctx context.Context, actor *domain.User, req *domain.PaymentRequest) (*domain.Payment, decimal.Decimal, NotifyResult, error) {
	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		return nil, decimal.Zero, NotifyResult{}, customError.WrapLoanNotFound(req.LoanID)
	}

	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, decimal.Zero, NotifyResult{}, err
	}

	if loan.BorrowerID != actor.ID && !actor.IsAdmin() {
		return nil, decimal.Zero, NotifyResult{}, customError.WrapNotAuthorized(loanID.String())
	}

	if !req.Amount.IsPositive() {
		return nil, decimal.Zero, NotifyResult{}, customError.WrapInvalidAmount("payment amount must be positive")
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		return nil, decimal.Zero, NotifyResult{}, customError.WrapInvalidAmount("payment date must be YYYY-MM-DD")
	}

	payment := &domain.Payment{
		ID:          uuid.New(),
		LoanID:      loanID,
		Amount:      req.Amount.Round(2),
		PaymentDate: paymentDate,
		CreatedAt:   time.Now(),
	}

	if err := s.Payments.Create(ctx, payment); err != nil {
		return nil, decimal.Zero, NotifyResult{}, customError.WrapDatabaseError(err)
	}

	s.invalidateRemaining(ctx, loanID)

	remaining, err := s.remainingBalance(ctx, loan)
	if err != nil {
		return nil, decimal.Zero, NotifyResult{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"loan_id":   loanID,
		"amount":    payment.Amount.String(),
		"remaining": remaining.String(),
	}).Info("payment recorded")

	var result NotifyResult
	if req.Phone != "" {
		result.Attempted = true
		result.OK, result.Message = s.dispatcher.PaymentRecorded(ctx, req.Phone, notify.PaymentNotice{
			BorrowerName: actor.Name,
			LoanID:       loanID.String(),
			Amount:       payment.Amount,
			Remaining:    remaining,
		})
	}

	return payment, remaining, result, nil
}

// Statement renders the PDF statement for a loan. Only the owner or an
// admin may export it.
func (s *LoanService) Statement(ctx context.Context, actor *domain.User, loanID uuid.UUID) ([]byte, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if loan.BorrowerID != actor.ID && !actor.IsAdmin() {
		return nil, customError.WrapNotAuthorized(loanID.String())
	}

	payments, err := s.Payments.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return pdf.RenderStatement(loan, payments)
}

func (s *LoanService) getLoan(ctx context.Context, loanID uuid.UUID) (*domain.LoanWithBorrower, error) {
	loan, err := s.Loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, customError.WrapLoanNotFound(loanID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

// remainingBalance computes total payable minus total paid, reading through
// the redis cache when one is configured. Cache failures fall back to the
// database silently.
func (s *LoanService) remainingBalance(ctx context.Context, loan *domain.LoanWithBorrower) (decimal.Decimal, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, balanceKey(loan.ID)).Result()
		if err == nil {
			if remaining, perr := decimal.NewFromString(cached); perr == nil {
				return remaining, nil
			}
		}
	}

	totalPaid, err := s.Payments.SumByLoan(ctx, loan.ID)
	if err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	balance := finance.Aggregate(loan.EMI, loan.TermMonths, []decimal.Decimal{totalPaid})
	s.storeRemaining(ctx, loan.ID, balance.Remaining)

	return balance.Remaining, nil
}

func (s *LoanService) storeRemaining(ctx context.Context, loanID uuid.UUID, remaining decimal.Decimal) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, balanceKey(loanID), remaining.String(), balanceCacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("balance cache write failed")
	}
}

func (s *LoanService) invalidateRemaining(ctx context.Context, loanID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, balanceKey(loanID)).Err(); err != nil {
		s.logger.WithError(err).Warn("balance cache invalidation failed")
	}
}

func balanceKey(loanID uuid.UUID) string {
	return fmt.Sprintf("loan:balance:%s", loanID)
}

func validateLoanTerms(principal, annualRate decimal.Decimal) error {
	if !principal.IsPositive() {
		return customError.WrapInvalidAmount("principal must be positive")
	}
	if annualRate.IsNegative() {
		return customError.WrapInvalidAmount("annual rate must not be negative")
	}
	return nil
}
