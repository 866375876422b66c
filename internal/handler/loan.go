package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/danutama/loan-tracker/internal/domain"
	"github.com/danutama/loan-tracker/internal/service"
	customError "github.com/danutama/loan-tracker/pkg/errors"
	"github.com/danutama/loan-tracker/pkg/response"
)

// LoanHandler serves loan creation, detail, payments, the EMI preview
// endpoint, statement download and the loan listings.
type LoanHandler struct {
	loans     *service.LoanService
	sessions  *SessionManager
	renderer  *Renderer
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewLoanHandler(loans *service.LoanService, sessions *SessionManager, renderer *Renderer, logger *logrus.Logger) *LoanHandler {
	return &LoanHandler{
		loans:     loans,
		sessions:  sessions,
		renderer:  renderer,
		validator: validator.New(),
		logger:    logger,
	}
}

// CreateLoan renders the form on GET; on POST it computes the installment,
// persists the loan for the logged-in borrower and redirects with a flash
// that includes the best-effort SMS outcome.
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r.Context(), r)
	if user == nil {
		h.sessions.AddFlash(w, r, flashWarning, "Please log in to create a loan.")
		http.Redirect(w, r, "/user-login", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodGet {
		h.renderer.Render(w, "create_loan", pageData{
			Title:   "Create Loan",
			User:    user,
			Flashes: h.sessions.Flashes(w, r),
		})
		return
	}

	req, err := parseCreateLoanForm(r)
	if err == nil {
		err = h.validator.Struct(req)
	}
	if err != nil {
		h.sessions.AddFlash(w, r, flashDanger, "Principal, annual rate and term (in months) are required numeric fields.")
		http.Redirect(w, r, "/create-loan", http.StatusSeeOther)
		return
	}

	loan, notified, err := h.loans.CreateLoan(r.Context(), user, req)
	if err != nil {
		var bizErr *customError.BusinessError
		if errors.As(err, &bizErr) && bizErr.Code != customError.ErrCodeDatabaseError {
			h.sessions.AddFlash(w, r, flashDanger, "Error calculating EMI: "+bizErr.Message)
		} else {
			h.logger.WithError(err).Error("creating loan")
			h.sessions.AddFlash(w, r, flashDanger, "Could not create loan, please try again.")
		}
		http.Redirect(w, r, "/create-loan", http.StatusSeeOther)
		return
	}

	message := fmt.Sprintf("Loan created. EMI = %s.", loan.EMI.StringFixed(2))
	switch {
	case notified.Attempted && notified.OK:
		h.sessions.AddFlash(w, r, flashSuccess, message+" "+notified.Message)
	case notified.Attempted:
		h.sessions.AddFlash(w, r, flashWarning, message+" (Note: "+notified.Message+")")
	default:
		h.sessions.AddFlash(w, r, flashSuccess, message)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoanView renders a loan with its payment history and derived balance.
func (h *LoanHandler) LoanView(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r.Context(), r)
	if user == nil {
		h.sessions.AddFlash(w, r, flashWarning, "Please log in to view loans.")
		http.Redirect(w, r, "/user-login", http.StatusSeeOther)
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.sessions.AddFlash(w, r, flashDanger, "Loan not found.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	detail, err := h.loans.Detail(r.Context(), loanID)
	if err != nil {
		if errors.Is(err, customError.ErrLoanNotFound) {
			h.sessions.AddFlash(w, r, flashDanger, "Loan not found.")
		} else {
			h.logger.WithError(err).Error("loading loan detail")
			h.sessions.AddFlash(w, r, flashDanger, "Could not load loan.")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, "loan_view", pageData{
		Title:   "Loan Detail",
		User:    user,
		Flashes: h.sessions.Flashes(w, r),
		Data:    detail,
	})
}

// Download streams the PDF statement. Owner or admin only.
func (h *LoanHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r.Context(), r)
	if user == nil {
		h.sessions.AddFlash(w, r, flashWarning, "Please log in to download loan details.")
		http.Redirect(w, r, "/user-login", http.StatusSeeOther)
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.sessions.AddFlash(w, r, flashDanger, "Loan not found.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	document, err := h.loans.Statement(r.Context(), user, loanID)
	if err != nil {
		switch {
		case errors.Is(err, customError.ErrLoanNotFound):
			h.sessions.AddFlash(w, r, flashDanger, "Loan not found.")
		case errors.Is(err, customError.ErrNotAuthorized):
			h.sessions.AddFlash(w, r, flashDanger, "You are not authorized to download this loan.")
		default:
			h.logger.WithError(err).Error("rendering statement")
			h.sessions.AddFlash(w, r, flashDanger, "Could not generate statement.")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="loan_%s.pdf"`, loanID))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(document)))
	if _, err := w.Write(document); err != nil {
		h.logger.WithError(err).Warn("writing statement response")
	}
}

// PaymentEntry records a payment and redirects back to the loan page with a
// flash that includes the best-effort SMS outcome.
func (h *LoanHandler) PaymentEntry(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r.Context(), r)
	if user == nil {
		h.sessions.AddFlash(w, r, flashWarning, "Please login to enter payments.")
		http.Redirect(w, r, "/user-login", http.StatusSeeOther)
		return
	}

	req, err := parsePaymentForm(r)
	if err == nil {
		err = h.validator.Struct(req)
	}
	if err != nil {
		h.sessions.AddFlash(w, r, flashDanger, "All payment fields are required (date as YYYY-MM-DD).")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	_, _, notified, err := h.loans.RecordPayment(r.Context(), user, req)
	if err != nil {
		switch {
		case errors.Is(err, customError.ErrLoanNotFound):
			h.sessions.AddFlash(w, r, flashDanger, "Loan not found.")
		case errors.Is(err, customError.ErrNotAuthorized):
			h.sessions.AddFlash(w, r, flashDanger, "You are not authorized to add payment for this loan.")
		case errors.Is(err, customError.ErrInvalidAmount):
			h.sessions.AddFlash(w, r, flashDanger, "Invalid payment amount or date.")
		default:
			h.logger.WithError(err).Error("recording payment")
			h.sessions.AddFlash(w, r, flashDanger, "Could not record payment.")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch {
	case notified.Attempted && notified.OK:
		h.sessions.AddFlash(w, r, flashSuccess, "Payment recorded. "+notified.Message)
	case notified.Attempted:
		h.sessions.AddFlash(w, r, flashWarning, "Payment recorded. (Note: "+notified.Message+")")
	default:
		h.sessions.AddFlash(w, r, flashSuccess, "Payment recorded.")
	}

	http.Redirect(w, r, "/loan/"+req.LoanID, http.StatusSeeOther)
}

// CalculateEMI is the stateless installment preview endpoint. It returns a
// JSON envelope with either the EMI or a computation error.
func (h *LoanHandler) CalculateEMI(w http.ResponseWriter, r *http.Request) {
	req, err := parseCalculateEMIForm(r)
	if err == nil {
		err = h.validator.Struct(req)
	}
	if err != nil {
		response.BadRequest(w, "principal, annual_rate and term_months must be numeric", err)
		return
	}

	emi, err := h.loans.PreviewEMI(req)
	if err != nil {
		var bizErr *customError.BusinessError
		if errors.As(err, &bizErr) {
			response.BadRequest(w, bizErr.Message, bizErr.Err)
			return
		}
		response.BadRequest(w, "could not calculate EMI", err)
		return
	}

	response.Success(w, domain.CalculateEMIResponse{EMI: emi})
}

// AdminDashboard lists every loan with borrower identity. Admin only.
func (h *LoanHandler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r.Context(), r)
	if user == nil || !user.IsAdmin() {
		h.sessions.AddFlash(w, r, flashDanger, "Admin access required.")
		http.Redirect(w, r, "/admin-login", http.StatusSeeOther)
		return
	}

	loans, err := h.loans.ListAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("listing loans")
		h.sessions.AddFlash(w, r, flashDanger, "Could not load loans.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, "admin_dashboard", pageData{
		Title:   "Admin Dashboard",
		User:    user,
		Flashes: h.sessions.Flashes(w, r),
		Data:    loans,
	})
}

// UserLoans lists the caller's own loans.
func (h *LoanHandler) UserLoans(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r.Context(), r)
	if user == nil {
		h.sessions.AddFlash(w, r, flashWarning, "Please log in to view your loans.")
		http.Redirect(w, r, "/user-login", http.StatusSeeOther)
		return
	}

	loans, err := h.loans.ListForBorrower(r.Context(), user.ID)
	if err != nil {
		h.logger.WithError(err).Error("listing borrower loans")
		h.sessions.AddFlash(w, r, flashDanger, "Could not load your loans.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, "my_loans", pageData{
		Title:   "My Loans",
		User:    user,
		Flashes: h.sessions.Flashes(w, r),
		Data:    loans,
	})
}

func parseCreateLoanForm(r *http.Request) (*domain.CreateLoanRequest, error) {
	principal, err := decimal.NewFromString(r.PostFormValue("principal"))
	if err != nil {
		return nil, fmt.Errorf("principal: %w", err)
	}
	rate, err := decimal.NewFromString(r.PostFormValue("annual_rate"))
	if err != nil {
		return nil, fmt.Errorf("annual_rate: %w", err)
	}
	term, err := parseInt(r.PostFormValue("term_months"))
	if err != nil {
		return nil, fmt.Errorf("term_months: %w", err)
	}

	return &domain.CreateLoanRequest{
		Principal:  principal,
		AnnualRate: rate,
		TermMonths: term,
		Phone:      r.PostFormValue("phone_number"),
	}, nil
}

func parseCalculateEMIForm(r *http.Request) (*domain.CalculateEMIRequest, error) {
	principal, err := decimal.NewFromString(r.PostFormValue("principal"))
	if err != nil {
		return nil, fmt.Errorf("principal: %w", err)
	}
	rate, err := decimal.NewFromString(r.PostFormValue("annual_rate"))
	if err != nil {
		return nil, fmt.Errorf("annual_rate: %w", err)
	}
	term, err := parseInt(r.PostFormValue("term_months"))
	if err != nil {
		return nil, fmt.Errorf("term_months: %w", err)
	}

	return &domain.CalculateEMIRequest{
		Principal:  principal,
		AnnualRate: rate,
		TermMonths: term,
	}, nil
}

func parsePaymentForm(r *http.Request) (*domain.PaymentRequest, error) {
	amount, err := decimal.NewFromString(r.PostFormValue("amount"))
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	return &domain.PaymentRequest{
		LoanID:      r.PostFormValue("loan_id"),
		Amount:      amount,
		PaymentDate: r.PostFormValue("payment_date"),
		Phone:       r.PostFormValue("phone_number"),
	}, nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
