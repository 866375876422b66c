package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/danutama/loan-tracker/internal/domain"
	"github.com/danutama/loan-tracker/internal/service"
	customError "github.com/danutama/loan-tracker/pkg/errors"
)

const (
	flashSuccess = "success"
	flashDanger  = "danger"
	flashWarning = "warning"
	flashInfo    = "info"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	accounts  *service.AccountService
	sessions  *SessionManager
	renderer  *Renderer
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewAuthHandler(accounts *service.AccountService, sessions *SessionManager, renderer *Renderer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		sessions:  sessions,
		renderer:  renderer,
		validator: validator.New(),
		logger:    logger,
	}
}

// Home renders the landing page.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r.Context(), r)
	h.renderer.Render(w, "home", pageData{
		Title:   "Home",
		User:    user,
		Flashes: h.sessions.Flashes(w, r),
	})
}

// RegisterBorrower renders the registration form on GET and creates a
// borrower account on POST.
func (h *AuthHandler) RegisterBorrower(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.renderer.Render(w, "register", pageData{
			Title:   "Register",
			Flashes: h.sessions.Flashes(w, r),
		})
		return
	}

	req := &domain.RegisterRequest{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if err := h.validator.Struct(req); err != nil {
		h.sessions.AddFlash(w, r, flashDanger, "All fields are required (password at least 6 characters).")
		http.Redirect(w, r, "/register-borrower", http.StatusSeeOther)
		return
	}

	if _, err := h.accounts.Register(r.Context(), req); err != nil {
		if errors.Is(err, customError.ErrDuplicateEmail) {
			h.sessions.AddFlash(w, r, flashDanger, "Email already registered.")
		} else {
			h.logger.WithError(err).Error("registration failed")
			h.sessions.AddFlash(w, r, flashDanger, "Registration failed, please try again.")
		}
		http.Redirect(w, r, "/register-borrower", http.StatusSeeOther)
		return
	}

	h.sessions.AddFlash(w, r, flashSuccess, "Registration successful. You may login now.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// UserLogin authenticates a borrower and starts a session.
func (h *AuthHandler) UserLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.RoleUser, "User Login", "/user-login")
}

// AdminLogin authenticates an admin and starts a session.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.RoleAdmin, "Admin Login", "/admin-login")
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, role, title, path string) {
	if r.Method == http.MethodGet {
		h.renderer.Render(w, "login", pageData{
			Title:   title,
			Flashes: h.sessions.Flashes(w, r),
			Data:    path,
		})
		return
	}

	req := &domain.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if err := h.validator.Struct(req); err != nil {
		h.sessions.AddFlash(w, r, flashDanger, "Email and password are required.")
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, role, req.Password)
	if err != nil {
		if errors.Is(err, customError.ErrInvalidCredential) {
			h.sessions.AddFlash(w, r, flashDanger, "Invalid credentials.")
		} else {
			h.logger.WithError(err).Error("login failed")
			h.sessions.AddFlash(w, r, flashDanger, "Login failed, please try again.")
		}
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}

	if err := h.sessions.SignIn(w, r, user); err != nil {
		h.logger.WithError(err).Error("starting session")
		h.sessions.AddFlash(w, r, flashDanger, "Login failed, please try again.")
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}

	h.sessions.AddFlash(w, r, flashSuccess, "Login successful.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		h.logger.WithError(err).Warn("clearing session")
	}
	h.sessions.AddFlash(w, r, flashInfo, "Logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
