package handler

import (
	"context"
	"encoding/gob"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/danutama/loan-tracker/internal/config"
	"github.com/danutama/loan-tracker/internal/domain"
	"github.com/danutama/loan-tracker/internal/service"
)

const (
	sessionName   = "loantracker"
	sessionUserID = "user_id"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// SessionManager owns the signed session cookie. The cookie stores only the
// account id; the account itself is loaded fresh per request and handed to
// handlers as an explicit value, never kept in ambient state.
type SessionManager struct {
	store    *sessions.CookieStore
	accounts *service.AccountService
}

func NewSessionManager(cfg config.SessionConfig, accounts *service.AccountService) *SessionManager {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{
		store:    store,
		accounts: accounts,
	}
}

// CurrentUser resolves the session cookie to an account, or nil when not
// logged in (or when the referenced account no longer exists).
func (m *SessionManager) CurrentUser(ctx context.Context, r *http.Request) *domain.User {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return nil
	}

	raw, ok := session.Values[sessionUserID].(string)
	if !ok {
		return nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}

	user, err := m.accounts.GetByID(ctx, id)
	if err != nil {
		return nil
	}

	return user
}

// SignIn records the account id in the session.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values[sessionUserID] = user.ID.String()
	return session.Save(r, w)
}

// SignOut drops the login from the session. The cookie itself stays alive
// so the logout flash can still be delivered.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	delete(session.Values, sessionUserID)
	return session.Save(r, w)
}

// AddFlash queues a one-shot message for the next page render.
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, level, message string) {
	session, _ := m.store.Get(r, sessionName)
	session.AddFlash(Flash{Level: level, Message: message})
	_ = session.Save(r, w)
}

// Flashes drains and returns queued messages.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, _ := m.store.Get(r, sessionName)

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = session.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if flash, ok := f.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
