package handler

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/danutama/loan-tracker/internal/domain"
	"github.com/danutama/loan-tracker/internal/web"
)

// pageData is the payload every page template receives.
type pageData struct {
	Title   string
	User    *domain.User
	Flashes []Flash
	Data    interface{}
}

// Renderer executes the embedded page templates against a shared layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger *logrus.Logger
}

func NewRenderer(logger *logrus.Logger) (*Renderer, error) {
	names := []string{
		"home", "register", "login", "create_loan",
		"loan_view", "my_loans", "admin_dashboard",
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(web.Templates, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

func (r *Renderer) Render(w http.ResponseWriter, name string, data pageData) {
	tmpl, ok := r.pages[name]
	if !ok {
		r.logger.WithField("page", name).Error("unknown page template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		r.logger.WithError(err).WithField("page", name).Error("rendering page")
	}
}
