package http

import (
	"context"
	"net/http"
	"time"

	"possu/internal/backend"
	"possu/internal/dateselect"
	"possu/internal/log"
	"possu/internal/ui"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady pings the backend when it has something to ping.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.backend.(backend.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

type loginPage struct {
	Username ui.Input
	Password ui.Input
	Submit   ui.Button
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", loginPage{
		Username: ui.NewTextInput("username", "Username"),
		Password: ui.NewPasswordInput("password", "Password"),
		Submit:   ui.Button{ID: "login", Label: "Sign in"},
	})
}

// handleLoginSubmit accepts any credentials and moves on to the entry form.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().Redirect("/entries/new").Write(w)
}

type entryPage struct {
	Category    ui.Select
	Description ui.Input
	Amount      ui.Input
	Date        ui.DateSelect
	Submit      ui.Button
	Year        int
	Month       int
}

func (s *Server) handleNewEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := s.now()

	cats, err := s.backend.List(ctx)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Category list error", log.FieldError, err)
	}

	amount := ui.NewMonetaryInput("amount", "Amount")
	amount.HXPost = "/ui/amount"

	c := dateselect.New(s.entryRange(now), now, nil)
	s.render(w, r, "entry_form.html", entryPage{
		Category: ui.Select{
			ID:      "category",
			Label:   "Category",
			Name:    "category",
			Options: ui.OptionsFromStrings(cats, ""),
		},
		Description: ui.NewTextInput("description", "Description"),
		Amount:      amount,
		Date:        dateSelectView(defaultDateSelectID, "Date", c),
		Submit:      ui.Button{ID: "save", Label: "Save"},
		Year:        now.Year(),
		Month:       int(now.Month()),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.backend.List(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Category list error", log.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list categories"})
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": cats})
}
