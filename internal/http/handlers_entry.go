package http

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"possu/internal/calendar"
	"possu/internal/core"
	"possu/internal/log"
	"possu/internal/ui"
)

// handleAmount re-renders the amount input with its value normalised.
func (s *Server) handleAmount(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	in := ui.NewMonetaryInput("amount", "Amount")
	in.HXPost = "/ui/amount"
	in.Value = core.FormatMonetaryInput(r.Form.Get("amount"))
	s.render(w, r, "input.html", in)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentEntry)

	date, err := ParseEntryDate(r.Form.Get("date"), s.entryRange(s.now()))
	if err != nil {
		logger.InfoContext(ctx, "Entry rejected", log.FieldError, err, log.FieldErrorType, log.ErrorTypeValidation)
		UnprocessableEntityError(entryErrorMessage(err)).Write(w)
		return
	}
	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		UnprocessableEntityError(entryErrorMessage(err)).Write(w)
		return
	}

	e := core.Entry{
		Date:        date,
		Description: sanitizeInput(r.Form.Get("description")),
		Amount:      amount,
		Category:    sanitizeInput(r.Form.Get("category")),
	}
	if err := e.Validate(); err != nil {
		logger.InfoContext(ctx, "Entry rejected", log.FieldError, err, log.FieldErrorType, log.ErrorTypeValidation)
		UnprocessableEntityError(entryErrorMessage(err)).Write(w)
		return
	}

	ref, err := s.backend.Append(ctx, e)
	if err != nil {
		logger.ErrorContext(ctx, "Entry append error", log.NewFields().
			WithOperation(log.OpAppend).
			WithError(err).
			WithEntry(0, e.Description, e.Amount.Cents, e.Category).
			ToSlice()...)
		InternalServerError("Failed to save the entry").Write(w)
		return
	}
	logger.InfoContext(ctx, "Entry created", "ref", ref, log.FieldDate, e.Date.Format("2006-01-02"))

	NewHTMXResponse().
		TriggerEntryCreated(e.Date.Year(), int(e.Date.Month())).
		TriggerFormReset().
		BodyHTML(`<div class="success">Saved (#` + template.HTMLEscapeString(ref) + `): ` +
			template.HTMLEscapeString(e.Description) + ", " +
			template.HTMLEscapeString(e.Amount.String()) + " (" +
			template.HTMLEscapeString(e.Category) + ") on " +
			e.Date.Format("2 January 2006") + `</div>`).
		Write(w)
}

type overviewRow struct {
	Name, Amount string
	Width        int
}

type overviewItem struct {
	Day                           int
	Description, Category, Amount string
}

type overviewPage struct {
	Title string
	Total string
	Rows  []overviewRow
	Items []overviewItem
}

func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := ParseMonthParams(r.URL.Query(), s.now())

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	ov, err := s.backend.ReadMonthOverview(cctx, p.Year, p.Month)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Month overview error",
			log.FieldError, err,
			log.FieldYear, p.Year,
			log.FieldMonth, p.Month)
		NewHTMXResponse().
			BodyHTML(`<section id="month-overview" class="month-overview"><div class="placeholder">Failed to load the overview</div></section>`).
			Write(w)
		return
	}
	s.render(w, r, "month_overview.html", overviewView(ov))
}

func overviewView(ov core.MonthOverview) overviewPage {
	page := overviewPage{
		Title: fmt.Sprintf("%s %d", calendar.Month(ov.Month), ov.Year),
		Total: core.FormatCents(ov.Total.Cents),
	}
	var maxCents int64
	for _, c := range ov.ByCategory {
		maxCents = max(maxCents, c.Amount.Cents)
	}
	for _, c := range ov.ByCategory {
		page.Rows = append(page.Rows, overviewRow{
			Name:   c.Name,
			Amount: core.FormatCents(c.Amount.Cents),
			Width:  barWidth(c.Amount.Cents, maxCents),
		})
	}
	for _, e := range ov.Entries {
		page.Items = append(page.Items, overviewItem{
			Day:         e.Date.Day(),
			Description: e.Description,
			Category:    e.Category,
			Amount:      core.FormatCents(e.Amount.Cents),
		})
	}
	return page
}

// barWidth is cents as a rounded percentage of maxCents, at least 2 so tiny
// amounts stay visible.
func barWidth(cents, maxCents int64) int {
	if maxCents <= 0 || cents <= 0 {
		return 0
	}
	w := int((cents*100 + maxCents/2) / maxCents)
	return min(max(w, 2), 100)
}
