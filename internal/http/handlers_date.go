package http

import (
	"net/http"
	"net/url"
	"time"

	"possu/internal/calendar"
	"possu/internal/dateselect"
	"possu/internal/log"
	"possu/internal/ui"
)

// handleDateSelect re-renders the selector after one level changed. The
// previous state travels in the form; one settle is applied for the level
// named by "changed". Without it the selector starts over from preselect.
func (s *Server) handleDateSelect(w http.ResponseWriter, r *http.Request) {
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	logger := log.FromContext(ctx).WithComponent(log.ComponentDate)
	now := s.now()
	p := ParseDateSelectParams(r.Form, now)

	settled := func(d calendar.Maybe[time.Time]) {
		t, ok := d.Get()
		logger.DebugContext(ctx, "Date settled", log.NewFields().
			WithOperation(log.OpSettle).
			WithDate(t, ok).
			ToSlice()...)
	}

	rng := s.entryRange(now)
	var c *dateselect.Controller
	if p.HasChanged {
		c = dateselect.Restore(rng, p.Preselect, p.State, settled)
		c.Select(p.Changed, p.Raw[p.Changed])
	} else {
		c = dateselect.New(rng, p.Preselect, settled)
	}
	s.render(w, r, "date_select.html", dateSelectView(p.ID, "Date", c))
}

// dateSelectView maps a controller onto the select partials. Every select
// re-requests the whole selector, naming itself as the changed level.
func dateSelectView(id, label string, c *dateselect.Controller) ui.DateSelect {
	ds := ui.DateSelect{
		ID:        id,
		Label:     label,
		Preselect: c.Preselect().Format(time.RFC3339),
	}
	if d, ok := c.Date().Get(); ok {
		ds.Value = d.Format(time.RFC3339)
	}
	section := "#" + ds.SectionID()
	for _, f := range c.Fields() {
		q := url.Values{"id": {id}, "changed": {f.Level.String()}}
		ds.Selects = append(ds.Selects, ui.Select{
			ID:        id + "_" + f.Level.String(),
			Label:     f.Level.Label(),
			Name:      f.Level.String(),
			Options:   f.Options,
			HXGet:     "/ui/date-select?" + q.Encode(),
			HXTarget:  section,
			HXInclude: section + " select, " + section + " input",
		})
	}
	return ds
}
