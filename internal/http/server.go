package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"possu/internal/backend"
	"possu/internal/calendar"
	"possu/internal/log"
	"possu/internal/middleware/ratelimit"
	"possu/internal/middleware/security"
	"possu/internal/ui"
	appweb "possu/web"
)

// Options tunes NewServer. Zero values pick the defaults.
type Options struct {
	// YearsBack sets the selectable range to [now-YearsBack years, now].
	YearsBack         int
	RequestsPerMinute int
	// Now is the clock read by handlers; time.Now when nil.
	Now    func() time.Time
	Logger *log.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	backend   backend.Backend
	limiter   *ratelimit.Limiter
	logger    *log.Logger
	yearsBack int
	now       func() time.Time

	shutdownOnce sync.Once
}

var templateFuncs = template.FuncMap{
	"hasSelected": func(opts []ui.SelectOption) bool { return ui.SelectedIndex(opts) >= 0 },
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, b backend.Backend, opts Options) *Server {
	if opts.YearsBack <= 0 {
		opts.YearsBack = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig())
	}
	rl := ratelimit.DefaultConfig()
	if opts.RequestsPerMinute > 0 {
		rl.RequestsPerMinute = opts.RequestsPerMinute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		backend:   b,
		limiter:   ratelimit.NewLimiter(rl),
		logger:    opts.Logger.WithComponent(log.ComponentHTTP),
		yearsBack: opts.YearsBack,
		now:       opts.Now,
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	} else {
		s.templates = t
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssets(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleLogin)
	mux.HandleFunc("POST /login", s.handleLoginSubmit)
	mux.HandleFunc("GET /entries/new", s.handleNewEntry)
	mux.HandleFunc("POST /entries", s.handleCreateEntry)
	mux.HandleFunc("GET /ui/date-select", s.handleDateSelect)
	mux.HandleFunc("POST /ui/amount", s.handleAmount)
	mux.HandleFunc("GET /ui/month-overview", s.handleMonthOverview)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	onLimit := func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, security.ClientIP(r),
			log.FieldPath, r.URL.Path)
		TooManyRequestsError("Too many requests, try again in a minute").Write(w)
	}

	var h http.Handler = mux
	h = s.limiter.Middleware(security.ClientIP, onLimit, http.MethodPost)(h)
	h = log.Middleware(s.logger, security.ClientIP)(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	s.Handler = h
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// entryRange is the span an entry date may fall in, ending at now.
func (s *Server) entryRange(now time.Time) calendar.Range {
	return calendar.NewRange(now.AddDate(-s.yearsBack, 0, 0), now)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", "template", name)
		InternalServerError("templates not loaded").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			log.FieldOperation, log.OpRender,
			"template", name)
	}
}
