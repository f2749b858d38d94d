package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"ecolearn/internal/config"
	"ecolearn/internal/explorer"
	"ecolearn/internal/httpmw"
	"ecolearn/internal/metrics"
	"ecolearn/internal/ops"
	"ecolearn/internal/play"
	"ecolearn/internal/server"
	"ecolearn/internal/session"
	"ecolearn/internal/telemetry"
	staticfiles "ecolearn/static"
	"ecolearn/ui/page"

	"github.com/a-h/templ"
)

const defaultEventLimit = 10000

type Options struct {
	Config  *config.Config
	Logger  *log.Logger
	Events  telemetry.Repository
	Metrics *metrics.Collector
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Events == nil {
		opts.Events = telemetry.NewMemoryRepository(defaultEventLimit)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector()
	}
	cfg := opts.Config

	store := session.NewStore(session.StoreOptions{
		MaxSessions: cfg.Sessions.MaxSessions,
		IdleTTL:     cfg.Sessions.IdleTTL,
		Balance:     cfg.Balance,
		Recorder:    telemetry.Multi(opts.Events, opts.Metrics),
		Logger:      opts.Logger,
	})
	opts.Metrics.RegisterSessionGauge(store.Len)
	withSession := store.Middleware(session.CookieOptions{
		Name:   cfg.Sessions.CookieName,
		Secure: cfg.Sessions.CookieSecure,
		TTL:    cfg.Sessions.IdleTTL,
	})

	mux := http.NewServeMux()
	routes := &server.RouteRegistry{}

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if cfg.Server.DevStatic {
		staticHandler = http.FileServer(http.Dir(cfg.Server.StaticDir))
	}
	server.Handle(mux, routes, "GET /static/", "Embedded stylesheets", "", http.StripPrefix("/static/", staticHandler))

	server.HandleFunc(mux, routes, "GET /healthz", "Liveness probe", "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "ecolearn",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	server.HandleFunc(mux, routes, "GET /readyz", "Readiness probe", "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := opts.Events.GetEvents(time.Now().UTC(), nil); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "telemetry storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"service":  "ecolearn",
			"sessions": store.Len(),
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	})

	server.Handle(mux, routes, "GET /metrics", "Prometheus metrics", "", opts.Metrics.Handler())

	playHandler := play.NewHandler()
	playHandler.SetExplorerResolver(func(r *http.Request) *explorer.Explorer {
		e, _ := session.FromContext(r.Context())
		return e
	})
	playHandler.SetEventRepository(opts.Events)

	api := func(methodAndPattern, summary, body string, h http.HandlerFunc) {
		server.Handle(mux, routes, methodAndPattern, summary, body, withSession(h))
	}
	api("GET /api/state", "Snapshot of the session's explorer", "", playHandler.State)
	api("GET /api/profile", "Eco coins, level and experience", "", playHandler.Profile)
	api("POST /api/panel", "Switch the active panel", `{"panel":"global-warming"}`, playHandler.SwitchPanel)
	api("POST /api/water-cycle/advance", "Advance one water cycle stage", `{"stage":"evaporation"}`, playHandler.Advance)
	api("POST /api/water-cycle/reset", "Reset a completed water cycle", "", playHandler.Reset)
	api("POST /api/climate/decide", "Apply a climate decision", `{"challenge":0,"option":0}`, playHandler.Decide)
	server.HandleFunc(mux, routes, "GET /api/stats", "Gameplay stats across sessions (?days=7)", "", playHandler.Stats)

	api("POST /play/panel", "Form: switch panel", "panel=ar-explore", playHandler.FormSwitchPanel)
	api("POST /play/water-cycle/advance", "Form: advance stage", "stage=condensation", playHandler.FormAdvance)
	api("POST /play/water-cycle/reset", "Form: reset water cycle", "", playHandler.FormReset)
	api("POST /play/climate/decide", "Form: climate decision", "challenge=0&option=1", playHandler.FormDecide)

	appPage := withSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e, ok := session.FromContext(r.Context())
		if !ok {
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		templ.Handler(page.App(e.Snapshot())).ServeHTTP(w, r)
	}))
	server.HandleFunc(mux, routes, "GET /", "Explorer page", "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		appPage.ServeHTTP(w, r)
	})

	server.HandleFunc(mux, routes, "GET /_/admin/events.tar.gz", "Archive of recorded gameplay events and stats", "", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		since := time.Time{}
		events, err := opts.Events.GetEvents(since, nil)
		if err != nil {
			http.Error(w, "could not load events", http.StatusInternalServerError)
			return
		}
		now := time.Now().UTC()
		w.Header().Set("Content-Type", "application/gzip")
		w.Header().Set("Content-Disposition", `attachment; filename="ecolearn-events-`+now.Format("20060102T150405Z")+`.tar.gz"`)
		if err := ops.WriteEventArchive(w, events, since, now); err != nil {
			httpmw.LogJSON(opts.Logger, map[string]any{
				"ts":         now.Format(time.RFC3339Nano),
				"level":      "error",
				"msg":        "event_export_failed",
				"request_id": httpmw.RequestIDFromContext(r.Context()),
				"error":      err.Error(),
			})
		}
	})

	server.RegisterAdminUI(mux, routes, cfg.Server.Addr)

	return httpmw.Chain(
		mux,
		httpmw.WithRequestID,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithMetrics(opts.Metrics),
		httpmw.WithRecover(opts.Logger),
	), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// LogSecurityHints warns about settings that are unsafe behind a public
// listener.
func LogSecurityHints(logger *log.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	host := cfg.Server.Addr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	public := host == "" || host == "0.0.0.0" || host == "[::]"
	if public && !cfg.Sessions.CookieSecure {
		logger.Printf("[security] listening on %s with sessions.cookie_secure=false (set ECOLEARN_SESSIONS_COOKIE_SECURE=true behind TLS)", cfg.Server.Addr)
	}
	if cfg.Server.DevStatic {
		logger.Printf("[security] serving static files from disk (%s); disable server.dev_static in production", cfg.Server.StaticDir)
	}
}
