package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/songify-io/songify/pkg/usecase"
	"github.com/songify-io/songify/pkg/utils/errutil"
	"github.com/songify-io/songify/pkg/utils/logging"
)

const defaultActivityLimit = 50

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	signingSecret string
	commandName   string
}

type Options func(*Server)

// WithCommandName overrides the slash command name shown in help text
func WithCommandName(name string) Options {
	return func(s *Server) {
		s.commandName = name
	}
}

func New(uc *usecase.UseCases, signingSecret string, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		signingSecret: signingSecret,
		commandName:   "/songify",
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)

	// Account linking
	r.Get("/connect", s.connectHandler)
	r.Route("/oauth", func(r chi.Router) {
		r.Get("/slack/callback", s.slackCallbackHandler)
		r.Get("/spotify/callback", s.spotifyCallbackHandler)
	})

	// Slack entrypoints - no auth beyond signature verification
	r.Group(func(r chi.Router) {
		r.Use(SlackSignatureMiddleware(s.signingSecret))
		r.Post("/command", s.commandHandler)
		r.Post("/events", s.eventsHandler)
	})

	r.Get("/api/activities", s.activitiesHandler)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck // header already committed
}

// activitiesHandler serves the recent audit entries as JSON
func (s *Server) activitiesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			errutil.HandleHTTP(ctx, w, goerr.New("invalid limit", goerr.V("limit", raw)), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := s.uc.RecentActivities(ctx, limit)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	type activityResponse struct {
		ID        string    `json:"id"`
		Action    string    `json:"action"`
		Service   string    `json:"service"`
		Message   string    `json:"message,omitempty"`
		UserID    string    `json:"user_id"`
		Error     bool      `json:"error"`
		CreatedAt time.Time `json:"created_at"`
	}
	resp := struct {
		Activities []activityResponse `json:"activities"`
	}{
		Activities: make([]activityResponse, len(entries)),
	}
	for i, e := range entries {
		resp.Activities[i] = activityResponse{
			ID:        e.ID,
			Action:    e.Action,
			Service:   e.Service,
			Message:   e.Message,
			UserID:    string(e.UserID),
			Error:     e.Error,
			CreatedAt: e.CreatedAt,
		}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal activities response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data) //nolint:errcheck // header already committed
}
