package http

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/internal/logging"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
	"github.com/aretw0/walkthrough/pkg/runner"
	"github.com/go-chi/chi/v5"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go openapi.yaml

//go:embed openapi.yaml
var openapiYAML []byte

// FrameSink accepts frames captured by the client. capture.Inbox implements it.
type FrameSink interface {
	Push(sessionID string, mediaType string, data []byte)
}

// Server implements ServerInterface on top of a Guide.
type Server struct {
	Guide   ports.Guide
	Streams *StreamManager

	frames  FrameSink
	metrics http.Handler
	title   string
	logger  *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

// Option configures the Server.
type Option func(*Server)

// WithFrameSink accepts client-captured frames and forwards them to sink.
func WithFrameSink(sink FrameSink) Option {
	return func(s *Server) {
		s.frames = sink
	}
}

// WithMetricsHandler exposes h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithTitle sets the title reported by GET /info.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server for guide.
func NewServer(guide ports.Guide, opts ...Option) *Server {
	s := &Server{
		Guide:   guide,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates the HTTP handler for guide.
func NewHandler(guide ports.Guide, opts ...Option) http.Handler {
	return NewServer(guide, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiYAML)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(HandlerWithOptions(s, ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: s.paramError,
	}))
}

// paramError reports path and query binding failures as JSON.
func (s *Server) paramError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Debug("invalid request parameter", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusBadRequest, err)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Last-Event-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Walkthrough API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	app := "walkthrough-http"
	version := strings.TrimSpace(walkthrough.Version)
	steps := len(s.Guide.Steps())
	writeJSON(w, http.StatusOK, Info{
		App:        &app,
		Version:    &version,
		ApiVersion: &apiVersion,
		Title:      &s.title,
		Steps:      &steps,
	})
}

// ListSteps handles GET /steps.
func (s *Server) ListSteps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Guide.Steps())
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Guide.List(r.Context())
	if err != nil {
		s.fail(w, r, "list sessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Guide.Start(r.Context())
	if err != nil {
		s.fail(w, r, "start session", err)
		return
	}
	s.broadcast(nil, sess)
	writeJSON(w, http.StatusCreated, newSessionView(sess, false))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	sess, err := s.Guide.Session(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess, s.Guide.Processing(id)))
}

// CloseSession handles DELETE /sessions/{id}.
func (s *Server) CloseSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.Guide.Close(r.Context(), id); err != nil {
		s.fail(w, r, "close session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RespondPermission handles POST /sessions/{id}/permission.
func (s *Server) RespondPermission(w http.ResponseWriter, r *http.Request, id string) {
	var body ResponseRequest
	if !s.decode(w, r, &body) {
		return
	}
	resp, err := domain.ParsePermissionResponse(body.Response)
	if err != nil {
		s.fail(w, r, "respond permission", err)
		return
	}
	s.mutate(w, r, id, body.Frame, "respond permission", func() (*domain.Session, error) {
		return s.Guide.RespondPermission(r.Context(), id, resp)
	})
}

// RespondStep handles POST /sessions/{id}/step.
func (s *Server) RespondStep(w http.ResponseWriter, r *http.Request, id string) {
	var body ResponseRequest
	if !s.decode(w, r, &body) {
		return
	}
	resp, err := domain.ParseStepResponse(body.Response)
	if err != nil {
		s.fail(w, r, "respond step", err)
		return
	}
	s.mutate(w, r, id, body.Frame, "respond step", func() (*domain.Session, error) {
		return s.Guide.RespondStep(r.Context(), id, resp)
	})
}

// SendMessage handles POST /sessions/{id}/messages.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request, id string) {
	var body MessageRequest
	if !s.decode(w, r, &body) {
		return
	}
	text, err := runner.SanitizeInput(body.Text)
	if err != nil {
		s.logger.Warn("message rejected", "session_id", id, "error", err, "size", len(body.Text))
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid input: %w", err))
		return
	}
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, errors.New("text must not be empty"))
		return
	}
	s.mutate(w, r, id, body.Frame, "send message", func() (*domain.Session, error) {
		return s.Guide.SendText(r.Context(), id, text)
	})
}

// GetArtifact handles GET /artifacts/{id}.
func (s *Server) GetArtifact(w http.ResponseWriter, r *http.Request, id string) {
	art, err := s.Guide.Artifact(r.Context(), id)
	if err != nil {
		s.fail(w, r, "get artifact", err)
		return
	}
	w.Header().Set("Content-Type", art.MediaType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(art.Data)
}

// mutate loads the session, runs the transition and broadcasts the difference.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, id string, frame *Frame, op string, fn func() (*domain.Session, error)) {
	old, err := s.Guide.Session(r.Context(), id)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	if frame != nil {
		if err := s.accept(id, frame); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	sess, err := fn()
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.broadcast(old, sess)
	writeJSON(w, http.StatusOK, newSessionView(sess, false))
}

// accept hands a client-captured frame to the frame sink.
func (s *Server) accept(id string, frame *Frame) error {
	if len(frame.Data) == 0 {
		return errors.New("frame data is empty")
	}
	if s.frames == nil {
		s.logger.Debug("frame ignored, no frame sink configured", "session_id", id)
		return nil
	}
	var mediaType string
	if frame.MediaType != nil {
		mediaType = *frame.MediaType
	}
	s.frames.Push(id, mediaType, frame.Data)
	return nil
}

func (s *Server) broadcast(old, sess *domain.Session) {
	diff := domain.Diff(old, sess)
	if diff == nil {
		s.logger.Debug("no diff calculated", "session_id", sess.ID)
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("diff encode failed", "session_id", sess.ID, "error", err)
		return
	}
	s.Streams.Broadcast(sess.ID, string(payload))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug(op+" rejected", "path", r.URL.Path, "error", err)
	}
	writeError(w, code, err)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrArtifactNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoAffordance), errors.Is(err, domain.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidResponse):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, ErrorResponse{Error: err.Error()})
}
