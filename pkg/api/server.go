// Package api serves the hrassist HTTP interface: skill authoring, the HR
// directory, CV parsing and the streaming chat endpoint.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/skillsys/hrassist/pkg/chat"
	"github.com/skillsys/hrassist/pkg/cvparse"
	"github.com/skillsys/hrassist/pkg/hr"
	"github.com/skillsys/hrassist/pkg/logger"
	"github.com/skillsys/hrassist/pkg/skills"
	"github.com/skillsys/hrassist/pkg/utils"
)

const shutdownTimeout = 30 * time.Second

// maxBodyBytes bounds JSON request bodies. CV text is the largest payload.
const maxBodyBytes = 4 << 20

// SkillService is the skill authoring backend
type SkillService interface {
	List(ctx context.Context) ([]skills.Metadata, error)
	Tree(ctx context.Context, name string) ([]skills.TreeEntry, error)
	ReadFile(ctx context.Context, name, rel string) (string, error)
	WriteFile(ctx context.Context, name, rel, content string) error
	DeleteFile(ctx context.Context, name, rel string) error
	Create(ctx context.Context, name, description string) error
	Delete(ctx context.Context, name string) error
	CreateDirectory(ctx context.Context, name, rel string) error
}

// Directory searches the HR database
type Directory interface {
	ListSkillNames(ctx context.Context) ([]string, error)
	FindCandidates(ctx context.Context, q hr.CandidateQuery) (*hr.SearchResult, error)
}

// CVParser turns CV text into a structured record
type CVParser interface {
	Parse(ctx context.Context, text string) (*cvparse.Result, error)
}

// ChatService runs one streamed chat turn
type ChatService interface {
	Stream(ctx context.Context, req chat.Request, sink chat.Sink) error
}

// Services are the backends behind the routes. Only Skills is required; a
// route whose backend is nil answers 503.
type Services struct {
	Skills    SkillService
	Directory Directory
	CV        CVParser
	Chat      ChatService
	// Closers are released by Close, in order
	Closers []io.Closer
}

// ServerConfig holds the listener settings
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server is the HTTP server
type Server struct {
	router   *mux.Router
	handler  http.Handler
	services Services
	origins  *utils.OriginFilter
	config   *ServerConfig
	server   *http.Server
}

// NewServer creates a server with its routes installed
func NewServer(config *ServerConfig, services Services) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}
	if services.Skills == nil {
		return nil, errors.New("skill service is required")
	}

	origins, err := utils.NewOriginFilter(config.AllowedOrigins)
	if err != nil {
		return nil, errors.Wrap(err, "invalid allowed origins")
	}

	s := &Server{
		router:   mux.NewRouter(),
		services: services,
		origins:  origins,
		config:   config,
	}
	s.setupRoutes()

	// CORS sits outside the router so preflight requests are answered
	// before method matching rejects them.
	s.handler = s.loggingMiddleware(s.corsMiddleware(s.router))

	return s, nil
}

// Handler returns the root handler including middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	api.HandleFunc("/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/skills", s.handleCreateSkill).Methods("POST")
	api.HandleFunc("/skills/{name}", s.handleDeleteSkill).Methods("DELETE")
	api.HandleFunc("/skills/{name}/tree", s.handleSkillTree).Methods("GET")
	api.HandleFunc("/skills/{name}/file", s.handleReadFile).Methods("GET")
	api.HandleFunc("/skills/{name}/file", s.handleWriteFile).Methods("PUT")
	api.HandleFunc("/skills/{name}/file", s.handleDeleteFile).Methods("DELETE")
	api.HandleFunc("/skills/{name}/directory", s.handleCreateDirectory).Methods("POST")

	api.HandleFunc("/hr/skills", s.handleListEmployeeSkills).Methods("GET")
	api.HandleFunc("/hr/candidates", s.handleFindCandidates).Methods("GET")
	api.HandleFunc("/cv/parse", s.handleParseCV).Methods("POST")

	api.HandleFunc("/chat", s.handleChat).Methods("POST")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.G(r.Context()).WithFields(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    time.Since(start),
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// corsMiddleware adds CORS headers for allowed origins
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case s.origins.AllowsAny():
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case s.origins.IsAllowed(origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter captures the status code. It forwards Flush so streamed
// responses are not buffered by the wrapper.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(err, "invalid JSON body")
	}
	return nil
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.G(context.TODO()).WithError(err).Error("failed to encode JSON response")
	}
}

// writeErrorResponse writes {"error": message}. err, if any, is logged.
func (s *Server) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		log := logger.G(r.Context()).WithError(err).WithField("path", r.URL.Path)
		if status >= http.StatusInternalServerError {
			log.Error(message)
		} else {
			log.Debug(message)
		}
	}
	s.writeJSONResponse(w, status, map[string]string{"error": message})
}

func (s *Server) unavailable(w http.ResponseWriter, r *http.Request, what string) {
	s.writeErrorResponse(w, r, http.StatusServiceUnavailable, what+" is not configured", nil)
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.G(ctx).WithField("address", address).Info("starting HTTP server")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "HTTP server failed")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Stop stops the server immediately
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// Close stops the server and releases the backends
func (s *Server) Close() error {
	var result error
	if err := s.Stop(); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "failed to stop server"))
	}
	for _, c := range s.services.Closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}
