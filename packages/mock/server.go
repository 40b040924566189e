// Package mock provides an in-memory stand-in for the animal facts service.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/factform/packages/facts"
	"github.com/abdul-hamid-achik/factform/packages/log"
)

// DefaultPort is the port the facts service listens on.
const DefaultPort = 8080

// Server is a mock facts service
type Server struct {
	router  *Router
	store   *Store
	port    int
	delay   time.Duration
	verbose bool
	page    []byte
	logger  log.Logger
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose enables per-request logging
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

// WithLogger sets the logger
func WithLogger(l log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithStore serves facts from an existing store
func WithStore(store *Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithPage serves an HTML page at the root path
func WithPage(page []byte) Option {
	return func(s *Server) {
		s.page = page
	}
}

// NewServer creates a new mock server
func NewServer(opts ...Option) *Server {
	s := &Server{
		router: NewRouter(),
		store:  NewStore(),
		port:   DefaultPort,
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Handle(http.MethodPost, facts.DefaultFactsPath, "add fact", s.addFact)
	s.router.Handle(http.MethodGet, facts.DefaultFactsPath+"/{{id}}", "get fact", s.getFact)
	s.router.Handle(http.MethodDelete, facts.DefaultFactsPath+"/{{id}}", "delete fact", s.deleteFact)
	s.router.Handle(http.MethodGet, facts.DefaultQueryPath, "query facts", s.queryFacts)
	if s.page != nil {
		s.router.Handle(http.MethodGet, "/", "page", s.servePage)
	}
	return s
}

// Store returns the facts store backing the server
func (s *Server) Store() *Store {
	return s.store
}

// Port returns the configured port
func (s *Server) Port() int {
	return s.port
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// Start starts the mock server
func (s *Server) Start() error {
	return s.StartWithContext(context.Background())
}

// StartWithContext starts the server and shuts it down when ctx is done
func (s *Server) StartWithContext(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("mock server shutdown", log.Err(err))
		}
	}()

	s.logger.Info("mock server starting",
		log.String("addr", "http://"+ln.Addr().String()),
		log.Int("routes", len(s.router.routes)),
	)
	if s.verbose {
		for _, route := range s.router.routes {
			s.logger.Info("route", log.String("method", route.Method), log.String("path", route.PathPattern))
		}
	}

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	route, params := s.router.Match(r.Method, r.URL.Path)
	switch {
	case route != nil:
		route.Handler(rec, r, params)
	case len(s.router.Allowed(r.URL.Path)) > 0:
		rec.Header().Set("Allow", strings.Join(s.router.Allowed(r.URL.Path), ", "))
		writeMessage(rec, http.StatusMethodNotAllowed, "Method not allowed")
	default:
		writeMessage(rec, http.StatusNotFound, "Not found")
	}

	if s.verbose {
		s.logger.Info("request",
			log.String("method", r.Method),
			log.String("path", r.URL.RequestURI()),
			log.Int("status", rec.status),
			log.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) addFact(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var payload struct {
		Fact string `json:"fact"`
	}
	// An unreadable body counts as a missing sentence.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if strings.TrimSpace(payload.Fact) == "" {
		writeMessage(w, http.StatusBadRequest, "Fact sentence is required")
		return
	}

	id, created := s.store.Add(payload.Fact)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.logger.Debug("fact stored", log.String("id", id.String()), log.Any("created", created))
	writeJSON(w, status, map[string]string{"id": id.String()})
}

func (s *Server) getFact(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	id, ok := parseFactID(w, params["id"])
	if !ok {
		return
	}

	fact, found := s.store.Get(id)
	if !found {
		writeMessage(w, http.StatusNotFound, "Fact not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"fact": fact.Text})
}

func (s *Server) deleteFact(w http.ResponseWriter, _ *http.Request, params map[string]string) {
	id, ok := parseFactID(w, params["id"])
	if !ok {
		return
	}

	if !s.store.Delete(id) {
		writeMessage(w, http.StatusNotFound, "Fact not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}

func (s *Server) queryFacts(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	question := strings.TrimSpace(r.URL.Query().Get("q"))
	if question == "" {
		writeMessage(w, http.StatusBadRequest, "Question is required")
		return
	}

	found := s.store.Search(question)
	texts := make([]string, 0, len(found))
	for _, f := range found {
		texts = append(texts, f.Text)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"question": question,
		"facts":    texts,
	})
}

func (s *Server) servePage(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(s.page)
}

func parseFactID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Specified fact_id is not valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
