package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/studiowebux/flowcli/internal/types"
)

// Config controls the mock backend
type Config struct {
	Host string
	Port int
	// FailStatus, when non-zero, makes every POST /flows/ fail with
	// this status code. Useful for exercising HTTP error paths.
	FailStatus int
	// Logging enables per-request logging to stdout
	Logging bool
}

// ReceivedFlow is one flow the mock backend accepted
type ReceivedFlow struct {
	Payload    types.OutgoingPayload `json:"payload"`
	ReceivedAt time.Time             `json:"received_at"`
}

// Server is a local stand-in for the CoE-Backend. It validates incoming
// flows the same way the real backend would reject them, keeps accepted
// flows in memory and lists them on GET /flows/.
type Server struct {
	config     Config
	httpServer *http.Server

	mu       sync.RWMutex
	received []ReceivedFlow
}

// NewServer creates a new mock backend
func NewServer(config Config) *Server {
	if config.Port == 0 {
		config.Port = 8000
	}
	if config.Host == "" {
		config.Host = "localhost"
	}

	return &Server{
		config:   config,
		received: make([]ReceivedFlow, 0),
	}
}

// Handler returns the HTTP handler, exposed separately so tests can
// mount it without binding a port
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/flows/", s.handleFlows)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the mock backend in the background
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Mock backend error: %v", err)
		}
	}()

	return nil
}

// Stop stops the mock backend
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// GetAddress returns the base URL the mock backend listens on
func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://%s:%d", s.config.Host, s.config.Port)
}

// Received returns a copy of the accepted flows
func (s *Server) Received() []ReceivedFlow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ReceivedFlow, len(s.received))
	copy(out, s.received)
	return out
}

func (s *Server) handleFlows(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	switch r.Method {
	case http.MethodPost:
		s.handleCreateFlow(w, r)
	case http.MethodGet:
		s.handleListFlows(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
	}

	if s.config.Logging {
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	}
}

func (s *Server) handleCreateFlow(w http.ResponseWriter, r *http.Request) {
	if s.config.FailStatus != 0 {
		writeJSON(w, s.config.FailStatus, map[string]string{"detail": "simulated failure"})
		return
	}

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "failed to read request body"})
		return
	}
	r.Body.Close()

	var incoming types.OutgoingPayload
	if err := json.Unmarshal(bodyBytes, &incoming); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid JSON body"})
		return
	}

	// Mirror the validation the backend applies to incoming flows
	if incoming.Endpoint == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "endpoint is required"})
		return
	}
	if len(incoming.Context) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "context is required"})
		return
	}
	if incoming.FlowID == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "flow_id is required"})
		return
	}
	if incoming.FlowBody.Data == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "flow_body.data is required"})
		return
	}

	s.mu.Lock()
	s.received = append(s.received, ReceivedFlow{
		Payload:    incoming,
		ReceivedAt: time.Now(),
	})
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       incoming.FlowID,
		"name":     incoming.FlowBody.Name,
		"endpoint": incoming.Endpoint,
		"status":   "created",
	})
}

func (s *Server) handleListFlows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Received())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Mock backend: failed to encode response: %v", err)
	}
}
