/*
server.go - Webhook HTTP router

PURPOSE:
  Configures the HTTP surface the chat gateway calls into: the webhook that
  receives updates and a health endpoint. Updates are decoded, acknowledged
  and enqueued; processing happens on the queue consumer, so the handler
  always answers quickly.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Gateway-side dashboards polling /healthz

SECURITY:
  When a webhook secret is configured, requests must carry it in the
  X-Gateway-Secret header; everything else is answered with 401.

SEE ALSO:
  - update.go: Payload decoding
  - queue.go: Where accepted updates go
  - cmd/stockbot/main.go: Server startup
*/
package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Server exposes the webhook over HTTP.
type Server struct {
	queue  *Queue
	sender *Sender
	secret string
	log    *logrus.Logger
}

// NewServer wires the webhook to the queue. sender may be nil when callback
// acknowledgement is not wanted (tests).
func NewServer(queue *Queue, sender *Sender, secret string, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{queue: queue, sender: sender, secret: secret, log: log}
}

// Router builds the chi router with the middleware stack.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Gateway-Secret"},
	}))

	r.Post("/webhook", s.handleWebhook)
	r.Get("/healthz", s.handleHealth)

	return r
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" && r.Header.Get("X-Gateway-Secret") != s.secret {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var upd Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	// Button presses are acknowledged right away; the visible answer comes
	// from the queue consumer.
	if upd.Callback != nil && s.sender != nil {
		if err := s.sender.AnswerCallback(r.Context(), upd.Callback.ID); err != nil {
			s.log.WithError(err).Debug("callback acknowledgement failed")
		}
	}

	ev, ok := upd.Event()
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	if !s.queue.Enqueue(ev) {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enqueued, handled := s.queue.Counts()
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"enqueued": enqueued,
		"handled":  handled,
		"depth":    s.queue.Depth(),
	})
}
