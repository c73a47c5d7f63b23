package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/careerforge/careerforge/internal/config"
	"github.com/careerforge/careerforge/internal/intent"
	"github.com/careerforge/careerforge/internal/memory"
	"github.com/careerforge/careerforge/internal/observability"
	"github.com/careerforge/careerforge/internal/protocol"
)

// Agent is the dialogue router behind the chat endpoints.
type Agent interface {
	Process(ctx context.Context, userID, message string) string
}

type Server struct {
	cfg      config.Config
	store    *memory.Store
	agent    Agent
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, store *memory.Store, agent Agent, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		agent:   agent,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same origin
				// unless explicitly opened up.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/chat", s.handleChat)
	r.Get("/v1/chat/ws", s.handleChatWS)
	r.Get("/v1/memory/{user_id}", s.handleMemorySummary)
	r.Post("/v1/memory/{user_id}/clear", s.handleMemoryClear)
	r.Post("/v1/admin/sweep", s.handleSweep)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ready",
		"sessions": s.store.SessionCount(),
	})
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	UserID string `json:"user_id"`
	Intent string `json:"intent"`
	Reply  string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "missing_message", "message is required")
		return
	}
	// Clients that don't manage identity get one assigned; the response
	// echoes it so they can keep the conversation going.
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = uuid.NewString()
	}

	start := time.Now()
	tag := intent.Classify(req.Message)
	reply := s.agent.Process(r.Context(), req.UserID, req.Message)
	s.metrics.ObserveReplyLatency(time.Since(start))
	s.metrics.ActiveSessions.Set(float64(s.store.SessionCount()))

	respondJSON(w, http.StatusOK, chatResponse{
		UserID: req.UserID,
		Intent: string(tag),
		Reply:  reply,
	})
}

func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			s.writeWS(conn, protocol.ErrorEvent{
				Type:   protocol.TypeErrorEvent,
				Code:   "invalid_client_message",
				Detail: err.Error(),
			})
			continue
		}

		msg := parsed.(protocol.UserMessage)
		start := time.Now()
		tag := intent.Classify(msg.Text)
		reply := s.agent.Process(r.Context(), msg.UserID, msg.Text)
		s.metrics.ObserveReplyLatency(time.Since(start))
		s.metrics.ActiveSessions.Set(float64(s.store.SessionCount()))

		if !s.writeWS(conn, protocol.AssistantReply{
			Type:   protocol.TypeAssistantReply,
			UserID: msg.UserID,
			Intent: string(tag),
			Text:   reply,
			TSMs:   time.Now().UnixMilli(),
		}) {
			return
		}
	}
}

func (s *Server) writeWS(conn *websocket.Conn, msg any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(msg) == nil
}

func (s *Server) handleMemorySummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if strings.TrimSpace(userID) == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user id is required")
		return
	}
	respondJSON(w, http.StatusOK, s.store.Summary(r.Context(), userID))
}

func (s *Server) handleMemoryClear(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if strings.TrimSpace(userID) == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user id is required")
		return
	}
	s.store.ClearSession(userID)
	s.metrics.ActiveSessions.Set(float64(s.store.SessionCount()))
	respondJSON(w, http.StatusOK, map[string]any{"status": "cleared", "user_id": userID})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	removed := s.store.SweepExpired(s.cfg.SessionTTL)
	s.metrics.ActiveSessions.Set(float64(s.store.SessionCount()))
	respondJSON(w, http.StatusOK, map[string]any{
		"removed":   removed,
		"remaining": s.store.SessionCount(),
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
