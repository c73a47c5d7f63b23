package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/careerforge/careerforge/internal/agent"
	"github.com/careerforge/careerforge/internal/config"
	"github.com/careerforge/careerforge/internal/llm"
	"github.com/careerforge/careerforge/internal/memory"
	"github.com/careerforge/careerforge/internal/observability"
	"github.com/careerforge/careerforge/internal/scrape"
)

func newTestServer(t *testing.T, namespace string) (*httptest.Server, *memory.Store) {
	t.Helper()
	cfg := config.Config{SessionTTL: time.Hour}
	store, err := memory.NewStore(context.Background(), memory.Config{}, memory.NewFilePersister(t.TempDir()+"/mem.json"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	router := agent.NewRouter(store, scrape.NewMockScraper(), llm.NewMockCompleter())
	// promauto registers globally, so every test needs its own namespace.
	metrics := observability.NewMetrics("test_httpapi_" + namespace)
	srv := New(cfg, store, router, metrics)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, store
}

func TestChatEndpoint(t *testing.T) {
	ts, store := newTestServer(t, "chat")

	body, _ := json.Marshal(map[string]string{
		"user_id": "u1",
		"message": "please analyze https://linkedin.com/in/johndoe",
	})
	res, err := http.Post(ts.URL+"/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/chat error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["intent"] != "profile_analysis" {
		t.Fatalf("intent = %v, want profile_analysis", payload["intent"])
	}
	reply, _ := payload["reply"].(string)
	if !strings.Contains(reply, "Comprehensive Profile Analysis") {
		t.Fatalf("reply = %q", reply)
	}

	if store.CurrentProfile("u1") == nil {
		t.Fatalf("profile not stored after chat")
	}
}

func TestChatEndpointRejectsEmptyMessage(t *testing.T) {
	ts, _ := newTestServer(t, "chatvalidation")

	body, _ := json.Marshal(map[string]string{"user_id": "u1", "message": ""})
	res, err := http.Post(ts.URL+"/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/chat error = %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
}

func TestChatEndpointAssignsUserID(t *testing.T) {
	ts, _ := newTestServer(t, "chatassign")

	body, _ := json.Marshal(map[string]string{"message": "hello there"})
	res, err := http.Post(ts.URL+"/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/chat error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	assigned, _ := payload["user_id"].(string)
	if _, err := uuid.Parse(assigned); err != nil {
		t.Fatalf("user_id = %q, want a generated uuid", assigned)
	}
}

func TestMemorySummaryAndClear(t *testing.T) {
	ts, store := newTestServer(t, "memory")
	ctx := context.Background()

	store.RecordMessage(ctx, "u1", "hello", memory.SenderUser)

	res, err := http.Get(ts.URL + "/v1/memory/u1")
	if err != nil {
		t.Fatalf("GET /v1/memory/u1 error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("summary status = %d", res.StatusCode)
	}

	var summary memory.Summary
	if err := json.NewDecoder(res.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.SessionInfo.InteractionCount != 1 {
		t.Fatalf("interaction count = %d, want 1", summary.SessionInfo.InteractionCount)
	}

	clearRes, err := http.Post(ts.URL+"/v1/memory/u1/clear", "application/json", nil)
	if err != nil {
		t.Fatalf("POST clear error = %v", err)
	}
	clearRes.Body.Close()
	if clearRes.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d", clearRes.StatusCode)
	}
	if store.SessionCount() != 0 {
		t.Fatalf("session survived clear")
	}
}

func TestSweepEndpoint(t *testing.T) {
	ts, store := newTestServer(t, "sweep")

	store.Session("u1")

	res, err := http.Post(ts.URL+"/v1/admin/sweep", "application/json", nil)
	if err != nil {
		t.Fatalf("POST sweep error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("sweep status = %d", res.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("decode sweep response: %v", err)
	}
	// A fresh session is inside the TTL, so nothing is removed.
	if payload["removed"].(float64) != 0 || payload["remaining"].(float64) != 1 {
		t.Fatalf("sweep payload = %+v", payload)
	}
}

func TestHealthAndReady(t *testing.T) {
	ts, _ := newTestServer(t, "health")

	for _, path := range []string{"/healthz", "/readyz"} {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, res.StatusCode)
		}
	}
}

func TestChatWebSocket(t *testing.T) {
	ts, _ := newTestServer(t, "ws")

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	defer conn.Close()

	err = conn.WriteJSON(map[string]any{
		"type":    "user_message",
		"user_id": "u1",
		"text":    "what can you do?",
	})
	if err != nil {
		t.Fatalf("write ws message: %v", err)
	}

	var reply map[string]any
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read ws reply: %v", err)
	}
	if reply["type"] != "assistant_reply" || reply["intent"] != "help" {
		t.Fatalf("ws reply = %+v", reply)
	}
	text, _ := reply["text"].(string)
	if !strings.Contains(text, "LinkedIn profile optimization assistant") {
		t.Fatalf("ws reply text = %q", text)
	}

	// Malformed payloads produce an error event, not a closed socket.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"wat"}`)); err != nil {
		t.Fatalf("write invalid message: %v", err)
	}
	var errEvent map[string]any
	if err := conn.ReadJSON(&errEvent); err != nil {
		t.Fatalf("read error event: %v", err)
	}
	if errEvent["type"] != "error_event" || errEvent["code"] != "invalid_client_message" {
		t.Fatalf("error event = %+v", errEvent)
	}
}
