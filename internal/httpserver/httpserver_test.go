package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"goodwish-chatbot/internal/chat"
	"goodwish-chatbot/internal/middleware"
	"goodwish-chatbot/internal/model"
	"goodwish-chatbot/pkg/log"
	"goodwish-chatbot/pkg/response"
)

type stubUseCase struct{}

func (stubUseCase) Query(ctx context.Context, sc model.Scope, input chat.QueryInput) (chat.QueryOutput, error) {
	return chat.QueryOutput{Response: "Hello!"}, nil
}

func (stubUseCase) QueryAudio(ctx context.Context, sc model.Scope, input chat.AudioInput) (chat.AudioOutput, error) {
	return chat.AudioOutput{}, chat.ErrEmptyAudio
}

func (stubUseCase) ClearHistory(ctx context.Context, sc model.Scope) error { return nil }

func newServer(t *testing.T, checks map[string]ReadinessCheck) *HTTPServer {
	t.Helper()
	srv, err := New(log.NewNop(), Config{
		Port:            8080,
		Mode:            gin.TestMode,
		Environment:     string(model.EnvironmentDevelopment),
		ChatUseCase:     stubUseCase{},
		Middleware:      middleware.New(log.NewNop(), middleware.SessionConfig{Secret: "s"}, middleware.RateLimitConfig{}),
		ReadinessChecks: checks,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(log.NewNop(), Config{Port: 8080, Mode: gin.TestMode}); err == nil {
		t.Errorf("expected error without chat usecase")
	}
	if _, err := New(log.NewNop(), Config{Mode: gin.TestMode, ChatUseCase: stubUseCase{}}); err == nil {
		t.Errorf("expected error without port")
	}
}

func TestSystemRoutes(t *testing.T) {
	srv := newServer(t, nil)

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := httptest.NewRecorder()
		srv.gin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestReadyCheck_DependencyDown(t *testing.T) {
	srv := newServer(t, map[string]ReadinessCheck{
		"qdrant": func(ctx context.Context) error { return nil },
		"redis":  func(ctx context.Context) error { return errors.New("dial tcp: connection refused") },
	})

	w := httptest.NewRecorder()
	srv.gin.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var resp response.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	deps := resp.Data.(map[string]interface{})["dependencies"].(map[string]interface{})
	if deps["redis"] != "unavailable" || deps["qdrant"] != "ok" {
		t.Errorf("unexpected dependencies %v", deps)
	}
}

func TestChatRoutesRegistered(t *testing.T) {
	srv := newServer(t, nil)

	w := httptest.NewRecorder()
	srv.gin.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/chat/clear-history", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(middleware.DefaultSessionHeader) == "" {
		t.Errorf("expected session middleware to issue a token")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := newServer(t, nil)
	srv.port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
