package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"todo-agent/internal/agent"
	"todo-agent/internal/domain"
	"todo-agent/internal/service"
)

type stubConversationRepo struct{ created []domain.Conversation }

func (s *stubConversationRepo) Create(_ context.Context, conversation domain.Conversation) error {
	s.created = append(s.created, conversation)
	return nil
}

func (s *stubConversationRepo) GetByIDForUser(_ context.Context, _, _ string) (domain.Conversation, error) {
	return domain.Conversation{}, pgx.ErrNoRows
}

func (s *stubConversationRepo) Touch(_ context.Context, _ string, _ time.Time) error { return nil }

type stubMessageRepo struct{ saved []domain.Message }

func (s *stubMessageRepo) Create(_ context.Context, message domain.Message) error {
	s.saved = append(s.saved, message)
	return nil
}

func (s *stubMessageRepo) ListRecent(_ context.Context, _ string, _ int, _ string) ([]domain.Message, error) {
	return nil, nil
}

func (s *stubMessageRepo) ListByConversationID(_ context.Context, _ string) ([]domain.Message, error) {
	return s.saved, nil
}

type stubRunner struct {
	result agent.TurnResult
	err    error
}

func (s *stubRunner) RunTurn(_ context.Context, _ string, _ []domain.Message, _ string) (agent.TurnResult, error) {
	return s.result, s.err
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func newChatTestRouter(runner service.TurnRunner, limiter service.ChatRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	chatSvc := service.NewChatService(nil, &stubConversationRepo{}, &stubMessageRepo{}, runner, 10)
	handler := NewChatHandler(zap.NewNop(), chatSvc, limiter)

	r := gin.New()
	r.POST("/api/chat", func(c *gin.Context) {
		c.Set(authClaimsKey, service.Claims{UserID: "u1", Email: "user@example.com"})
		c.Next()
	}, handler.Chat)
	return r
}

func postChat(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatEndpoint_Success(t *testing.T) {
	runner := &stubRunner{result: agent.TurnResult{Response: "Got it! Task added."}}
	router := newChatTestRouter(runner, nil)

	w := postChat(t, router, `{"message":"Add buy milk high priority"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result service.ChatResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Status != "success" || result.Response != "Got it! Task added." {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ConversationID == "" {
		t.Fatalf("expected conversation id in response")
	}
}

func TestChatEndpoint_MissingMessage(t *testing.T) {
	router := newChatTestRouter(&stubRunner{}, nil)

	w := postChat(t, router, `{"conversation_id":"c1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChatEndpoint_BlankMessage(t *testing.T) {
	router := newChatTestRouter(&stubRunner{}, nil)

	w := postChat(t, router, `{"message":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank message, got %d", w.Code)
	}
}

func TestChatEndpoint_ModelUnavailableIsBadGateway(t *testing.T) {
	runner := &stubRunner{err: agent.ErrModelUnavailable}
	router := newChatTestRouter(runner, nil)

	w := postChat(t, router, `{"message":"hola"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"error"`) {
		t.Fatalf("expected error status in body, got %s", w.Body.String())
	}
}

func TestChatEndpoint_RateLimited(t *testing.T) {
	router := newChatTestRouter(&stubRunner{}, denyAllLimiter{})

	w := postChat(t, router, `{"message":"hola"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestChatEndpoint_RequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	chatSvc := service.NewChatService(nil, &stubConversationRepo{}, &stubMessageRepo{}, &stubRunner{}, 10)
	handler := NewChatHandler(zap.NewNop(), chatSvc, nil)

	r := gin.New()
	r.POST("/api/chat", handler.Chat)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hola"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", w.Code)
	}
}
