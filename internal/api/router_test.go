package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthai/guardrail-engine/internal/core/domain"
	"github.com/growthai/guardrail-engine/internal/core/ports"
	"github.com/growthai/guardrail-engine/internal/core/service"
	"github.com/growthai/guardrail-engine/internal/infrastructure/memory"
	"github.com/growthai/guardrail-engine/internal/infrastructure/queue"
)

const routerSecret = "router-test-secret"

type echoAssistant struct{}

func (echoAssistant) Generate(_ context.Context, req ports.AssistantRequest) (domain.AssistantReply, error) {
	return domain.AssistantReply{Text: "guide: " + req.NewMessage}, nil
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	guide := service.NewGuideContextAssembler(echoAssistant{}, zerolog.Nop())
	dispatcher := queue.NewDispatcher(2, guide, zerolog.Nop())
	dispatcher.Start(ctx)
	t.Cleanup(func() {
		cancel()
		dispatcher.Wait()
	})

	sessions := service.NewSessionService(
		memory.NewSessionStore(time.Hour),
		memory.NewIdempotencyGuard(time.Hour),
		service.SessionDeps{Guide: guide, Dispatcher: dispatcher, Log: zerolog.Nop()},
		service.SessionServiceConfig{Secret: routerSecret, TTL: time.Hour},
	)
	return NewRouter(RouterDeps{
		Sessions:      sessions,
		SessionSecret: routerSecret,
		Log:           zerolog.Nop(),
		AssistantName: "test",
		Registry:      prometheus.NewRegistry(),
	})
}

func call(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRouter_GuardrailFlow(t *testing.T) {
	e := newTestRouter(t)

	rec := call(e, http.MethodPost, "/v1/sessions", "", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	rec = call(e, http.MethodGet, "/v1/decision", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "no decision before onboarding")

	rec = call(e, http.MethodPost, "/v1/onboarding", token, `{"role":"student","mood_score":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["locked"])
	assert.Equal(t, true, body["emotional_lock"])
	assert.Equal(t, "UI/UX Specialization", body["decision"].(map[string]any)["focus"])

	rec = call(e, http.MethodPost, "/v1/onboarding", token, `{"role":"founder"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(e, http.MethodPost, "/v1/decision/redecide", token, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(e, http.MethodPost, "/v1/decision/release", token, "")
	assert.Equal(t, http.StatusLocked, rec.Code)

	rec = call(e, http.MethodPost, "/v1/guide/messages", token, `{"message":"samajh nahi aaya"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode(t, rec)
	assert.Equal(t, "guide: samajh nahi aaya", body["reply"])
	assert.Equal(t, false, body["fallback"])

	rec = call(e, http.MethodGet, "/v1/guide/messages", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["messages"], 2)

	rec = call(e, http.MethodGet, "/v1/tasks", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	tasks := decode(t, rec)["tasks"].([]any)
	require.Len(t, tasks, 3)
	first := tasks[0].(map[string]any)
	assert.Equal(t, true, first["discouraged"])

	rec = call(e, http.MethodPost, "/v1/tasks/"+first["id"].(string)+"/toggle", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["completed"])

	rec = call(e, http.MethodPost, "/v1/tasks/nope/toggle", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(e, http.MethodPut, "/v1/mood", token, `{"score":4}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["emotional_lock"])

	rec = call(e, http.MethodDelete, "/v1/sessions", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(e, http.MethodGet, "/v1/tasks", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "ended session is gone")
}

func TestRouter_RequiresHandle(t *testing.T) {
	e := newTestRouter(t)

	rec := call(e, http.MethodGet, "/v1/decision", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(e, http.MethodGet, "/v1/decision", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Probes(t *testing.T) {
	e := newTestRouter(t)

	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/health/ready", "", "").Code)

	call(e, http.MethodGet, "/health", "", "")
	rec := call(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
