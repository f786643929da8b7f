package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/api/handlers"
	"github.com/lawbridge/lawbridge-api/ratelimit"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s stubGenerator) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.reply, s.err
}

func TestAssistant_AssistantChatHandlerBlankMessage(t *testing.T) {
	body := bytes.NewBufferString(`{"message": "  "}`)
	req, err := http.NewRequest("POST", "/api/v1/assistant/chat", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Assistant{Generator: stubGenerator{reply: "hi"}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AssistantChatHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "message must not be empty")
}

func TestAssistant_AssistantChatHandlerNotConfigured(t *testing.T) {
	body := bytes.NewBufferString(`{"message": "can my landlord evict me?"}`)
	req, err := http.NewRequest("POST", "/api/v1/assistant/chat", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Assistant{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AssistantChatHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "assistant is not configured")
}

func TestAssistant_AssistantChatHandlerVendorError(t *testing.T) {
	body := bytes.NewBufferString(`{"message": "can my landlord evict me?"}`)
	req, err := http.NewRequest("POST", "/api/v1/assistant/chat", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Assistant{Generator: stubGenerator{err: errors.New("mocked-error")}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AssistantChatHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to generate reply")
}

func TestAssistant_AssistantChatHandlerRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	limiter, err := ratelimit.NewFixedWindowLimiter(client, "test:assistant", 1, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Assistant{
		Limiter:   limiter,
		Generator: stubGenerator{reply: "consult a lawyer on the platform"},
	}

	newReq := func() *http.Request {
		body := bytes.NewBufferString(`{"message": "can my landlord evict me?"}`)
		req, err := http.NewRequest("POST", "/api/v1/assistant/chat", body)
		if err != nil {
			t.Fatal(err)
		}
		return req.WithContext(api.WithAuthEmail(req.Context(), "lawyer@example.com"))
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AssistantChatHandler).ServeHTTP(rr, newReq())
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "consult a lawyer on the platform")

	rr = httptest.NewRecorder()
	http.HandlerFunc(h.AssistantChatHandler).ServeHTTP(rr, newReq())
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "too many assistant requests")
}
