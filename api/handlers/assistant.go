package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/lawbridge/lawbridge-api/ai"
	"github.com/lawbridge/lawbridge-api/api"
	"github.com/lawbridge/lawbridge-api/config"
	"github.com/lawbridge/lawbridge-api/ratelimit"
)

// Assistant exported for testing purposes
type Assistant struct {
	Limiter   *ratelimit.FixedWindowLimiter
	Generator ai.TextGenerator
}

const assistantSystemPrompt = "You are a legal information assistant for a lawyer coordination platform. " +
	"Answer questions about legal procedure in plain language. You do not give binding legal advice; " +
	"recommend consulting a lawyer on the platform for case-specific questions."

// AssistantChatHandler proxies a user question to the configured text
// generation vendor. Requests are rate limited per authenticated user.
func (a Assistant) AssistantChatHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		config.ErrorStatus("message must not be empty", http.StatusBadRequest, w, fmt.Errorf("blank message"))
		return
	}

	if a.Generator == nil {
		config.ErrorStatus("assistant is not configured", http.StatusServiceUnavailable, w, fmt.Errorf("no text generation vendor"))
		return
	}

	email := api.AuthEmailFromContext(r.Context())

	if a.Limiter != nil {
		allowed, err := a.Limiter.Allow(r.Context(), email)
		if err != nil {
			config.ErrorStatus("failed to check rate limit", http.StatusInternalServerError, w, err)
			return
		}
		if !allowed {
			config.ErrorStatus("too many assistant requests", http.StatusTooManyRequests, w, fmt.Errorf("rate limit exceeded for %s", email))
			return
		}
	}

	reply, err := a.Generator.GenerateText(r.Context(), assistantSystemPrompt, body.Message)
	if err != nil {
		config.ErrorStatus("failed to generate reply", http.StatusBadGateway, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"reply": reply})
}
