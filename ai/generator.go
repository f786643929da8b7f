package ai

import (
	"context"
	"os"

	"go.uber.org/zap"
)

// TextGenerator generates text from a system prompt and user prompt.
// All vendors (OpenAI-compatible, Gemini) implement this interface.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewGeneratorFromEnv builds the configured text generation vendor, or
// returns nil when none is configured. AI_VENDOR selects the vendor;
// key, model and base url come from the vendor's own env vars.
func NewGeneratorFromEnv() TextGenerator {
	switch os.Getenv("AI_VENDOR") {
	case "openai":
		return NewOpenAICompatGenerator(
			os.Getenv("OPENAI_BASE_URL"),
			os.Getenv("OPENAI_API_KEY"),
			os.Getenv("OPENAI_MODEL"),
		)
	case "gemini":
		client, err := NewGeminiClient(os.Getenv("GEMINI_API_KEY"))
		if err != nil {
			zap.S().Errorw("failed to create gemini client", "error", err)
			return nil
		}
		return NewGeminiGenerator(client, os.Getenv("GEMINI_MODEL"))
	case "":
		return nil
	default:
		zap.S().Warnw("unknown text generation vendor", "vendor", os.Getenv("AI_VENDOR"))
		return nil
	}
}
