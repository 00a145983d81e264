package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"lessoncaddy/internal/domain"
)

// Config controls the Gemini summarization call.
type Config struct {
	APIKey string
	Model  string
}

// coachingPrompt is the fixed instruction sent after the audio parts.
const coachingPrompt = `You are an expert golf coach. You have been provided with multiple audio recordings from a golf lesson.
Your task is to:
1. Listen to all segments and transcribe the key coaching points.
2. Provide a structured summary of the lesson.
3. List specific drills that were mentioned or recommended.
4. Highlight the "Feel vs Real" adjustments if any were discussed.

Format the output using Markdown. Use headers for different sections.`

// Summarizer implements ports.Summarizer against the Gemini API.
type Summarizer struct {
	cfg Config
}

func NewSummarizer(cfg Config) *Summarizer {
	if cfg.Model == "" {
		cfg.Model = "gemini-3-flash-preview"
	}
	return &Summarizer{cfg: cfg}
}

// Summarize uploads the ordered lesson audio inline and returns the
// Markdown summary.
func (s *Summarizer) Summarize(ctx context.Context, recordings []domain.Recording) (string, error) {
	if strings.TrimSpace(s.cfg.APIKey) == "" {
		return "", errors.New("GEMINI_API_KEY is not configured")
	}
	if len(recordings) == 0 {
		return "", errors.New("no recordings to summarize")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  s.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create Gemini client: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(buildParts(recordings), genai.RoleUser),
	}
	response, err := client.Models.GenerateContent(ctx, s.cfg.Model, contents, &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		return "", fmt.Errorf("generate lesson summary: %w", err)
	}

	text := strings.TrimSpace(response.Text())
	if text == "" {
		return "", errors.New("summarizer returned an empty response")
	}
	return text, nil
}

// buildParts lays out the request: audio segments in recording order,
// the coaching prompt last.
func buildParts(recordings []domain.Recording) []*genai.Part {
	parts := make([]*genai.Part, 0, len(recordings)+1)
	for _, rec := range recordings {
		mimeType := rec.MIMEType
		if mimeType == "" {
			mimeType = "audio/ogg"
		}
		parts = append(parts, genai.NewPartFromBytes(rec.Audio, mimeType))
	}
	return append(parts, genai.NewPartFromText(coachingPrompt))
}
