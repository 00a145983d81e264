package gemini

import (
	"context"
	"strings"
	"testing"

	"lessoncaddy/internal/domain"
)

func TestNewSummarizerDefaultsModel(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(Config{APIKey: "key"})
	if s.cfg.Model != "gemini-3-flash-preview" {
		t.Fatalf("unexpected default model: %q", s.cfg.Model)
	}

	s = NewSummarizer(Config{APIKey: "key", Model: "gemini-2.5-pro"})
	if s.cfg.Model != "gemini-2.5-pro" {
		t.Fatalf("expected configured model, got %q", s.cfg.Model)
	}
}

func TestSummarizeRequiresAPIKey(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(Config{APIKey: "   "})
	_, err := s.Summarize(context.Background(), []domain.Recording{{ID: "r1", Audio: []byte("a")}})
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestSummarizeRequiresRecordings(t *testing.T) {
	t.Parallel()

	s := NewSummarizer(Config{APIKey: "key"})
	_, err := s.Summarize(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "no recordings") {
		t.Fatalf("expected no recordings error, got %v", err)
	}
}

func TestBuildPartsKeepsRecordingOrderAndPromptLast(t *testing.T) {
	t.Parallel()

	recordings := []domain.Recording{
		{ID: "r1", Audio: []byte("first"), MIMEType: "audio/ogg"},
		{ID: "r2", Audio: []byte("second"), MIMEType: "audio/webm"},
	}

	parts := buildParts(recordings)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0].InlineData == nil || string(parts[0].InlineData.Data) != "first" {
		t.Fatalf("unexpected first part: %+v", parts[0])
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "audio/webm" {
		t.Fatalf("unexpected second part: %+v", parts[1])
	}
	if parts[2].Text == "" || !strings.Contains(parts[2].Text, "golf coach") {
		t.Fatalf("expected coaching prompt last, got %+v", parts[2])
	}
}

func TestBuildPartsFallsBackToOggMIMEType(t *testing.T) {
	t.Parallel()

	parts := buildParts([]domain.Recording{{ID: "r1", Audio: []byte("a")}})
	if parts[0].InlineData.MIMEType != "audio/ogg" {
		t.Fatalf("expected audio/ogg fallback, got %q", parts[0].InlineData.MIMEType)
	}
}
