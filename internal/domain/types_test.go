package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRecordingMetaOmitsAudio(t *testing.T) {
	t.Parallel()

	rec := Recording{
		ID:              "r1",
		Audio:           []byte("opus-bytes"),
		MIMEType:        "audio/ogg",
		DurationSeconds: 12,
		Timestamp:       time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}

	meta := rec.Meta()
	if meta.ID != rec.ID || meta.DurationSeconds != rec.DurationSeconds || !meta.Timestamp.Equal(rec.Timestamp) {
		t.Fatalf("metadata fields not preserved: %+v", meta)
	}

	payload, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(payload), "opus-bytes") {
		t.Fatalf("audio leaked into durable payload: %s", payload)
	}
}

func TestLessonMetaReducesEveryRecording(t *testing.T) {
	t.Parallel()

	lesson := Lesson{
		ID:        "l1",
		StudentID: "s1",
		Title:     "Session: Aug 1, 2026",
		Date:      time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Recordings: []Recording{
			{ID: "r1", Audio: []byte("a"), DurationSeconds: 12},
			{ID: "r2", Audio: []byte("b"), DurationSeconds: 30},
		},
		Notes:   "tempo drills",
		Summary: "# Summary",
		Status:  LessonStatusCompleted,
	}

	meta := lesson.Meta()
	if len(meta.Recordings) != 2 {
		t.Fatalf("expected 2 recording metas, got %d", len(meta.Recordings))
	}
	for i, rec := range meta.Recordings {
		if rec.ID != lesson.Recordings[i].ID {
			t.Fatalf("recording %d out of order: %s", i, rec.ID)
		}
	}
	if meta.Title != lesson.Title || meta.Notes != lesson.Notes || meta.Summary != lesson.Summary {
		t.Fatalf("lesson fields not preserved: %+v", meta)
	}
	if meta.Status != LessonStatusCompleted {
		t.Fatalf("unexpected status: %s", meta.Status)
	}
}

func TestRecordingJSONHidesVolatileFields(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(Recording{ID: "r1", Audio: []byte("secret"), MIMEType: "audio/ogg"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(payload), "secret") || strings.Contains(string(payload), "audio/ogg") {
		t.Fatalf("volatile fields leaked: %s", payload)
	}
}
