package ports

import (
	"context"
	"io"
	"time"

	"lessoncaddy/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session. Read returns encoded audio
// bytes; Stop must release the device on every path.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
	// MIMEType reports the encoding produced by sessions, e.g. "audio/ogg".
	MIMEType() string
}

// Summarizer turns the ordered recordings of a lesson into Markdown.
type Summarizer interface {
	Summarize(ctx context.Context, recordings []domain.Recording) (string, error)
}

// LessonStore is durable local persistence for the student directory
// and lesson metadata. Loads return empty collections when nothing has
// been saved yet or the stored payload is unreadable; saves replace the
// whole collection.
type LessonStore interface {
	LoadStudents() ([]domain.Student, error)
	SaveStudents(students []domain.Student) error
	LoadLessons() ([]domain.LessonMeta, error)
	SaveLessons(lessons []domain.LessonMeta) error
}

// SummarySink is the best-effort remote destination for completed
// lesson summaries. Failures must never block lesson completion.
type SummarySink interface {
	Persist(ctx context.Context, studentName string, summary string, date time.Time) error
}

// EventSink emits backend state/events to the UI.
type EventSink interface {
	StateChanged(state domain.LifecycleState, reason domain.StateReason)
	LessonChanged(lesson domain.Lesson)
	SummaryReady(lessonID string, summary string)
	LessonError(code domain.ErrorCode, detail string)
}
