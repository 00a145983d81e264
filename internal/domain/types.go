package domain

import "time"

// LifecycleState models the lesson-taking flow.
type LifecycleState string

const (
	LifecycleStateIdle             LifecycleState = "idle"
	LifecycleStateSelectingStudent LifecycleState = "selecting_student"
	LifecycleStateActive           LifecycleState = "active"
	LifecycleStateSummarizing      LifecycleState = "summarizing"
)

// StateReason provides a structured reason for state transitions.
type StateReason string

const (
	ReasonColdStart          StateReason = "cold_start"
	ReasonNoStudents         StateReason = "no_students"
	ReasonSelectingStudent   StateReason = "selecting_student"
	ReasonLessonStarted      StateReason = "lesson_started"
	ReasonLessonReplaced     StateReason = "lesson_replaced"
	ReasonRecordingStarted   StateReason = "recording_started"
	ReasonRecordingAdded     StateReason = "recording_added"
	ReasonRecordingDiscarded StateReason = "recording_discarded"
	ReasonSummarizing        StateReason = "summarizing"
	ReasonLessonCompleted    StateReason = "lesson_completed"
	ReasonSummaryFailed      StateReason = "summary_failed"
)

// ErrorCode identifies non-fatal and fatal backend errors.
type ErrorCode string

const (
	ErrorCodeStartup       ErrorCode = "startup"
	ErrorCodeCaptureStart  ErrorCode = "capture_start"
	ErrorCodeCaptureStop   ErrorCode = "capture_stop"
	ErrorCodeSummarization ErrorCode = "summarization"
	ErrorCodeLocalStore    ErrorCode = "local_store"
	ErrorCodeRemoteSink    ErrorCode = "remote_sink"
)

// LessonStatus is the persistence-visible status of a lesson.
type LessonStatus string

const (
	LessonStatusActive      LessonStatus = "active"
	LessonStatusSummarizing LessonStatus = "summarizing"
	LessonStatusCompleted   LessonStatus = "completed"
)

// UnknownStudentName is rendered for lessons whose student was removed
// from the directory.
const UnknownStudentName = "Unknown Student"

// Student is one roster entry. Immutable after creation except deletion.
type Student struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Recording is one captured audio segment. Audio lives only in memory
// for the lifetime of the process; the durable form is RecordingMeta.
type Recording struct {
	ID              string    `json:"id"`
	Audio           []byte    `json:"-"`
	MIMEType        string    `json:"-"`
	DurationSeconds int       `json:"duration"`
	Timestamp       time.Time `json:"timestamp"`
}

// RecordingMeta is the durable projection of a Recording. It has no
// audio field so raw audio can never cross the persistence boundary.
type RecordingMeta struct {
	ID              string    `json:"id"`
	DurationSeconds int       `json:"duration"`
	Timestamp       time.Time `json:"timestamp"`
}

// Meta strips the volatile audio payload.
func (r Recording) Meta() RecordingMeta {
	return RecordingMeta{ID: r.ID, DurationSeconds: r.DurationSeconds, Timestamp: r.Timestamp}
}

// Lesson groups the recordings of one coaching session. StudentID may
// dangle after the student is deleted; lookups fall back to
// UnknownStudentName.
type Lesson struct {
	ID         string       `json:"id"`
	StudentID  string       `json:"studentId"`
	Title      string       `json:"title"`
	Date       time.Time    `json:"date"`
	Recordings []Recording  `json:"recordings"`
	Notes      string       `json:"notes"`
	Summary    string       `json:"summary,omitempty"`
	Status     LessonStatus `json:"status"`
}

// LessonMeta is the durable projection of a Lesson.
type LessonMeta struct {
	ID         string          `json:"id"`
	StudentID  string          `json:"studentId"`
	Title      string          `json:"title"`
	Date       time.Time       `json:"date"`
	Recordings []RecordingMeta `json:"recordings"`
	Notes      string          `json:"notes"`
	Summary    string          `json:"summary,omitempty"`
	Status     LessonStatus    `json:"status"`
}

// Meta reduces every recording to its durable projection.
func (l Lesson) Meta() LessonMeta {
	metas := make([]RecordingMeta, 0, len(l.Recordings))
	for _, rec := range l.Recordings {
		metas = append(metas, rec.Meta())
	}
	return LessonMeta{
		ID:         l.ID,
		StudentID:  l.StudentID,
		Title:      l.Title,
		Date:       l.Date,
		Recordings: metas,
		Notes:      l.Notes,
		Summary:    l.Summary,
		Status:     l.Status,
	}
}

// Status summarizes the current runtime status for the UI.
type Status struct {
	State          LifecycleState `json:"state"`
	Recording      bool           `json:"recording"`
	Processing     bool           `json:"processing"`
	ActiveLessonID string         `json:"activeLessonId,omitempty"`
	Message        string         `json:"message,omitempty"`
}
