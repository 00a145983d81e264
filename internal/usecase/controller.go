package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lessoncaddy/internal/domain"
	"lessoncaddy/internal/ports"
)

var (
	ErrNoStudents       = errors.New("no students in the directory")
	ErrUnknownStudent   = errors.New("student not found in the directory")
	ErrNoActiveLesson   = errors.New("no active lesson")
	ErrNotSelecting     = errors.New("no student selection in progress")
	ErrEmptyStudentName = errors.New("student name must not be empty")
	ErrLessonBusy       = errors.New("lesson is being summarized")
	ErrAlreadyRecording = errors.New("a recording is already in progress")
	ErrNotRecording     = errors.New("no recording in progress")
)

// Config controls recording behavior for lesson capture.
type Config struct {
	Audio     ports.AudioConfig
	ChunkSize int
}

// Controller is the lesson lifecycle state machine. It is the sole
// mutator of the student directory, the lesson history and the single
// active lesson; every intent is processed to completion under one
// mutex before the next is accepted.
type Controller struct {
	capture    ports.AudioCapture
	summarizer ports.Summarizer
	store      ports.LessonStore
	sink       ports.SummarySink
	events     ports.EventSink
	cfg        Config

	mu         sync.Mutex
	state      domain.LifecycleState
	students   []domain.Student
	lessons    []domain.Lesson
	active     *domain.Lesson
	recording  *captureSession
	processing bool
}

// NewController assembles the controller and loads the durable state.
// Unreadable local data is treated as absence so the app always starts
// in a usable state.
func NewController(
	capture ports.AudioCapture,
	summarizer ports.Summarizer,
	store ports.LessonStore,
	sink ports.SummarySink,
	events ports.EventSink,
	cfg Config,
) *Controller {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}

	c := &Controller{
		capture:    capture,
		summarizer: summarizer,
		store:      store,
		sink:       sink,
		events:     events,
		cfg:        cfg,
		state:      domain.LifecycleStateIdle,
	}

	students, err := store.LoadStudents()
	if err != nil {
		log.Printf("load students: %v (starting with empty directory)", err)
		students = nil
	}
	metas, err := store.LoadLessons()
	if err != nil {
		log.Printf("load lessons: %v (starting with empty history)", err)
		metas = nil
	}

	c.students = students
	c.lessons = make([]domain.Lesson, 0, len(metas))
	for _, meta := range metas {
		c.lessons = append(c.lessons, lessonFromMeta(meta))
	}
	return c
}

// StartLessonFlow begins the new-lesson flow. It fails when the student
// directory is empty so the UI can redirect to student management.
func (c *Controller) StartLessonFlow() error {
	c.mu.Lock()
	if len(c.students) == 0 {
		c.mu.Unlock()
		c.events.StateChanged(domain.LifecycleStateIdle, domain.ReasonNoStudents)
		return ErrNoStudents
	}
	if c.processing {
		c.mu.Unlock()
		return ErrLessonBusy
	}
	c.state = domain.LifecycleStateSelectingStudent
	c.mu.Unlock()

	c.events.StateChanged(domain.LifecycleStateSelectingStudent, domain.ReasonSelectingStudent)
	return nil
}

// SelectStudent creates a fresh active lesson for the given student.
// Any prior unfinished active lesson is discarded silently; it never
// reaches the history unless it was separately completed.
func (c *Controller) SelectStudent(studentID string) (domain.Lesson, error) {
	c.mu.Lock()
	if c.state != domain.LifecycleStateSelectingStudent {
		c.mu.Unlock()
		return domain.Lesson{}, ErrNotSelecting
	}
	if !c.hasStudentLocked(studentID) {
		c.mu.Unlock()
		return domain.Lesson{}, ErrUnknownStudent
	}

	replaced := c.active != nil
	now := time.Now()
	lesson := domain.Lesson{
		ID:         uuid.NewString(),
		StudentID:  studentID,
		Title:      "Session: " + now.Format("Jan 2, 2006"),
		Date:       now,
		Recordings: []domain.Recording{},
		Status:     domain.LessonStatusActive,
	}
	c.active = &lesson
	c.state = domain.LifecycleStateActive
	snapshot := lesson
	c.mu.Unlock()

	reason := domain.ReasonLessonStarted
	if replaced {
		reason = domain.ReasonLessonReplaced
	}
	c.events.StateChanged(domain.LifecycleStateActive, reason)
	c.events.LessonChanged(snapshot)
	return snapshot, nil
}

// StartRecording acquires the microphone for the active lesson.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return ErrLessonBusy
	}
	if c.active == nil || c.state != domain.LifecycleStateActive {
		c.mu.Unlock()
		return ErrNoActiveLesson
	}
	if c.recording != nil {
		c.mu.Unlock()
		return ErrAlreadyRecording
	}
	c.mu.Unlock()

	session, err := c.capture.Start(ctx, c.cfg.Audio)
	if err != nil {
		c.events.LessonError(domain.ErrorCodeCaptureStart, err.Error())
		return err
	}

	rec := newCaptureSession(session, c.cfg.ChunkSize)

	c.mu.Lock()
	if c.recording != nil || c.active == nil {
		// Lost the race against another intent; release the device.
		c.mu.Unlock()
		_, _, _ = rec.stop()
		return ErrAlreadyRecording
	}
	c.recording = rec
	c.mu.Unlock()

	c.events.StateChanged(domain.LifecycleStateActive, domain.ReasonRecordingStarted)
	return nil
}

// StopRecording releases the microphone and appends the captured
// segment to the active lesson. The device is released even when the
// captured audio turns out to be unusable.
func (c *Controller) StopRecording() (domain.Recording, error) {
	c.mu.Lock()
	rec := c.recording
	c.recording = nil
	c.mu.Unlock()

	if rec == nil {
		return domain.Recording{}, ErrNotRecording
	}

	audio, seconds, err := rec.stop()
	if err != nil {
		c.events.LessonError(domain.ErrorCodeCaptureStop, err.Error())
		c.events.StateChanged(domain.LifecycleStateActive, domain.ReasonRecordingDiscarded)
		return domain.Recording{}, err
	}

	recording := domain.Recording{
		ID:              uuid.NewString(),
		Audio:           audio,
		MIMEType:        c.capture.MIMEType(),
		DurationSeconds: seconds,
		Timestamp:       time.Now(),
	}
	if err := c.AddRecording(recording); err != nil {
		return domain.Recording{}, err
	}
	return recording, nil
}

// AddRecording appends a fully-formed recording to the active lesson in
// arrival order. It is a silent no-op when no lesson is active.
func (c *Controller) AddRecording(recording domain.Recording) error {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return ErrLessonBusy
	}
	if c.active == nil {
		c.mu.Unlock()
		return nil
	}
	c.active.Recordings = append(c.active.Recordings, recording)
	snapshot := *c.active
	c.mu.Unlock()

	c.events.StateChanged(domain.LifecycleStateActive, domain.ReasonRecordingAdded)
	c.events.LessonChanged(snapshot)
	return nil
}

// LessonUpdate carries the mutable fields of an active lesson. Nil
// fields are left untouched; set fields win unconditionally.
type LessonUpdate struct {
	Title *string
	Notes *string
}

// UpdateActiveLesson merges the given fields into the active lesson.
func (c *Controller) UpdateActiveLesson(update LessonUpdate) error {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return ErrLessonBusy
	}
	if c.active == nil {
		c.mu.Unlock()
		return ErrNoActiveLesson
	}
	if update.Title != nil {
		c.active.Title = *update.Title
	}
	if update.Notes != nil {
		c.active.Notes = *update.Notes
	}
	snapshot := *c.active
	c.mu.Unlock()

	c.events.LessonChanged(snapshot)
	return nil
}

// FinishLesson summarizes the active lesson and completes it. It is a
// no-op when no lesson is active or the lesson has no recordings. On
// summarizer failure the lesson stays active with its recordings intact
// so the coach can retry. The remote sink write happens after local
// completion and can never block or roll it back.
func (c *Controller) FinishLesson(ctx context.Context) error {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return ErrLessonBusy
	}
	if c.active == nil || c.state != domain.LifecycleStateActive || len(c.active.Recordings) == 0 {
		c.mu.Unlock()
		return nil
	}
	c.processing = true
	c.state = domain.LifecycleStateSummarizing
	c.active.Status = domain.LessonStatusSummarizing
	recordings := make([]domain.Recording, len(c.active.Recordings))
	copy(recordings, c.active.Recordings)
	c.mu.Unlock()

	c.events.StateChanged(domain.LifecycleStateSummarizing, domain.ReasonSummarizing)

	summary, err := c.summarizer.Summarize(ctx, recordings)
	if err != nil {
		c.mu.Lock()
		c.processing = false
		c.state = domain.LifecycleStateActive
		if c.active != nil {
			c.active.Status = domain.LessonStatusActive
		}
		c.mu.Unlock()

		log.Printf("summarize lesson: %v", err)
		c.events.LessonError(domain.ErrorCodeSummarization, err.Error())
		c.events.StateChanged(domain.LifecycleStateActive, domain.ReasonSummaryFailed)
		return err
	}

	c.mu.Lock()
	c.active.Summary = summary
	c.active.Status = domain.LessonStatusCompleted
	completed := *c.active
	c.lessons = append([]domain.Lesson{completed}, c.lessons...)
	c.active = nil
	c.processing = false
	c.state = domain.LifecycleStateIdle
	studentName := c.studentNameLocked(completed.StudentID)
	c.saveLessonsLocked()
	c.mu.Unlock()

	c.events.SummaryReady(completed.ID, summary)
	c.events.StateChanged(domain.LifecycleStateIdle, domain.ReasonLessonCompleted)

	if c.sink != nil {
		if err := c.sink.Persist(ctx, studentName, summary, time.Now()); err != nil {
			log.Printf("persist summary to remote sink: %v", err)
		}
	}
	return nil
}

// DeleteLesson removes a lesson from the history. Irreversible; the UI
// is responsible for confirmation.
func (c *Controller) DeleteLesson(id string) {
	c.mu.Lock()
	kept := c.lessons[:0]
	for _, lesson := range c.lessons {
		if lesson.ID != id {
			kept = append(kept, lesson)
		}
	}
	c.lessons = kept
	c.saveLessonsLocked()
	c.mu.Unlock()
}

// AddStudent adds a new student to the directory.
func (c *Controller) AddStudent(fullName string) (domain.Student, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return domain.Student{}, ErrEmptyStudentName
	}

	student := domain.Student{
		ID:        uuid.NewString(),
		FullName:  fullName,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.students = append(c.students, student)
	c.saveStudentsLocked()
	c.mu.Unlock()
	return student, nil
}

// DeleteStudent removes a student from the directory. Lessons that
// reference the student are left untouched and resolve to
// UnknownStudentName from then on.
func (c *Controller) DeleteStudent(id string) {
	c.mu.Lock()
	kept := c.students[:0]
	for _, student := range c.students {
		if student.ID != id {
			kept = append(kept, student)
		}
	}
	c.students = kept
	c.saveStudentsLocked()
	c.mu.Unlock()
}

// Students returns the directory in insertion order.
func (c *Controller) Students() []domain.Student {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Student, len(c.students))
	copy(out, c.students)
	return out
}

// Lessons returns the history, most recent first.
func (c *Controller) Lessons() []domain.Lesson {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out
}

// ActiveLesson returns the lesson currently being recorded into.
func (c *Controller) ActiveLesson() (domain.Lesson, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return domain.Lesson{}, false
	}
	return *c.active, true
}

// StudentName resolves a student id to a display name, falling back to
// UnknownStudentName for dangling references.
func (c *Controller) StudentName(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.studentNameLocked(id)
}

// Status reports the current lifecycle status.
func (c *Controller) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	status := domain.Status{
		State:      c.state,
		Recording:  c.recording != nil,
		Processing: c.processing,
	}
	if c.active != nil {
		status.ActiveLessonID = c.active.ID
	}
	return status
}

func (c *Controller) hasStudentLocked(id string) bool {
	for _, student := range c.students {
		if student.ID == id {
			return true
		}
	}
	return false
}

func (c *Controller) studentNameLocked(id string) string {
	for _, student := range c.students {
		if student.ID == id {
			return student.FullName
		}
	}
	return domain.UnknownStudentName
}

func (c *Controller) saveStudentsLocked() {
	if err := c.store.SaveStudents(append([]domain.Student(nil), c.students...)); err != nil {
		log.Printf("save students: %v", err)
	}
}

func (c *Controller) saveLessonsLocked() {
	metas := make([]domain.LessonMeta, 0, len(c.lessons))
	for _, lesson := range c.lessons {
		metas = append(metas, lesson.Meta())
	}
	if err := c.store.SaveLessons(metas); err != nil {
		log.Printf("save lessons: %v", err)
	}
}

func lessonFromMeta(meta domain.LessonMeta) domain.Lesson {
	recordings := make([]domain.Recording, 0, len(meta.Recordings))
	for _, rec := range meta.Recordings {
		recordings = append(recordings, domain.Recording{
			ID:              rec.ID,
			DurationSeconds: rec.DurationSeconds,
			Timestamp:       rec.Timestamp,
		})
	}
	return domain.Lesson{
		ID:         meta.ID,
		StudentID:  meta.StudentID,
		Title:      meta.Title,
		Date:       meta.Date,
		Recordings: recordings,
		Notes:      meta.Notes,
		Summary:    meta.Summary,
		Status:     meta.Status,
	}
}
