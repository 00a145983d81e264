package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"lessoncaddy/internal/bootstrap"
	"lessoncaddy/internal/config"
	"lessoncaddy/internal/domain"
	"lessoncaddy/internal/store"
	"lessoncaddy/internal/usecase"
)

const (
	eventState   = "lessoncaddy:state"
	eventLesson  = "lessoncaddy:lesson"
	eventSummary = "lessoncaddy:summary"
	eventError   = "lessoncaddy:error"
)

// App is the Wails application root.
type App struct {
	ctx context.Context

	controller *usecase.Controller
	local      *store.SQLite
	cfg        config.Config
	bootErr    error
}

func NewApp() *App {
	return &App{}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	services, err := bootstrap.Build(a)
	if err != nil {
		a.bootErr = err
		a.LessonError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.cfg = services.Config
	a.controller = services.Controller
	a.local = services.Store
	a.StateChanged(domain.LifecycleStateIdle, domain.ReasonColdStart)
}

func (a *App) shutdown(_ context.Context) {
	if a.local != nil {
		_ = a.local.Close()
	}
}

// StartLessonFlow begins a new lesson. The returned status tells the UI
// whether to show student selection or redirect to student management.
func (a *App) StartLessonFlow() (domain.Status, error) {
	if err := a.requireReady(); err != nil {
		return domain.Status{}, err
	}
	if err := a.controller.StartLessonFlow(); err != nil {
		return a.controller.Status(), err
	}
	return a.controller.Status(), nil
}

// SelectStudent starts an active lesson for the chosen student.
func (a *App) SelectStudent(studentID string) (domain.Lesson, error) {
	if err := a.requireReady(); err != nil {
		return domain.Lesson{}, err
	}
	return a.controller.SelectStudent(studentID)
}

// StartRecording begins capturing an audio note for the active lesson.
func (a *App) StartRecording() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.StartRecording(a.ctx)
}

// StopRecording ends the capture and appends it to the active lesson.
func (a *App) StopRecording() (domain.Recording, error) {
	if err := a.requireReady(); err != nil {
		return domain.Recording{}, err
	}
	return a.controller.StopRecording()
}

// UpdateLessonTitle renames the active lesson.
func (a *App) UpdateLessonTitle(title string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.UpdateActiveLesson(usecase.LessonUpdate{Title: &title})
}

// UpdateLessonNotes replaces the active lesson's free-text notes.
func (a *App) UpdateLessonNotes(notes string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.UpdateActiveLesson(usecase.LessonUpdate{Notes: &notes})
}

// FinishLesson summarizes and completes the active lesson.
func (a *App) FinishLesson() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	return a.controller.FinishLesson(a.ctx)
}

// DeleteLesson removes a lesson from the history. The frontend asks
// for confirmation before calling this.
func (a *App) DeleteLesson(id string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.controller.DeleteLesson(id)
	return nil
}

// AddStudent adds a student to the directory.
func (a *App) AddStudent(fullName string) (domain.Student, error) {
	if err := a.requireReady(); err != nil {
		return domain.Student{}, err
	}
	return a.controller.AddStudent(fullName)
}

// DeleteStudent removes a student from the directory. Past lessons for
// the student are kept; the frontend asks for confirmation first.
func (a *App) DeleteStudent(id string) error {
	if err := a.requireReady(); err != nil {
		return err
	}
	a.controller.DeleteStudent(id)
	return nil
}

// GetStudents returns the student directory in insertion order.
func (a *App) GetStudents() []domain.Student {
	if a.controller == nil {
		return nil
	}
	return a.controller.Students()
}

// GetLessons returns the lesson history, most recent first.
func (a *App) GetLessons() []domain.Lesson {
	if a.controller == nil {
		return nil
	}
	return a.controller.Lessons()
}

// GetActiveLesson returns the lesson being recorded into, or nil.
func (a *App) GetActiveLesson() *domain.Lesson {
	if a.controller == nil {
		return nil
	}
	lesson, ok := a.controller.ActiveLesson()
	if !ok {
		return nil
	}
	return &lesson
}

// StudentName resolves a student id for display, with the unknown
// student fallback for deleted students.
func (a *App) StudentName(id string) string {
	if a.controller == nil {
		return domain.UnknownStudentName
	}
	return a.controller.StudentName(id)
}

// GetStatus returns the current lifecycle status.
func (a *App) GetStatus() domain.Status {
	if a.controller == nil {
		if a.bootErr != nil {
			return domain.Status{State: domain.LifecycleStateIdle, Message: a.bootErr.Error()}
		}
		return domain.Status{State: domain.LifecycleStateIdle}
	}
	return a.controller.Status()
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// StateChanged emits lifecycle updates to the frontend.
func (a *App) StateChanged(state domain.LifecycleState, reason domain.StateReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventState, map[string]string{
		"state":   string(state),
		"reason":  string(reason),
		"message": stateReasonMessage(reason),
	})
}

// LessonChanged emits the updated active lesson.
func (a *App) LessonChanged(lesson domain.Lesson) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventLesson, lesson)
}

// SummaryReady emits the completed summary.
func (a *App) SummaryReady(lessonID string, summary string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventSummary, map[string]string{
		"lessonId": lessonID,
		"summary":  summary,
	})
}

// LessonError emits backend errors to the UI.
func (a *App) LessonError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": errorMessage(code, detail),
		"detail":  detail,
	})
}

func stateReasonMessage(reason domain.StateReason) string {
	switch reason {
	case domain.ReasonColdStart:
		return "Ready"
	case domain.ReasonNoStudents:
		return "Please add a student profile first"
	case domain.ReasonSelectingStudent:
		return "Who is this lesson for?"
	case domain.ReasonLessonStarted:
		return "Lesson started"
	case domain.ReasonLessonReplaced:
		return "Lesson started; previous unfinished lesson discarded"
	case domain.ReasonRecordingStarted:
		return "Recording..."
	case domain.ReasonRecordingAdded:
		return "Recording saved to lesson"
	case domain.ReasonRecordingDiscarded:
		return "Recording discarded"
	case domain.ReasonSummarizing:
		return "Summarizing lesson..."
	case domain.ReasonLessonCompleted:
		return "Lesson complete"
	case domain.ReasonSummaryFailed:
		return "Something went wrong while summarizing"
	default:
		return ""
	}
}

func errorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodeCaptureStart:
		return "Could not access the microphone"
	case domain.ErrorCodeCaptureStop:
		return "Recording could not be saved"
	case domain.ErrorCodeSummarization:
		return "Something went wrong while summarizing"
	case domain.ErrorCodeLocalStore:
		return "Saving locally failed"
	case domain.ErrorCodeRemoteSink:
		return "Remote backup failed"
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}
