package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"lessoncaddy/internal/domain"
)

func TestBuildSuccess(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SUPABASE_DB_URL", "")
	t.Setenv("LESSONCADDY_DB_PATH", filepath.Join(home, "lessoncaddy.sqlite"))

	services, err := Build(noopEventSink{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer services.Store.Close()

	if services.Controller == nil {
		t.Fatalf("expected controller")
	}
	if _, err := os.Stat(filepath.Join(home, "lessoncaddy.sqlite")); err != nil {
		t.Fatalf("expected database created: %v", err)
	}
}

func TestBuildDisablesSinkOnBadSupabaseConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SUPABASE_DB_URL", "not a valid dsn")
	t.Setenv("LESSONCADDY_DB_PATH", filepath.Join(home, "lessoncaddy.sqlite"))

	services, err := Build(noopEventSink{})
	if err != nil {
		t.Fatalf("a broken remote sink must not fail startup: %v", err)
	}
	defer services.Store.Close()
}

func TestBuildFailsWhenStoreUnwritable(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SUPABASE_DB_URL", "")
	t.Setenv("LESSONCADDY_DB_PATH", filepath.Join(home, "missing", "nested", "db.sqlite"))

	// A regular file where a directory is needed makes MkdirAll fail
	// regardless of the user running the tests.
	if err := os.WriteFile(filepath.Join(home, "missing"), []byte("in the way"), 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := Build(noopEventSink{}); err == nil {
		t.Fatalf("expected build error for unwritable store path")
	}
}

type noopEventSink struct{}

func (noopEventSink) StateChanged(_ domain.LifecycleState, _ domain.StateReason) {}
func (noopEventSink) LessonChanged(_ domain.Lesson)                              {}
func (noopEventSink) SummaryReady(_ string, _ string)                            {}
func (noopEventSink) LessonError(_ domain.ErrorCode, _ string)                   {}
