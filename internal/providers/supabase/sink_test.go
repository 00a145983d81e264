package supabase

import (
	"testing"
	"time"
)

func TestLessonSummaryTableName(t *testing.T) {
	t.Parallel()

	if got := (LessonSummary{}).TableName(); got != "lesson_summaries" {
		t.Fatalf("unexpected table name: %q", got)
	}
}

func TestConnectRejectsBadDSN(t *testing.T) {
	t.Parallel()

	if _, err := Connect("not-a-dsn"); err == nil {
		t.Fatalf("expected connect error for malformed dsn")
	}
}

func TestLessonSummaryRowShape(t *testing.T) {
	t.Parallel()

	when := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	row := LessonSummary{StudentName: "Ada", Summary: "# Summary", Date: when}
	if row.StudentName != "Ada" || row.Summary != "# Summary" || !row.Date.Equal(when) {
		t.Fatalf("unexpected row: %+v", row)
	}
}
