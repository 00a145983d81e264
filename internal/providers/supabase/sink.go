package supabase

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// LessonSummary is one completed-lesson row in the remote table.
type LessonSummary struct {
	ID          uint      `gorm:"primaryKey"`
	StudentName string    `gorm:"column:student_name"`
	Summary     string    `gorm:"column:summary"`
	Date        time.Time `gorm:"column:date"`
}

func (LessonSummary) TableName() string { return "lesson_summaries" }

// Sink implements ports.SummarySink against the Supabase Postgres
// database. One insert per completed lesson, no retry, no queue; the
// caller logs and swallows failures.
type Sink struct {
	db *gorm.DB
}

// Connect opens the Supabase Postgres connection. Supabase pools
// through PgBouncer, so the simple protocol is preferred.
func Connect(dsn string) (*Sink, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to Supabase: %w", err)
	}
	return &Sink{db: db}, nil
}

// NewSink wraps an existing connection.
func NewSink(db *gorm.DB) *Sink {
	return &Sink{db: db}
}

// Persist inserts one summary row.
func (s *Sink) Persist(ctx context.Context, studentName string, summary string, date time.Time) error {
	row := LessonSummary{
		StudentName: studentName,
		Summary:     summary,
		Date:        date,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert lesson summary: %w", err)
	}
	return nil
}
