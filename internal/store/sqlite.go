package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"lessoncaddy/internal/domain"
)

// The two logical namespaces of the local store. Each holds one JSON
// array; saves replace the whole value so readers never observe a
// half-updated collection.
const (
	keyStudents = "students"
	keyLessons  = "lessons-meta"
)

// SQLite persists the student directory and lesson metadata in a
// single key-value table. Raw audio never reaches this store; lessons
// are saved as their durable projections.
type SQLite struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "lessoncaddy", "lessoncaddy.sqlite")
}

// Open opens (and if needed creates) the database with WAL enabled.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadStudents returns the saved student directory, or an empty
// directory when nothing was saved yet or the payload is unreadable.
func (s *SQLite) LoadStudents() ([]domain.Student, error) {
	var students []domain.Student
	if err := s.load(keyStudents, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// SaveStudents replaces the saved student directory.
func (s *SQLite) SaveStudents(students []domain.Student) error {
	if students == nil {
		students = []domain.Student{}
	}
	return s.save(keyStudents, students)
}

// LoadLessons returns the saved lesson history, or an empty history
// when nothing was saved yet or the payload is unreadable.
func (s *SQLite) LoadLessons() ([]domain.LessonMeta, error) {
	var lessons []domain.LessonMeta
	if err := s.load(keyLessons, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// SaveLessons replaces the saved lesson history.
func (s *SQLite) SaveLessons(lessons []domain.LessonMeta) error {
	if lessons == nil {
		lessons = []domain.LessonMeta{}
	}
	return s.save(keyLessons, lessons)
}

func (s *SQLite) load(key string, dest any) error {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		// Corrupt data is treated as absence; the app must start
		// usable rather than crash on a bad payload.
		log.Printf("discarding unreadable %q payload: %v", key, err)
		return nil
	}
	return nil
}

func (s *SQLite) save(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if _, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(payload)); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}
