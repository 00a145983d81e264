package usecase

import (
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestCaptureSessionCollectsAllChunks(t *testing.T) {
	t.Parallel()

	session := &scriptedSession{chunks: [][]byte{[]byte("abc"), []byte("def"), []byte("g")}}
	capture := newCaptureSession(session, 512)

	audio, seconds, err := capture.stop()
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if string(audio) != "abcdefg" {
		t.Fatalf("unexpected audio: %q", audio)
	}
	if seconds < 0 {
		t.Fatalf("negative duration")
	}
	if session.stopCalls() != 1 {
		t.Fatalf("expected device stop, got %d calls", session.stopCalls())
	}
}

func TestCaptureSessionReadErrorSurfacesOnStop(t *testing.T) {
	t.Parallel()

	session := &scriptedSession{
		chunks:  [][]byte{[]byte("abc")},
		readErr: errors.New("pipe broke"),
	}
	capture := newCaptureSession(session, 512)

	_, _, err := capture.stop()
	if err == nil || !strings.Contains(err.Error(), "pipe broke") {
		t.Fatalf("expected read error, got %v", err)
	}
	if session.stopCalls() == 0 {
		t.Fatalf("device must be released even on read failure")
	}
}

func TestCaptureSessionEmptyCaptureIsAnError(t *testing.T) {
	t.Parallel()

	session := &scriptedSession{}
	capture := newCaptureSession(session, 512)

	_, _, err := capture.stop()
	if err == nil || !strings.Contains(err.Error(), "no audio captured") {
		t.Fatalf("expected empty capture error, got %v", err)
	}
}

func TestCaptureSessionStopErrorSurfaces(t *testing.T) {
	t.Parallel()

	session := &scriptedSession{
		chunks:  [][]byte{[]byte("abc")},
		stopErr: errors.New("device wedged"),
	}
	capture := newCaptureSession(session, 512)

	_, _, err := capture.stop()
	if err == nil || !strings.Contains(err.Error(), "device wedged") {
		t.Fatalf("expected stop error, got %v", err)
	}
}

// scriptedSession feeds fixed chunks, then EOF (or a scripted error).
type scriptedSession struct {
	mu      sync.Mutex
	chunks  [][]byte
	index   int
	readErr error
	stopErr error
	stops   int
}

func (s *scriptedSession) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.chunks) {
		if s.readErr != nil {
			return 0, s.readErr
		}
		return 0, io.EOF
	}
	n := copy(p, s.chunks[s.index])
	s.index++
	return n, nil
}

func (s *scriptedSession) Close() error { return nil }

func (s *scriptedSession) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	return s.stopErr
}

func (s *scriptedSession) stopCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}
