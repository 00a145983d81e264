package usecase

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"lessoncaddy/internal/ports"
)

// captureSession owns one live microphone session. A collector
// goroutine drains the device into an in-memory buffer; stop releases
// the device and hands back the encoded audio with its duration.
type captureSession struct {
	session ports.AudioSession
	started time.Time

	mu  sync.Mutex
	buf bytes.Buffer

	done    chan struct{}
	readErr error
}

func newCaptureSession(session ports.AudioSession, chunkSize int) *captureSession {
	if chunkSize < 256 {
		chunkSize = 4096
	}
	s := &captureSession{
		session: session,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go s.collect(chunkSize)
	return s
}

func (s *captureSession) collect(chunkSize int) {
	defer close(s.done)

	chunk := make([]byte, chunkSize)
	for {
		n, err := s.session.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			s.buf.Write(chunk[:n])
			s.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.readErr = err
			}
			return
		}
	}
}

// stop releases the capture device and waits for the collector to
// drain. The device is stopped before any error is reported so it is
// never leaked.
func (s *captureSession) stop() ([]byte, int, error) {
	stopErr := s.session.Stop()
	<-s.done

	if s.readErr != nil {
		return nil, 0, s.readErr
	}
	if stopErr != nil {
		return nil, 0, stopErr
	}

	s.mu.Lock()
	audio := append([]byte(nil), s.buf.Bytes()...)
	s.mu.Unlock()

	if len(audio) == 0 {
		return nil, 0, errors.New("no audio captured")
	}

	seconds := int(time.Since(s.started).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	return audio, seconds, nil
}
