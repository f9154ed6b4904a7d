package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeStream replays queued reads and records writes.
type fakeStream struct {
	mu         sync.Mutex
	reads      [][]byte
	loop       []byte
	readErr    error
	writeErr   error
	writes     [][]byte
	closeCalls int
	closeErr   error
}

func (s *fakeStream) Read(int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.reads) > 0 {
		raw := s.reads[0]
		s.reads = s.reads[1:]
		return raw, nil
	}
	if s.loop != nil {
		return append([]byte(nil), s.loop...), nil
	}
	if s.readErr != nil {
		return nil, s.readErr
	}
	return nil, ErrStreamClosed
}

func (s *fakeStream) Write(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes = append(s.writes, append([]byte(nil), raw...))
	return nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeCalls++
	return s.closeErr
}

func (s *fakeStream) written() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.writes...)
}

func (s *fakeStream) closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

// stepClock advances by step on every Now call.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

func (c *stepClock) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

var errDevice = errors.New("device unplugged")

func quietLogger() (*logrus.Entry, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

func newTestEngine(t *testing.T, s Stream, opts ...Option) (*Engine, *logtest.Hook) {
	t.Helper()

	entry, hook := quietLogger()
	e, err := New(s, append([]Option{WithLogger(entry), WithInterval(0)}, opts...)...)
	require.NoError(t, err)

	return e, hook
}
