package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/cuescore/internal/ids"
	"github.com/lox/cuescore/internal/randutil"
)

// NewTestStore returns a Store with a mock clock, a fixed shuffle seed and
// sequential ids (p-1, p-2, ...), plus the mock clock.
func NewTestStore(t testing.TB, names ...string) (*Store, *quartz.Mock) {
	t.Helper()

	clock := quartz.NewMock(t)
	s := NewStore(
		WithClock(clock),
		WithRand(randutil.New(42)),
		WithIDGenerator(ids.Sequence("p")),
		WithLogger(log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})),
	)
	for _, name := range names {
		if _, err := s.AddPlayer(name); err != nil {
			t.Fatalf("AddPlayer(%q): %v", name, err)
		}
	}
	return s, clock
}
