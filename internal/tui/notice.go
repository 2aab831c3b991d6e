package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"
)

// noticeTick is the redraw interval of the notice progress bar.
const noticeTick = 50 * time.Millisecond

// noticeTickMsg drives the notice bar for notice seq.
type noticeTickMsg struct{ seq int }

// notice is a short-lived message with a draining progress bar. Showing a
// new notice supersedes the old one: its timer is stopped and any tick
// still in flight is ignored by sequence number.
type notice struct {
	text     string
	started  time.Time
	duration time.Duration
	seq      int
	cancel   chan struct{}
}

func (n *notice) active() bool {
	return n.text != ""
}

// remaining returns the fraction of the notice still to run, 1 to 0.
func (n *notice) remaining(clock quartz.Clock) float64 {
	if !n.active() || n.duration <= 0 {
		return 0
	}
	left := 1 - float64(clock.Since(n.started))/float64(n.duration)
	if left < 0 {
		return 0
	}
	return left
}

// show replaces the current notice and returns the command that schedules
// its first tick.
func (n *notice) show(clock quartz.Clock, text string, d time.Duration) tea.Cmd {
	n.stop()
	n.seq++
	n.text = text
	n.started = clock.Now()
	n.duration = d
	n.cancel = make(chan struct{})
	return tickAfter(clock, n.seq, n.cancel)
}

// tick handles a tick message, returning the next tick or nil once the
// notice has expired or been superseded.
func (n *notice) tick(clock quartz.Clock, msg noticeTickMsg) tea.Cmd {
	if msg.seq != n.seq || !n.active() {
		return nil
	}
	if clock.Since(n.started) >= n.duration {
		n.stop()
		n.text = ""
		return nil
	}
	return tickAfter(clock, n.seq, n.cancel)
}

func (n *notice) stop() {
	if n.cancel != nil {
		close(n.cancel)
		n.cancel = nil
	}
}

func tickAfter(clock quartz.Clock, seq int, cancel <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		t := clock.NewTimer(noticeTick, "tui", "notice")
		defer t.Stop()
		select {
		case <-t.C:
			return noticeTickMsg{seq: seq}
		case <-cancel:
			return nil
		}
	}
}
