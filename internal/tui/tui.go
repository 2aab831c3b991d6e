package tui

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/cuescore/internal/catalog"
	"github.com/lox/cuescore/internal/game"
)

type screen int

const (
	screenBoard screen = iota
	screenHistory
)

const (
	paneBoard = iota
	paneInput
)

// confirmation is a destructive intent waiting for y/n.
type confirmation struct {
	prompt string
	intent game.Intent
}

// Options configures a Model.
type Options struct {
	Logger             *log.Logger
	Clock              quartz.Clock
	Renderer           *lipgloss.Renderer
	Theme              string
	NoticeDuration     time.Duration
	ConfirmDestructive bool
}

// Model is the bubbletea model for an interactive scoring session. All
// state changes go through the session; the model only keeps cursors,
// the screen and transient feedback.
type Model struct {
	session *game.Session
	logger  *log.Logger
	clock   quartz.Clock
	styles  Styles
	keys    keyMap

	// UI components
	input    textinput.Model
	viewport viewport.Model
	help     help.Model
	bar      progress.Model

	screen      screen
	focusedPane int
	cursor      int // roster row
	histCursor  int // row in the reversed visible history
	editMode    bool
	celebrate   *game.HistoryEntry
	pending     *confirmation
	notice      notice
	status      string
	statusErr   bool

	noticeDuration time.Duration
	confirm        bool

	width    int
	height   int
	quitting bool
}

// New returns a Model driving session.
func New(session *game.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = time.Second
	}
	styles := NewStyles(opts.Renderer, opts.Theme)

	ti := textinput.New()
	ti.Placeholder = "add <name>, pot <ball>, foul, order, end, reset, history, filter <player|all>, quit"
	ti.CharLimit = 100
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = styles.Selected

	vp := viewport.New(10, 5)

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(24))
	if styles.mono {
		bar = progress.New(progress.WithSolidFill("#FAFAFA"), progress.WithoutPercentage(), progress.WithWidth(24))
	}

	return &Model{
		session:        session,
		logger:         opts.Logger.WithPrefix("tui"),
		clock:          opts.Clock,
		styles:         styles,
		keys:           defaultKeyMap(),
		input:          ti,
		viewport:       vp,
		help:           help.New(),
		bar:            bar,
		noticeDuration: opts.NoticeDuration,
		confirm:        opts.ConfirmDestructive,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case noticeTickMsg:
		return m, m.notice.tick(m.clock, msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focusedPane == paneInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// Overlays take every key until dismissed.
	if m.pending != nil {
		return m.handleConfirmKey(msg)
	}
	if m.celebrate != nil {
		m.celebrate = nil
		return m, nil
	}

	if m.focusedPane == paneInput {
		return m.handleInputKey(msg)
	}

	if key.Matches(msg, m.keys.Focus) {
		m.focusInput("")
		return m, textinput.Blink
	}

	if m.screen == screenHistory {
		return m.handleHistoryKey(msg)
	}
	return m.handleBoardKey(msg)
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		intent := m.pending.intent
		m.pending = nil
		return m, m.apply(intent)
	case key.Matches(msg, m.keys.Cancel):
		m.pending = nil
		m.setStatus("Cancelled")
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab:
		m.focusBoard()
		return m, nil
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		m.focusBoard()
		return m.runCommand(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	roster := m.store().Roster()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(roster)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(roster) {
			return m, m.apply(game.SelectPlayer{ID: roster[m.cursor].ID})
		}
	case key.Matches(msg, m.keys.Balls):
		ball, _ := catalog.Parse(msg.String())
		return m, m.apply(game.ApplyScore{Key: ball.Key})
	case key.Matches(msg, m.keys.Foul):
		return m, m.apply(game.ApplyFoul{})
	case key.Matches(msg, m.keys.Order):
		return m, m.apply(game.RandomizeOrder{})
	case key.Matches(msg, m.keys.End):
		return m, m.apply(game.EndRound{})
	case key.Matches(msg, m.keys.Reset):
		return m, m.ask("Reset the current round?", game.ResetRound{})
	case key.Matches(msg, m.keys.Add):
		m.focusInput("add ")
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Remove):
		if m.cursor < len(roster) {
			return m, m.apply(game.RemovePlayer{ID: roster[m.cursor].ID})
		}
	case key.Matches(msg, m.keys.History):
		m.openHistory()
	}
	return m, nil
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.historyRows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Back):
		m.closeHistory()
	case key.Matches(msg, m.keys.Up):
		if m.histCursor > 0 {
			m.histCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.histCursor < len(rows)-1 {
			m.histCursor++
		}
	case key.Matches(msg, m.keys.Edit):
		m.editMode = !m.editMode
		if !m.editMode {
			m.store().ClearMarked()
		}
	case key.Matches(msg, m.keys.Mark) && m.editMode:
		if m.histCursor < len(rows) {
			return m, m.apply(game.ToggleMarked{ID: rows[m.histCursor].ID})
		}
	case key.Matches(msg, m.keys.Expand), key.Matches(msg, m.keys.Mark):
		if m.histCursor < len(rows) {
			return m, m.apply(game.ToggleExpanded{ID: rows[m.histCursor].ID})
		}
	case key.Matches(msg, m.keys.Delete):
		marked := m.store().Marked()
		if len(marked) == 0 {
			m.setError(errors.New("mark entries with space in edit mode first"))
			return m, nil
		}
		return m, m.ask(fmt.Sprintf("Delete %d selected %s?", len(marked), plural(len(marked), "round", "rounds")),
			game.DeleteHistory{IDs: marked})
	case key.Matches(msg, m.keys.ClearAll):
		n := len(m.store().History())
		if n == 0 {
			m.setStatus("History is already empty")
			return m, nil
		}
		return m, m.ask(fmt.Sprintf("Delete all %d %s?", n, plural(n, "round", "rounds")), game.ClearHistory{})
	case key.Matches(msg, m.keys.Filter):
		return m, m.apply(game.SetFilter{Filter: m.nextFilter()})
	}
	return m, nil
}

// apply dispatches intent and turns its outcome into feedback.
func (m *Model) apply(intent game.Intent) tea.Cmd {
	out, err := m.session.Dispatch(intent)
	if err != nil {
		if !game.IsUserError(err) {
			m.logger.Error("Intent failed", "intent", intent, "error", err)
		}
		m.setError(err)
		return nil
	}
	m.clampCursors()

	switch intent.(type) {
	case game.ApplyScore, game.ApplyFoul:
		return m.notice.show(m.clock, awardText(*out.Award), m.noticeDuration)
	case game.AddPlayer:
		m.setStatus(fmt.Sprintf("Added %s", out.Player.Name))
		m.cursor = len(m.store().Roster()) - 1
	case game.RemovePlayer:
		if out.Player != nil && out.Removed > 0 {
			m.setStatus(fmt.Sprintf("Removed %s", out.Player.Name))
		}
	case game.SelectPlayer:
		if out.Player != nil {
			m.setStatus(fmt.Sprintf("%s selected", out.Player.Name))
		} else {
			m.setStatus("Selection cleared")
		}
	case game.RandomizeOrder:
		if !out.Dirty {
			m.setError(errors.New("need at least two players to pick an order"))
		} else {
			m.setStatus("Order randomised")
		}
	case game.EndRound:
		m.celebrate = out.Entry
		m.setStatus("Round saved to history")
	case game.ResetRound:
		m.setStatus("Round reset")
	case game.DeleteHistory, game.ClearHistory:
		m.setStatus(fmt.Sprintf("Deleted %d %s", out.Removed, plural(out.Removed, "round", "rounds")))
		if len(m.store().Marked()) == 0 {
			m.editMode = false
		}
	case game.SetFilter:
		m.histCursor = 0
		m.setStatus("Showing " + m.filterLabel(m.store().Filter()))
	}
	return nil
}

// ask dispatches intent straight away unless destructive actions need
// confirming.
func (m *Model) ask(prompt string, intent game.Intent) tea.Cmd {
	if !m.confirm {
		return m.apply(intent)
	}
	m.pending = &confirmation{prompt: prompt, intent: intent}
	return nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.notice.stop()
	return m, tea.Quit
}

func (m *Model) store() *game.Store {
	return m.session.Store()
}

func (m *Model) focusInput(value string) {
	m.focusedPane = paneInput
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) focusBoard() {
	m.focusedPane = paneBoard
	m.input.Blur()
}

func (m *Model) openHistory() {
	m.screen = screenHistory
	m.histCursor = 0
	m.editMode = false
}

func (m *Model) closeHistory() {
	m.screen = screenBoard
	m.editMode = false
	m.store().ClearMarked()
}

// historyRows returns the visible history newest first.
func (m *Model) historyRows() []game.HistoryEntry {
	s := m.store()
	rows := s.VisibleHistory(s.Filter())
	slices.Reverse(rows)
	return rows
}

// nextFilter cycles all -> each roster player -> all.
func (m *Model) nextFilter() game.Filter {
	roster := m.store().Roster()
	current := m.store().Filter()
	if len(roster) == 0 {
		return game.DefaultFilter()
	}
	if !current.Active() {
		return game.Filter{Mode: game.FilterPlayer, PlayerID: roster[0].ID}
	}
	for i, p := range roster {
		if p.ID == current.PlayerID && i+1 < len(roster) {
			return game.Filter{Mode: game.FilterPlayer, PlayerID: roster[i+1].ID}
		}
	}
	return game.DefaultFilter()
}

func (m *Model) filterLabel(f game.Filter) string {
	if !f.Active() {
		return "all rounds"
	}
	name := f.PlayerID
	if p, ok := m.store().Player(f.PlayerID); ok {
		name = p.Name
	}
	return "rounds with " + name
}

func (m *Model) clampCursors() {
	if n := len(m.store().Roster()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if n := len(m.historyRows()); m.histCursor >= n {
		m.histCursor = max(n-1, 0)
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// Status returns the last feedback line.
func (m *Model) Status() string {
	return m.status
}

// Notice returns the text of the running notice, if any.
func (m *Model) Notice() string {
	return m.notice.text
}

func awardText(a game.Award) string {
	if a.Delta < 0 {
		return fmt.Sprintf("%s %d", a.Player.Name, a.Delta)
	}
	return fmt.Sprintf("%s +%d", a.Player.Name, a.Delta)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
