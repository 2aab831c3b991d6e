package game

import (
	"io"
	rand "math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/cuescore/internal/catalog"
	"github.com/lox/cuescore/internal/ids"
	"github.com/lox/cuescore/internal/randutil"
	"github.com/lox/cuescore/internal/ranking"
)

// Store owns the session state and is the only thing that mutates it.
// It is not safe for concurrent use; callers run one operation at a time.
type Store struct {
	state State

	// View state, not persisted. Both sets only ever hold ids present in
	// state.Results.
	expanded map[string]struct{}
	marked   map[string]struct{}

	clock  quartz.Clock
	rng    *rand.Rand
	newID  ids.Generator
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used to timestamp finished rounds.
func WithClock(c quartz.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithRand sets the random source for turn-order shuffles.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// WithIDGenerator sets the generator for player and history ids.
func WithIDGenerator(g ids.Generator) Option {
	return func(s *Store) { s.newID = g }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		state:    NewState(),
		expanded: make(map[string]struct{}),
		marked:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.rng == nil {
		s.rng = randutil.NewEntropy()
	}
	if s.newID == nil {
		s.newID = ids.New
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Restore replaces the whole state, typically with one read from storage.
// View state is cleared.
func (s *Store) Restore(st State) {
	s.state = st.Clone()
	if s.state.Filter.Mode == "" {
		s.state.Filter = DefaultFilter()
	}
	clear(s.expanded)
	clear(s.marked)
	s.logger.Debug("State restored",
		"players", len(s.state.Players),
		"results", len(s.state.Results))
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	return s.state.Clone()
}

// Roster returns the live players in insertion order.
func (s *Store) Roster() []Player {
	return slices.Clone(s.state.Players)
}

// Selected returns the selected player.
func (s *Store) Selected() (Player, bool) {
	return s.state.Selected()
}

// RoundOrder returns the advisory turn order. Ids may refer to players
// added or removed since the shuffle.
func (s *Store) RoundOrder() []string {
	return slices.Clone(s.state.PlayerOrder)
}

// History returns every finished round in insertion order.
func (s *Store) History() []HistoryEntry {
	return FilterHistory(s.state.Results, DefaultFilter())
}

// Filter returns the current history filter.
func (s *Store) Filter() Filter {
	return s.state.Filter
}

// VisibleHistory returns the entries passing f, oldest first.
func (s *Store) VisibleHistory(f Filter) []HistoryEntry {
	return FilterHistory(s.state.Results, f)
}

// Player looks up a live player by id.
func (s *Store) Player(id string) (Player, bool) {
	i := s.state.indexOf(id)
	if i < 0 {
		return Player{}, false
	}
	return s.state.Players[i], true
}

// FindPlayer resolves ref as a player id, falling back to an exact
// (trimmed) name match.
func (s *Store) FindPlayer(ref string) (Player, bool) {
	if p, ok := s.Player(ref); ok {
		return p, true
	}
	name := strings.TrimSpace(ref)
	for _, p := range s.state.Players {
		if p.Name == name {
			return p, true
		}
	}
	return Player{}, false
}

// AddPlayer appends a player with a zero score.
func (s *Store) AddPlayer(name string) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, ErrEmptyName
	}
	if slices.ContainsFunc(s.state.Players, func(p Player) bool { return p.Name == name }) {
		return Player{}, ErrDuplicateName
	}

	p := Player{ID: s.newID(), Name: name}
	s.state.Players = append(s.state.Players, p)
	s.logger.Debug("Player added", "id", p.ID, "name", p.Name)
	return p, nil
}

// RemovePlayer drops a player from the roster and the turn order. It
// reports whether anything was removed.
func (s *Store) RemovePlayer(id string) bool {
	i := s.state.indexOf(id)
	if i < 0 {
		return false
	}

	s.state.Players = slices.Delete(s.state.Players, i, i+1)
	s.state.PlayerOrder = slices.DeleteFunc(s.state.PlayerOrder, func(pid string) bool { return pid == id })
	if s.state.SelectedID == id {
		s.state.SelectedID = ""
	}
	s.logger.Debug("Player removed", "id", id)
	return true
}

// SelectPlayer toggles the selection: selecting the selected player
// deselects it.
func (s *Store) SelectPlayer(id string) error {
	if s.state.indexOf(id) < 0 {
		return ErrUnknownPlayer
	}
	if s.state.SelectedID == id {
		s.state.SelectedID = ""
	} else {
		s.state.SelectedID = id
	}
	s.logger.Debug("Selection changed", "selected", s.state.SelectedID)
	return nil
}

// Award describes a score change applied to a player.
type Award struct {
	Player Player // after the change
	Ball   catalog.Ball
	Delta  int
	Foul   bool
}

// ApplyScore adds the value of ball key to the selected player.
func (s *Store) ApplyScore(key catalog.Key) (Award, error) {
	i, err := s.selectedIndex()
	if err != nil {
		return Award{}, err
	}
	ball, ok := catalog.Lookup(key)
	if !ok {
		return Award{}, ErrUnknownCategory
	}

	s.state.Players[i].Score += ball.Value
	p := s.state.Players[i]
	s.logger.Debug("Score applied", "player", p.Name, "ball", ball.Key, "score", p.Score)
	return Award{Player: p, Ball: ball, Delta: ball.Value}, nil
}

// ApplyFoul subtracts catalog.FoulPenalty from the selected player. Scores
// may go negative.
func (s *Store) ApplyFoul() (Award, error) {
	i, err := s.selectedIndex()
	if err != nil {
		return Award{}, err
	}

	s.state.Players[i].Score -= catalog.FoulPenalty
	p := s.state.Players[i]
	s.logger.Debug("Foul applied", "player", p.Name, "score", p.Score)
	return Award{Player: p, Delta: -catalog.FoulPenalty, Foul: true}, nil
}

func (s *Store) selectedIndex() (int, error) {
	if s.state.SelectedID == "" {
		return -1, ErrNoSelection
	}
	i := s.state.indexOf(s.state.SelectedID)
	if i < 0 {
		return -1, ErrNoSelection
	}
	return i, nil
}

// RandomizeOrder shuffles the roster into a new turn order. It needs at
// least two players and reports whether an order was produced.
func (s *Store) RandomizeOrder() bool {
	if len(s.state.Players) < 2 {
		return false
	}

	current := make([]string, len(s.state.Players))
	for i, p := range s.state.Players {
		current[i] = p.ID
	}
	s.state.PlayerOrder = randutil.Permutation(s.rng, current)
	s.logger.Debug("Turn order randomised", "order", s.state.PlayerOrder)
	return true
}

// EndRound archives the current scores as a new history entry, then zeroes
// every score and clears the selection. The turn order is kept.
func (s *Store) EndRound() (HistoryEntry, error) {
	if len(s.state.Players) == 0 {
		return HistoryEntry{}, ErrEmptyRoster
	}

	snap := make([]Snapshot, len(s.state.Players))
	for i, p := range s.state.Players {
		snap[i] = p.snapshot()
	}
	winners := ranking.ComputeWinners(snap)

	entry := HistoryEntry{
		ID:        s.newID(),
		At:        s.clock.Now().UnixMilli(),
		Players:   snap,
		WinnerIDs: winners.WinnerIDs,
	}
	s.state.Results = append(s.state.Results, entry)

	s.zeroScores()
	s.state.SelectedID = ""

	s.logger.Info("Round ended",
		"entry", entry.ID,
		"top", winners.Top,
		"winners", len(winners.WinnerIDs))
	return entry.clone(), nil
}

// ResetRound zeroes every score and clears the selection and the turn
// order. History is untouched.
func (s *Store) ResetRound() {
	s.zeroScores()
	s.state.SelectedID = ""
	s.state.PlayerOrder = nil
	s.logger.Debug("Round reset")
}

func (s *Store) zeroScores() {
	for i := range s.state.Players {
		s.state.Players[i].Score = 0
	}
}

// DeleteHistoryEntries removes the entries with the given ids and returns
// how many were removed. Unknown ids are ignored.
func (s *Store) DeleteHistoryEntries(entryIDs ...string) int {
	if len(entryIDs) == 0 {
		return 0
	}
	doomed := make(map[string]struct{}, len(entryIDs))
	for _, id := range entryIDs {
		doomed[id] = struct{}{}
	}

	before := len(s.state.Results)
	s.state.Results = slices.DeleteFunc(s.state.Results, func(e HistoryEntry) bool {
		_, ok := doomed[e.ID]
		return ok
	})
	removed := before - len(s.state.Results)
	s.reconcileViewState()

	s.logger.Debug("History entries deleted", "requested", len(entryIDs), "removed", removed)
	return removed
}

// ClearHistory removes every history entry and returns how many there were.
func (s *Store) ClearHistory() int {
	n := len(s.state.Results)
	s.state.Results = nil
	s.reconcileViewState()
	s.logger.Debug("History cleared", "removed", n)
	return n
}

// SetFilter replaces the history filter. Any mode other than FilterPlayer
// is stored as FilterAll.
func (s *Store) SetFilter(f Filter) {
	if f.Mode != FilterPlayer {
		f.Mode = FilterAll
	}
	s.state.Filter = f
}

// ToggleExpanded opens or closes the detail view of a history entry.
// Unknown ids are ignored.
func (s *Store) ToggleExpanded(entryID string) {
	toggle(s.expanded, entryID, s.hasEntry(entryID))
}

// IsExpanded reports whether the entry detail is open.
func (s *Store) IsExpanded(entryID string) bool {
	_, ok := s.expanded[entryID]
	return ok
}

// ToggleMarked marks or unmarks a history entry for bulk deletion.
// Unknown ids are ignored.
func (s *Store) ToggleMarked(entryID string) {
	toggle(s.marked, entryID, s.hasEntry(entryID))
}

// Marked returns the marked entry ids in history order.
func (s *Store) Marked() []string {
	var out []string
	for _, e := range s.state.Results {
		if _, ok := s.marked[e.ID]; ok {
			out = append(out, e.ID)
		}
	}
	return out
}

// ClearMarked unmarks every entry.
func (s *Store) ClearMarked() {
	clear(s.marked)
}

func (s *Store) hasEntry(id string) bool {
	return slices.ContainsFunc(s.state.Results, func(e HistoryEntry) bool { return e.ID == id })
}

func (s *Store) reconcileViewState() {
	live := make(map[string]struct{}, len(s.state.Results))
	for _, e := range s.state.Results {
		live[e.ID] = struct{}{}
	}
	for _, set := range []map[string]struct{}{s.expanded, s.marked} {
		for id := range set {
			if _, ok := live[id]; !ok {
				delete(set, id)
			}
		}
	}
}

func toggle(set map[string]struct{}, id string, allowed bool) {
	if _, ok := set[id]; ok {
		delete(set, id)
		return
	}
	if allowed {
		set[id] = struct{}{}
	}
}
