package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/cuescore/internal/catalog"
)

// Intent is one user request the engine understands. The set is closed:
// only the types in this file implement it.
type Intent interface {
	apply(s *Store) (Outcome, error)
	fmt.Stringer
}

// Outcome reports what an intent did so a presentation can build feedback
// (a notice, a celebration) without diffing state.
type Outcome struct {
	// Dirty is set when persisted state changed.
	Dirty   bool
	Player  *Player
	Award   *Award
	Entry   *HistoryEntry
	Removed int
}

type (
	AddPlayer      struct{ Name string }
	RemovePlayer   struct{ ID string }
	SelectPlayer   struct{ ID string }
	ApplyScore     struct{ Key catalog.Key }
	ApplyFoul      struct{}
	RandomizeOrder struct{}
	EndRound       struct{}
	ResetRound     struct{}
	SetFilter      struct{ Filter Filter }
	DeleteHistory  struct{ IDs []string }
	ClearHistory   struct{}
	ToggleExpanded struct{ ID string }
	ToggleMarked   struct{ ID string }
)

func (i AddPlayer) apply(s *Store) (Outcome, error) {
	p, err := s.AddPlayer(i.Name)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Dirty: true, Player: &p}, nil
}

func (i RemovePlayer) apply(s *Store) (Outcome, error) {
	p, _ := s.Player(i.ID)
	if !s.RemovePlayer(i.ID) {
		return Outcome{}, nil
	}
	return Outcome{Dirty: true, Player: &p, Removed: 1}, nil
}

func (i SelectPlayer) apply(s *Store) (Outcome, error) {
	if err := s.SelectPlayer(i.ID); err != nil {
		return Outcome{}, err
	}
	out := Outcome{Dirty: true}
	if p, ok := s.Selected(); ok {
		out.Player = &p
	}
	return out, nil
}

func (i ApplyScore) apply(s *Store) (Outcome, error) {
	a, err := s.ApplyScore(i.Key)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Dirty: true, Player: &a.Player, Award: &a}, nil
}

func (ApplyFoul) apply(s *Store) (Outcome, error) {
	a, err := s.ApplyFoul()
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Dirty: true, Player: &a.Player, Award: &a}, nil
}

func (RandomizeOrder) apply(s *Store) (Outcome, error) {
	return Outcome{Dirty: s.RandomizeOrder()}, nil
}

func (EndRound) apply(s *Store) (Outcome, error) {
	e, err := s.EndRound()
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Dirty: true, Entry: &e}, nil
}

func (ResetRound) apply(s *Store) (Outcome, error) {
	s.ResetRound()
	return Outcome{Dirty: true}, nil
}

func (i SetFilter) apply(s *Store) (Outcome, error) {
	s.SetFilter(i.Filter)
	return Outcome{Dirty: true}, nil
}

func (i DeleteHistory) apply(s *Store) (Outcome, error) {
	n := s.DeleteHistoryEntries(i.IDs...)
	return Outcome{Dirty: n > 0, Removed: n}, nil
}

func (ClearHistory) apply(s *Store) (Outcome, error) {
	n := s.ClearHistory()
	return Outcome{Dirty: n > 0, Removed: n}, nil
}

func (i ToggleExpanded) apply(s *Store) (Outcome, error) {
	s.ToggleExpanded(i.ID)
	return Outcome{}, nil
}

func (i ToggleMarked) apply(s *Store) (Outcome, error) {
	s.ToggleMarked(i.ID)
	return Outcome{}, nil
}

func (i AddPlayer) String() string      { return fmt.Sprintf("add-player(%q)", i.Name) }
func (i RemovePlayer) String() string   { return "remove-player(" + i.ID + ")" }
func (i SelectPlayer) String() string   { return "select-player(" + i.ID + ")" }
func (i ApplyScore) String() string     { return "apply-score(" + string(i.Key) + ")" }
func (ApplyFoul) String() string        { return "apply-foul" }
func (RandomizeOrder) String() string   { return "randomize-order" }
func (EndRound) String() string         { return "end-round" }
func (ResetRound) String() string       { return "reset-round" }
func (i SetFilter) String() string      { return fmt.Sprintf("set-filter(%s,%s)", i.Filter.Mode, i.Filter.PlayerID) }
func (i DeleteHistory) String() string  { return fmt.Sprintf("delete-history(%d)", len(i.IDs)) }
func (ClearHistory) String() string     { return "clear-history" }
func (i ToggleExpanded) String() string { return "toggle-expanded(" + i.ID + ")" }
func (i ToggleMarked) String() string   { return "toggle-marked(" + i.ID + ")" }

// Persister saves a state snapshot. Implementations must not fail loudly:
// a save that does not happen only costs the next reload.
type Persister interface {
	Save(State)
}

// Session runs intents against a Store and persists after each change.
type Session struct {
	store     *Store
	persister Persister
	logger    *log.Logger
}

// NewSession wraps store. persister may be nil for an in-memory session.
func NewSession(store *Store, persister Persister, logger *log.Logger) *Session {
	if logger == nil {
		logger = store.logger
	}
	return &Session{store: store, persister: persister, logger: logger}
}

// Store exposes the read model.
func (s *Session) Store() *Store {
	return s.store
}

// Dispatch applies intent and, when it changed persisted state, saves.
// Errors are the sentinel conditions from errors.go; state is unchanged
// when one is returned.
func (s *Session) Dispatch(intent Intent) (Outcome, error) {
	out, err := intent.apply(s.store)
	if err != nil {
		s.logger.Debug("Intent rejected", "intent", intent, "error", err)
		return out, err
	}
	if out.Dirty && s.persister != nil {
		s.persister.Save(s.store.Snapshot())
	}
	s.logger.Debug("Intent handled", "intent", intent, "dirty", out.Dirty)
	return out, nil
}
