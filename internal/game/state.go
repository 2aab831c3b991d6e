package game

import "slices"

// State is everything that survives a reload.
type State struct {
	Players     []Player
	SelectedID  string
	Results     []HistoryEntry
	Filter      Filter
	PlayerOrder []string
}

// NewState returns an empty state with the default filter.
func NewState() State {
	return State{Filter: DefaultFilter()}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Players = slices.Clone(s.Players)
	out.PlayerOrder = slices.Clone(s.PlayerOrder)
	out.Results = make([]HistoryEntry, len(s.Results))
	for i, r := range s.Results {
		out.Results[i] = r.clone()
	}
	return out
}

// Selected returns the selected player, if the selection points at a
// player still in the roster.
func (s State) Selected() (Player, bool) {
	if s.SelectedID == "" {
		return Player{}, false
	}
	i := s.indexOf(s.SelectedID)
	if i < 0 {
		return Player{}, false
	}
	return s.Players[i], true
}

func (s State) indexOf(id string) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}
