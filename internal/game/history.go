package game

import (
	"slices"
	"time"

	"github.com/lox/cuescore/internal/ranking"
)

// HistoryEntry records one finished round.
type HistoryEntry struct {
	ID        string
	At        int64 // unix millis
	Players   []Snapshot
	WinnerIDs []string
}

// Time returns the entry timestamp in local time.
func (h HistoryEntry) Time() time.Time {
	return time.UnixMilli(h.At)
}

// Includes reports whether playerID took part in the round.
func (h HistoryEntry) Includes(playerID string) bool {
	return slices.ContainsFunc(h.Players, func(s Snapshot) bool {
		return s.ID == playerID
	})
}

// Winners recomputes the winners from the snapshot.
func (h HistoryEntry) Winners() ranking.Winners[Snapshot] {
	return ranking.ComputeWinners(h.Players)
}

// Ranked returns the snapshot in standing order.
func (h HistoryEntry) Ranked() []ranking.Ranked[Snapshot] {
	return ranking.RankPlayers(h.Players)
}

func (h HistoryEntry) clone() HistoryEntry {
	h.Players = slices.Clone(h.Players)
	h.WinnerIDs = slices.Clone(h.WinnerIDs)
	return h
}

// FilterMode selects which history entries are visible.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterPlayer FilterMode = "player"
)

// Filter is the persisted history view predicate.
type Filter struct {
	Mode     FilterMode
	PlayerID string
}

// DefaultFilter shows every entry.
func DefaultFilter() Filter {
	return Filter{Mode: FilterAll}
}

// Active reports whether the filter narrows the history at all. A player
// filter without a player id is treated as no filter.
func (f Filter) Active() bool {
	return f.Mode == FilterPlayer && f.PlayerID != ""
}

// Match reports whether entry passes the filter.
func (f Filter) Match(entry HistoryEntry) bool {
	return !f.Active() || entry.Includes(f.PlayerID)
}

// FilterHistory returns the entries matching f, in insertion order.
func FilterHistory(entries []HistoryEntry, f Filter) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e.clone())
		}
	}
	return out
}
