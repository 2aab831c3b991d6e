package game

import (
	"cmp"
	"slices"
)

// PlayerStats aggregates one player's results across history entries.
type PlayerStats struct {
	PlayerID     string
	Name         string // name in the most recent entry
	Rounds       int
	Wins         int // outright plus shared
	SharedWins   int // wins where the top score was tied
	TotalScore   int
	BestScore    int
	LastPlayedAt int64
}

// OutrightWins returns wins with no tie.
func (s PlayerStats) OutrightWins() int {
	return s.Wins - s.SharedWins
}

// Mean returns the average score per round.
func (s PlayerStats) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Rounds)
}

// Stats aggregates per-player results over entries. Winners are taken
// from each snapshot rather than the stored winner ids. The result is
// ordered by wins, then total score, then name.
func Stats(entries []HistoryEntry) []PlayerStats {
	byID := make(map[string]*PlayerStats)
	var order []string

	for _, e := range entries {
		w := e.Winners()
		for _, p := range e.Players {
			st, ok := byID[p.ID]
			if !ok {
				st = &PlayerStats{PlayerID: p.ID, BestScore: p.Score}
				byID[p.ID] = st
				order = append(order, p.ID)
			}
			st.Name = p.Name
			st.Rounds++
			st.TotalScore += p.Score
			st.BestScore = max(st.BestScore, p.Score)
			st.LastPlayedAt = max(st.LastPlayedAt, e.At)
			if w.Has(p.ID) {
				st.Wins++
				if w.Tie() {
					st.SharedWins++
				}
			}
		}
	}

	out := make([]PlayerStats, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	slices.SortStableFunc(out, func(a, b PlayerStats) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
