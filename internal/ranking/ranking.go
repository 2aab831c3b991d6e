// Package ranking determines round winners and dense-tie standings.
//
// Both functions are pure: they never modify their input and work on any
// player type that exposes an id and a score.
package ranking

import (
	"cmp"
	"slices"
)

// Scored is implemented by anything that can be ranked.
type Scored interface {
	PlayerID() string
	PlayerScore() int
}

// Winners is the result of ComputeWinners.
type Winners[P Scored] struct {
	Top       int
	WinnerIDs []string
	Winners   []P
}

// Tie reports whether more than one player shares the top score.
func (w Winners[P]) Tie() bool {
	return len(w.Winners) > 1
}

// Has reports whether id is among the winners.
func (w Winners[P]) Has(id string) bool {
	return slices.Contains(w.WinnerIDs, id)
}

// ComputeWinners returns every player holding the maximum score, in roster
// order. An empty roster yields Top 0 and no winners.
func ComputeWinners[P Scored](players []P) Winners[P] {
	if len(players) == 0 {
		return Winners[P]{}
	}

	top := players[0].PlayerScore()
	for _, p := range players[1:] {
		top = max(top, p.PlayerScore())
	}

	w := Winners[P]{Top: top}
	for _, p := range players {
		if p.PlayerScore() == top {
			w.Winners = append(w.Winners, p)
			w.WinnerIDs = append(w.WinnerIDs, p.PlayerID())
		}
	}
	return w
}

// Ranked pairs a player with its 1-based standing.
type Ranked[P Scored] struct {
	Player P
	Pos    int
}

// RankPlayers sorts players by descending score (stable for equal scores)
// and assigns standard competition positions: tied players share a
// position and the next lower score resumes at its index, so 15,10,10,5
// ranks as 1,2,2,4.
func RankPlayers[P Scored](players []P) []Ranked[P] {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b P) int {
		return cmp.Compare(b.PlayerScore(), a.PlayerScore())
	})

	out := make([]Ranked[P], len(sorted))
	for i, p := range sorted {
		pos := i + 1
		if i > 0 && p.PlayerScore() == sorted[i-1].PlayerScore() {
			pos = out[i-1].Pos
		}
		out[i] = Ranked[P]{Player: p, Pos: pos}
	}
	return out
}
