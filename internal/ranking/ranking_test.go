package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cuescore/internal/randutil"
)

type entry struct {
	id    string
	score int
}

func (e entry) PlayerID() string { return e.id }
func (e entry) PlayerScore() int { return e.score }

func entries(scores ...int) []entry {
	out := make([]entry, len(scores))
	for i, s := range scores {
		out[i] = entry{id: fmt.Sprintf("p%d", i), score: s}
	}
	return out
}

func positions[P Scored](ranked []Ranked[P]) []int {
	out := make([]int, len(ranked))
	for i, r := range ranked {
		out[i] = r.Pos
	}
	return out
}

func TestComputeWinners(t *testing.T) {
	t.Run("empty roster", func(t *testing.T) {
		w := ComputeWinners[entry](nil)
		assert.Equal(t, 0, w.Top)
		assert.Empty(t, w.WinnerIDs)
		assert.Empty(t, w.Winners)
		assert.False(t, w.Tie())
	})

	t.Run("single winner", func(t *testing.T) {
		w := ComputeWinners(entries(10, 15, 10))
		assert.Equal(t, 15, w.Top)
		assert.Equal(t, []string{"p1"}, w.WinnerIDs)
		assert.False(t, w.Tie())
		assert.True(t, w.Has("p1"))
		assert.False(t, w.Has("p0"))
	})

	t.Run("tie keeps roster order", func(t *testing.T) {
		w := ComputeWinners(entries(7, 3, 7, 7))
		assert.Equal(t, 7, w.Top)
		assert.Equal(t, []string{"p0", "p2", "p3"}, w.WinnerIDs)
		assert.True(t, w.Tie())
	})

	t.Run("all negative", func(t *testing.T) {
		w := ComputeWinners(entries(-3, -8))
		assert.Equal(t, -3, w.Top)
		assert.Equal(t, []string{"p0"}, w.WinnerIDs)
	})

	t.Run("input untouched", func(t *testing.T) {
		in := entries(1, 2)
		ComputeWinners(in)
		assert.Equal(t, entries(1, 2), in)
	})
}

func TestRankPlayers(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   []int
	}{
		{"empty", nil, []int{}},
		{"single", []int{4}, []int{1}},
		{"tie for second", []int{15, 10, 10, 5}, []int{1, 2, 2, 4}},
		{"tie for first", []int{9, 9, 2}, []int{1, 1, 3}},
		{"all equal", []int{0, 0, 0}, []int{1, 1, 1}},
		{"unsorted input", []int{5, 10, 15, 10}, []int{1, 2, 2, 4}},
		{"negatives", []int{-3, 0, -3}, []int{1, 2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankPlayers(entries(tt.scores...))
			assert.Equal(t, tt.want, positions(got))
		})
	}
}

func TestRankPlayersStableOnTies(t *testing.T) {
	in := []entry{{"a", 10}, {"b", 20}, {"c", 10}, {"d", 20}}
	got := RankPlayers(in)

	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.Player.id
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
	assert.Equal(t, []entry{{"a", 10}, {"b", 20}, {"c", 10}, {"d", 20}}, in, "input must not be reordered")
}

// Randomised check of the winner and ranking invariants.
func TestRankingProperties(t *testing.T) {
	rng := randutil.New(42)

	for iter := 0; iter < 500; iter++ {
		n := rng.IntN(8)
		scores := make([]int, n)
		for i := range scores {
			scores[i] = rng.IntN(21) - 8
		}
		in := entries(scores...)

		w := ComputeWinners(in)
		if n > 0 {
			require.NotEmpty(t, w.Winners, "scores %v", scores)
			for _, p := range w.Winners {
				assert.Equal(t, w.Top, p.score)
			}
			for _, p := range in {
				assert.LessOrEqual(t, p.score, w.Top)
				if !w.Has(p.id) {
					assert.NotEqual(t, w.Top, p.score, "excluded player at max: %v", scores)
				}
			}
		}

		ranked := RankPlayers(in)
		require.Len(t, ranked, n)
		for i := range ranked {
			if i == 0 {
				assert.Equal(t, 1, ranked[i].Pos)
				continue
			}
			prev, cur := ranked[i-1], ranked[i]
			assert.GreaterOrEqual(t, prev.Player.score, cur.Player.score)
			assert.GreaterOrEqual(t, cur.Pos, prev.Pos)
			if cur.Player.score == prev.Player.score {
				assert.Equal(t, prev.Pos, cur.Pos)
			} else {
				assert.Equal(t, i+1, cur.Pos)
			}
		}
	}
}
