package game

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cuescore/internal/catalog"
)

func scores(players []Player) []int {
	out := make([]int, len(players))
	for i, p := range players {
		out[i] = p.Score
	}
	return out
}

func TestAddPlayer(t *testing.T) {
	t.Run("trims and appends with zero score", func(t *testing.T) {
		s, _ := NewTestStore(t)

		p, err := s.AddPlayer("  Tom ")
		require.NoError(t, err)
		assert.Equal(t, Player{ID: "p-1", Name: "Tom", Score: 0}, p)

		q, err := s.AddPlayer("Ann")
		require.NoError(t, err)
		assert.Equal(t, []Player{p, q}, s.Roster())
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		s, _ := NewTestStore(t, "Tom")
		before := s.Roster()

		_, err := s.AddPlayer("Tom")
		assert.ErrorIs(t, err, ErrDuplicateName)
		_, err = s.AddPlayer(" Tom  ")
		assert.ErrorIs(t, err, ErrDuplicateName)
		assert.Equal(t, before, s.Roster())
	})

	t.Run("names are case sensitive", func(t *testing.T) {
		s, _ := NewTestStore(t, "Tom")
		_, err := s.AddPlayer("tom")
		assert.NoError(t, err)
		assert.Len(t, s.Roster(), 2)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		s, _ := NewTestStore(t)
		_, err := s.AddPlayer("   ")
		assert.ErrorIs(t, err, ErrEmptyName)
		assert.Empty(t, s.Roster())
	})
}

func TestRemovePlayer(t *testing.T) {
	s, _ := NewTestStore(t, "A", "B", "C")
	require.True(t, s.RandomizeOrder())
	require.NoError(t, s.SelectPlayer("p-2"))

	assert.True(t, s.RemovePlayer("p-2"))
	assert.Len(t, s.Roster(), 2)
	assert.NotContains(t, s.RoundOrder(), "p-2")
	assert.Len(t, s.RoundOrder(), 2)
	_, ok := s.Selected()
	assert.False(t, ok, "removing the selected player clears the selection")

	assert.False(t, s.RemovePlayer("p-2"), "second removal is a no-op")
	assert.False(t, s.RemovePlayer("nobody"))
	assert.Len(t, s.Roster(), 2)
}

func TestRemoveOtherPlayerKeepsSelection(t *testing.T) {
	s, _ := NewTestStore(t, "A", "B")
	require.NoError(t, s.SelectPlayer("p-1"))
	s.RemovePlayer("p-2")

	p, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "A", p.Name)
}

func TestSelectPlayerToggles(t *testing.T) {
	s, _ := NewTestStore(t, "A", "B")

	require.NoError(t, s.SelectPlayer("p-1"))
	p, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "p-1", p.ID)

	require.NoError(t, s.SelectPlayer("p-2"))
	p, _ = s.Selected()
	assert.Equal(t, "p-2", p.ID, "selecting another player moves the selection")

	require.NoError(t, s.SelectPlayer("p-2"))
	_, ok = s.Selected()
	assert.False(t, ok, "selecting the selected player deselects")

	assert.ErrorIs(t, s.SelectPlayer("ghost"), ErrUnknownPlayer)
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestApplyScore(t *testing.T) {
	s, _ := NewTestStore(t, "A")

	_, err := s.ApplyScore(catalog.Red)
	assert.ErrorIs(t, err, ErrNoSelection)

	require.NoError(t, s.SelectPlayer("p-1"))

	_, err = s.ApplyScore("cue")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, []int{0}, scores(s.Roster()))

	a, err := s.ApplyScore(catalog.Black)
	require.NoError(t, err)
	assert.Equal(t, 7, a.Delta)
	assert.Equal(t, 7, a.Player.Score)
	assert.Equal(t, catalog.Black, a.Ball.Key)
	assert.False(t, a.Foul)

	for i := 0; i < 100; i++ {
		_, err = s.ApplyScore(catalog.Black)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{707}, scores(s.Roster()), "no cap on scores")
}

func TestApplyFoul(t *testing.T) {
	s, _ := NewTestStore(t, "A")

	_, err := s.ApplyFoul()
	assert.ErrorIs(t, err, ErrNoSelection)

	require.NoError(t, s.SelectPlayer("p-1"))
	a, err := s.ApplyFoul()
	require.NoError(t, err)
	assert.True(t, a.Foul)
	assert.Equal(t, -catalog.FoulPenalty, a.Delta)

	_, err = s.ApplyFoul()
	require.NoError(t, err)
	assert.Equal(t, []int{-8}, scores(s.Roster()), "no floor on scores")
}

func TestRandomizeOrder(t *testing.T) {
	s, _ := NewTestStore(t, "A")
	assert.False(t, s.RandomizeOrder(), "needs two players")
	assert.Empty(t, s.RoundOrder())

	_, _ = s.AddPlayer("B")
	_, _ = s.AddPlayer("C")
	require.NoError(t, s.SelectPlayer("p-1"))
	require.True(t, s.RandomizeOrder())

	order := s.RoundOrder()
	sorted := slices.Clone(order)
	slices.Sort(sorted)
	assert.Equal(t, []string{"p-1", "p-2", "p-3"}, sorted)

	p, ok := s.Selected()
	require.True(t, ok, "shuffle keeps the selection")
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, []int{0, 0, 0}, scores(s.Roster()))
}

func TestRoundOrderGoesStale(t *testing.T) {
	s, _ := NewTestStore(t, "A", "B")
	require.True(t, s.RandomizeOrder())

	_, _ = s.AddPlayer("C")
	assert.Len(t, s.RoundOrder(), 2, "order is not repaired when players join")
}

func TestEndRoundScenario(t *testing.T) {
	s, clock := NewTestStore(t, "A", "B")
	clock.Advance(time.Minute).MustWait(context.Background())

	require.NoError(t, s.SelectPlayer("p-1"))
	a, err := s.ApplyScore(catalog.Red)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Player.Score)
	a, err = s.ApplyFoul()
	require.NoError(t, err)
	assert.Equal(t, -3, a.Player.Score)
	require.True(t, s.RandomizeOrder())
	order := s.RoundOrder()

	entry, err := s.EndRound()
	require.NoError(t, err)

	assert.Equal(t, []Snapshot{{ID: "p-1", Name: "A", Score: -3}, {ID: "p-2", Name: "B", Score: 0}}, entry.Players)
	assert.Equal(t, []string{"p-2"}, entry.WinnerIDs)
	assert.Equal(t, clock.Now().UnixMilli(), entry.At)
	assert.Equal(t, "p-3", entry.ID)

	assert.Equal(t, []int{0, 0}, scores(s.Roster()))
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Equal(t, order, s.RoundOrder(), "ending a round keeps the turn order")

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, entry, history[0])
}

func TestEndRoundEmptyRoster(t *testing.T) {
	s, _ := NewTestStore(t)
	_, err := s.EndRound()
	assert.ErrorIs(t, err, ErrEmptyRoster)
	assert.Empty(t, s.History())
}

func TestEndRoundTie(t *testing.T) {
	s, _ := NewTestStore(t, "A", "B", "C")
	for _, id := range []string{"p-1", "p-3"} {
		require.NoError(t, s.SelectPlayer(id))
		_, err := s.ApplyScore(catalog.Pink)
		require.NoError(t, err)
	}

	entry, err := s.EndRound()
	require.NoError(t, err)
	assert.Equal(t, []string{"p-1", "p-3"}, entry.WinnerIDs)
	assert.True(t, entry.Winners().Tie())
}

func TestHistorySnapshotIsFrozen(t *testing.T) {
	s, _ := NewTestStore(t, "A")
	require.NoError(t, s.SelectPlayer("p-1"))
	_, _ = s.ApplyScore(catalog.Blue)
	_, err := s.EndRound()
	require.NoError(t, err)

	require.NoError(t, s.SelectPlayer("p-1"))
	_, _ = s.ApplyScore(catalog.Black)
	s.RemovePlayer("p-1")

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, []Snapshot{{ID: "p-1", Name: "A", Score: 5}}, history[0].Players)

	// Mutating a returned entry does not leak into the store.
	history[0].Players[0].Score = 99
	assert.Equal(t, 5, s.History()[0].Players[0].Score)
}

func TestResetRoundIsIdempotent(t *testing.T) {
	s, _ := NewTestStore(t, "A", "B")
	require.NoError(t, s.SelectPlayer("p-2"))
	_, _ = s.ApplyScore(catalog.Green)
	require.True(t, s.RandomizeOrder())
	_, _ = s.EndRound()
	require.NoError(t, s.SelectPlayer("p-1"))
	_, _ = s.ApplyScore(catalog.Brown)

	s.ResetRound()
	once := s.Snapshot()
	s.ResetRound()
	twice := s.Snapshot()

	assert.Equal(t, once, twice)
	assert.Equal(t, []int{0, 0}, scores(twice.Players))
	assert.Empty(t, twice.SelectedID)
	assert.Empty(t, twice.PlayerOrder)
	assert.Len(t, twice.Results, 1, "history survives a reset")
}

func endRounds(t *testing.T, s *Store, n int) []HistoryEntry {
	t.Helper()
	var out []HistoryEntry
	for i := 0; i < n; i++ {
		e, err := s.EndRound()
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func TestDeleteHistoryEntries(t *testing.T) {
	s, _ := NewTestStore(t, "A")
	entries := endRounds(t, s, 3)

	removed := s.DeleteHistoryEntries(entries[1].ID, "unknown")
	assert.Equal(t, 1, removed)

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, entries[0].ID, history[0].ID)
	assert.Equal(t, entries[2].ID, history[1].ID)

	assert.Equal(t, 0, s.DeleteHistoryEntries())
	assert.Equal(t, 0, s.DeleteHistoryEntries("unknown"))
	assert.Len(t, s.History(), 2)
}

func TestDeleteReconcilesViewState(t *testing.T) {
	s, _ := NewTestStore(t, "A")
	entries := endRounds(t, s, 3)

	for _, e := range entries {
		s.ToggleExpanded(e.ID)
		s.ToggleMarked(e.ID)
	}
	assert.Equal(t, []string{entries[0].ID, entries[1].ID, entries[2].ID}, s.Marked())

	s.DeleteHistoryEntries(entries[0].ID, entries[2].ID)
	assert.False(t, s.IsExpanded(entries[0].ID))
	assert.True(t, s.IsExpanded(entries[1].ID))
	assert.Equal(t, []string{entries[1].ID}, s.Marked())

	assert.Equal(t, 1, s.ClearHistory())
	assert.False(t, s.IsExpanded(entries[1].ID))
	assert.Empty(t, s.Marked())
	assert.Empty(t, s.History())
}

func TestViewStateToggles(t *testing.T) {
	s, _ := NewTestStore(t, "A")
	e := endRounds(t, s, 1)[0]

	s.ToggleExpanded("unknown")
	assert.False(t, s.IsExpanded("unknown"), "unknown ids are ignored")

	s.ToggleExpanded(e.ID)
	assert.True(t, s.IsExpanded(e.ID))
	s.ToggleExpanded(e.ID)
	assert.False(t, s.IsExpanded(e.ID))

	s.ToggleMarked(e.ID)
	s.ClearMarked()
	assert.Empty(t, s.Marked())
}

func TestVisibleHistory(t *testing.T) {
	s, _ := NewTestStore(t, "A", "B")
	first, err := s.EndRound() // A and B
	require.NoError(t, err)
	s.RemovePlayer("p-2")
	_, _ = s.AddPlayer("C")
	second, err := s.EndRound() // A and C
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{Mode: FilterAll}, []string{first.ID, second.ID}},
		{"all ignores player id", Filter{Mode: FilterAll, PlayerID: "p-2"}, []string{first.ID, second.ID}},
		{"player without id", Filter{Mode: FilterPlayer}, []string{first.ID, second.ID}},
		{"in both", Filter{Mode: FilterPlayer, PlayerID: "p-1"}, []string{first.ID, second.ID}},
		{"removed player", Filter{Mode: FilterPlayer, PlayerID: "p-2"}, []string{first.ID}},
		{"later player", Filter{Mode: FilterPlayer, PlayerID: "p-4"}, []string{second.ID}},
		{"nobody", Filter{Mode: FilterPlayer, PlayerID: "x"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.VisibleHistory(tt.filter)
			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSetFilter(t *testing.T) {
	s, _ := NewTestStore(t)
	assert.Equal(t, DefaultFilter(), s.Filter())

	s.SetFilter(Filter{Mode: FilterPlayer, PlayerID: "p-1"})
	assert.Equal(t, Filter{Mode: FilterPlayer, PlayerID: "p-1"}, s.Filter())

	s.SetFilter(Filter{Mode: "weird", PlayerID: "p-1"})
	assert.Equal(t, Filter{Mode: FilterAll, PlayerID: "p-1"}, s.Filter())
}

func TestFindPlayer(t *testing.T) {
	s, _ := NewTestStore(t, "Tom", "Ann")

	p, ok := s.FindPlayer("p-2")
	require.True(t, ok)
	assert.Equal(t, "Ann", p.Name)

	p, ok = s.FindPlayer(" Tom ")
	require.True(t, ok)
	assert.Equal(t, "p-1", p.ID)

	_, ok = s.FindPlayer("tom")
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	s, _ := NewTestStore(t, "A")
	e := endRounds(t, s, 1)[0]
	s.ToggleExpanded(e.ID)

	st := NewState()
	st.Players = []Player{{ID: "x", Name: "X", Score: 3}}
	st.SelectedID = "x"
	st.Filter = Filter{}
	s.Restore(st)

	assert.Equal(t, []Player{{ID: "x", Name: "X", Score: 3}}, s.Roster())
	assert.Equal(t, DefaultFilter(), s.Filter(), "empty filter mode falls back to all")
	assert.False(t, s.IsExpanded(e.ID))

	st.Players[0].Score = 100
	assert.Equal(t, 3, s.Roster()[0].Score, "restore copies its input")
}

func TestSelectedPointingAtMissingPlayer(t *testing.T) {
	s, _ := NewTestStore(t)
	st := NewState()
	st.Players = []Player{{ID: "a", Name: "A"}}
	st.SelectedID = "gone"
	s.Restore(st)

	_, ok := s.Selected()
	assert.False(t, ok)
	_, err := s.ApplyScore(catalog.Red)
	assert.ErrorIs(t, err, ErrNoSelection)
}
