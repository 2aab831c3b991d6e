package storage

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cuescore/internal/catalog"
	"github.com/lox/cuescore/internal/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// normalize treats empty and nil slices alike so states can be compared
// after a round trip through JSON.
func normalize(st game.State) game.State {
	st = st.Clone()
	if len(st.Players) == 0 {
		st.Players = nil
	}
	if len(st.PlayerOrder) == 0 {
		st.PlayerOrder = nil
	}
	if len(st.Results) == 0 {
		st.Results = nil
	}
	for i := range st.Results {
		if len(st.Results[i].Players) == 0 {
			st.Results[i].Players = nil
		}
		if len(st.Results[i].WinnerIDs) == 0 {
			st.Results[i].WinnerIDs = nil
		}
	}
	return st
}

func playedState(t *testing.T) game.State {
	t.Helper()

	s, _ := game.NewTestStore(t, "Ann", "Bob", "Cy")
	require.NoError(t, s.SelectPlayer("p-1"))
	_, err := s.ApplyScore(catalog.Black)
	require.NoError(t, err)
	_, err = s.EndRound()
	require.NoError(t, err)

	require.NoError(t, s.SelectPlayer("p-2"))
	_, err = s.ApplyFoul()
	require.NoError(t, err)
	require.True(t, s.RandomizeOrder())
	s.SetFilter(game.Filter{Mode: game.FilterPlayer, PlayerID: "p-2"})
	return s.Snapshot()
}

func TestRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	a := NewAdapter(kv, quietLogger())

	want := playedState(t)
	a.Save(want)

	got := a.Load()
	assert.Equal(t, normalize(want), normalize(got))
	assert.Equal(t, "p-2", got.SelectedID)
	assert.Equal(t, -4, got.Players[1].Score)
}

func TestRoundTripThroughFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	want := playedState(t)

	NewAdapter(NewFileKV(dir), quietLogger()).Save(want)
	_, err := os.Stat(filepath.Join(dir, CurrentKey+".json"))
	require.NoError(t, err)

	got := NewAdapter(NewFileKV(dir), quietLogger()).Load()
	assert.Equal(t, normalize(want), normalize(got))
}

func TestRoundTripEmptyState(t *testing.T) {
	kv := NewMemoryKV()
	a := NewAdapter(kv, quietLogger())
	a.Save(game.NewState())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(kv.Dump()[CurrentKey], &raw))
	assert.Equal(t, []any{}, raw["players"])
	assert.Nil(t, raw["selectedId"])
	assert.Equal(t, map[string]any{"mode": "all", "playerId": ""}, raw["filter"])

	assert.Equal(t, normalize(game.NewState()), normalize(a.Load()))
}

func TestLoadNothingStored(t *testing.T) {
	a := NewAdapter(NewMemoryKV(), quietLogger())
	assert.Equal(t, game.NewState(), a.Load())
}

func TestLoadLegacyKeys(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set("snooker-lite-v3", []byte(`{"players":[{"id":"old","name":"Old","score":1}]}`)))
	require.NoError(t, kv.Set("snooker-lite-v6", []byte(`{"players":[{"id":"v6","name":"Six","score":6}]}`)))

	a := NewAdapter(kv, quietLogger())
	st := a.Load()
	require.Len(t, st.Players, 1)
	assert.Equal(t, "v6", st.Players[0].ID, "newest legacy key wins")

	_, ok, err := kv.Get(CurrentKey)
	require.NoError(t, err)
	assert.False(t, ok, "loading never writes back")
}

func TestLoadCurrentKeyWins(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set("snooker-lite-v7", []byte(`{"players":[{"id":"v7","name":"Seven"}]}`)))
	require.NoError(t, kv.Set(CurrentKey, []byte(`{"players":[{"id":"v8","name":"Eight"}]}`)))

	st := NewAdapter(kv, quietLogger()).Load()
	require.Len(t, st.Players, 1)
	assert.Equal(t, "v8", st.Players[0].ID)
}

func TestLoadSkipsUnparseableKey(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(CurrentKey, []byte(`{not json`)))
	require.NoError(t, kv.Set("snooker-lite-v5", []byte(`null`)))
	require.NoError(t, kv.Set("snooker-lite-v4", []byte(`{"players":[{"id":"v4","name":"Four"}]}`)))

	st := NewAdapter(kv, quietLogger()).Load()
	require.Len(t, st.Players, 1)
	assert.Equal(t, "v4", st.Players[0].ID)
}

func TestLoadEverythingUnparseable(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(CurrentKey, []byte(`[1,2,3]`)))
	assert.Equal(t, game.NewState(), NewAdapter(kv, quietLogger()).Load())
}

func TestLoadFieldLevelDefaults(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		check func(t *testing.T, st game.State)
	}{
		{
			name: "players not an array",
			json: `{"players":{"id":"a"},"playerOrder":["a"]}`,
			check: func(t *testing.T, st game.State) {
				assert.Empty(t, st.Players)
				assert.Equal(t, []string{"a"}, st.PlayerOrder, "other fields still load")
			},
		},
		{
			name: "malformed player elements are skipped",
			json: `{"players":[{"id":"a","name":"A","score":2},{"id":5},"junk",{"name":"no id"},{"id":"a","name":"dup"},{"id":"b","name":"B","score":3.9}]}`,
			check: func(t *testing.T, st game.State) {
				assert.Equal(t, []game.Player{{ID: "a", Name: "A", Score: 2}, {ID: "b", Name: "B", Score: 3}}, st.Players)
			},
		},
		{
			name: "negative fractional score truncates toward zero",
			json: `{"players":[{"id":"a","name":"A","score":-3.7}]}`,
			check: func(t *testing.T, st game.State) {
				assert.Equal(t, -3, st.Players[0].Score)
			},
		},
		{
			name: "selectedId of the wrong type",
			json: `{"selectedId":42}`,
			check: func(t *testing.T, st game.State) {
				assert.Empty(t, st.SelectedID)
			},
		},
		{
			name: "filter merges over defaults",
			json: `{"filter":{"playerId":"a"}}`,
			check: func(t *testing.T, st game.State) {
				assert.Equal(t, game.Filter{Mode: game.FilterAll, PlayerID: "a"}, st.Filter)
			},
		},
		{
			name: "unknown filter mode",
			json: `{"filter":{"mode":"everyone","playerId":"a"}}`,
			check: func(t *testing.T, st game.State) {
				assert.Equal(t, game.FilterAll, st.Filter.Mode)
			},
		},
		{
			name: "filter not an object",
			json: `{"filter":"player"}`,
			check: func(t *testing.T, st game.State) {
				assert.Equal(t, game.DefaultFilter(), st.Filter)
			},
		},
		{
			name: "player order with junk",
			json: `{"playerOrder":["a",1,null,"b"]}`,
			check: func(t *testing.T, st game.State) {
				assert.Equal(t, []string{"a", "b"}, st.PlayerOrder)
			},
		},
		{
			name: "results not an array",
			json: `{"results":"none"}`,
			check: func(t *testing.T, st game.State) {
				assert.Empty(t, st.Results)
			},
		},
		{
			name: "result without winner ids gets them from the snapshot",
			json: `{"results":[{"id":"h","at":1700000000000,"players":[{"id":"a","name":"A","score":1},{"id":"b","name":"B","score":5}]}]}`,
			check: func(t *testing.T, st game.State) {
				require.Len(t, st.Results, 1)
				assert.Equal(t, int64(1700000000000), st.Results[0].At)
				assert.Equal(t, []string{"b"}, st.Results[0].WinnerIDs)
			},
		},
		{
			name: "stored winner ids are kept as recorded",
			json: `{"results":[{"id":"h","at":1,"players":[{"id":"a","name":"A","score":1}],"winnerIds":["a"]}]}`,
			check: func(t *testing.T, st game.State) {
				assert.Equal(t, []string{"a"}, st.Results[0].WinnerIDs)
			},
		},
		{
			name: "results without ids are skipped",
			json: `{"results":[{"at":1},7,{"id":"ok","players":[]}]}`,
			check: func(t *testing.T, st game.State) {
				require.Len(t, st.Results, 1)
				assert.Equal(t, "ok", st.Results[0].ID)
				assert.Empty(t, st.Results[0].WinnerIDs)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(CurrentKey, []byte(tt.json)))
			tt.check(t, NewAdapter(kv, quietLogger()).Load())
		})
	}
}

type failingKV struct {
	*MemoryKV
	err error
}

func (f *failingKV) Set(string, []byte) error { return f.err }

func TestSaveFailureIsSwallowed(t *testing.T) {
	kv := &failingKV{MemoryKV: NewMemoryKV(), err: errors.New("quota exceeded")}
	a := NewAdapter(kv, quietLogger())

	assert.NotPanics(t, func() { a.Save(playedState(t)) })

	err := a.Write(game.NewState())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestSessionKeepsPlayingWhenSavesFail(t *testing.T) {
	kv := &failingKV{MemoryKV: NewMemoryKV(), err: errors.New("disk full")}
	store, _ := game.NewTestStore(t)
	session := game.NewSession(store, NewAdapter(kv, quietLogger()), nil)

	_, err := session.Dispatch(game.AddPlayer{Name: "A"})
	require.NoError(t, err)
	_, err = session.Dispatch(game.EndRound{})
	require.NoError(t, err)
	assert.Len(t, store.History(), 1)
}
