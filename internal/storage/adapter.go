package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/cuescore/internal/game"
	"github.com/lox/cuescore/internal/ranking"
)

// CurrentKey is where Save writes.
const CurrentKey = "snooker-lite-v8"

// LegacyKeys are read, newest first, when CurrentKey is absent or
// unreadable. They are never written.
var LegacyKeys = []string{
	"snooker-lite-v7",
	"snooker-lite-v6",
	"snooker-lite-v5",
	"snooker-lite-v4",
	"snooker-lite-v3",
}

// ErrPersistenceUnavailable wraps any failure to write the state.
var ErrPersistenceUnavailable = errors.New("persistence unavailable")

// Adapter saves and loads game.State through a KV.
type Adapter struct {
	kv     KV
	logger *log.Logger
}

// NewAdapter returns an Adapter over kv.
func NewAdapter(kv KV, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Adapter{kv: kv, logger: logger.WithPrefix("storage")}
}

// Save writes st under CurrentKey. Failures are logged and dropped: the
// session carries on in memory and only a reload would notice.
func (a *Adapter) Save(st game.State) {
	if err := a.Write(st); err != nil {
		a.logger.Warn("Failed to save state", "error", err)
	}
}

// Write is Save with the error returned.
func (a *Adapter) Write(st game.State) error {
	data, err := json.Marshal(toRecord(st))
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersistenceUnavailable, err)
	}
	if err := a.kv.Set(CurrentKey, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistenceUnavailable, err)
	}
	return nil
}

// Load returns the first state that can be read from CurrentKey or one of
// LegacyKeys, or an empty state when none can.
func (a *Adapter) Load() game.State {
	for _, key := range append([]string{CurrentKey}, LegacyKeys...) {
		data, ok, err := a.kv.Get(key)
		if err != nil {
			a.logger.Warn("Failed to read state", "key", key, "error", err)
			continue
		}
		if !ok {
			continue
		}
		st, err := decode(data)
		if err != nil {
			a.logger.Warn("Discarding unreadable state", "key", key, "error", err)
			continue
		}
		a.logger.Debug("State loaded",
			"key", key,
			"players", len(st.Players),
			"results", len(st.Results))
		return st
	}
	return game.NewState()
}

type record struct {
	Players     []wirePlayer `json:"players"`
	SelectedID  *string      `json:"selectedId"`
	Results     []wireResult `json:"results"`
	Filter      wireFilter   `json:"filter"`
	PlayerOrder []string     `json:"playerOrder"`
}

type wirePlayer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type wireResult struct {
	ID        string       `json:"id"`
	At        int64        `json:"at"`
	Players   []wirePlayer `json:"players"`
	WinnerIDs []string     `json:"winnerIds"`
}

type wireFilter struct {
	Mode     string `json:"mode"`
	PlayerID string `json:"playerId"`
}

func toRecord(st game.State) record {
	rec := record{
		Players:     make([]wirePlayer, 0, len(st.Players)),
		Results:     make([]wireResult, 0, len(st.Results)),
		Filter:      wireFilter{Mode: string(st.Filter.Mode), PlayerID: st.Filter.PlayerID},
		PlayerOrder: append(make([]string, 0, len(st.PlayerOrder)), st.PlayerOrder...),
	}
	if rec.Filter.Mode == "" {
		rec.Filter.Mode = string(game.FilterAll)
	}
	if st.SelectedID != "" {
		id := st.SelectedID
		rec.SelectedID = &id
	}
	for _, p := range st.Players {
		rec.Players = append(rec.Players, wirePlayer{ID: p.ID, Name: p.Name, Score: p.Score})
	}
	for _, r := range st.Results {
		wr := wireResult{
			ID:        r.ID,
			At:        r.At,
			Players:   make([]wirePlayer, 0, len(r.Players)),
			WinnerIDs: append(make([]string, 0, len(r.WinnerIDs)), r.WinnerIDs...),
		}
		for _, p := range r.Players {
			wr.Players = append(wr.Players, wirePlayer{ID: p.ID, Name: p.Name, Score: p.Score})
		}
		rec.Results = append(rec.Results, wr)
	}
	return rec
}

// decode reads a stored record one field at a time. Only a document that
// is not a JSON object is an error; a field of the wrong shape falls back
// to its default and a malformed list element is skipped.
func decode(data []byte) (game.State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return game.State{}, err
	}
	if fields == nil {
		return game.State{}, errors.New("state record is null")
	}

	st := game.NewState()
	st.Players = decodePlayers(fields["players"], true)
	st.SelectedID = decodeString(fields["selectedId"])
	st.Results = decodeResults(fields["results"])
	st.Filter = decodeFilter(fields["filter"])
	st.PlayerOrder = decodeStrings(fields["playerOrder"])
	return st, nil
}

func decodeArray(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	return items
}

func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func decodeStrings(raw json.RawMessage) []string {
	var out []string
	for _, item := range decodeArray(raw) {
		var s string
		if json.Unmarshal(item, &s) == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// looseSnapshot tolerates non-integral scores from older writers, which
// are truncated toward zero.
type looseSnapshot struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// decodePlayers skips elements without an id and, when unique is set,
// later elements repeating an id.
func decodePlayers(raw json.RawMessage, unique bool) []game.Player {
	var out []game.Player
	seen := make(map[string]bool)
	for _, item := range decodeArray(raw) {
		var p looseSnapshot
		if json.Unmarshal(item, &p) != nil || p.ID == "" {
			continue
		}
		if unique && seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, game.Player{ID: p.ID, Name: p.Name, Score: int(p.Score)})
	}
	return out
}

func decodeResults(raw json.RawMessage) []game.HistoryEntry {
	var out []game.HistoryEntry
	for _, item := range decodeArray(raw) {
		var fields map[string]json.RawMessage
		if json.Unmarshal(item, &fields) != nil || fields == nil {
			continue
		}
		id := decodeString(fields["id"])
		if id == "" {
			continue
		}

		var at float64
		_ = json.Unmarshal(fields["at"], &at)

		players := decodePlayers(fields["players"], false)
		snaps := make([]game.Snapshot, len(players))
		for i, p := range players {
			snaps[i] = game.Snapshot{ID: p.ID, Name: p.Name, Score: p.Score}
		}

		winners := decodeStrings(fields["winnerIds"])
		if _, present := fields["winnerIds"]; !present || (winners == nil && len(snaps) > 0) {
			winners = ranking.ComputeWinners(snaps).WinnerIDs
		}

		out = append(out, game.HistoryEntry{
			ID:        id,
			At:        int64(at),
			Players:   snaps,
			WinnerIDs: winners,
		})
	}
	return out
}

func decodeFilter(raw json.RawMessage) game.Filter {
	f := game.DefaultFilter()
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return f
	}
	if game.FilterMode(decodeString(fields["mode"])) == game.FilterPlayer {
		f.Mode = game.FilterPlayer
	}
	f.PlayerID = decodeString(fields["playerId"])
	return f
}
