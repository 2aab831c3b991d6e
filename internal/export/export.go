// Package export renders round history as JSON or TOML documents.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lox/cuescore/internal/game"
)

// Format names an output encoding.
type Format string

const (
	JSON Format = "json"
	TOML Format = "toml"
)

// ParseFormat accepts json or toml in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case JSON, TOML:
		return f, nil
	default:
		return "", fmt.Errorf("export: unsupported format %q", s)
	}
}

// Document is the exported history.
type Document struct {
	ExportedAt time.Time `json:"exportedAt" toml:"exported_at"`
	Filter     string    `json:"filter" toml:"filter"`
	Rounds     []Round   `json:"rounds" toml:"round"`
}

// Round is one history entry with its standings.
type Round struct {
	ID        string     `json:"id" toml:"id"`
	At        time.Time  `json:"at" toml:"at"`
	TopScore  int        `json:"topScore" toml:"top_score"`
	Tie       bool       `json:"tie" toml:"tie"`
	WinnerIDs []string   `json:"winnerIds" toml:"winner_ids"`
	Standings []Standing `json:"standings" toml:"standing"`
}

// Standing is a ranked player row.
type Standing struct {
	Pos      int    `json:"pos" toml:"pos"`
	PlayerID string `json:"playerId" toml:"player_id"`
	Name     string `json:"name" toml:"name"`
	Score    int    `json:"score" toml:"score"`
	Winner   bool   `json:"winner" toml:"winner"`
}

// Build converts entries, already filtered by f, into a Document.
func Build(entries []game.HistoryEntry, f game.Filter, now time.Time) Document {
	doc := Document{
		ExportedAt: now.UTC().Truncate(time.Second),
		Filter:     describeFilter(f),
		Rounds:     make([]Round, 0, len(entries)),
	}
	for _, e := range entries {
		w := e.Winners()
		round := Round{
			ID:        e.ID,
			At:        e.Time().UTC(),
			TopScore:  w.Top,
			Tie:       len(e.WinnerIDs) > 1,
			WinnerIDs: append([]string{}, e.WinnerIDs...),
			Standings: make([]Standing, 0, len(e.Players)),
		}
		for _, r := range e.Ranked() {
			round.Standings = append(round.Standings, Standing{
				Pos:      r.Pos,
				PlayerID: r.Player.ID,
				Name:     r.Player.Name,
				Score:    r.Player.Score,
				Winner:   slices.Contains(e.WinnerIDs, r.Player.ID),
			})
		}
		doc.Rounds = append(doc.Rounds, round)
	}
	return doc
}

func describeFilter(f game.Filter) string {
	if f.Active() {
		return "player:" + f.PlayerID
	}
	return string(game.FilterAll)
}

// Encode writes doc to w in the given format.
func Encode(w io.Writer, doc Document, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case TOML:
		enc := toml.NewEncoder(w)
		enc.Indent = "\t"
		return enc.Encode(doc)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}
