package main

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"

	"github.com/coder/quartz"

	"github.com/lox/cuescore/internal/export"
	"github.com/lox/cuescore/internal/fileutil"
	"github.com/lox/cuescore/internal/game"
	"github.com/lox/cuescore/internal/tui"
)

type FilterCmd struct {
	All    FilterAllCmd    `cmd:"" help:"Show every round"`
	Player FilterPlayerCmd `cmd:"" help:"Show only rounds a player took part in"`
}

type FilterAllCmd struct{}

func (c *FilterAllCmd) Run(g *Globals) error {
	return setFilter(g, "", game.DefaultFilter())
}

type FilterPlayerCmd struct {
	Player string `arg:"" help:"Player id or name"`
}

func (c *FilterPlayerCmd) Run(g *Globals) error {
	return setFilter(g, c.Player, game.Filter{Mode: game.FilterPlayer})
}

func setFilter(g *Globals, ref string, f game.Filter) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if f.Mode == game.FilterPlayer {
		p, err := findPlayer(a.store, ref)
		if err != nil {
			return err
		}
		f.PlayerID = p.ID
	}
	if _, err := a.dispatch(game.SetFilter{Filter: f}); err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "Showing %s (%d of %d)\n",
		describeFilter(a.store, f), len(a.store.VisibleHistory(f)), len(a.store.History()))
	return nil
}

type HistoryCmd struct {
	List   HistoryListCmd   `cmd:"" default:"withargs" aliases:"ls" help:"List rounds, newest first"`
	Show   HistoryShowCmd   `cmd:"" help:"Show the standings of a round"`
	Delete HistoryDeleteCmd `cmd:"" aliases:"rm" help:"Delete rounds by id"`
	Clear  HistoryClearCmd  `cmd:"" help:"Delete every round"`
	Stats  HistoryStatsCmd  `cmd:"" help:"Per-player totals across the visible rounds"`
	Export HistoryExportCmd `cmd:"" help:"Export the visible rounds"`
}

type HistoryListCmd struct {
	All bool `help:"Ignore the saved filter"`
}

func (c *HistoryListCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	f := a.store.Filter()
	if c.All {
		f = game.DefaultFilter()
	}
	entries := a.store.VisibleHistory(f)
	out := g.stdout()

	fmt.Fprintf(out, "%d of %d %s, showing %s\n",
		len(entries), len(a.store.History()), plural(len(a.store.History()), "round", "rounds"),
		describeFilter(a.store, f))

	slices.Reverse(entries)
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s  %s  (%d %s)\n",
			e.ID, e.Time().Format("2006-01-02 15:04"), tui.WinnersLine(e),
			len(e.Players), plural(len(e.Players), "player", "players"))
	}
	return nil
}

type HistoryShowCmd struct {
	ID string `arg:"" help:"Round id"`
}

func (c *HistoryShowCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, e := range a.store.History() {
		if e.ID == c.ID {
			fmt.Fprintf(g.stdout(), "%s  %s\n", e.ID, e.Time().Format("2006-01-02 15:04:05"))
			printEntry(g, e)
			return nil
		}
	}
	return fmt.Errorf("no round with id %q", c.ID)
}

type HistoryDeleteCmd struct {
	IDs []string `arg:"" name:"id" help:"Round ids to delete"`
}

func (c *HistoryDeleteCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.dispatch(game.DeleteHistory{IDs: c.IDs})
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "Deleted %d %s\n", out.Removed, plural(out.Removed, "round", "rounds"))
	return nil
}

type HistoryClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation"`
}

func (c *HistoryClearCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	n := len(a.store.History())
	if n == 0 {
		fmt.Fprintln(g.stdout(), "History is already empty")
		return nil
	}
	ok, err := g.confirm(a, c.Yes, fmt.Sprintf("Delete all %d %s?", n, plural(n, "round", "rounds")))
	if err != nil || !ok {
		return err
	}

	out, err := a.dispatch(game.ClearHistory{})
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "Deleted %d %s\n", out.Removed, plural(out.Removed, "round", "rounds"))
	return nil
}

type HistoryStatsCmd struct {
	All bool `help:"Ignore the saved filter"`
}

func (c *HistoryStatsCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	f := a.store.Filter()
	if c.All {
		f = game.DefaultFilter()
	}
	stats := game.Stats(a.store.VisibleHistory(f))
	if len(stats) == 0 {
		fmt.Fprintln(g.stdout(), "No rounds yet")
		return nil
	}

	var rows [][]string
	for _, s := range stats {
		rows = append(rows, []string{
			s.Name,
			strconv.Itoa(s.Rounds),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.SharedWins),
			strconv.Itoa(s.TotalScore),
			strconv.Itoa(s.BestScore),
			strconv.FormatFloat(s.Mean(), 'f', 1, 64),
		})
	}
	fmt.Fprintln(g.stdout(), renderTable(
		[]string{"Player", "Rounds", "Wins", "Shared", "Total", "Best", "Mean"}, rows))
	return nil
}

type HistoryExportCmd struct {
	Format string `short:"f" enum:"json,toml" default:"json" help:"Output format (json, toml)"`
	Output string `short:"o" type:"path" help:"Write to this file instead of stdout"`
	All    bool   `help:"Ignore the saved filter"`
}

func (c *HistoryExportCmd) Run(g *Globals) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	f := a.store.Filter()
	if c.All {
		f = game.DefaultFilter()
	}
	doc := export.Build(a.store.VisibleHistory(f), f, quartz.NewReal().Now())

	var buf bytes.Buffer
	if err := export.Encode(&buf, doc, format); err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}

	if c.Output == "" {
		_, err := g.stdout().Write(buf.Bytes())
		return err
	}
	if err := fileutil.WriteFileAtomic(c.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(g.stdout(), "Exported %d %s to %s\n", len(doc.Rounds), plural(len(doc.Rounds), "round", "rounds"), c.Output)
	return nil
}
