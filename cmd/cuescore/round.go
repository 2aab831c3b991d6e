package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/cuescore/internal/catalog"
	"github.com/lox/cuescore/internal/game"
	"github.com/lox/cuescore/internal/randutil"
	"github.com/lox/cuescore/internal/tui"
)

type PotCmd struct {
	Ball string `arg:"" help:"Ball name or value (red, yellow, green, brown, blue, pink, black or 1-7)"`
}

func (c *PotCmd) Run(g *Globals) error {
	ball, ok := catalog.Parse(c.Ball)
	if !ok {
		return fmt.Errorf("%w: %q", game.ErrUnknownCategory, c.Ball)
	}

	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.dispatch(game.ApplyScore{Key: ball.Key})
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "%s +%d (%d)\n", out.Award.Player.Name, out.Award.Delta, out.Award.Player.Score)
	return nil
}

type FoulCmd struct{}

func (c *FoulCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.dispatch(game.ApplyFoul{})
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "%s %d (%d)\n", out.Award.Player.Name, out.Award.Delta, out.Award.Player.Score)
	return nil
}

type OrderCmd struct {
	Seed *int64 `help:"Seed for a reproducible shuffle"`
}

func (c *OrderCmd) Run(g *Globals) error {
	a, err := g.open(false, game.WithRand(randutil.FromSeed(c.Seed)))
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.dispatch(game.RandomizeOrder{})
	if err != nil {
		return err
	}
	if !out.Dirty {
		return errors.New("need at least two players to pick an order")
	}
	printOrder(g.stdout(), a.store, a.store.RoundOrder())
	return nil
}

type EndCmd struct{}

func (c *EndCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.dispatch(game.EndRound{})
	if err != nil {
		return err
	}
	printEntry(g, *out.Entry)
	return nil
}

type ResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation"`
}

func (c *ResetCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ok, err := g.confirm(a, c.Yes, "Reset the current round?")
	if err != nil || !ok {
		return err
	}
	if _, err := a.dispatch(game.ResetRound{}); err != nil {
		return err
	}
	fmt.Fprintln(g.stdout(), "Round reset")
	return nil
}

// printEntry prints the winners line and standings of a round.
func printEntry(g *Globals, e game.HistoryEntry) {
	r := lipgloss.NewRenderer(g.stdout())
	r.SetColorProfile(termenv.Ascii)
	styles := tui.NewStyles(r, "mono")

	fmt.Fprintln(g.stdout(), tui.WinnersLine(e))
	fmt.Fprintln(g.stdout(), tui.RankingTable(styles, e))
}
