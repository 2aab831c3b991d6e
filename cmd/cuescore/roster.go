package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/cuescore/internal/catalog"
	"github.com/lox/cuescore/internal/game"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := g.stdout()
	roster := a.store.Roster()
	if len(roster) == 0 {
		fmt.Fprintln(out, "No players yet. Add one with `cuescore player add NAME`.")
	} else {
		printRoster(out, a.store)
	}

	order := a.store.RoundOrder()
	if len(order) > 0 {
		fmt.Fprintln(out)
		printOrder(out, a.store, order)
	}

	fmt.Fprintf(out, "\nHistory: %d %s, showing %s\n",
		len(a.store.History()), plural(len(a.store.History()), "round", "rounds"),
		describeFilter(a.store, a.store.Filter()))
	return nil
}

type CatalogCmd struct{}

func (c *CatalogCmd) Run(g *Globals) error {
	var rows [][]string
	for _, b := range catalog.Balls() {
		rows = append(rows, []string{strconv.Itoa(b.Value), b.Label, string(b.Key)})
	}
	rows = append(rows, []string{"-" + strconv.Itoa(catalog.FoulPenalty), "Foul", "foul"})

	fmt.Fprintln(g.stdout(), renderTable([]string{"Points", "Ball", "Key"}, rows))
	return nil
}

type PlayerCmd struct {
	Add    PlayerAddCmd    `cmd:"" help:"Add a player"`
	Rm     PlayerRmCmd     `cmd:"" aliases:"remove" help:"Remove a player"`
	Select PlayerSelectCmd `cmd:"" help:"Select a player, or clear the selection if already selected"`
	List   PlayerListCmd   `cmd:"" aliases:"ls" help:"List players"`
}

type PlayerAddCmd struct {
	Name []string `arg:"" help:"Player name"`
}

func (c *PlayerAddCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.dispatch(game.AddPlayer{Name: strings.Join(c.Name, " ")})
	if err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "Added %s (%s)\n", out.Player.Name, out.Player.ID)
	return nil
}

type PlayerRmCmd struct {
	Player string `arg:"" help:"Player id or name"`
}

func (c *PlayerRmCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := findPlayer(a.store, c.Player)
	if err != nil {
		return err
	}
	if _, err := a.dispatch(game.RemovePlayer{ID: p.ID}); err != nil {
		return err
	}
	fmt.Fprintf(g.stdout(), "Removed %s\n", p.Name)
	return nil
}

type PlayerSelectCmd struct {
	Player string `arg:"" help:"Player id or name"`
}

func (c *PlayerSelectCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := findPlayer(a.store, c.Player)
	if err != nil {
		return err
	}
	out, err := a.dispatch(game.SelectPlayer{ID: p.ID})
	if err != nil {
		return err
	}
	if out.Player != nil {
		fmt.Fprintf(g.stdout(), "%s selected\n", out.Player.Name)
	} else {
		fmt.Fprintf(g.stdout(), "Selection cleared\n")
	}
	return nil
}

type PlayerListCmd struct{}

func (c *PlayerListCmd) Run(g *Globals) error {
	a, err := g.open(false)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(a.store.Roster()) == 0 {
		fmt.Fprintln(g.stdout(), "No players")
		return nil
	}
	printRoster(g.stdout(), a.store)
	return nil
}

func findPlayer(s *game.Store, ref string) (game.Player, error) {
	p, ok := s.FindPlayer(ref)
	if !ok {
		return game.Player{}, fmt.Errorf("%w: %q", game.ErrUnknownPlayer, ref)
	}
	return p, nil
}

func printRoster(w io.Writer, s *game.Store) {
	selected, _ := s.Selected()
	var rows [][]string
	for _, p := range s.Roster() {
		mark := ""
		if p.ID == selected.ID {
			mark = "*"
		}
		rows = append(rows, []string{mark, p.Name, strconv.Itoa(p.Score), p.ID})
	}
	fmt.Fprintln(w, renderTable([]string{"", "Player", "Score", "ID"}, rows))
}

func printOrder(w io.Writer, s *game.Store, order []string) {
	fmt.Fprintln(w, "Round order:")
	for i, id := range order {
		name := id
		if p, ok := s.Player(id); ok {
			name = p.Name
		}
		line := fmt.Sprintf("  %d. %s", i+1, name)
		if i == 0 {
			line += "  (starts first)"
		}
		fmt.Fprintln(w, line)
	}
}

func describeFilter(s *game.Store, f game.Filter) string {
	if !f.Active() {
		return "all rounds"
	}
	name := f.PlayerID
	if p, ok := s.Player(f.PlayerID); ok {
		name = p.Name
	}
	return "rounds with " + name
}

// renderTable draws a plain table; command output is often piped so it
// carries no colour.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderHeader(true).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
