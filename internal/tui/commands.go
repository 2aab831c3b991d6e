package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/cuescore/internal/catalog"
	"github.com/lox/cuescore/internal/game"
)

// runCommand handles a line typed into the command input.
func (m *Model) runCommand(line string) (tea.Model, tea.Cmd) {
	if line == "" {
		return m, nil
	}
	m.logger.Debug("Processing command", "command", line)

	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "add", "a":
		return m, m.apply(game.AddPlayer{Name: rest})
	case "rm", "remove":
		p, ok := m.findPlayer(rest)
		if !ok {
			return m, nil
		}
		return m, m.apply(game.RemovePlayer{ID: p.ID})
	case "select", "s":
		p, ok := m.findPlayer(rest)
		if !ok {
			return m, nil
		}
		return m, m.apply(game.SelectPlayer{ID: p.ID})
	case "pot", "p":
		return m.pot(rest)
	case "foul", "f":
		return m, m.apply(game.ApplyFoul{})
	case "order", "o":
		return m, m.apply(game.RandomizeOrder{})
	case "end", "e":
		return m, m.apply(game.EndRound{})
	case "reset":
		return m, m.ask("Reset the current round?", game.ResetRound{})
	case "history", "h":
		m.openHistory()
		return m, nil
	case "board", "b":
		m.closeHistory()
		return m, nil
	case "filter":
		return m.filter(rest)
	case "clear":
		n := len(m.store().History())
		return m, m.ask(fmt.Sprintf("Delete all %d %s?", n, plural(n, "round", "rounds")), game.ClearHistory{})
	case "quit", "q", "exit":
		return m.quit()
	}

	// A bare ball name or value pots it.
	if _, ok := catalog.Parse(line); ok {
		return m.pot(line)
	}
	m.setError(fmt.Errorf("unknown command %q", verb))
	return m, nil
}

func (m *Model) pot(arg string) (tea.Model, tea.Cmd) {
	ball, ok := catalog.Parse(arg)
	if !ok {
		m.setError(fmt.Errorf("%w: %q", game.ErrUnknownCategory, arg))
		return m, nil
	}
	return m, m.apply(game.ApplyScore{Key: ball.Key})
}

func (m *Model) filter(arg string) (tea.Model, tea.Cmd) {
	if arg == "" || strings.EqualFold(arg, "all") {
		return m, m.apply(game.SetFilter{Filter: game.DefaultFilter()})
	}
	p, ok := m.findPlayer(arg)
	if !ok {
		return m, nil
	}
	return m, m.apply(game.SetFilter{Filter: game.Filter{Mode: game.FilterPlayer, PlayerID: p.ID}})
}

func (m *Model) findPlayer(ref string) (game.Player, bool) {
	p, ok := m.store().FindPlayer(ref)
	if !ok {
		m.setError(fmt.Errorf("%w: %q", game.ErrUnknownPlayer, ref))
	}
	return p, ok
}
