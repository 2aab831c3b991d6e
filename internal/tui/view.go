package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/cuescore/internal/catalog"
	"github.com/lox/cuescore/internal/game"
	"github.com/lox/cuescore/internal/ranking"
)

const sidebarWidth = 28

// View renders the TUI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.styles.Header.Render("cuescore")
	bottom := m.renderBottom()
	bottomHeight := lipgloss.Height(bottom)

	paneHeight := max(m.height-bottomHeight-lipgloss.Height(header)-2, 1)
	mainWidth := max(m.width-sidebarWidth-4, 1)

	var content string
	var cursorLine int
	switch {
	case m.celebrate != nil:
		content = m.renderCelebration(*m.celebrate)
	case m.screen == screenHistory:
		content, cursorLine = m.renderHistory()
	default:
		content, cursorLine = m.renderBoard()
	}

	m.viewport.Width = mainWidth
	m.viewport.Height = paneHeight
	m.viewport.SetContent(content)
	if cursorLine < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorLine)
	} else if cursorLine >= m.viewport.YOffset+paneHeight {
		m.viewport.SetYOffset(cursorLine - paneHeight + 1)
	}

	mainStyle := m.styles.Pane
	if m.focusedPane == paneBoard {
		mainStyle = m.styles.Focused
	}
	mainPane := mainStyle.Width(mainWidth).Height(paneHeight).Render(m.viewport.View())

	sidebarPane := m.styles.Pane.
		Width(sidebarWidth).
		Height(paneHeight).
		Render(m.renderSidebar())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, mainPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Left, header, topRow, bottom)
}

// renderBoard returns the roster and ball pad, plus the line the cursor
// is on.
func (m *Model) renderBoard() (string, int) {
	s := m.store()
	roster := s.Roster()
	selected, _ := s.Selected()

	var b strings.Builder
	b.WriteString(m.styles.Muted.Render("Players"))
	b.WriteString("\n")
	cursorLine := 1

	if len(roster) == 0 {
		b.WriteString(m.styles.Muted.Render("No players yet. Press a to add one."))
		b.WriteString("\n")
	}

	nameWidth := 0
	for _, p := range roster {
		nameWidth = max(nameWidth, lipgloss.Width(p.Name))
	}
	for i, p := range roster {
		pointer := "  "
		if i == m.cursor && m.focusedPane == paneBoard {
			pointer = m.styles.Cursor.Render("▸ ")
			cursorLine = i + 1
		}
		mark := "○"
		name := p.Name
		if p.ID == selected.ID {
			mark = m.styles.Selected.Render("●")
			name = m.styles.Selected.Render(name)
		}
		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(p.Name))
		fmt.Fprintf(&b, "%s%s %s%s  %s\n", pointer, mark, name, pad, m.styles.ScoreText(p.Score))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Balls"))
	b.WriteString("\n")
	var chips []string
	for _, ball := range catalog.Balls() {
		chips = append(chips, fmt.Sprintf("%d %s", ball.Value, m.styles.Ball(ball)))
	}
	b.WriteString(strings.Join(chips, "  "))
	b.WriteString("\n")
	b.WriteString(m.styles.Negative.Render(fmt.Sprintf("f Foul -%d", catalog.FoulPenalty)))
	b.WriteString("\n")

	return b.String(), cursorLine
}

func (m *Model) renderSidebar() string {
	s := m.store()
	var b strings.Builder

	b.WriteString(m.styles.Muted.Render("Round order"))
	b.WriteString("\n")
	order := s.RoundOrder()
	if len(order) == 0 {
		b.WriteString(m.styles.Muted.Render("press o to draw"))
		b.WriteString("\n")
	}
	for i, id := range order {
		name := id
		if p, ok := s.Player(id); ok {
			name = p.Name
		}
		line := fmt.Sprintf("%d. %s", i+1, name)
		if i == 0 {
			line += m.styles.Muted.Render("  starts first")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if p, ok := s.Selected(); ok {
		b.WriteString("Selected: ")
		b.WriteString(m.styles.Selected.Render(p.Name))
	} else {
		b.WriteString(m.styles.Muted.Render("No player selected"))
	}
	b.WriteString("\n")

	if m.notice.active() {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render(m.notice.text))
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(m.notice.remaining(m.clock)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderHistory lists the visible history newest first, plus the line the
// cursor is on.
func (m *Model) renderHistory() (string, int) {
	s := m.store()
	rows := m.historyRows()

	var b strings.Builder
	title := fmt.Sprintf("History (%d of %d) · %s", len(rows), len(s.History()), m.filterLabel(s.Filter()))
	if m.editMode {
		title += "  " + m.styles.Warning.Render("[edit]")
	}
	b.WriteString(m.styles.Muted.Render(title))
	b.WriteString("\n")
	line, cursorLine := 1, 1

	if len(rows) == 0 {
		b.WriteString(m.styles.Muted.Render("No rounds yet."))
		b.WriteString("\n")
		return b.String(), cursorLine
	}

	marked := make(map[string]bool)
	for _, id := range s.Marked() {
		marked[id] = true
	}

	for i, e := range rows {
		pointer := "  "
		if i == m.histCursor {
			pointer = m.styles.Cursor.Render("▸ ")
			cursorLine = line
		}
		box := ""
		if m.editMode {
			box = "[ ] "
			if marked[e.ID] {
				box = m.styles.Marked.Render("[x]") + " "
			}
		}
		fmt.Fprintf(&b, "%s%s%s  %s %s\n",
			pointer, box,
			m.styles.Muted.Render(e.Time().Format("02 Jan 15:04")),
			WinnersLine(e),
			m.styles.Muted.Render(fmt.Sprintf("· %d %s", len(e.Players), plural(len(e.Players), "player", "players"))))
		line++

		if s.IsExpanded(e.ID) {
			detail := RankingTable(m.styles, e)
			for _, l := range strings.Split(detail, "\n") {
				b.WriteString("    ")
				b.WriteString(l)
				b.WriteString("\n")
				line++
			}
		}
	}
	return b.String(), cursorLine
}

func (m *Model) renderCelebration(e game.HistoryEntry) string {
	var b strings.Builder
	b.WriteString(m.styles.Winner.Render("🏆 " + WinnersLine(e)))
	b.WriteString("\n\n")
	b.WriteString(RankingTable(m.styles, e))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("press any key to continue"))
	return b.String()
}

func (m *Model) renderBottom() string {
	var b strings.Builder

	switch {
	case m.pending != nil:
		b.WriteString(m.styles.Warning.Render(m.pending.prompt + " (y/n)"))
	case m.statusErr:
		b.WriteString(m.styles.Error.Render(m.status))
	default:
		b.WriteString(m.styles.Muted.Render(m.status))
	}
	b.WriteString("\n")

	inputStyle := m.styles.Pane
	if m.focusedPane == paneInput {
		inputStyle = m.styles.Focused
	}
	b.WriteString(inputStyle.Width(max(m.width-2, 1)).Render(m.input.View()))
	b.WriteString("\n")

	if m.screen == screenHistory {
		b.WriteString(m.help.View(historyHelp(m.keys)))
	} else {
		b.WriteString(m.help.View(boardHelp(m.keys)))
	}
	return b.String()
}

// WinnersLine summarises a round: "Ann wins with 15" or "Tie: Ann • Bob (7)".
func WinnersLine(e game.HistoryEntry) string {
	w := e.Winners()
	if len(w.Winners) == 0 {
		return "No players"
	}
	names := make([]string, len(w.Winners))
	for i, p := range w.Winners {
		names[i] = p.Name
	}
	if w.Tie() {
		return fmt.Sprintf("Tie: %s (%d)", strings.Join(names, " • "), w.Top)
	}
	return fmt.Sprintf("%s wins with %d", names[0], w.Top)
}

// RankingTable renders the round's standings.
func RankingTable(styles Styles, e game.HistoryEntry) string {
	ranked := ranking.RankPlayers(e.Players)
	w := e.Winners()

	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{strconv.Itoa(r.Pos), r.Player.Name, strconv.Itoa(r.Player.Score)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Muted).
		BorderHeader(true).
		BorderRow(false).
		Headers("#", "Player", "Score").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHead
			}
			if row >= 0 && row < len(ranked) && w.Has(ranked[row].Player.ID) {
				return styles.Winner.Padding(0, 1)
			}
			return styles.TableCell
		})
	return t.Render()
}
