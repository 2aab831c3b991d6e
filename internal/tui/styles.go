package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/cuescore/internal/catalog"
)

// Styles holds every style the UI renders with. They are built from a
// renderer so colour can be turned off per program.
type Styles struct {
	renderer *lipgloss.Renderer
	mono     bool

	Header    lipgloss.Style
	Pane      lipgloss.Style
	Focused   lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Score     lipgloss.Style
	Negative  lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Winner    lipgloss.Style
	Marked    lipgloss.Style
	TableHead lipgloss.Style
	TableCell lipgloss.Style
}

// NewStyles builds styles for theme ("default" or "mono"). A nil renderer
// uses the lipgloss default.
func NewStyles(r *lipgloss.Renderer, theme string) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	mono := theme == "mono" || r.ColorProfile() == termenv.Ascii

	color := func(hex string) lipgloss.TerminalColor {
		if mono {
			return lipgloss.NoColor{}
		}
		return lipgloss.Color(hex)
	}

	return Styles{
		renderer: r,
		mono:     mono,

		Header: r.NewStyle().
			Foreground(color("#FAFAFA")).
			Background(color("#1F7A4D")).
			Bold(true).
			Padding(0, 1),
		Pane: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color("#626262")),
		Focused: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color("#04B575")),
		Cursor: r.NewStyle().
			Foreground(color("#FFD700")).
			Bold(true),
		Selected: r.NewStyle().
			Foreground(color("#04B575")).
			Bold(true),
		Score: r.NewStyle().
			Foreground(color("#FAFAFA")).
			Bold(true),
		Negative: r.NewStyle().
			Foreground(color("#FF6B6B")).
			Bold(true),
		Muted: r.NewStyle().
			Foreground(color("#626262")),
		Success: r.NewStyle().
			Foreground(color("#96CEB4")).
			Bold(true),
		Error: r.NewStyle().
			Foreground(color("#FF6B6B")).
			Bold(true),
		Warning: r.NewStyle().
			Foreground(color("#FFEAA7")).
			Bold(true),
		Winner: r.NewStyle().
			Foreground(color("#FFD700")).
			Bold(true),
		Marked: r.NewStyle().
			Foreground(color("#FF6B6B")),
		TableHead: r.NewStyle().
			Foreground(color("#96CEB4")).
			Bold(true).
			Padding(0, 1),
		TableCell: r.NewStyle().
			Padding(0, 1),
	}
}

// Ball renders a ball chip in its colour.
func (s Styles) Ball(b catalog.Ball) string {
	style := s.renderer.NewStyle().Bold(true).Padding(0, 1)
	if !s.mono {
		style = style.Background(lipgloss.Color(b.Hex)).Foreground(lipgloss.Color(ballText(b)))
	}
	return style.Render(b.Label)
}

// ballText picks a readable foreground for the ball colour.
func ballText(b catalog.Ball) string {
	switch b.Key {
	case catalog.Yellow, catalog.Pink:
		return "#0b0b0b"
	default:
		return "#FAFAFA"
	}
}

// ScoreText styles a score, marking negatives.
func (s Styles) ScoreText(score int) string {
	if score < 0 {
		return s.Negative.Render(strconv.Itoa(score))
	}
	return s.Score.Render(strconv.Itoa(score))
}
