package dashboard

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Rect is a region of the display, in terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// SplitThirds splits area into three side-by-side columns. The columns are
// equal up to rounding, the last one takes the remainder.
func SplitThirds(area Rect) [3]Rect {
	w := area.Width / 3
	var cols [3]Rect
	for i := range cols {
		cols[i] = Rect{
			X:      area.X + i*w,
			Y:      area.Y,
			Width:  w,
			Height: area.Height,
		}
	}
	cols[2].Width = area.Width - 2*w
	return cols
}

// Panel is a bordered, titled block of colored text.
type Panel struct {
	Title       string
	Body        string
	BorderColor lipgloss.Color
	TextColor   lipgloss.Color
}

// Surface is where the dashboard draws its panels.
type Surface interface {
	DrawPanel(area Rect, p Panel)
}

// Render draws the panel into exactly width x height cells.
// Areas too small for a border and one cell of text render as blank space.
func (p Panel) Render(width, height int) string {
	if width < 3 || height < 3 {
		return blank(width, height)
	}

	border := lipgloss.RoundedBorder()
	borderStyle := lipgloss.NewStyle().Foreground(p.BorderColor)

	innerWidth := width - 2
	title := runewidth.Truncate(p.Title, innerWidth, "…")
	topLine := borderStyle.Render(border.TopLeft) +
		borderStyle.Render(title) +
		borderStyle.Render(strings.Repeat(border.Top, innerWidth-runewidth.StringWidth(title))) +
		borderStyle.Render(border.TopRight)

	innerHeight := height - 2
	lines := strings.Split(p.Body, "\n")
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, innerWidth, "")
	}

	body := lipgloss.NewStyle().
		Border(border).
		BorderTop(false).
		BorderForeground(p.BorderColor).
		Foreground(p.TextColor).
		Width(innerWidth).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, topLine, body)
}

func blank(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	row := strings.Repeat(" ", width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

type placedPanel struct {
	area     Rect
	panel    Panel
	rendered string
}

// Canvas is a Surface that composes the drawn panels into a string, row by
// row, left to right.
type Canvas struct {
	placed []placedPanel
}

var _ Surface = (*Canvas)(nil)

func NewCanvas() *Canvas {
	return &Canvas{}
}

func (c *Canvas) DrawPanel(area Rect, p Panel) {
	c.placed = append(c.placed, placedPanel{
		area:     area,
		panel:    p,
		rendered: p.Render(area.Width, area.Height),
	})
}

// Panels returns the drawn panels in drawing order.
func (c *Canvas) Panels() []Panel {
	panels := make([]Panel, 0, len(c.placed))
	for _, pp := range c.placed {
		panels = append(panels, pp.panel)
	}
	return panels
}

func (c *Canvas) Reset() {
	c.placed = c.placed[:0]
}

func (c *Canvas) String() string {
	if len(c.placed) == 0 {
		return ""
	}

	placed := make([]placedPanel, len(c.placed))
	copy(placed, c.placed)
	sort.SliceStable(placed, func(i, j int) bool {
		if placed[i].area.Y != placed[j].area.Y {
			return placed[i].area.Y < placed[j].area.Y
		}
		return placed[i].area.X < placed[j].area.X
	})

	var rows []string
	var row []string
	rowY := placed[0].area.Y
	for _, pp := range placed {
		if pp.area.Y != rowY {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
			rowY = pp.area.Y
		}
		row = append(row, pp.rendered)
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
