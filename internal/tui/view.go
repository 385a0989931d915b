package tui

import (
	"fmt"
	"strings"

	"github.com/2beens/sportfrei/internal/activity"
	"github.com/2beens/sportfrei/internal/dashboard"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

const (
	appTitle       = "SportFrei"
	footerNav      = "[D]ashboard | [A]ctivities | [Q]uit"
	noActivities   = "No activities found"
	noSelection    = "No activity selected"
	detailTitle    = "Details (Esc to go back)"
	activitiesName = "Activities"
	missingValue   = "---"
)

var (
	colorWhite   = lipgloss.Color("7")
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
	colorGray    = lipgloss.Color("8")

	frameStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	headerCell    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = cellStyle.Background(colorGray).Foreground(lipgloss.Color("15"))
)

type column struct {
	title string
	width int
	color func(a *activity.Activity) lipgloss.Color
	value func(a *activity.Activity) string
}

func fixedColor(c lipgloss.Color) func(*activity.Activity) lipgloss.Color {
	return func(*activity.Activity) lipgloss.Color { return c }
}

var columns = []column{
	{title: "Date", width: 11, color: fixedColor(colorWhite), value: func(a *activity.Activity) string {
		return a.StartDateLocal.Format("01-02 15:04")
	}},
	{title: "Name", width: 25, color: SportColor, value: func(a *activity.Activity) string {
		return a.Name
	}},
	{title: "Distance", width: 8, color: fixedColor(colorCyan), value: func(a *activity.Activity) string {
		return fmt.Sprintf("%.1f", a.DistanceKm())
	}},
	{title: "Elev", width: 5, color: fixedColor(colorWhite), value: func(a *activity.Activity) string {
		return fmt.Sprintf("%.0f", a.TotalElevationGain)
	}},
	{title: "Duration", width: 8, color: fixedColor(colorGreen), value: func(a *activity.Activity) string {
		return FormatDuration(a.MovingTime)
	}},
	{title: "Pace", width: 6, color: fixedColor(colorYellow), value: func(a *activity.Activity) string {
		pace, ok := a.PaceSecondsPerKm()
		if !ok {
			return dashboard.NoPace
		}
		return dashboard.FormatPace(pace)
	}},
	{title: "HR", width: 4, color: fixedColor(colorRed), value: func(a *activity.Activity) string {
		return optionalInt(a.AverageHeartrate)
	}},
	{title: "Cal", width: 5, color: fixedColor(colorWhite), value: func(a *activity.Activity) string {
		return optionalInt(a.Calories)
	}},
	{title: "RelPerf", width: 7, color: fixedColor(colorMagenta), value: func(a *activity.Activity) string {
		rp, ok := a.RelativePerformance()
		if !ok {
			return missingValue
		}
		return fmt.Sprintf("%.0f", rp)
	}},
}

// the date column always stays, the rest scroll horizontally
var maxColOffset = len(columns) - 2

// SportColor is the color of an activity's name in the activities table.
func SportColor(a *activity.Activity) lipgloss.Color {
	sport := a.SportType
	if sport == "" {
		sport = a.Type
	}
	switch sport {
	case "Run":
		return colorGreen
	case "Ride":
		return colorBlue
	case "Swim":
		return colorCyan
	case "Hike", "Walk":
		return colorYellow
	default:
		return colorMagenta
	}
}

// FormatDuration renders seconds as h:mm:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func optionalInt(v *float64) string {
	if v == nil {
		return missingValue
	}
	return fmt.Sprintf("%.0f", *v)
}

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.contentView(),
		m.footerView(),
	)
}

func (m *Model) contentWidth() int {
	return max(m.width, 0)
}

func (m *Model) contentHeight() int {
	return max(m.height-headerHeight-footerHeight, 0)
}

// visibleRows is the number of table rows that fit under the title line,
// the table borders and the header row.
func (m *Model) visibleRows() int {
	return max(m.contentHeight()-5, 1)
}

func (m *Model) headerView() string {
	innerWidth := max(m.width-2, 0)
	text := titleStyle.Render(runewidth.Truncate(fmt.Sprintf("%s - %s", appTitle, m.view), innerWidth, "…"))
	if m.loading && innerWidth > 0 {
		text += " " + m.spinner.View()
	}
	return frameStyle.Width(innerWidth).MaxHeight(headerHeight).Render(text)
}

func (m *Model) footerView() string {
	innerWidth := max(m.width-2, 0)
	text := footerNav
	if m.lastErr != nil {
		text += " | " + m.lastErr.Error()
	}
	text = runewidth.Truncate(text, innerWidth, "…")
	if m.lastErr != nil && strings.HasPrefix(text, footerNav) && len(text) > len(footerNav) {
		text = footerNav + errorStyle.Render(text[len(footerNav):])
	}
	return frameStyle.Width(innerWidth).MaxHeight(footerHeight).Render(text)
}

func (m *Model) contentView() string {
	width, height := m.contentWidth(), m.contentHeight()
	if height == 0 {
		return ""
	}

	var content string
	switch m.view {
	case ViewActivities:
		content = m.activitiesView(width, height)
	case ViewActivityDetail:
		content = m.detailView(width, height)
	default:
		content = m.dashboardView(width, height)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		MaxWidth(width).
		MaxHeight(height).
		Render(content)
}

func (m *Model) dashboardView(width, height int) string {
	m.canvas.Reset()
	area := dashboard.Rect{X: 0, Y: headerHeight, Width: width, Height: height}
	m.renderer.Render(m.canvas, area, m.Snapshot(), dashboard.LocalNow(m.now()))
	return m.canvas.String()
}

func (m *Model) activitiesView(width, height int) string {
	if len(m.activities) == 0 {
		return dashboard.Panel{
			Title:       activitiesName,
			Body:        noActivities,
			BorderColor: colorWhite,
			TextColor:   colorWhite,
		}.Render(width, height)
	}

	title := titleStyle.Render(fmt.Sprintf(
		"Activities (%d total) - h/l scroll, j/k nav)", len(m.activities),
	))

	visible := visibleColumns(m.colOffset)
	headers := make([]string, 0, len(visible))
	for _, c := range visible {
		headers = append(headers, c.title)
	}

	start := m.rowOffset
	end := min(start+m.visibleRows(), len(m.activities))
	window := m.activities[start:end]

	rows := make([][]string, 0, len(window))
	for i := range window {
		row := make([]string, 0, len(visible))
		for _, c := range visible {
			row = append(row, fitCell(c.value(&window[i]), c.width))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			a := &window[row]
			style := cellStyle
			if start+row == m.selected {
				style = selectedStyle
			}
			return style.Foreground(visible[col].color(a))
		})

	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render())
}

func visibleColumns(offset int) []column {
	offset = min(max(offset, 0), maxColOffset)
	visible := make([]column, 0, len(columns)-offset)
	visible = append(visible, columns[0])
	visible = append(visible, columns[1+offset:]...)
	return visible
}

func fitCell(value string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(value, width, "…"), width)
}

func (m *Model) detailView(width, height int) string {
	body := noSelection
	if a := m.SelectedActivity(); a != nil {
		body = DetailText(a)
	}
	return dashboard.Panel{
		Title:       detailTitle,
		Body:        body,
		BorderColor: colorWhite,
		TextColor:   colorWhite,
	}.Render(width, height)
}

// DetailText is the body of the activity details view.
func DetailText(a *activity.Activity) string {
	avgSpeedKmh := 0.0
	if a.AverageSpeed != nil {
		avgSpeedKmh = *a.AverageSpeed * 3.6
	}

	var sb strings.Builder
	sb.WriteString(a.Name)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Type: %s\n", a.Type))
	sb.WriteString(fmt.Sprintf("Distance: %.2f km\n", a.DistanceKm()))
	sb.WriteString(fmt.Sprintf("Moving Time: %dh %dm\n", a.MovingTime/3600, (a.MovingTime%3600)/60))
	sb.WriteString(fmt.Sprintf("Elevation Gain: %.0f m\n", a.TotalElevationGain))
	sb.WriteString(fmt.Sprintf("Average Speed: %.2f km/h", avgSpeedKmh))
	if a.AverageHeartrate != nil {
		sb.WriteString(fmt.Sprintf("\nAverage Heart Rate: %.0f bpm", *a.AverageHeartrate))
	}
	return sb.String()
}
