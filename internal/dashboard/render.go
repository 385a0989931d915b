package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	TitleDashboard  = "Dashboard"
	TitleBestPace   = "Best Pace"
	TitleThisMonth  = "This Month"
	GreetingPrefix  = "Welcome, "
	NoDataMessage   = "No data available"
	fallbackAthlete = "Athlete"
)

var (
	accentDistance = lipgloss.Color("6") // cyan
	accentPace     = lipgloss.Color("2") // green
	accentCount    = lipgloss.Color("3") // yellow
)

// Renderer lays the dashboard out on a Surface.
type Renderer struct {
	opts Options
}

func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render draws the dashboard with default options.
func Render(s Surface, area Rect, snap Snapshot, now time.Time) {
	NewRenderer(Options{}).Render(s, area, snap, now)
}

// Render draws either one "no data" panel (no athlete loaded yet) or the
// three metric panels, side by side, into area.
func (r *Renderer) Render(s Surface, area Rect, snap Snapshot, now time.Time) {
	if snap.Athlete == nil {
		s.DrawPanel(area, Panel{
			Title:       TitleDashboard,
			Body:        NoDataMessage,
			BorderColor: ColorNeutral,
			TextColor:   ColorNeutral,
		})
		return
	}

	metrics := Compute(snap, now, r.opts)
	cols := SplitThirds(area)

	distance := metrics.Distance.Pair()
	s.DrawPanel(cols[0], Panel{
		Title:       greeting(snap.Athlete.FirstName),
		Body:        panelBody("Biggest Distance", distance),
		BorderColor: accentDistance,
		TextColor:   distance.Trend.Color(),
	})

	pace := metrics.Pace.Pair()
	s.DrawPanel(cols[1], Panel{
		Title:       TitleBestPace,
		Body:        panelBody(TitleBestPace, pace),
		BorderColor: accentPace,
		TextColor:   pace.Trend.Color(),
	})

	count := metrics.Count.Pair()
	s.DrawPanel(cols[2], Panel{
		Title:       TitleThisMonth,
		Body:        panelBody(TitleThisMonth, count),
		BorderColor: accentCount,
		TextColor:   count.Trend.Color(),
	})
}

func greeting(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = fallbackAthlete
	}
	return GreetingPrefix + name + "!"
}

// panelBody:
//
//	<heading>
//
//	<current> <glyph>
//	(vs <baseline>)
//	(<extra>)
func panelBody(heading string, p Pair) string {
	var sb strings.Builder
	sb.WriteString(heading)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("%s %s\n", p.Current, p.Trend.Glyph()))
	sb.WriteString(fmt.Sprintf("(vs %s)", p.Baseline))
	if p.Extra != "" {
		sb.WriteString(fmt.Sprintf("\n(%s)", p.Extra))
	}
	return sb.String()
}
