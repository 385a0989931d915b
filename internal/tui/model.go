package tui

import (
	"context"
	"time"

	"github.com/2beens/sportfrei/internal/activity"
	"github.com/2beens/sportfrei/internal/dashboard"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
)

type View int

const (
	ViewDashboard View = iota
	ViewActivities
	ViewActivityDetail
)

func (v View) String() string {
	switch v {
	case ViewActivities:
		return "Activities"
	case ViewActivityDetail:
		return "Activity Details"
	default:
		return "Dashboard"
	}
}

const (
	headerHeight = 3
	footerHeight = 3

	minPerPage = 10
	maxPerPage = 200
	// a new page is requested once the selection gets this close to the end
	loadMoreThreshold = 5
)

type Params struct {
	Source  activitySource
	Options dashboard.Options
	// Now defaults to time.Now.
	Now func() time.Time
	// PerPage fixes the page size; zero sizes pages from the terminal height.
	PerPage int
}

// Model is the Bubble Tea program state. Loaded data is only replaced from
// Update, never from the commands that fetch it.
type Model struct {
	ctx      context.Context
	source   activitySource
	renderer *dashboard.Renderer
	canvas   *dashboard.Canvas
	now      func() time.Time
	keys     keyMap
	spinner  spinner.Model

	view          View
	width, height int

	athlete    *activity.Athlete
	stats      *activity.AthleteStats
	activities []activity.Activity

	selected  int
	rowOffset int
	colOffset int

	fixedPerPage int
	perPage      int
	page         int
	hasMore      bool
	loading      bool
	// generation is bumped on reload, responses of older loads are dropped
	generation int

	lastErr error
}

func New(ctx context.Context, params Params) *Model {
	now := params.Now
	if now == nil {
		now = time.Now
	}

	return &Model{
		ctx:          ctx,
		source:       params.Source,
		renderer:     dashboard.NewRenderer(params.Options),
		canvas:       dashboard.NewCanvas(),
		now:          now,
		keys:         defaultKeyMap(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("3")))),
		view:         ViewDashboard,
		fixedPerPage: clampPerPage(params.PerPage),
		hasMore:      true,
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		loadAthleteCmd(m.ctx, m.source, m.generation),
	}
	if m.fixedPerPage > 0 {
		m.perPage = m.fixedPerPage
		cmds = append(cmds, m.loadNextPage())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureSelectedVisible()
		if m.perPage == 0 {
			m.perPage = clampPerPage(max(msg.Height-headerHeight-footerHeight, minPerPage))
			return m, m.loadNextPage()
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case athleteLoadedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		if msg.err != nil {
			log.Errorf("%s", msg.err)
			m.lastErr = msg.err
			return m, nil
		}
		m.athlete = msg.athlete
		m.stats = msg.stats
		return m, nil

	case activitiesLoadedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Errorf("failed to load activities page %d: %s", msg.page, msg.err)
			m.lastErr = msg.err
			return m, nil
		}
		m.lastErr = nil
		m.activities = append(m.activities, msg.activities...)
		m.page = msg.page
		m.hasMore = len(msg.activities) >= msg.perPage
		log.Debugf("loaded activities page %d: %d new, %d total", msg.page, len(msg.activities), len(m.activities))
		return m, m.maybeLoadMore()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Dashboard):
		m.view = ViewDashboard
	case key.Matches(msg, m.keys.Activities):
		m.view = ViewActivities
	case key.Matches(msg, m.keys.Down):
		m.selectNext()
	case key.Matches(msg, m.keys.Up):
		m.selectPrev()
	case key.Matches(msg, m.keys.Left):
		if m.view == ViewActivities && m.colOffset > 0 {
			m.colOffset--
		}
	case key.Matches(msg, m.keys.Right):
		if m.view == ViewActivities && m.colOffset < maxColOffset {
			m.colOffset++
		}
	case key.Matches(msg, m.keys.Open):
		if m.view == ViewActivities && m.SelectedActivity() != nil {
			m.view = ViewActivityDetail
		}
	case key.Matches(msg, m.keys.Back):
		if m.view == ViewActivityDetail {
			m.view = ViewActivities
		}
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	}

	return m.maybeLoadMore()
}

func (m *Model) reload() tea.Cmd {
	m.source.ClearCache()
	m.generation++
	m.activities = nil
	m.selected = 0
	m.rowOffset = 0
	m.page = 0
	m.hasMore = true
	m.loading = false
	m.lastErr = nil

	cmds := []tea.Cmd{loadAthleteCmd(m.ctx, m.source, m.generation)}
	if m.perPage > 0 {
		cmds = append(cmds, m.loadNextPage())
	}
	return tea.Batch(cmds...)
}

// ShouldLoadMore reports whether the next activities page should be fetched:
// nothing is in flight, the last page was full and the selection is within
// a few rows of the end of the list.
func (m *Model) ShouldLoadMore() bool {
	return !m.loading &&
		m.hasMore &&
		m.perPage > 0 &&
		m.selected >= len(m.activities)-loadMoreThreshold
}

func (m *Model) maybeLoadMore() tea.Cmd {
	if !m.ShouldLoadMore() {
		return nil
	}
	return m.loadNextPage()
}

func (m *Model) loadNextPage() tea.Cmd {
	m.loading = true
	return loadActivitiesCmd(m.ctx, m.source, m.generation, m.page+1, m.perPage)
}

func (m *Model) selectNext() {
	if len(m.activities) == 0 {
		return
	}
	m.selected = min(m.selected+1, len(m.activities)-1)
	m.ensureSelectedVisible()
}

func (m *Model) selectPrev() {
	if len(m.activities) == 0 {
		return
	}
	m.selected = max(m.selected-1, 0)
	m.ensureSelectedVisible()
}

func (m *Model) ensureSelectedVisible() {
	rows := m.visibleRows()
	if m.selected < m.rowOffset {
		m.rowOffset = m.selected
	}
	if m.selected >= m.rowOffset+rows {
		m.rowOffset = m.selected - rows + 1
	}
	m.rowOffset = max(m.rowOffset, 0)
}

func (m *Model) CurrentView() View {
	return m.view
}

func (m *Model) Loading() bool {
	return m.loading
}

func (m *Model) Activities() []activity.Activity {
	return m.activities
}

func (m *Model) Selected() int {
	return m.selected
}

func (m *Model) SelectedActivity() *activity.Activity {
	if m.selected < 0 || m.selected >= len(m.activities) {
		return nil
	}
	return &m.activities[m.selected]
}

func (m *Model) LastError() error {
	return m.lastErr
}

// Snapshot is the dashboard input for the data loaded so far.
func (m *Model) Snapshot() dashboard.Snapshot {
	return dashboard.Snapshot{
		Activities: m.activities,
		Stats:      m.stats,
		Athlete:    m.athlete,
	}
}

func clampPerPage(n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(n, minPerPage), maxPerPage)
}
