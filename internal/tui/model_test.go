package tui_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/2beens/sportfrei/internal/activity"
	"github.com/2beens/sportfrei/internal/dashboard"
	"github.com/2beens/sportfrei/internal/tui"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func fakeActivities(faker *gofakeit.Faker, n int) []activity.Activity {
	sports := []string{"Run", "Ride", "Swim", "Walk"}
	activities := make([]activity.Activity, 0, n)
	for i := 0; i < n; i++ {
		sport := faker.RandomString(sports)
		activities = append(activities, activity.Activity{
			ID:             faker.Int64(),
			Name:           faker.Sentence(3),
			Type:           sport,
			SportType:      sport,
			StartDateLocal: testNow.Add(-time.Duration(i+1) * 24 * time.Hour),
			Distance:       faker.Float64Range(1000, 50000),
			MovingTime:     faker.IntRange(600, 10000),
		})
	}
	return activities
}

func newTestModel(source *MockactivitySource, perPage int) *tui.Model {
	return tui.New(context.Background(), tui.Params{
		Source:  source,
		Options: dashboard.Options{},
		Now:     func() time.Time { return testNow },
		PerPage: perPage,
	})
}

// process runs cmd and feeds the resulting messages back into the model,
// the way the Bubble Tea runtime does. Spinner ticks are dropped.
func process(t *testing.T, m *tui.Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg, tea.QuitMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			process(t, m, c)
		}
	default:
		_, next := m.Update(msg)
		process(t, m, next)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m *tui.Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		process(t, m, cmd)
	}
}

func expectAthlete(source *MockactivitySource) {
	source.EXPECT().
		GetAthlete(gomock.Any()).
		Return(&activity.Athlete{ID: 7, FirstName: "Serj"}, nil)
	source.EXPECT().
		GetAthleteStats(gomock.Any(), int64(7)).
		Return(&activity.AthleteStats{}, nil)
}

func TestModel_InitialLoadSizedFromTerminal(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)
	faker := gofakeit.New(1)

	expectAthlete(source)
	source.EXPECT().
		GetActivities(gomock.Any(), 1, 24).
		Return(fakeActivities(faker, 24), nil)

	m := newTestModel(source, 0)
	process(t, m, m.Init())
	assert.Empty(t, m.Activities())

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.True(t, m.Loading())
	process(t, m, cmd)

	assert.False(t, m.Loading())
	assert.Len(t, m.Activities(), 24)
	assert.Equal(t, tui.ViewDashboard, m.CurrentView())

	snap := m.Snapshot()
	require.NotNil(t, snap.Athlete)
	assert.Equal(t, "Serj", snap.Athlete.FirstName)
	assert.NotNil(t, snap.Stats)
	assert.Len(t, snap.Activities, 24)

	// a second resize does not restart loading
	_, cmd = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Nil(t, cmd)
}

func TestModel_SmallTerminalUsesMinimumPageSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)

	source.EXPECT().
		GetActivities(gomock.Any(), 1, 10).
		Return(nil, nil)

	m := newTestModel(source, 0)
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 40, Height: 8})
	process(t, m, cmd)

	assert.Empty(t, m.Activities())
	assert.False(t, m.ShouldLoadMore())
}

func TestModel_StatsFailureKeepsAthlete(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)

	source.EXPECT().
		GetAthlete(gomock.Any()).
		Return(&activity.Athlete{ID: 7, FirstName: "Serj"}, nil)
	source.EXPECT().
		GetAthleteStats(gomock.Any(), int64(7)).
		Return(nil, errors.New("boom"))

	m := newTestModel(source, 0)
	process(t, m, m.Init())

	snap := m.Snapshot()
	assert.NotNil(t, snap.Athlete)
	assert.Nil(t, snap.Stats)
	assert.NoError(t, m.LastError())
}

func TestModel_AthleteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)

	source.EXPECT().
		GetAthlete(gomock.Any()).
		Return(nil, errors.New("unauthorized"))

	m := newTestModel(source, 0)
	process(t, m, m.Init())

	assert.Nil(t, m.Snapshot().Athlete)
	assert.ErrorContains(t, m.LastError(), "unauthorized")
}

func TestModel_KeysSwitchViews(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)
	faker := gofakeit.New(2)

	expectAthlete(source)
	source.EXPECT().
		GetActivities(gomock.Any(), 1, 10).
		Return(fakeActivities(faker, 3), nil)

	m := newTestModel(source, 10)
	process(t, m, m.Init())
	require.Len(t, m.Activities(), 3)

	// enter only opens details from the activities view
	press(t, m, "enter")
	assert.Equal(t, tui.ViewDashboard, m.CurrentView())

	press(t, m, "a")
	assert.Equal(t, tui.ViewActivities, m.CurrentView())

	press(t, m, "j", "down")
	assert.Equal(t, 2, m.Selected())
	press(t, m, "j")
	assert.Equal(t, 2, m.Selected(), "selection stops at the last activity")
	press(t, m, "k")
	assert.Equal(t, 1, m.Selected())
	press(t, m, "up", "up")
	assert.Equal(t, 0, m.Selected())

	press(t, m, "enter")
	assert.Equal(t, tui.ViewActivityDetail, m.CurrentView())
	assert.Equal(t, &m.Activities()[0], m.SelectedActivity())

	press(t, m, "esc")
	assert.Equal(t, tui.ViewActivities, m.CurrentView())

	// esc does nothing outside the details view
	press(t, m, "d", "esc")
	assert.Equal(t, tui.ViewDashboard, m.CurrentView())

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestModel_EnterWithoutActivities(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)

	m := newTestModel(source, 0)
	press(t, m, "a", "j", "enter")
	assert.Equal(t, tui.ViewActivities, m.CurrentView())
	assert.Nil(t, m.SelectedActivity())
}

func TestModel_LoadsMoreNearTheEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)
	faker := gofakeit.New(3)

	expectAthlete(source)
	gomock.InOrder(
		source.EXPECT().
			GetActivities(gomock.Any(), 1, 10).
			Return(fakeActivities(faker, 10), nil),
		source.EXPECT().
			GetActivities(gomock.Any(), 2, 10).
			Return(fakeActivities(faker, 4), nil),
	)

	m := newTestModel(source, 10)
	process(t, m, m.Init())
	require.Len(t, m.Activities(), 10)

	press(t, m, "a", "j", "j", "j", "j")
	assert.Equal(t, 4, m.Selected())
	assert.Len(t, m.Activities(), 10, "not yet within 5 rows of the end")

	press(t, m, "j")
	assert.Equal(t, 5, m.Selected())
	assert.Len(t, m.Activities(), 14)

	// the short page was the last one
	press(t, m, "j", "j", "j", "j", "j", "j", "j", "j")
	assert.Equal(t, 13, m.Selected())
	assert.False(t, m.ShouldLoadMore())
}

func TestModel_LoadErrorClearsLoading(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)
	faker := gofakeit.New(4)

	expectAthlete(source)
	gomock.InOrder(
		source.EXPECT().
			GetActivities(gomock.Any(), 1, 10).
			Return(nil, errors.New("network down")),
		source.EXPECT().
			GetActivities(gomock.Any(), 1, 10).
			Return(fakeActivities(faker, 2), nil),
	)

	m := newTestModel(source, 10)
	process(t, m, m.Init())

	assert.False(t, m.Loading())
	assert.Empty(t, m.Activities())
	assert.ErrorContains(t, m.LastError(), "network down")
	assert.True(t, m.ShouldLoadMore())

	// the next key press retries the same page
	press(t, m, "a")
	assert.Len(t, m.Activities(), 2)
	assert.NoError(t, m.LastError())
	assert.False(t, m.ShouldLoadMore())
}

func TestModel_ReloadDropsStaleResponses(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)
	faker := gofakeit.New(5)

	stale := fakeActivities(faker, 10)
	fresh := fakeActivities(faker, 3)

	source.EXPECT().
		GetActivities(gomock.Any(), 1, 10).
		Return(stale, nil)
	m := newTestModel(source, 10)
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 16})
	require.NotNil(t, cmd)

	// reload while the first page is still in flight
	expectAthlete(source)
	source.EXPECT().ClearCache()
	source.EXPECT().
		GetActivities(gomock.Any(), 1, 10).
		Return(fresh, nil)
	_, reloadCmd := m.Update(keyMsg("r"))

	process(t, m, cmd)
	assert.Empty(t, m.Activities(), "response of the old generation is ignored")

	process(t, m, reloadCmd)
	assert.Equal(t, fresh, m.Activities())
	assert.NotNil(t, m.Snapshot().Athlete)
}

func TestModel_View(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)
	faker := gofakeit.New(6)

	m := newTestModel(source, 10)
	assert.Empty(t, m.View(), "nothing to draw before the first window size")

	expectAthlete(source)
	activities := fakeActivities(faker, 3)
	activities[0].Name = "Evening Tempo Run"
	source.EXPECT().
		GetActivities(gomock.Any(), 1, 10).
		Return(activities, nil)

	initCmd := m.Init()
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 24})
	assert.Nil(t, cmd, "the fixed page size is already being loaded")

	press(t, m, "a")
	assert.True(t, m.Loading())
	out := m.View()
	assert.Contains(t, out, "SportFrei - Activities")
	assert.Contains(t, out, "No activities found")
	assert.Contains(t, out, "[D]ashboard | [A]ctivities | [Q]uit")

	process(t, m, initCmd)
	require.Len(t, m.Activities(), 3)

	out = m.View()
	assert.Equal(t, 24, lipgloss.Height(out))
	assert.Contains(t, out, "Activities (3 total) - h/l scroll, j/k nav)")
	assert.Contains(t, out, "Evening Tempo Run")
	assert.Contains(t, out, "Distance")

	press(t, m, "l", "l")
	out = m.View()
	assert.Contains(t, out, "Date")
	assert.NotContains(t, out, "Evening Tempo Run")
	assert.NotContains(t, out, "Distance")
	press(t, m, "h", "h", "h")
	assert.Contains(t, m.View(), "Evening Tempo Run")

	press(t, m, "enter")
	out = m.View()
	assert.Contains(t, out, "SportFrei - Activity Details")
	assert.Contains(t, out, "Evening Tempo Run")
	assert.Contains(t, out, "Moving Time:")

	press(t, m, "d")
	out = m.View()
	assert.Contains(t, out, "SportFrei - Dashboard")
	assert.Contains(t, out, "Welcome, Serj!")
	assert.Contains(t, out, "Best Pace")
	assert.Contains(t, out, "This Month")
}

func TestModel_ViewDashboardWithoutAthlete(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockactivitySource(ctrl)

	m := newTestModel(source, 10)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	out := m.View()
	assert.Contains(t, out, "No data available")
	assert.Equal(t, 20, lipgloss.Height(out))
}

func TestModel_FooterErrorFitsNarrowTerminal(t *testing.T) {
	for _, width := range []int{37, 38, 40, 60} {
		ctrl := gomock.NewController(t)
		source := NewMockactivitySource(ctrl)
		source.EXPECT().
			GetAthlete(gomock.Any()).
			Return(nil, errors.New("unauthorized"))

		m := newTestModel(source, 0)
		process(t, m, m.Init())
		require.Error(t, m.LastError())

		// the page load started by the resize is not run
		_, _ = m.Update(tea.WindowSizeMsg{Width: width, Height: 20})

		out := m.View()
		assert.True(t, utf8.ValidString(out), "width %d", width)
		lines := strings.Split(out, "\n")
		require.GreaterOrEqual(t, len(lines), 3)
		footer := lines[len(lines)-3:]
		for _, line := range footer {
			assert.LessOrEqual(t, lipgloss.Width(line), width, "width %d: %q", width, line)
		}
		if width >= 60 {
			assert.Contains(t, strings.Join(footer, "\n"), "unauthorized")
		}
	}
}
