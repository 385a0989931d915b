package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/sportfrei/internal/activity"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
)

const loadTimeout = 30 * time.Second

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=tui_test

type activitySource interface {
	GetAthlete(ctx context.Context) (*activity.Athlete, error)
	GetAthleteStats(ctx context.Context, athleteID int64) (*activity.AthleteStats, error)
	GetActivities(ctx context.Context, page, perPage int) ([]activity.Activity, error)
	ClearCache()
}

// athleteLoadedMsg carries the profile and stats. Stats are optional, a
// failure to load them leaves stats nil and err unset.
type athleteLoadedMsg struct {
	generation int
	athlete    *activity.Athlete
	stats      *activity.AthleteStats
	err        error
}

type activitiesLoadedMsg struct {
	generation int
	page       int
	perPage    int
	activities []activity.Activity
	err        error
}

func loadAthleteCmd(ctx context.Context, source activitySource, generation int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, loadTimeout)
		defer cancel()

		athlete, err := source.GetAthlete(ctx)
		if err != nil {
			return athleteLoadedMsg{generation: generation, err: fmt.Errorf("load athlete: %w", err)}
		}

		stats, err := source.GetAthleteStats(ctx, athlete.ID)
		if err != nil {
			log.Warnf("load athlete stats: %s", err)
			stats = nil
		}

		return athleteLoadedMsg{
			generation: generation,
			athlete:    athlete,
			stats:      stats,
		}
	}
}

func loadActivitiesCmd(ctx context.Context, source activitySource, generation, page, perPage int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, loadTimeout)
		defer cancel()

		activities, err := source.GetActivities(ctx, page, perPage)
		return activitiesLoadedMsg{
			generation: generation,
			page:       page,
			perPage:    perPage,
			activities: activities,
			err:        err,
		}
	}
}
