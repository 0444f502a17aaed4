package raceinfo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"race-registry/internal/domain"
)

func testRace(start time.Time) Race {
	return Race{
		Distance: "5km",
		Name:     "Test Run",
		Location: "Somewhere",
		StartsAt: start,
	}
}

func TestCountdown(t *testing.T) {
	start := time.Date(2026, time.September, 30, 8, 0, 0, 0, time.UTC)
	race := testRace(start)

	now := start.Add(-(49*time.Hour + 30*time.Minute + 15*time.Second))
	assert.Equal(t, "2 days, 1 hours, 30 minutes, 15 seconds", race.Countdown(now))

	assert.Equal(t, "the race has already started", race.Countdown(start))
	assert.Equal(t, "the race has already started", race.Countdown(start.Add(time.Hour)))
}

func TestRegistrationWindow(t *testing.T) {
	start := time.Date(2026, time.September, 30, 8, 0, 0, 0, time.UTC)
	race := testRace(start)

	assert.True(t, race.IsRegistrationOpen(start.Add(-48*time.Hour)))
	// Closes exactly one day before the start.
	assert.False(t, race.IsRegistrationOpen(start.Add(-24*time.Hour)))
	assert.False(t, race.IsRegistrationOpen(start))
}

func TestIsActive(t *testing.T) {
	start := time.Date(2026, time.September, 30, 8, 0, 0, 0, time.UTC)
	race := testRace(start)

	assert.False(t, race.IsActive(start.Add(-time.Minute)))
	assert.True(t, race.IsActive(start))
	assert.True(t, race.IsActive(start.Add(5*time.Hour)))
	assert.False(t, race.IsActive(start.Add(7*time.Hour)))
}

func TestScheduleLookup(t *testing.T) {
	schedule := Default()

	race, err := schedule.Get("42km")
	require.NoError(t, err)
	assert.Equal(t, "42km", race.Distance)
	assert.NotEmpty(t, race.Description)

	_, err = schedule.Get("100km")
	assert.ErrorIs(t, err, domain.ErrUnknownDistance)

	all := schedule.All()
	require.Len(t, all, 4)
	assert.Equal(t, "5km", all[0].Distance)
	assert.Equal(t, "42km", all[3].Distance)
}

func TestScheduleCountdownUsesFirstRace(t *testing.T) {
	schedule := NewSchedule([]Race{
		testRace(time.Date(2026, time.July, 1, 8, 0, 0, 0, time.UTC)),
	})
	now := time.Date(2026, time.June, 30, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "1 days, 0 hours, 0 minutes, 0 seconds", schedule.Countdown(now))
}
