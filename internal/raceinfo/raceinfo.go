// Package raceinfo serves the static metadata for each race distance: start
// time, location, course map and description. It is reference data with no
// durable state; a Schedule is built once and shared read-only.
package raceinfo

import (
	"fmt"
	"time"

	"race-registry/internal/domain"
)

// raceDuration is how long a race stays active after its start.
const raceDuration = 6 * time.Hour

// registrationCutoff is how long before the start registration closes.
const registrationCutoff = 24 * time.Hour

// Race describes one distance's event metadata.
type Race struct {
	Distance     string
	Name         string
	Location     string
	StartsAt     time.Time
	MapImagePath string
	Description  string
}

// Countdown renders the time remaining until the race start.
func (r Race) Countdown(now time.Time) string {
	remaining := r.StartsAt.Sub(now)
	if remaining <= 0 {
		return "the race has already started"
	}
	days := int(remaining.Hours()) / 24
	hours := int(remaining.Hours()) % 24
	minutes := int(remaining.Minutes()) % 60
	seconds := int(remaining.Seconds()) % 60
	return fmt.Sprintf("%d days, %d hours, %d minutes, %d seconds", days, hours, minutes, seconds)
}

// IsActive reports whether the race is currently being run.
func (r Race) IsActive(now time.Time) bool {
	return !now.Before(r.StartsAt) && !now.After(r.StartsAt.Add(raceDuration))
}

// IsRegistrationOpen reports whether entrants may still register; the window
// closes one day before the start.
func (r Race) IsRegistrationOpen(now time.Time) bool {
	return now.Before(r.StartsAt.Add(-registrationCutoff))
}

// Schedule holds the race metadata for every distance.
type Schedule struct {
	order []string
	races map[string]Race
}

// NewSchedule builds a schedule preserving the given race order.
func NewSchedule(races []Race) *Schedule {
	s := &Schedule{races: make(map[string]Race, len(races))}
	for _, race := range races {
		s.order = append(s.order, race.Distance)
		s.races[race.Distance] = race
	}
	return s
}

// Default returns the reference event schedule: one city run with four
// distances sharing a start.
func Default() *Schedule {
	start := time.Date(2026, time.September, 30, 8, 0, 0, 0, time.UTC)
	const name = "City Run 2026"
	const location = "Warsaw, City Center"

	return NewSchedule([]Race{
		{
			Distance: "5km", Name: name, Location: location, StartsAt: start,
			MapImagePath: "/maps/5km.png",
			Description:  "The 5km run, ideal for beginners. The course leads through the city park.",
		},
		{
			Distance: "10km", Name: name, Location: location, StartsAt: start,
			MapImagePath: "/maps/10km.png",
			Description:  "The 10km run for intermediate runners. The course covers the city center.",
		},
		{
			Distance: "21km", Name: name, Location: location, StartsAt: start,
			MapImagePath: "/maps/21km.png",
			Description:  "The half marathon, a demanding course through several districts.",
		},
		{
			Distance: "42km", Name: name, Location: location, StartsAt: start,
			MapImagePath: "/maps/42km.png",
			Description:  "The marathon, the full course across the whole city.",
		},
	})
}

// Get returns the race for a distance.
func (s *Schedule) Get(distance string) (Race, error) {
	race, ok := s.races[distance]
	if !ok {
		return Race{}, domain.ErrUnknownDistance
	}
	return race, nil
}

// All returns every race in schedule order.
func (s *Schedule) All() []Race {
	out := make([]Race, 0, len(s.order))
	for _, distance := range s.order {
		out = append(out, s.races[distance])
	}
	return out
}

// Countdown renders the countdown to the first scheduled race.
func (s *Schedule) Countdown(now time.Time) string {
	if len(s.order) == 0 {
		return ""
	}
	return s.races[s.order[0]].Countdown(now)
}

// IsAnyRaceActive reports whether any race is currently being run.
func (s *Schedule) IsAnyRaceActive(now time.Time) bool {
	for _, race := range s.races {
		if race.IsActive(now) {
			return true
		}
	}
	return false
}

// IsRegistrationOpenForAnyRace reports whether any race still admits entrants.
func (s *Schedule) IsRegistrationOpenForAnyRace(now time.Time) bool {
	for _, race := range s.races {
		if race.IsRegistrationOpen(now) {
			return true
		}
	}
	return false
}
