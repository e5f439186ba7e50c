package engine

import "github.com/mkageyama/grimoire-merchant/pkg/catalog"

// advanceClock adds one tick and rederives day, season and year.
// The derivation is total and pure; when no derived field changes besides
// the tick counter, nothing else is written.
func advanceClock(cal Calendar) Calendar {
	ticks := cal.ElapsedTicks + 1
	daysElapsed := ticks / TicksPerDay
	seasonsElapsed := daysElapsed / DaysPerSeason

	next := Calendar{
		ElapsedTicks: ticks,
		Day:          daysElapsed % DaysPerSeason,
		Season:       catalog.SeasonCycle[seasonsElapsed%SeasonsPerYear],
		Year:         seasonsElapsed/SeasonsPerYear + 1,
	}
	return next
}

// calendarChanged reports whether any player-visible calendar field differs.
// The tick counter itself always advances and is excluded.
func calendarChanged(a, b Calendar) bool {
	return a.Day != b.Day || a.Season != b.Season || a.Year != b.Year
}
