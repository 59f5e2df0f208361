package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeNextRunDailyLaterToday(t *testing.T) {
	from := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)

	next := ComputeNextRun("30 14 * * *", from, "UTC")

	assert.Equal(t, time.Date(2025, 1, 20, 14, 30, 0, 0, time.UTC), next)
}

func TestComputeNextRunDailyAlreadyPassed(t *testing.T) {
	from := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)

	next := ComputeNextRun("0 9 * * *", from, "UTC")

	assert.Equal(t, time.Date(2025, 1, 21, 9, 0, 0, 0, time.UTC), next)
}

func TestComputeNextRunWeeklyAdvancesSevenDays(t *testing.T) {
	// Monday 10:00, weekly Monday 09:00 schedule.
	from := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)

	next := ComputeNextRun("0 9 * * 1", from, "UTC")

	assert.Equal(t, time.Date(2025, 1, 27, 9, 0, 0, 0, time.UTC), next)
}

func TestComputeNextRunExactlyAtOccurrence(t *testing.T) {
	// A candidate equal to from counts as passed.
	from := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

	next := ComputeNextRun("0 9 * * *", from, "UTC")

	assert.Equal(t, time.Date(2025, 1, 21, 9, 0, 0, 0, time.UTC), next)
}

func TestComputeNextRunMalformedExpressionFallsBack(t *testing.T) {
	from := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, from.Add(24*time.Hour), ComputeNextRun("not a cron", from, "UTC"))
	assert.Equal(t, from.Add(24*time.Hour), ComputeNextRun("0 9 * *", from, "UTC"))
	assert.Equal(t, from.Add(24*time.Hour), ComputeNextRun("", from, "UTC"))
}

func TestComputeNextRunUnparsableFieldsReadAsZero(t *testing.T) {
	from := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)

	// "* *" minute/hour means midnight, already passed today.
	next := ComputeNextRun("* * * * *", from, "UTC")

	assert.Equal(t, time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC), next)
}

func TestComputeNextRunHonorsTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// 00:00 UTC on Jan 20 is 09:00 JST, so a 09:00 JST schedule has just
	// passed and the next occurrence is the following local day.
	from := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	next := ComputeNextRun("0 9 * * *", from, "Asia/Tokyo")

	assert.Equal(t, time.Date(2025, 1, 21, 9, 0, 0, 0, loc), next)
}

func TestComputeNextRunUnknownTimezoneFallsBackToUTC(t *testing.T) {
	from := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)

	next := ComputeNextRun("0 12 * * *", from, "Not/AZone")

	assert.Equal(t, time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC), next)
}
