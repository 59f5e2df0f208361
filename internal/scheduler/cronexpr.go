package scheduler

import (
	"strconv"
	"strings"
	"time"
)

// ComputeNextRun returns the next firing time at or after from for a 5-field
// cron expression (minute hour dayOfMonth month dayOfWeek), evaluated in the
// given IANA timezone.
//
// This is a deliberate approximation covering the daily and weekly patterns
// the schedule editor produces. Only the minute and hour fields are read,
// as literal integers (`*` or anything unparsable counts as 0). A candidate
// is placed on from's calendar day at that minute/hour; when the candidate
// has already passed, it advances 7 days if dayOfWeek is constrained and 1
// day otherwise. Lists, ranges, steps, dayOfMonth and month are not
// evaluated. A malformed expression falls back to from + 24h.
func ComputeNextRun(expr string, from time.Time, timezone string) time.Time {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return from.Add(24 * time.Hour)
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	local := from.In(loc)
	minute := fieldValue(fields[0])
	hour := fieldValue(fields[1])
	dayOfWeek := fields[4]

	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(from) {
		if dayOfWeek != "*" {
			// Weekly pattern: same weekday next week.
			next = next.AddDate(0, 0, 7)
		} else {
			// Daily pattern.
			next = next.AddDate(0, 0, 1)
		}
	}

	return next
}

func fieldValue(field string) int {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0
	}
	return n
}
