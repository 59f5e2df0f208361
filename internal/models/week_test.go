package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekKeyFor(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "monday maps to itself",
			date: time.Date(2025, 9, 29, 10, 0, 0, 0, time.UTC),
			want: "2025-09-29",
		},
		{
			name: "midweek maps back to monday",
			date: time.Date(2025, 10, 2, 0, 0, 0, 0, time.UTC),
			want: "2025-09-29",
		},
		{
			name: "sunday belongs to the week started six days earlier",
			date: time.Date(2025, 10, 5, 23, 59, 0, 0, time.UTC),
			want: "2025-09-29",
		},
		{
			name: "next monday starts a new week",
			date: time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
			want: "2025-10-06",
		},
		{
			name: "week spanning a month boundary",
			date: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
			want: "2025-07-28",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekKeyFor(tt.date))
		})
	}
}
