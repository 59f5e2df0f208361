package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeekDayKeys orders the day buckets of a week document.
var WeekDayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ScheduleBlock is one timed quest inside a day's schedule.
type ScheduleBlock struct {
	ID             string `bson:"id" json:"id"`
	Name           string `bson:"name" json:"name"`
	StartTime      string `bson:"start_time" json:"start_time"`
	EndTime        string `bson:"end_time" json:"end_time"`
	Emoji          string `bson:"emoji,omitempty" json:"emoji,omitempty"`
	Note           string `bson:"note,omitempty" json:"note,omitempty"`
	Done           bool   `bson:"done" json:"done"`
	BlockType      string `bson:"block_type" json:"block_type"`   // Focus | Recovery | Flow | Admin | Social
	EnergyLevel    string `bson:"energy_level" json:"energy_level"` // High | Moderate | Low | Recharge
	ReflectionNote string `bson:"reflection_note,omitempty" json:"reflection_note,omitempty"`
}

// DaySchedule is one day's plan inside a week document.
type DaySchedule struct {
	Title  string          `bson:"title" json:"title"`
	Theme  string          `bson:"theme" json:"theme"`
	Blocks []ScheduleBlock `bson:"blocks" json:"blocks"`
}

// Week is the per-user weekly dungeon schedule, one document per user and
// week. Days are keyed by lowercase weekday name.
type Week struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID     `bson:"user_id" json:"user_id"`
	WeekKey   string                 `bson:"week_key" json:"week_key"` // Monday of the week, yyyy-mm-dd
	Days      map[string]DaySchedule `bson:"days" json:"days"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at" json:"updated_at"`
}

// WeekKeyFor returns the week key for the given instant: the date of that
// week's Monday, formatted yyyy-mm-dd. Weeks start on Monday, so a Sunday
// belongs to the week that began six days earlier.
func WeekKeyFor(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return monday.Format("2006-01-02")
}
