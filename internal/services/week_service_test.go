package services

import (
	"testing"

	"github.com/lifequestapp/lifequest-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDays() map[string]models.DaySchedule {
	return map[string]models.DaySchedule{
		"monday": {
			Title: "Deep Work Day",
			Blocks: []models.ScheduleBlock{
				{ID: "b1", Name: "Morning focus", StartTime: "09:00", EndTime: "11:00", BlockType: "Focus", EnergyLevel: "High"},
				{ID: "b2", Name: "Inbox sweep", StartTime: "11:00", EndTime: "11:30", BlockType: "Admin", EnergyLevel: "Low"},
			},
		},
		"wednesday": {
			Blocks: []models.ScheduleBlock{
				{ID: "b3", Name: "Evening walk", StartTime: "18:00", EndTime: "19:00", BlockType: "Recovery", EnergyLevel: "Recharge"},
			},
		},
	}
}

func TestValidateDays(t *testing.T) {
	days := testDays()
	require.NoError(t, validateDays(days))

	t.Run("unknown day rejected", func(t *testing.T) {
		err := validateDays(map[string]models.DaySchedule{"funday": {}})
		assert.ErrorContains(t, err, "unknown day")
	})

	t.Run("bad block type rejected", func(t *testing.T) {
		err := validateDays(map[string]models.DaySchedule{"monday": {
			Blocks: []models.ScheduleBlock{{Name: "x", BlockType: "Grind", EnergyLevel: "High"}},
		}})
		assert.ErrorContains(t, err, "invalid block type")
	})

	t.Run("bad energy level rejected", func(t *testing.T) {
		err := validateDays(map[string]models.DaySchedule{"monday": {
			Blocks: []models.ScheduleBlock{{Name: "x", BlockType: "Focus", EnergyLevel: "Max"}},
		}})
		assert.ErrorContains(t, err, "invalid energy level")
	})

	t.Run("missing block ID assigned", func(t *testing.T) {
		days := map[string]models.DaySchedule{"monday": {
			Blocks: []models.ScheduleBlock{{Name: "x", BlockType: "Focus", EnergyLevel: "High"}},
		}}
		require.NoError(t, validateDays(days))
		assert.NotEmpty(t, days["monday"].Blocks[0].ID)
	})
}

func TestReplaceBlock(t *testing.T) {
	days := testDays()

	updated := models.ScheduleBlock{ID: "b3", Name: "Long run", StartTime: "17:00", EndTime: "18:30", BlockType: "Recovery", EnergyLevel: "Recharge"}
	require.True(t, replaceBlock(days, updated))

	assert.Equal(t, "Long run", days["wednesday"].Blocks[0].Name)
	assert.Equal(t, "17:00", days["wednesday"].Blocks[0].StartTime)
	// Other days untouched.
	assert.Equal(t, "Morning focus", days["monday"].Blocks[0].Name)

	assert.False(t, replaceBlock(days, models.ScheduleBlock{ID: "missing"}))
}

func TestSetBlockDone(t *testing.T) {
	days := testDays()

	wasDone, found := setBlockDone(days, "monday", "b2", true)
	require.True(t, found)
	assert.False(t, wasDone)
	assert.True(t, days["monday"].Blocks[1].Done)
	assert.False(t, days["monday"].Blocks[0].Done)

	// Toggling again reports the prior state.
	wasDone, found = setBlockDone(days, "monday", "b2", false)
	require.True(t, found)
	assert.True(t, wasDone)
	assert.False(t, days["monday"].Blocks[1].Done)

	_, found = setBlockDone(days, "friday", "b2", true)
	assert.False(t, found)
	_, found = setBlockDone(days, "monday", "missing", true)
	assert.False(t, found)
}

func TestWeekColumns(t *testing.T) {
	cols := weekColumns(testDays())
	require.Len(t, cols, 2)

	// Canonical weekday order, not map order.
	assert.Equal(t, "monday", cols[0].ID)
	assert.Equal(t, "wednesday", cols[1].ID)
	assert.Equal(t, 0, cols[0].Order)
	assert.Equal(t, 1, cols[1].Order)

	// Day title used when set, day key otherwise.
	assert.Equal(t, "Deep Work Day", cols[0].Title)
	assert.Equal(t, "wednesday", cols[1].Title)
}

func TestCardDescription(t *testing.T) {
	assert.Equal(t, "09:00-11:00 review notes", cardDescription(models.ScheduleBlock{
		StartTime: "09:00", EndTime: "11:00", Note: "review notes",
	}))
	assert.Equal(t, "09:00-11:00", cardDescription(models.ScheduleBlock{
		StartTime: "09:00", EndTime: "11:00",
	}))
	assert.Equal(t, "", cardDescription(models.ScheduleBlock{}))
}
