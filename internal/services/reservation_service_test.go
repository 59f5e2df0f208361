package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlotsBasics(t *testing.T) {
	start := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	slots := generateSlots(start, end, 10)

	require.NotEmpty(t, slots)
	assert.LessOrEqual(t, len(slots), 10)

	for i, slot := range slots {
		assert.False(t, slot.Before(start), "slot before window start")
		assert.True(t, slot.Before(end), "slot at or past window end")
		assert.Zero(t, slot.Minute()%5, "slot not on a five-minute mark")
		assert.Zero(t, slot.Second())
		if i > 0 {
			assert.True(t, slots[i-1].Before(slot), "slots must be sorted and distinct")
		}
	}
}

func TestGenerateSlotsNarrowWindowFillsEvenly(t *testing.T) {
	start := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	// Only six five-minute marks fit; asking for more caps at what fits.
	slots := generateSlots(start, end, 20)

	require.NotEmpty(t, slots)
	assert.LessOrEqual(t, len(slots), 6)
}

func TestGenerateSlotsEmptyWindow(t *testing.T) {
	start := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	assert.Nil(t, generateSlots(start, start, 5))
	assert.Nil(t, generateSlots(start, start.Add(-time.Hour), 5))
	assert.Nil(t, generateSlots(start, start.Add(time.Hour), 0))
}

func TestGenerateSlotsSingle(t *testing.T) {
	start := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	slots := generateSlots(start, end, 1)

	require.Len(t, slots, 1)
	assert.False(t, slots[0].Before(start))
	assert.True(t, slots[0].Before(end))
}
