package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/n7qsk/potalake/internal/spot"
)

func TestModeCategory(t *testing.T) {
	assert.Equal(t, "cw", modeCategory("CW"))
	assert.Equal(t, "ssb", modeCategory("SSB"))
	assert.Equal(t, "ssb", modeCategory("LSB"))
	assert.Equal(t, "digital", modeCategory("FT8"))
	assert.Equal(t, "digital", modeCategory("JS8"))
	assert.Equal(t, "", modeCategory("RTTYX"))
}

func TestModeCategory_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "cw", modeCategory("cw"))
	assert.Equal(t, "ssb", modeCategory("usb"))
	assert.Equal(t, "digital", modeCategory("ft8"))
}

func TestWeekStart_ReturnsUTCSunday(t *testing.T) {
	// Wednesday 2025-06-04 -> Sunday 2025-06-01.
	wed := time.Date(2025, 6, 4, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), weekStart(wed))

	// A Sunday maps to itself, at midnight.
	sun := time.Date(2025, 6, 1, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), weekStart(sun))
}

func TestPointFor_CountsActivatorsByCategory(t *testing.T) {
	cwRow := spot.NewAggregateBuilder(spot.AggregateKey{Mode: "CW", Band: "20m", Entity: "K"})
	cwRow.AddSpot(spot.NormalizedSpot{Activator: "W1AW", Reference: "K-1", Mode: "CW", Band: "20m", Entity: "K"})
	cwRow.AddSpot(spot.NormalizedSpot{Activator: "K2ABC", Reference: "K-2", Mode: "CW", Band: "20m", Entity: "K"})

	ssbRow := spot.NewAggregateBuilder(spot.AggregateKey{Mode: "SSB", Band: "40m", Entity: "K"})
	// K2ABC also worked SSB; the activator total must still count them once.
	ssbRow.AddSpot(spot.NormalizedSpot{Activator: "K2ABC", Reference: "K-2", Mode: "SSB", Band: "40m", Entity: "K"})

	point := pointFor("2025-06-01", []spot.BaseAggregate{cwRow.Finalize(), ssbRow.Finalize()})
	assert.Equal(t, 2, point.Activators)
	assert.Equal(t, 2, point.CW)
	assert.Equal(t, 1, point.SSB)
	assert.Equal(t, 0, point.Digital)
}
