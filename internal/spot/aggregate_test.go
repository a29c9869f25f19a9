package spot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAggregateBuilder_SingleGroup(t *testing.T) {
	b := NewAggregateBuilder(AggregateKey{Mode: "SSB", Band: "40m", Entity: "K"})
	b.AddSpot(NormalizedSpot{Activator: "W0A", Reference: "K-1"})
	b.AddSpot(NormalizedSpot{Activator: "K1X", Reference: "K-2"})

	row := b.Finalize()
	require.Equal(t, 2, row.SpotCount)
	require.Equal(t, 2, row.UniqueActivators)
	require.Equal(t, 2, row.UniqueParks)
	require.Equal(t, 2, row.ActivationCount)
	assert.ElementsMatch(t, []string{"W0A", "K1X"}, row.Activators)
	assert.ElementsMatch(t, []string{"K-1", "K-2"}, row.Parks)
	assert.ElementsMatch(t, []string{"W0A|K-1", "K1X|K-2"}, row.Activations)
}

// Same activator, same park, multiple spots contributes spot_count >= 2
// but unique_activators/unique_parks/activation_count all stay at 1.
func TestAggregateBuilder_RepeatedActivation(t *testing.T) {
	b := NewAggregateBuilder(AggregateKey{Mode: "CW", Band: "20m", Entity: "K"})
	b.AddSpot(NormalizedSpot{Activator: "W0A", Reference: "K-1"})
	b.AddSpot(NormalizedSpot{Activator: "W0A", Reference: "K-1"})
	b.AddSpot(NormalizedSpot{Activator: "W0A", Reference: "K-1"})

	row := b.Finalize()
	assert.Equal(t, 3, row.SpotCount)
	assert.Equal(t, 1, row.UniqueActivators)
	assert.Equal(t, 1, row.UniqueParks)
	assert.Equal(t, 1, row.ActivationCount)
}

func TestAggregateBuilder_StateActivatorsUSOnly(t *testing.T) {
	b := NewAggregateBuilder(AggregateKey{Mode: "SSB", Band: "40m", Entity: "K"})
	b.AddSpot(NormalizedSpot{Activator: "W0A", Reference: "K-1", State: strPtr("CO")})
	b.AddSpot(NormalizedSpot{Activator: "G0ABC", Reference: "G-1", State: nil})

	row := b.Finalize()
	assert.Equal(t, []string{"CO|W0A"}, row.StateActivators)
	assert.Contains(t, row.Activators, "G0ABC")
}

// The aggregate of a spot set equals the merge of the aggregates of any
// partition of it, metric by metric.
func TestAggregateBuilder_MergeIsPartitionInvariant(t *testing.T) {
	key := AggregateKey{Mode: "SSB", Band: "40m", Entity: "K"}
	spots := []NormalizedSpot{
		{Activator: "W0A", Reference: "K-1", State: strPtr("CO")},
		{Activator: "K1X", Reference: "K-2"},
		{Activator: "W0A", Reference: "K-1", State: strPtr("CO")},
		{Activator: "N5ZZZ", Reference: "K-3", State: strPtr("TX")},
	}

	whole := NewAggregateBuilder(key)
	for _, s := range spots {
		whole.AddSpot(s)
	}
	wholeRow := whole.Finalize()

	// Partition into two halves, aggregate separately, then merge.
	part1 := NewAggregateBuilder(key)
	for _, s := range spots[:2] {
		part1.AddSpot(s)
	}
	part2 := NewAggregateBuilder(key)
	for _, s := range spots[2:] {
		part2.AddSpot(s)
	}
	row1 := part1.Finalize()
	row2 := part2.Finalize()

	merged := NewAggregateBuilder(key)
	merged.Merge(row1)
	merged.Merge(row2)
	mergedRow := merged.Finalize()

	assert.Equal(t, wholeRow.SpotCount, mergedRow.SpotCount)
	assert.Equal(t, wholeRow.UniqueActivators, mergedRow.UniqueActivators)
	assert.Equal(t, wholeRow.UniqueParks, mergedRow.UniqueParks)
	assert.Equal(t, wholeRow.ActivationCount, mergedRow.ActivationCount)
	assert.ElementsMatch(t, wholeRow.Activators, mergedRow.Activators)
	assert.ElementsMatch(t, wholeRow.Parks, mergedRow.Parks)
	assert.ElementsMatch(t, wholeRow.Activations, mergedRow.Activations)
	assert.ElementsMatch(t, wholeRow.StateActivators, mergedRow.StateActivators)
}

// Merging two hourly rows into a daily row sums spot counts and unions
// the set fields.
func TestAggregateBuilder_MergeHourlyIntoDaily(t *testing.T) {
	key := AggregateKey{Mode: "SSB", Band: "40m", Entity: "K"}
	hour09 := BaseAggregate{
		SpotCount:  5,
		Activators: []string{"W0A", "K1X"},
		Parks:      []string{"K-1", "K-5"},
	}
	hour10 := BaseAggregate{
		SpotCount:  3,
		Activators: []string{"W0A"},
		Parks:      []string{"K-9"},
	}

	daily := NewAggregateBuilder(key)
	daily.Merge(hour09)
	daily.Merge(hour10)
	row := daily.Finalize()

	assert.Equal(t, 8, row.SpotCount)
	assert.Equal(t, 2, row.UniqueActivators)
	assert.Equal(t, 3, row.UniqueParks)
	assert.ElementsMatch(t, []string{"W0A", "K1X"}, row.Activators)
	assert.ElementsMatch(t, []string{"K-1", "K-5", "K-9"}, row.Parks)
}
