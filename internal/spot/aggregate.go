package spot

import "sort"

// AggregateBuilder accumulates spots or child aggregates for one composite
// key and produces the published BaseAggregate row on Finalize. Keeping
// accumulation in sets (rather than repeatedly scanning the published
// []string fields) is what lets Finalize recompute cardinalities in O(n)
// instead of O(n^2).
type AggregateBuilder struct {
	key             AggregateKey
	spotCount       int
	activators      map[string]struct{}
	parks           map[string]struct{}
	activations     map[string]struct{}
	stateActivators map[string]struct{}
}

// NewAggregateBuilder starts an empty accumulator for key.
func NewAggregateBuilder(key AggregateKey) *AggregateBuilder {
	return &AggregateBuilder{
		key:             key,
		activators:      map[string]struct{}{},
		parks:           map[string]struct{}{},
		activations:     map[string]struct{}{},
		stateActivators: map[string]struct{}{},
	}
}

// AddSpot folds one normalized spot into the running sets and spot count.
// Caller is responsible for having already deduplicated spots by SpotID
// (see internal/aggregator); AddSpot itself does not dedup.
func (b *AggregateBuilder) AddSpot(s NormalizedSpot) {
	b.spotCount++
	b.activators[s.Activator] = struct{}{}
	b.parks[s.Reference] = struct{}{}
	b.activations[s.Activator+"|"+s.Reference] = struct{}{}
	if s.State != nil && *s.State != "" {
		b.stateActivators[*s.State+"|"+s.Activator] = struct{}{}
	}
}

// Merge folds a child aggregate row into the builder: spot_count is summed,
// set-valued fields are unioned. Cardinalities are never summed from the
// child; Finalize recomputes them from the union.
func (b *AggregateBuilder) Merge(child BaseAggregate) {
	b.spotCount += child.SpotCount
	for _, v := range child.Activators {
		b.activators[v] = struct{}{}
	}
	for _, v := range child.Parks {
		b.parks[v] = struct{}{}
	}
	for _, v := range child.Activations {
		b.activations[v] = struct{}{}
	}
	for _, v := range child.StateActivators {
		b.stateActivators[v] = struct{}{}
	}
}

// SpotCount returns the running spot count (useful before Finalize, e.g.
// to skip emitting empty groups).
func (b *AggregateBuilder) SpotCount() int { return b.spotCount }

// Finalize produces the published row: set fields sorted for deterministic
// serialization (required for idempotent content hashing), cardinalities
// recomputed from the sets.
func (b *AggregateBuilder) Finalize() BaseAggregate {
	row := BaseAggregate{
		Mode:            b.key.Mode,
		Band:            b.key.Band,
		Entity:          b.key.Entity,
		SpotCount:       b.spotCount,
		Activators:      sortedKeys(b.activators),
		Parks:           sortedKeys(b.parks),
		Activations:     sortedKeys(b.activations),
		StateActivators: sortedKeys(b.stateActivators),
	}
	row.UniqueActivators = len(row.Activators)
	row.UniqueParks = len(row.Parks)
	row.ActivationCount = len(row.Activations)
	return row
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
