package summary

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/spot"
)

const (
	topEntitiesWindowDays = 14
	topEntitiesCount      = 10
)

// entityRank is one row of top_entities.json's top_parks/top_states lists.
type entityRank struct {
	Name             string `json:"name"`
	UniqueActivators int    `json:"unique_activators"`
}

// topEntitiesSummary is top_entities.json.
type topEntitiesSummary struct {
	GeneratedAt time.Time    `json:"generated_at"`
	TopParks    []entityRank `json:"top_parks"`
	TopStates   []entityRank `json:"top_states"`
}

// splitPair splits a "FIRST|SECOND" composite key as stored in
// BaseAggregate.Activations ("CALLSIGN|PARK") and StateActivators
// ("STATE|CALLSIGN").
func splitPair(s string) (first, second string, ok bool) {
	idx := strings.IndexByte(s, '|')
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

// rankEntities ranks sets by cardinality descending (ties broken by name)
// and truncates to n.
func rankEntities(sets map[string]map[string]struct{}, n int) []entityRank {
	out := make([]entityRank, 0, len(sets))
	for name, set := range sets {
		out = append(out, entityRank{Name: name, UniqueActivators: len(set)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UniqueActivators != out[j].UniqueActivators {
			return out[i].UniqueActivators > out[j].UniqueActivators
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// publishTopEntities emits top_entities.json: the top 10 parks and top 10
// US states by unique activators over the trailing 14 days.
func (b *Builder) publishTopEntities(ctx context.Context, m spot.Manifest, now time.Time) error {
	cutoff := bucketpath.DayTimestamp(now.AddDate(0, 0, -topEntitiesWindowDays))

	var paths []string
	for _, e := range m.Daily {
		if e.Day >= cutoff {
			paths = append(paths, e.Path)
		}
	}
	rows := mergeRows(fetchRows[spot.BaseAggregate](ctx, b, paths))

	parkActivators := map[string]map[string]struct{}{}
	stateActivators := map[string]map[string]struct{}{}

	for _, r := range rows {
		for _, pair := range r.Activations {
			activator, park, ok := splitPair(pair)
			if !ok {
				continue
			}
			set, ok := parkActivators[park]
			if !ok {
				set = map[string]struct{}{}
				parkActivators[park] = set
			}
			set[activator] = struct{}{}
		}
		for _, pair := range r.StateActivators {
			state, activator, ok := splitPair(pair)
			if !ok {
				continue
			}
			set, ok := stateActivators[state]
			if !ok {
				set = map[string]struct{}{}
				stateActivators[state] = set
			}
			set[activator] = struct{}{}
		}
	}

	return b.put(ctx, "top_entities", topEntitiesSummary{
		GeneratedAt: now,
		TopParks:    rankEntities(parkActivators, topEntitiesCount),
		TopStates:   rankEntities(stateActivators, topEntitiesCount),
	})
}
