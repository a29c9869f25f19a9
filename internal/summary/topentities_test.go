package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPair(t *testing.T) {
	first, second, ok := splitPair("W1AW|K-1001")
	assert.True(t, ok)
	assert.Equal(t, "W1AW", first)
	assert.Equal(t, "K-1001", second)

	_, _, ok = splitPair("no-separator")
	assert.False(t, ok)
}

func TestRankEntities_SortsAndTruncates(t *testing.T) {
	sets := map[string]map[string]struct{}{
		"K-1001": {"W1AW": {}, "K2ABC": {}},
		"K-1002": {"W1AW": {}},
		"K-1003": {"W1AW": {}, "K2ABC": {}, "VE3XYZ": {}},
	}

	ranked := rankEntities(sets, 2)
	assert.Len(t, ranked, 2)
	assert.Equal(t, "K-1003", ranked[0].Name)
	assert.Equal(t, 3, ranked[0].UniqueActivators)
	assert.Equal(t, "K-1001", ranked[1].Name)
}
