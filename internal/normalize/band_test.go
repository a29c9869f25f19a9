package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBand_TableBoundariesAndMidpoints(t *testing.T) {
	for _, r := range bandTable {
		mid := (r.minMHz + r.maxMHz) / 2
		assert.Equal(t, r.band, ClassifyBand(r.minMHz*1000), "min boundary for %s", r.band)
		assert.Equal(t, r.band, ClassifyBand(r.maxMHz*1000), "max boundary for %s", r.band)
		assert.Equal(t, r.band, ClassifyBand(mid*1000), "midpoint for %s", r.band)
	}
}

func TestClassifyBand_OutsideAllRanges(t *testing.T) {
	assert.Equal(t, "other", ClassifyBand(0))
	assert.Equal(t, "other", ClassifyBand(1))
	assert.Equal(t, "other", ClassifyBand(2500)) // between 160m and 80m
	assert.Equal(t, "other", ClassifyBand(1_000_000))
}

func TestClassifyBand_NaNAndNegative(t *testing.T) {
	assert.Equal(t, "other", ClassifyBand(math.NaN()))
	assert.Equal(t, "other", ClassifyBand(-7100))
}

func TestClassifyBand_20mLowerEdge(t *testing.T) {
	assert.Equal(t, "20m", ClassifyBand(14000))
	assert.Equal(t, "20m", ClassifyBand(14001))
	assert.Equal(t, "other", ClassifyBand(13999))
}
