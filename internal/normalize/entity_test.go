package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntity(t *testing.T) {
	assert.Equal(t, "K", ExtractEntity("K-1234"))
	assert.Equal(t, "US", ExtractEntity("US-PA-1234"))
	assert.Equal(t, "unknown", ExtractEntity(""))
	assert.Equal(t, "unknown", ExtractEntity("-1234"))
	assert.Equal(t, "VE", ExtractEntity("VE-0001"))
}
