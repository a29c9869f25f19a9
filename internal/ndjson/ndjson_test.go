package ndjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	A int    `json:"a"`
	B string `json:"b"`
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rows := []row{{A: 1, B: "x"}, {A: 2, B: "y"}}
	body, err := Encode(rows)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1,\"b\":\"x\"}\n{\"a\":2,\"b\":\"y\"}", string(body))

	var badLines []string
	out := DecodeLines[row](body, func(line string, err error) {
		badLines = append(badLines, line)
	})
	assert.Equal(t, rows, out)
	assert.Empty(t, badLines)
}

func TestDecodeLinesSkipsMalformed(t *testing.T) {
	body := []byte("{\"a\":1,\"b\":\"x\"}\nnot json\n{\"a\":2,\"b\":\"y\"}\n")
	var bad []string
	out := DecodeLines[row](body, func(line string, err error) {
		bad = append(bad, line)
	})
	assert.Len(t, out, 2)
	assert.Equal(t, []string{"not json"}, bad)
}

func TestContentHashDeterministicAndSensitive(t *testing.T) {
	h1 := ContentHash([]byte("hello"))
	h2 := ContentHash([]byte("hello"))
	h3 := ContentHash([]byte("hello!"))
	assert.Len(t, h1, 8)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestAddHashToFilename(t *testing.T) {
	assert.Equal(t,
		"hourly/2025/12/27/20-abc12345.ndjson",
		AddHashToFilename("hourly/2025/12/27/20.ndjson", "abc12345"))
	assert.Equal(t, "somefile-abc12345", AddHashToFilename("somefile", "abc12345"))
}
