// Package ndjson implements the newline-delimited JSON encoding used for
// every raw and rollup object, plus the content-addressing scheme that
// makes rollup files immutable and cacheable forever.
package ndjson

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Encode serializes rows as NDJSON: one compact JSON object per line,
// newline-joined, no trailing newline. The caller must pass rows in a
// deterministic order (e.g. sorted by composite key) for the output to be
// byte-identical across runs over the same logical content, which is what
// makes content hashing idempotent.
func Encode[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	for i, row := range rows {
		if i > 0 {
			buf.WriteByte('\n')
		}
		b, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

// DecodeLines parses one JSON object per line. A line that fails to parse
// is reported via onBadLine (if non-nil) and skipped rather than failing
// the whole batch.
func DecodeLines[T any](body []byte, onBadLine func(line string, err error)) []T {
	var out []T
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var row T
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			if onBadLine != nil {
				onBadLine(line, err)
			}
			continue
		}
		out = append(out, row)
	}
	return out
}

// ContentHash returns the first 8 hex characters of the SHA-256 digest of
// body. Different content always yields a different hash, modulo collision
// odds of roughly 2^-32.
func ContentHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])[:8]
}

// AddHashToFilename inserts "-<hash>" before the final "." in path, or
// appends "-<hash>" if path has no dot.
func AddHashToFilename(path, hash string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return path + "-" + hash
	}
	return path[:idx] + "-" + hash + path[idx:]
}
