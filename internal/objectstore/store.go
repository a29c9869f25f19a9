// Package objectstore defines the object-store contract the pipeline is
// written against (list-by-prefix, get, put-with-metadata) and its
// implementations: S3-compatible storage for production, a
// filesystem-backed store for local development, and an in-memory store
// for tests.
package objectstore

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one entry returned by List.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Object is the result of Get: a handle over the body plus the metadata
// written alongside it.
type Object struct {
	body            io.ReadCloser
	ContentType     string
	CacheControl    string
	CustomMetadata  map[string]string
}

// Text reads the full body and returns it as a string. It closes the
// underlying reader.
func (o *Object) Text() (string, error) {
	defer o.body.Close()
	b, err := io.ReadAll(o.body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Bytes reads the full body. It closes the underlying reader.
func (o *Object) Bytes() ([]byte, error) {
	defer o.body.Close()
	return io.ReadAll(o.body)
}

// PutOptions carries the metadata a writer attaches to an object.
type PutOptions struct {
	ContentType    string
	CacheControl   string
	CustomMetadata map[string]string
}

// Store is the object-store contract every pipeline stage is written
// against. Implementations: S3Store (production), LocalStore (dev/test on
// disk), MemStore (unit tests).
type Store interface {
	// List returns all objects whose key starts with prefix, in
	// lexicographic order by key.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Get retrieves one object. Returns (nil, nil) if the key does not
	// exist; callers distinguish "missing" from "error" by checking for
	// a nil Object with a nil error.
	Get(ctx context.Context, key string) (*Object, error)

	// Put writes (or overwrites) one object with the given metadata.
	Put(ctx context.Context, key string, body []byte, opts PutOptions) error
}

// Cache-control policies. Content-addressed objects never change, so they
// cache for a year; the manifest and summaries are overwritten in place
// and must stay short-lived or consumers see stale data.
const (
	CacheImmutable = "public, max-age=31536000, immutable"
	CacheManifest  = "public, max-age=60"
	CacheSummary   = "public, max-age=300"
)

const NDJSONContentType = "application/x-ndjson"
const JSONContentType = "application/json"
