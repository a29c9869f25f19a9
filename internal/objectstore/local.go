package objectstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Compile-time interface check.
var _ Store = (*LocalStore)(nil)

// LocalStore implements Store on the local filesystem, for development and
// integration tests that want real file-system semantics without S3
// credentials. Metadata is stored alongside each object in a sidecar
// "<key>.meta.sidecar.json" file since the filesystem has no custom-metadata
// concept of its own.
type LocalStore struct {
	rootDir string
}

// NewLocalStore creates a filesystem-backed object store rooted at rootDir.
func NewLocalStore(rootDir string) *LocalStore {
	return &LocalStore{rootDir: rootDir}
}

type localMeta struct {
	ContentType    string            `json:"content_type"`
	CacheControl   string            `json:"cache_control"`
	CustomMetadata map[string]string `json:"custom_metadata"`
}

// safePath resolves key to an absolute path under rootDir, rejecting path
// traversal.
func (s *LocalStore) safePath(key string) (string, error) {
	full := filepath.Join(s.rootDir, filepath.FromSlash(key))
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	base, err := filepath.Abs(s.rootDir)
	if err != nil {
		return "", fmt.Errorf("invalid base: %w", err)
	}
	if !strings.HasPrefix(abs, base+string(filepath.Separator)) && abs != base {
		return "", fmt.Errorf("path traversal rejected: %q", key)
	}
	return abs, nil
}

func (s *LocalStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	base, err := filepath.Abs(s.rootDir)
	if err != nil {
		return nil, err
	}

	var out []ObjectInfo
	err = filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasSuffix(key, ".meta.sidecar.json") {
			return nil
		}
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, ObjectInfo{Key: key, Size: info.Size(), LastModified: info.ModTime()})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *LocalStore) metaPath(key string) string { return key + ".meta.sidecar.json" }

func (s *LocalStore) Get(_ context.Context, key string) (*Object, error) {
	path, err := s.safePath(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %q: %w", key, err)
	}

	obj := &Object{body: f}
	if metaPath, err := s.safePath(s.metaPath(key)); err == nil {
		if mb, err := os.ReadFile(metaPath); err == nil {
			var m localMeta
			if json.Unmarshal(mb, &m) == nil {
				obj.ContentType = m.ContentType
				obj.CacheControl = m.CacheControl
				obj.CustomMetadata = m.CustomMetadata
			}
		}
	}
	return obj, nil
}

func (s *LocalStore) Put(_ context.Context, key string, body []byte, opts PutOptions) error {
	path, err := s.safePath(key)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, body); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}

	metaPath, err := s.safePath(s.metaPath(key))
	if err != nil {
		return err
	}
	mb, err := json.Marshal(localMeta{
		ContentType:    opts.ContentType,
		CacheControl:   opts.CacheControl,
		CustomMetadata: opts.CustomMetadata,
	})
	if err != nil {
		return err
	}
	return writeAtomic(metaPath, mb)
}

// writeAtomic writes data to path via temp-file-then-rename so readers never
// observe a partially written object.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".obj-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
