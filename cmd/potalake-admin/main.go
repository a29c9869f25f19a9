// Command potalake-admin is a one-off maintenance CLI against the same
// object store potalake runs against: manifest inspection and a
// read-only scan for content-addressed rollup objects the manifest no
// longer references.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/config"
	"github.com/n7qsk/potalake/internal/objectstore"
	"github.com/n7qsk/potalake/internal/spot"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load(config.Overrides{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	store, err := newStore(context.Background(), cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize object store: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	group, sub := os.Args[1], os.Args[2]

	switch {
	case group == "manifest" && sub == "show":
		err = manifestShow(ctx, store)
	case group == "manifest" && sub == "verify":
		err = manifestVerify(ctx, store)
	case group == "orphans" && sub == "scan":
		err = orphansScan(ctx, store)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: potalake-admin <manifest show|manifest verify|orphans scan>")
}

// newStore mirrors cmd/potalake's backend selection so the admin tool
// always points at the same bucket the pipeline runs against.
func newStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (objectstore.Store, error) {
	switch cfg.ObjectStoreBackend {
	case "s3":
		return objectstore.NewS3Store(ctx, objectstore.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}, log.With().Str("component", "objectstore").Logger())
	default:
		return objectstore.NewLocalStore(cfg.LocalStoreDir), nil
	}
}

func loadManifest(ctx context.Context, store objectstore.Store) (spot.Manifest, error) {
	obj, err := store.Get(ctx, bucketpath.ManifestKey)
	if err != nil {
		return spot.Manifest{}, err
	}
	if obj == nil {
		return spot.Manifest{}, nil
	}
	body, err := obj.Bytes()
	if err != nil {
		return spot.Manifest{}, err
	}
	var m spot.Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return spot.Manifest{}, err
	}
	return m, nil
}

// manifestShow pretty-prints the current manifest's three lists.
func manifestShow(ctx context.Context, store objectstore.Store) error {
	m, err := loadManifest(ctx, store)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	fmt.Printf("updated_at: %s\n", m.UpdatedAt.Format("2006-01-02T15:04:05Z"))
	printEntries("hourly", m.Hourly)
	printEntries("daily", m.Daily)
	printEntries("monthly", m.Monthly)
	return nil
}

func printEntries(level string, entries []spot.ManifestEntry) {
	fmt.Printf("%s (%d entries):\n", level, len(entries))
	for _, e := range entries {
		fmt.Printf("  %-24s %-48s spots=%-8d activations=%d\n", e.Timestamp(), e.Path, e.TotalSpots, e.TotalActivations)
	}
}

// manifestVerify checks that every path the manifest references actually
// exists in the store: a manifest entry must never dangle.
func manifestVerify(ctx context.Context, store objectstore.Store) error {
	m, err := loadManifest(ctx, store)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	var missing []string
	checkAll := func(level string, entries []spot.ManifestEntry) error {
		for _, e := range entries {
			obj, err := store.Get(ctx, e.Path)
			if err != nil {
				return fmt.Errorf("get %s: %w", e.Path, err)
			}
			if obj == nil {
				missing = append(missing, fmt.Sprintf("%s %s -> %s", level, e.Timestamp(), e.Path))
			}
		}
		return nil
	}

	if err := checkAll("hourly", m.Hourly); err != nil {
		return err
	}
	if err := checkAll("daily", m.Daily); err != nil {
		return err
	}
	if err := checkAll("monthly", m.Monthly); err != nil {
		return err
	}

	if len(missing) == 0 {
		fmt.Println("ok: every manifest entry resolves to an existing object")
		return nil
	}
	fmt.Printf("found %d dangling manifest entries:\n", len(missing))
	for _, line := range missing {
		fmt.Println("  " + line)
	}
	return fmt.Errorf("%d dangling manifest entries", len(missing))
}

// orphansScan lists content-addressed rollup objects under hourly/, daily/,
// and monthly/ that no manifest entry references. It only lists; deletion
// is a separate, explicitly operator-driven step.
func orphansScan(ctx context.Context, store objectstore.Store) error {
	m, err := loadManifest(ctx, store)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	referenced := map[string]struct{}{}
	for _, e := range m.Hourly {
		referenced[e.Path] = struct{}{}
	}
	for _, e := range m.Daily {
		referenced[e.Path] = struct{}{}
	}
	for _, e := range m.Monthly {
		referenced[e.Path] = struct{}{}
	}

	total := 0
	for _, prefix := range []string{"hourly/", "daily/", "monthly/"} {
		infos, err := store.List(ctx, prefix)
		if err != nil {
			return fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, info := range infos {
			if !strings.HasSuffix(info.Key, ".ndjson") {
				continue // sidecar *.meta.json files are never manifest-referenced
			}
			if _, ok := referenced[info.Key]; ok {
				continue
			}
			fmt.Printf("orphan  %-52s size=%d\n", info.Key, info.Size)
			total++
		}
	}
	fmt.Printf("%d orphaned object(s)\n", total)
	return nil
}
