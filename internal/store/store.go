// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the topic-partitioned record store and
// implements the merge and backfill passes.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/paperwatch/pkg/types"
)

// Topic maps canonical paper ids to records.
type Topic map[string]types.PaperRecord

// Store maps topic names to their records. It is the process's only
// durable state; exactly one pipeline run mutates it at a time.
type Store map[string]Topic

// Load reads the store from path. An absent or empty file yields an empty
// store, not an error. Both the structured format and the historical
// pre-formatted fragment format are accepted; fragments are migrated to
// structured records on load. A fragment that cannot be parsed is logged
// and preserved verbatim so later loads and renders still carry it.
func Load(path string, log io.Writer) (Store, error) {
	if log == nil {
		log = io.Discard
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading store %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Store{}, nil
	}

	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing store %s: %w", path, err)
	}

	s := make(Store, len(raw))
	for topic, entries := range raw {
		t := make(Topic, len(entries))
		for id, msg := range entries {
			rec, err := decodeRecord(id, msg)
			if err != nil {
				fmt.Fprintf(log, "store: %s/%s: %v; keeping record verbatim\n", topic, id, err)
			}
			t[id] = rec
		}
		s[topic] = t
	}
	return s, nil
}

// decodeRecord accepts either a structured record or a legacy fragment
// string. On a parse failure the returned record carries the original
// text in Raw and the error describes the failure; the record is still
// kept.
func decodeRecord(id string, msg json.RawMessage) (types.PaperRecord, error) {
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var fragment string
		if err := json.Unmarshal(trimmed, &fragment); err != nil {
			return types.PaperRecord{ID: types.CanonicalID(id), Raw: string(trimmed)}, err
		}
		rec, err := ParseFragment(fragment)
		if err != nil {
			return types.PaperRecord{ID: types.CanonicalID(id), Raw: fragment}, err
		}
		return rec, nil
	}

	var rec types.PaperRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return types.PaperRecord{ID: types.CanonicalID(id), Raw: string(trimmed)}, err
	}
	return rec, nil
}

// Save writes the full store to path, replacing the prior contents. The
// write goes through a temp file in the same directory and a rename, so a
// crashed run never leaves a truncated store behind.
func (s Store) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".store-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing store: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Merge applies a discovery batch as a per-topic right-biased union:
// incoming identifiers overwrite, existing identifiers absent from the
// batch are preserved. Merging the same batch twice is a no-op.
func (s Store) Merge(incoming map[string]Topic) {
	for topic, papers := range incoming {
		existing, ok := s[topic]
		if !ok {
			existing = make(Topic, len(papers))
			s[topic] = existing
		}
		for id, rec := range papers {
			existing[id] = rec
		}
	}
}

// ResolverFunc re-resolves a single paper, returning the code URL and
// whether one was found.
type ResolverFunc func(ctx context.Context, ref types.Ref) (string, bool)

// Backfill re-invokes the resolver for every record still marked
// unresolved, rewriting only the code link on success. Resolved records
// and unparseable legacy records are left untouched, so backfilling a
// fully resolved store performs zero resolver calls. Returns the number
// of newly resolved links.
func (s Store) Backfill(ctx context.Context, resolver ResolverFunc, log io.Writer) int {
	if log == nil {
		log = io.Discard
	}

	found := 0
	for topic, papers := range s {
		for id, rec := range papers {
			if rec.Raw != "" || rec.Resolved() {
				continue
			}

			ref := types.Ref{ID: rec.ID, Title: rec.Title, FirstAuthor: rec.FirstAuthor}
			if ref.ID == "" {
				ref.ID = types.CanonicalID(id)
			}

			fmt.Fprintf(log, "backfill: %s/%s: searching for a code link\n", topic, id)
			url, ok := resolver(ctx, ref)
			if !ok {
				continue
			}

			rec.CodeURL = &url
			papers[id] = rec
			found++
			fmt.Fprintf(log, "backfill: %s/%s: found %s\n", topic, id, url)
		}
	}
	return found
}
