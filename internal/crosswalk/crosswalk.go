// Package crosswalk builds the single identifier mapping used by every
// downstream join: Freebase id -> Wikidata id and display label.
//
// Resolution policy: the first row in source order wins, for any number of
// duplicate rows per key. Duplicates are never deduplicated or rewritten,
// but they are observable: the index counts duplicate keys and classifies
// the extra rows as exact duplicates (identical payload) or conflicts (same
// key, different payload) so a run summary or metric can surface them.
//
// A lookup miss is not an error; callers receive ok=false and must treat the
// unresolved columns as empty, not invalid.
package crosswalk

import (
	"strings"

	"github.com/zeebo/xxh3"

	"filmetl/internal/schema"
)

// Entry is the resolved payload for one Freebase id. Either field may be nil
// when the winning source row lacked it.
type Entry struct {
	WikidataID *string
	Label      *string
}

// Stats describes what the index saw while building. ExactDuplicateRows and
// ConflictRows partition the rows that lost to an earlier row with the same
// key.
type Stats struct {
	Rows               int // source rows consumed
	Keys               int // distinct Freebase ids indexed
	SkippedRows        int // rows with an empty Freebase id
	DuplicateKeys      int // keys that appeared more than once
	ExactDuplicateRows int // losing rows whose payload matched the winner
	ConflictRows       int // losing rows whose payload differed from the winner
}

// Index resolves Freebase ids. It is immutable after Build and safe for
// concurrent readers.
type Index struct {
	entries map[string]Entry
	fps     map[string]uint64
	stats   Stats
}

// Build constructs an Index from crosswalk rows in source order.
func Build(rows []schema.CrosswalkEntry) *Index {
	ix := &Index{
		entries: make(map[string]Entry, len(rows)),
		fps:     make(map[string]uint64, len(rows)),
	}
	dup := make(map[string]struct{})

	for _, r := range rows {
		ix.stats.Rows++
		key := strings.TrimSpace(r.FreebaseID)
		if key == "" {
			ix.stats.SkippedRows++
			continue
		}
		fp := fingerprint(r.WikidataID, r.Label)
		if winner, exists := ix.fps[key]; exists {
			// First occurrence wins; classify the loser.
			if _, seen := dup[key]; !seen {
				dup[key] = struct{}{}
				ix.stats.DuplicateKeys++
			}
			if fp == winner {
				ix.stats.ExactDuplicateRows++
			} else {
				ix.stats.ConflictRows++
			}
			continue
		}
		ix.entries[key] = Entry{WikidataID: r.WikidataID, Label: r.Label}
		ix.fps[key] = fp
		ix.stats.Keys++
	}
	return ix
}

// Resolve returns the entry for the given Freebase id. ok is false on a miss
// or an empty id.
func (ix *Index) Resolve(freebaseID string) (Entry, bool) {
	e, ok := ix.entries[strings.TrimSpace(freebaseID)]
	return e, ok
}

// WikidataID resolves just the Wikidata id, nil on a miss or when the winning
// row had none.
func (ix *Index) WikidataID(freebaseID string) *string {
	e, ok := ix.Resolve(freebaseID)
	if !ok {
		return nil
	}
	return e.WikidataID
}

// Label resolves just the display label, nil on a miss or when the winning
// row had none.
func (ix *Index) Label(freebaseID string) *string {
	e, ok := ix.Resolve(freebaseID)
	if !ok {
		return nil
	}
	return e.Label
}

// Stats returns build-time statistics.
func (ix *Index) Stats() Stats { return ix.stats }

// fingerprint hashes an entry payload for duplicate classification. Nil and
// empty values hash differently (nil -> NUL byte) so a conflicting blank
// still registers as a conflict.
func fingerprint(wikidataID, label *string) uint64 {
	var b strings.Builder
	writeField := func(v *string) {
		if v == nil {
			b.WriteByte(0x00)
			return
		}
		b.WriteString(*v)
	}
	writeField(wikidataID)
	b.WriteByte(0x1f)
	writeField(label)
	return xxh3.HashString(b.String())
}
