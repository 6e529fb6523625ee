// Package index maintains the in-memory queryable record collection: one
// owned, insertion-ordered sequence plus hashed lookup maps keyed by vendor
// and by transaction month. The maps hold record ids, never copies, so the
// structures cannot drift apart.
package index

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"spendscope/internal/common"
	"spendscope/internal/entity"
)

type monthKey struct {
	Year  int
	Month time.Month
}

// Index is the one shared mutable structure of the engine. Mutations are
// serialized under a single writer; readers operate on materialized
// snapshots taken under a brief read lock.
type Index struct {
	mu       sync.RWMutex
	records  []entity.CanonicalRecord
	byID     map[uuid.UUID]int // position in records
	byVendor map[string][]uuid.UUID
	byMonth  map[monthKey][]uuid.UUID
}

func New() *Index {
	return &Index{
		byID:     make(map[uuid.UUID]int),
		byVendor: make(map[string][]uuid.UUID),
		byMonth:  make(map[monthKey][]uuid.UUID),
	}
}

// Insert adds a record. A duplicate id is ErrDuplicateRecord, never a silent
// overwrite; callers that mean to overwrite must use Replace.
func (ix *Index) Insert(r entity.CanonicalRecord) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if _, exists := ix.byID[r.ID]; exists {
		return common.WrapError(common.ErrDuplicateRecord, "insert "+r.ID.String())
	}
	ix.records = append(ix.records, r)
	ix.byID[r.ID] = len(ix.records) - 1
	ix.addToMaps(r)
	return nil
}

// Remove deletes the record with the given id from every structure.
func (ix *Index) Remove(id uuid.UUID) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	pos, exists := ix.byID[id]
	if !exists {
		return common.WrapError(common.ErrNotFound, "remove "+id.String())
	}
	ix.removeFromMaps(ix.records[pos])
	ix.records = append(ix.records[:pos], ix.records[pos+1:]...)
	delete(ix.byID, id)
	for i := pos; i < len(ix.records); i++ {
		ix.byID[ix.records[i].ID] = i
	}
	return nil
}

// Replace swaps the record stored under id for r, keeping the original
// position in the insertion order. r's id is forced to id, so correction by
// replace can never fork a record's identity.
func (ix *Index) Replace(id uuid.UUID, r entity.CanonicalRecord) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	pos, exists := ix.byID[id]
	if !exists {
		return common.WrapError(common.ErrNotFound, "replace "+id.String())
	}
	r.ID = id
	old := ix.records[pos]
	ix.removeFromMaps(old)
	ix.records[pos] = r
	ix.addToMaps(r)
	return nil
}

// Get returns the record with the given id.
func (ix *Index) Get(id uuid.UUID) (entity.CanonicalRecord, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	pos, exists := ix.byID[id]
	if !exists {
		return entity.CanonicalRecord{}, false
	}
	return ix.records[pos], true
}

// All returns a snapshot of every record in insertion order. The copy is the
// caller's to keep; concurrent mutation cannot affect it.
func (ix *Index) All() []entity.CanonicalRecord {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]entity.CanonicalRecord, len(ix.records))
	copy(out, ix.records)
	return out
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.records)
}

// VendorExact returns the records whose vendor equals name
// (case-insensitive), in insertion order. O(1) average via the vendor map.
func (ix *Index) VendorExact(name string) []entity.CanonicalRecord {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.materialize(ix.byVendor[strings.ToLower(name)])
}

// MonthRange returns the records whose transaction date falls inside
// [from, to] (inclusive, date-only), narrowed through the month map before
// the per-day predicate runs. Results come back in insertion order.
func (ix *Index) MonthRange(from, to time.Time) []entity.CanonicalRecord {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	from = entity.DateOnly(from)
	to = entity.DateOnly(to)
	var ids []uuid.UUID
	for cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC); !cursor.After(to); cursor = cursor.AddDate(0, 1, 0) {
		ids = append(ids, ix.byMonth[monthKey{cursor.Year(), cursor.Month()}]...)
	}
	records := ix.materialize(ids)

	out := records[:0]
	for _, r := range records {
		if r.TxDate.Before(from) || r.TxDate.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// materialize resolves ids to record copies sorted by insertion position.
// Callers must hold at least a read lock.
func (ix *Index) materialize(ids []uuid.UUID) []entity.CanonicalRecord {
	positions := make([]int, 0, len(ids))
	for _, id := range ids {
		if pos, ok := ix.byID[id]; ok {
			positions = append(positions, pos)
		}
	}
	sort.Ints(positions)
	out := make([]entity.CanonicalRecord, 0, len(positions))
	for _, pos := range positions {
		out = append(out, ix.records[pos])
	}
	return out
}

func (ix *Index) addToMaps(r entity.CanonicalRecord) {
	vendor := strings.ToLower(r.Vendor)
	ix.byVendor[vendor] = append(ix.byVendor[vendor], r.ID)
	mk := monthKey{r.TxDate.Year(), r.TxDate.Month()}
	ix.byMonth[mk] = append(ix.byMonth[mk], r.ID)
}

func (ix *Index) removeFromMaps(r entity.CanonicalRecord) {
	vendor := strings.ToLower(r.Vendor)
	ix.byVendor[vendor] = removeID(ix.byVendor[vendor], r.ID)
	if len(ix.byVendor[vendor]) == 0 {
		delete(ix.byVendor, vendor)
	}
	mk := monthKey{r.TxDate.Year(), r.TxDate.Month()}
	ix.byMonth[mk] = removeID(ix.byMonth[mk], r.ID)
	if len(ix.byMonth[mk]) == 0 {
		delete(ix.byMonth, mk)
	}
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
