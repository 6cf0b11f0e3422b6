// Package searchcache implements the session-scoped cache of search
// results that drives unit-by-unit navigation. Each entry freezes the
// ordered unit ids matched by one search; offsets are positional
// indices into that snapshot, so concurrent edits elsewhere are not
// reflected until a new search runs.
package searchcache

import (
	"time"

	"github.com/google/uuid"
)

// KeyPrefix namespaces search entries inside the session data, matching
// the `search_<uuid>` storage key format.
const KeyPrefix = "search_"

// DefaultTTL is how long a cached search stays navigable.
const DefaultTTL = 24 * time.Hour

// Entry is one frozen search result set.
type Entry struct {
	ID uuid.UUID `json:"id"`
	// Params is the raw query string that produced the search, kept so
	// the search form can be re-rendered with its original values.
	Params string `json:"params"`
	// Query is the user's search query text, empty for filter-only searches.
	Query string `json:"query"`
	// Name is the cached display name, e.g. "All strings".
	Name string `json:"name"`
	// UnitIDs is the frozen ordered snapshot of matching unit ids.
	// It must never be re-sorted or filtered after creation.
	UnitIDs []uuid.UUID `json:"unit_ids"`
	// TTL is the unix timestamp after which the entry is swept.
	TTL int64 `json:"ttl"`
	// Offset is the last known position within UnitIDs.
	Offset int `json:"offset"`
}

// NewEntry creates a cache entry with a fresh collision-resistant id
// and expiry DefaultTTL from now.
func NewEntry(params, query, name string, unitIDs []uuid.UUID) Entry {
	return Entry{
		ID:      uuid.New(),
		Params:  params,
		Query:   query,
		Name:    name,
		UnitIDs: unitIDs,
		TTL:     time.Now().Add(DefaultTTL).Unix(),
	}
}

// Key returns the session storage key for the entry.
func (e Entry) Key() string {
	return KeyPrefix + e.ID.String()
}

// Expired reports whether the entry's TTL has elapsed.
func (e Entry) Expired(now time.Time) bool {
	return e.TTL < now.Unix()
}

// InRange reports whether offset is a valid position in the snapshot.
func (e Entry) InRange(offset int) bool {
	return offset >= 0 && offset < len(e.UnitIDs)
}

// UnitAt returns the unit id at offset. Callers must check InRange first.
func (e Entry) UnitAt(offset int) uuid.UUID {
	return e.UnitIDs[offset]
}

// Window returns up to count unit ids starting at offset, for batch
// editing. An out-of-range offset yields an empty window.
func (e Entry) Window(offset, count int) []uuid.UUID {
	if offset < 0 || offset >= len(e.UnitIDs) {
		return nil
	}
	end := offset + count
	if end > len(e.UnitIDs) {
		end = len(e.UnitIDs)
	}
	return e.UnitIDs[offset:end]
}

// LastSection reports whether a window of the given size starting at
// offset reaches the end of the snapshot.
func (e Entry) LastSection(offset, count int) bool {
	return offset+count >= len(e.UnitIDs)
}

// Bag is the collection of search entries stored in one session.
type Bag map[string]Entry

// Get looks up an entry by its search id (the uuid part, without the
// key prefix).
func (b Bag) Get(sid string) (Entry, bool) {
	entry, ok := b[KeyPrefix+sid]
	return entry, ok
}

// Put stores the entry under its storage key.
func (b Bag) Put(entry Entry) {
	b[entry.Key()] = entry
}

// Delete removes the entry for the search id.
func (b Bag) Delete(sid string) {
	delete(b, KeyPrefix+sid)
}

// Sweep lazily purges expired entries and returns how many were
// removed. It runs on every cache resolution; there is no background
// expiry process.
func (b Bag) Sweep(now time.Time) int {
	removed := 0
	for key, entry := range b {
		if entry.Expired(now) {
			delete(b, key)
			removed++
		}
	}
	return removed
}
