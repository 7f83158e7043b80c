package ledger

import (
	"iter"
	"slices"
	"sync"
	"time"
)

// Filter narrows a Log query. Zero fields match everything; From is inclusive and To exclusive.
type Filter struct {
	Category Category
	Status   Status
	From     time.Time
	To       time.Time
}

func (f Filter) matches(e Entry) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && e.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !e.Timestamp.Before(f.To) {
		return false
	}
	return true
}

// Log is an append-only history of ledger entries in commit order.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]int
	byRef   map[string]int
}

func NewLog() *Log {
	return &Log{
		byID:  make(map[string]int),
		byRef: make(map[string]int),
	}
}

// add is reachable only through Ledger.commit, so every entry has a matching ledger operation.
func (l *Log) add(entry Entry) error {
	if entry.ID == "" {
		return ErrMissingID
	}
	if !entry.Category.Valid() {
		return ErrUnknownCategory
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.byID[entry.ID]; exists {
		return ErrDuplicateEntry
	}
	ref := entry.Reference()
	if ref != "" {
		if _, exists := l.byRef[ref]; exists {
			return ErrReferenceConflict
		}
	}
	if n := len(l.entries); n > 0 && entry.Timestamp.Before(l.entries[n-1].Timestamp) {
		return ErrOutOfOrder
	}
	idx := len(l.entries)
	l.entries = append(l.entries, entry.clone())
	l.byID[entry.ID] = idx
	if ref != "" {
		l.byRef[ref] = idx
	}
	return nil
}

// Query yields matching entries most recent first. Each range over the returned
// sequence reads the log afresh, so entries appended in between are included.
func (l *Log) Query(filter Filter) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		l.mu.RLock()
		i := len(l.entries) - 1
		l.mu.RUnlock()
		for ; i >= 0; i-- {
			l.mu.RLock()
			entry := l.entries[i]
			l.mu.RUnlock()
			if !filter.matches(entry) {
				continue
			}
			if !yield(entry.clone()) {
				return
			}
		}
	}
}

func (l *Log) List(filter Filter, limit int) []Entry {
	out := make([]Entry, 0)
	for entry := range l.Query(filter) {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, entry)
	}
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Log) Get(id string) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.byID[id]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return l.entries[idx].clone(), nil
}

func (l *Log) FindByReference(ref string) (Entry, bool) {
	if ref == "" {
		return Entry{}, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.byRef[ref]
	if !ok {
		return Entry{}, false
	}
	return l.entries[idx].clone(), true
}

// Last returns the timestamp of the most recent entry.
func (l *Log) Last() (time.Time, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return time.Time{}, false
	}
	return l.entries[len(l.entries)-1].Timestamp, true
}

// transition moves a pending entry to a terminal status. It is the only mutation of a stored entry.
func (l *Log) transition(id string, to Status) (Entry, error) {
	if to != StatusCompleted && to != StatusFailed {
		return Entry{}, ErrInvalidTransition
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, ok := l.byID[id]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	if l.entries[idx].Status != StatusPending {
		return Entry{}, ErrInvalidTransition
	}
	l.entries[idx].Status = to
	return l.entries[idx].clone(), nil
}

// Collect materializes a query.
func Collect(seq iter.Seq[Entry]) []Entry {
	return slices.Collect(seq)
}
