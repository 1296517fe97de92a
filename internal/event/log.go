package event

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/coder/quartz"
)

// Store persists events. Implementations must be append-only: events are
// never mutated or deleted once written.
type Store interface {
	Append(events ...Event) error
	Events(gameID string) ([]Event, error)
}

// Sink receives events as they are appended, for broadcast or projection.
// Injected explicitly; the log owns no global emitter.
type Sink interface {
	Emit(Event)
}

// Log assigns sequence numbers and appends events to a store. Sequence
// numbers are monotonic and gapless per (game, hand), starting at 1.
type Log struct {
	mu    sync.Mutex
	store Store
	clock quartz.Clock
	sinks []Sink
	next  map[seqKey]int
}

type seqKey struct {
	gameID string
	hand   int
}

// NewLog creates a log over a store. The clock stamps createdAt.
func NewLog(store Store, clock quartz.Clock) *Log {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Log{
		store: store,
		clock: clock,
		next:  make(map[seqKey]int),
	}
}

// Subscribe registers a sink for every subsequently appended event
func (l *Log) Subscribe(sink Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, sink)
}

// Append assigns sequence numbers and timestamps to the events, persists
// them, and emits them to subscribers. Returns the stored events.
func (l *Log) Append(events ...Event) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Sequence numbers are assigned into a local map first so a store
	// failure leaves the shared counters untouched.
	assigned := make(map[seqKey]int)
	stored := make([]Event, len(events))
	for i, e := range events {
		key := seqKey{e.GameID, e.HandNumber}
		seq, ok := assigned[key]
		if !ok {
			var err error
			seq, err = l.nextSequence(e.GameID, e.HandNumber)
			if err != nil {
				return nil, err
			}
		}
		e.SequenceNumber = seq
		assigned[key] = seq + 1
		if e.CreatedAt.IsZero() {
			e.CreatedAt = l.clock.Now()
		}
		stored[i] = e
	}

	if err := l.store.Append(stored...); err != nil {
		return nil, fmt.Errorf("append events: %w", err)
	}
	for key, next := range assigned {
		l.next[key] = next
	}

	for _, sink := range l.sinks {
		for _, e := range stored {
			sink.Emit(e)
		}
	}
	return stored, nil
}

// Events returns a game's events ordered by (handNumber, sequenceNumber)
func (l *Log) Events(gameID string) ([]Event, error) {
	events, err := l.store.Events(gameID)
	if err != nil {
		return nil, err
	}
	SortEvents(events)
	return events, nil
}

// nextSequence returns the next sequence number for a (game, hand),
// recovering from the store on first touch.
func (l *Log) nextSequence(gameID string, hand int) (int, error) {
	key := seqKey{gameID, hand}
	if next, ok := l.next[key]; ok {
		return next, nil
	}

	events, err := l.store.Events(gameID)
	if err != nil {
		return 0, fmt.Errorf("recover sequence for game %s: %w", gameID, err)
	}
	next := 1
	for _, e := range events {
		if e.HandNumber == hand && e.SequenceNumber >= next {
			next = e.SequenceNumber + 1
		}
	}
	l.next[key] = next
	return next, nil
}

// SortEvents orders events by (handNumber, sequenceNumber), the fold order
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].HandNumber != events[j].HandNumber {
			return events[i].HandNumber < events[j].HandNumber
		}
		return events[i].SequenceNumber < events[j].SequenceNumber
	})
}

// MemoryStore is an in-memory append-only store
type MemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string][]Event)}
}

// Append stores events, keeping them immutable once written
func (s *MemoryStore) Append(events ...Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		s.events[e.GameID] = append(s.events[e.GameID], e)
	}
	return nil
}

// Events returns a copy of a game's events in append order
func (s *MemoryStore) Events(gameID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events[gameID]))
	copy(events, s.events[gameID])
	return events, nil
}

// LoadFile reads an event log from a JSON file, sorted into fold order
func LoadFile(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse event log: %w", err)
	}
	SortEvents(events)
	return events, nil
}

// SaveFile writes an event log to a JSON file
func SaveFile(path string, events []Event) error {
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encode event log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write event log: %w", err)
	}
	return nil
}
