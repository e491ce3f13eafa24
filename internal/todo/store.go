// Package todo owns the in-memory todo list for one application session.
package todo

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/persist"
)

// Store is the authoritative list. Mutations apply to memory immediately and
// queue a full snapshot on the writer; a failed write never rolls memory back.
//
// Construct one per session and hand it to the UI.
type Store struct {
	mu     sync.Mutex
	items  model.List
	nextID int

	writer *persist.Writer
	logger zerolog.Logger
}

// New returns an empty store that persists through w.
func New(w *persist.Writer, logger zerolog.Logger) *Store {
	return &Store{
		items:  model.List{},
		nextID: 1,
		writer: w,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// Load replaces the in-memory list with the stored snapshot and returns it.
// Absent or unreadable storage yields an empty list. Duplicate ids from older
// snapshots are renumbered so ids stay unique.
func (s *Store) Load(ctx context.Context) model.List {
	list, ok := s.writer.Adapter().Read(ctx)
	if !ok {
		list = model.List{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := list.MaxID() + 1
	seen := make(map[int]bool, len(list))
	for i := range list {
		if list[i].ID <= 0 || seen[list[i].ID] {
			s.logger.Warn().Int("id", list[i].ID).Int("new_id", next).Msg("renumbering duplicate id")
			list[i].ID = next
			next++
		}
		seen[list[i].ID] = true
	}
	s.items = list
	s.nextID = next
	s.logger.Debug().Int("items", len(list)).Msg("loaded todos")
	return s.items.Clone()
}

// Add appends a new item and returns it. Text is trimmed; empty or
// whitespace-only text is a no-op and returns false.
func (s *Store) Add(text string) (model.Item, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Item{}, false
	}

	s.mu.Lock()
	it := model.Item{ID: s.nextID, Text: text}
	s.nextID++
	s.items = append(s.items, it)
	snap := s.items.Clone()
	s.mu.Unlock()

	s.writer.Enqueue(snap)
	return it, true
}

// Toggle flips Complete on the matching item. The snapshot is persisted
// whether or not id matched.
func (s *Store) Toggle(id int) (model.Item, bool) {
	s.mu.Lock()
	var (
		it    model.Item
		found bool
	)
	if i := s.items.Index(id); i >= 0 {
		s.items[i].Complete = !s.items[i].Complete
		it, found = s.items[i], true
	}
	snap := s.items.Clone()
	s.mu.Unlock()

	s.writer.Enqueue(snap)
	return it, found
}

// Delete removes the matching item. The snapshot is persisted whether or not
// id matched.
func (s *Store) Delete(id int) (model.Item, bool) {
	s.mu.Lock()
	var (
		it    model.Item
		found bool
	)
	if i := s.items.Index(id); i >= 0 {
		it, found = s.items[i], true
		next := make(model.List, 0, len(s.items)-1)
		next = append(next, s.items[:i]...)
		s.items = append(next, s.items[i+1:]...)
	}
	snap := s.items.Clone()
	s.mu.Unlock()

	s.writer.Enqueue(snap)
	return it, found
}

// Clear empties the list and deletes the stored snapshot. Ids restart at 1.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = model.List{}
	s.nextID = 1
	s.mu.Unlock()

	s.writer.EnqueuePurge()
}

// List returns a copy of the current items in insertion order.
func (s *Store) List() model.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

// Get looks up an item by id.
func (s *Store) Get(id int) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.items.Index(id); i >= 0 {
		return s.items[i], true
	}
	return model.Item{}, false
}

// Stats counts completed and pending items.
func (s *Store) Stats() (done, pending int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Stats()
}

// Flush waits for queued writes to be attempted.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Close flushes pending writes and stops the writer.
func (s *Store) Close() error {
	return s.writer.Close()
}

// OnPersist installs a hook called after every background write attempt and
// returns the previous one.
func (s *Store) OnPersist(fn func(persist.Result)) func(persist.Result) {
	return s.writer.OnResult(fn)
}
