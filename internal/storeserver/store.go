// Package storeserver is a reference task store: one endpoint that
// dispatches on the "action" field of the posted JSON and always answers
// with the full collection.
package storeserver

import "sync"

// Item is one stored task. Complete is kept as text, the way the store
// has always echoed it.
type Item struct {
	Task     string `json:"task"`
	Complete string `json:"complete"`
}

// Store is an in-memory table keyed by task name. Items keep insertion
// order.
type Store struct {
	mu    sync.Mutex
	order []string
	items map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string]string)}
}

// Put writes the item, replacing any existing task with the same name.
func (s *Store) Put(task, complete string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(task, complete)
}

// Update sets the completion value of task. A missing task is created.
func (s *Store) Update(task, complete string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(task, complete)
}

func (s *Store) put(task, complete string) {
	if _, ok := s.items[task]; !ok {
		s.order = append(s.order, task)
	}
	s.items[task] = complete
}

// Delete removes task. Deleting a missing task is not an error.
func (s *Store) Delete(task string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[task]; !ok {
		return
	}
	delete(s.items, task)
	for i, name := range s.order {
		if name == task {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Items returns a copy of the collection in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Item{Task: name, Complete: s.items[name]})
	}
	return out
}

// Len returns the number of stored tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
