package wallet

import "sync"

// Selection is the set of record ids the owner picked for the overlay.
// Ids keep the order in which they were first selected.
type Selection struct {
	mu    sync.RWMutex
	order []string
	set   map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{set: make(map[string]struct{})}
}

// Toggle adds id if absent and removes it otherwise. It returns the new
// membership of id.
func (s *Selection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.set[id]; ok {
		delete(s.set, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}

	s.set[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *Selection) Clear() {
	s.mu.Lock()
	s.order = nil
	s.set = make(map[string]struct{})
	s.mu.Unlock()
}

func (s *Selection) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.set)
}

func (s *Selection) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.set[id]
	return ok
}

func (s *Selection) IsEmpty() bool {
	return s.Count() == 0
}

// IDs returns a copy of the selected ids in selection order
func (s *Selection) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}
