package eventsource

import (
	"sync"
	"time"

	"seelencore/internal/winhandle"
)

// skipTTL is how long an unused skip request remains valid (§4.1).
const skipTTL = 500 * time.Millisecond

type skipKey struct {
	kind   Kind
	handle winhandle.WindowHandle
}

// skipList maps each (kind, handle) pair to one deadline, checked by the
// publisher before emission — the re-architecture called for in §9's
// "Skip-the-next-event protocol" note. A repeat request replaces the pair's
// deadline; an entry leaves the map only when consume looks it up, so the
// map has no size bound.
type skipList struct {
	mu      sync.Mutex
	entries map[skipKey]time.Time
}

func newSkipList() *skipList {
	return &skipList{entries: make(map[skipKey]time.Time)}
}

// request marks the next matching event for (kind, handle) as
// self-inflicted; it will be consumed (not re-emitted) within skipTTL.
func (s *skipList) request(kind Kind, handle winhandle.WindowHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[skipKey{kind, handle}] = time.Now().Add(skipTTL)
}

// consume reports whether (kind, handle) has a live, unexpired skip
// request, removing it either way (single-shot).
func (s *skipList) consume(kind Kind, handle winhandle.WindowHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := skipKey{kind, handle}
	deadline, ok := s.entries[key]
	delete(s.entries, key)
	return ok && time.Now().Before(deadline)
}
