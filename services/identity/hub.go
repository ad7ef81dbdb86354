package identitysvc

import (
	"sync"

	"github.com/shulehub/shule/core/session"
)

// hub fans identity transitions out to registered listeners. Both providers
// embed it; it is what makes them a session.Provider.
type hub struct {
	mu      sync.Mutex
	current *session.Identity
	nextID  int
	fns     map[int]func(*session.Identity)
}

func (h *hub) OnStateChange(fn func(*session.Identity)) (unsubscribe func()) {
	h.mu.Lock()
	if h.fns == nil {
		h.fns = make(map[int]func(*session.Identity))
	}
	id := h.nextID
	h.nextID++
	h.fns[id] = fn
	current := h.current
	h.mu.Unlock()

	fn(current)
	return func() {
		h.mu.Lock()
		delete(h.fns, id)
		h.mu.Unlock()
	}
}

// transition records the new identity and notifies every listener outside
// the lock.
func (h *hub) transition(id *session.Identity) {
	h.mu.Lock()
	h.current = id
	fns := make([]func(*session.Identity), 0, len(h.fns))
	for _, fn := range h.fns {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

func (h *hub) Current() *session.Identity {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}
