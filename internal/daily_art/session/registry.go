package session

import "sync"

// Registry keeps one Controller per user. Every controller follows the same gate,
// so a submission from any user closes the day for all of them.
type Registry struct {
	gate      Gate
	submitter Submitter

	mu    sync.Mutex
	byUID map[string]*Controller
}

// NewRegistry creates an empty registry. Controllers are built on first use.
func NewRegistry(gate Gate, submitter Submitter) *Registry {
	return &Registry{
		gate:      gate,
		submitter: submitter,
		byUID:     make(map[string]*Controller),
	}
}

// For returns the controller for uid, creating it in the menu state if needed.
func (r *Registry) For(uid string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byUID[uid]; ok {
		return c
	}
	c := NewController(r.gate, r.submitter)
	r.byUID[uid] = c
	return c
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUID)
}

// Close detaches every controller from the gate and forgets them.
func (r *Registry) Close() {
	r.mu.Lock()
	controllers := r.byUID
	r.byUID = make(map[string]*Controller)
	r.mu.Unlock()

	for _, c := range controllers {
		c.Close()
	}
}
