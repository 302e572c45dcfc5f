package onboarding

import "sync"

// Router is the navigation seam towards the presentation layer.
type Router interface {
	// Location returns the path currently shown.
	Location() string
	// Push navigates to path.
	Push(path string)
}

// HistoryRouter is an in-process Router that records every push. The CLI
// wizard and tests use it.
type HistoryRouter struct {
	mu      sync.Mutex
	current string
	history []string
}

func NewHistoryRouter(initial string) *HistoryRouter {
	return &HistoryRouter{current: initial}
}

func (r *HistoryRouter) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *HistoryRouter) Push(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = path
	r.history = append(r.history, path)
}

// History returns the pushed paths in order.
func (r *HistoryRouter) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}
