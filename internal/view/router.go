package view

import "sync"

// View is one of the three top-level screens.
type View string

const (
	Home      View = "home"
	Search    View = "search"
	Dashboard View = "dashboard"
)

// Router selects the active screen. Navigation is always an absolute jump;
// there is no history stack and no back semantics.
type Router struct {
	mu      sync.RWMutex
	current View
}

func NewRouter() *Router {
	return &Router{current: Home}
}

func (r *Router) Current() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Go jumps to the given view.
func (r *Router) Go(v View) {
	r.mu.Lock()
	r.current = v
	r.mu.Unlock()
}

// GoDashboard jumps to the dashboard only for authenticated sessions and
// reports whether the jump happened.
func (r *Router) GoDashboard(authenticated bool) bool {
	if !authenticated {
		return false
	}
	r.Go(Dashboard)
	return true
}
