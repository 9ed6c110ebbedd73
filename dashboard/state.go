package dashboard

import (
	"sync"
	"time"
)

// PanelView is the rendered state of one dashboard panel.
type PanelView struct {
	HTML      string // panel body markup
	Label     string // secondary text: item count or last-scan header
	UpdatedAt time.Time
}

// panel guards one panel's view with a monotonic request token. Each
// refresh takes a token before fetching; a response is applied only if
// no newer token has already been applied, so a stale slow response
// can never overwrite a newer fast one.
type panel struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	view    PanelView
}

// begin issues the next request token for this panel.
func (p *panel) begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

// apply mutates the view under the given token. It reports false and
// leaves the view untouched when a newer response has already landed.
func (p *panel) apply(token uint64, mutate func(*PanelView)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if token <= p.applied {
		return false
	}
	p.applied = token
	mutate(&p.view)
	return true
}

// snapshot returns a copy of the current view.
func (p *panel) snapshot() PanelView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}
