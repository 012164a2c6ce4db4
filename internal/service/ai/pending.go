package ai

import "sync"

// PendingSet tracks node ids awaiting an asynchronous AI result.
// Membership drives UI disable/loading state only.
type PendingSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewPendingSet creates an empty pending set
func NewPendingSet() *PendingSet {
	return &PendingSet{ids: make(map[string]struct{})}
}

// Add marks a node id as pending
func (p *PendingSet) Add(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids[id] = struct{}{}
}

// TryAdd marks a node id as pending unless it already is. Check and
// insert happen under one lock so concurrent callers cannot both win.
func (p *PendingSet) TryAdd(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.ids[id]; ok {
		return false
	}
	p.ids[id] = struct{}{}
	return true
}

// Remove clears a node id; unknown ids are no-ops
func (p *PendingSet) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.ids, id)
}

// Contains reports whether a node id is pending
func (p *PendingSet) Contains(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.ids[id]
	return ok
}

// IDs returns the pending ids in no particular order
func (p *PendingSet) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.ids))
	for id := range p.ids {
		out = append(out, id)
	}
	return out
}
