package visibility

import "sync"

// Hub is an in-process Observer. The host reports intersection changes per
// region and the hub fans them out to every subscription on that region.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Region]map[uint64]*hubSubscription
}

type hubSubscription struct {
	opts     Options
	onChange func(bool)
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[Region]map[uint64]*hubSubscription),
	}
}

// Subscribe implements Observer
func (h *Hub) Subscribe(region Region, opts Options, onChange func(bool)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	if h.subs[region] == nil {
		h.subs[region] = make(map[uint64]*hubSubscription)
	}
	h.subs[region][id] = &hubSubscription{opts: opts, onChange: onChange}

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(region, id) })
	}, nil
}

func (h *Hub) remove(region Region, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs[region], id)
	if len(h.subs[region]) == 0 {
		delete(h.subs, region)
	}
}

// Report notifies every subscription on region and returns how many were
// notified
func (h *Hub) Report(region Region, intersecting bool) int {
	targets := h.snapshot(region)
	for _, sub := range targets {
		sub.onChange(intersecting)
	}
	return len(targets)
}

// ReportRatio notifies subscriptions on region with the visible fraction of
// the region. Each subscription sees it as intersecting when the ratio
// reaches its threshold; a zero threshold needs any overlap.
func (h *Hub) ReportRatio(region Region, ratio float64) int {
	targets := h.snapshot(region)
	for _, sub := range targets {
		intersecting := ratio > 0 && ratio >= sub.opts.Threshold
		sub.onChange(intersecting)
	}
	return len(targets)
}

// Active returns the number of live subscriptions across all regions
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, subs := range h.subs {
		n += len(subs)
	}
	return n
}

// ActiveFor returns the number of live subscriptions on region
func (h *Hub) ActiveFor(region Region) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[region])
}

// snapshot copies the subscriptions so callbacks run without the lock held
func (h *Hub) snapshot(region Region) []*hubSubscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*hubSubscription, 0, len(h.subs[region]))
	for _, sub := range h.subs[region] {
		out = append(out, sub)
	}
	return out
}
