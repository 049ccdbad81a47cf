package visibility

import (
	"errors"
	"sync"
)

// ErrUnsupported is returned by observers on hosts without viewport observation
var ErrUnsupported = errors.New("viewport observation is not supported")

// Region identifies an observed rendering region
type Region string

// Options configures an observation. Options are compared by value: setting
// equal options again never re-registers.
type Options struct {
	Threshold  float64
	Root       string
	RootMargin string
}

// Observer grants viewport observation. onChange may be called from any
// goroutine, including synchronously from within Subscribe.
type Observer interface {
	Subscribe(region Region, opts Options, onChange func(intersecting bool)) (unsubscribe func(), err error)
}

// Detector tracks the visibility of one region
type Detector struct {
	mu          sync.Mutex
	observer    Observer
	opts        Options
	region      Region
	mounted     bool
	visible     bool
	seen        bool
	unsubscribe func()
	// generation invalidates callbacks from released subscriptions
	generation uint64
}

// New creates a detector. A nil observer means every region is visible once
// mounted.
func New(observer Observer, opts Options) *Detector {
	return &Detector{
		observer: observer,
		opts:     opts,
	}
}

// Visible reports the last intersection state. It is false until the region
// is mounted and reported visible.
func (d *Detector) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}

// SeenOnce reports whether the region has been visible since it was mounted
func (d *Detector) SeenOnce() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen
}

// Mounted reports whether the detector currently observes a region
func (d *Detector) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mounted
}

// Options returns the current observation options
func (d *Detector) Options() Options {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opts
}

// Mount starts observing region. Mounting the region already observed is a
// no-op; mounting a different region releases the previous observation.
func (d *Detector) Mount(region Region) {
	d.mu.Lock()
	if d.mounted && d.region == region {
		d.mu.Unlock()
		return
	}
	release := d.releaseLocked()
	d.mounted = true
	d.region = region
	d.visible = false
	d.seen = false
	sub := d.subscriptionLocked()
	d.mu.Unlock()

	release()
	d.subscribe(sub)
}

// SetOptions changes the observation options, re-registering when mounted and
// the options differ.
func (d *Detector) SetOptions(opts Options) {
	d.mu.Lock()
	if opts == d.opts {
		d.mu.Unlock()
		return
	}
	d.opts = opts
	if !d.mounted {
		d.mu.Unlock()
		return
	}
	release := d.releaseLocked()
	sub := d.subscriptionLocked()
	d.mu.Unlock()

	release()
	d.subscribe(sub)
}

// Unmount releases the observation. It is safe to call more than once.
func (d *Detector) Unmount() {
	d.mu.Lock()
	if !d.mounted {
		d.mu.Unlock()
		return
	}
	release := d.releaseLocked()
	d.mounted = false
	d.visible = false
	d.seen = false
	d.mu.Unlock()

	release()
}

// releaseLocked detaches the current subscription and returns the function
// that releases it. Callers run it after dropping the lock.
func (d *Detector) releaseLocked() func() {
	d.generation++
	unsubscribe := d.unsubscribe
	d.unsubscribe = nil
	if unsubscribe == nil {
		return func() {}
	}
	return unsubscribe
}

// subscription is the observation a Mount or SetOptions asked for, captured
// under the same lock that bumped the generation
type subscription struct {
	gen      uint64
	observer Observer
	region   Region
	opts     Options
}

func (d *Detector) subscriptionLocked() subscription {
	return subscription{
		gen:      d.generation,
		observer: d.observer,
		region:   d.region,
		opts:     d.opts,
	}
}

func (d *Detector) subscribe(sub subscription) {
	gen := sub.gen

	if sub.observer == nil {
		d.update(gen, true)
		return
	}

	unsubscribe, err := sub.observer.Subscribe(sub.region, sub.opts, func(intersecting bool) {
		d.update(gen, intersecting)
	})
	if err != nil {
		// Treat any observer failure as a host without the capability
		d.update(gen, true)
		return
	}
	if unsubscribe == nil {
		unsubscribe = func() {}
	}

	d.mu.Lock()
	if gen != d.generation || !d.mounted {
		// Unmounted or reconfigured while subscribing
		d.mu.Unlock()
		unsubscribe()
		return
	}
	d.unsubscribe = unsubscribe
	d.mu.Unlock()
}

func (d *Detector) update(gen uint64, intersecting bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.generation || !d.mounted {
		return
	}
	d.visible = intersecting
	if intersecting {
		d.seen = true
	}
}
