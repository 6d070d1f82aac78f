package bus

import "sync"

// Bus is the in-process change-notification fan-out. A publish carries no
// payload; subscribers are expected to re-read whatever state they care about.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[int]func())}
}

// Subscribe registers fn to run on every publish and returns a disposer.
// The disposer is idempotent and must be called when the subscriber is torn
// down so the subscription never outlives its owner.
func (b *Bus) Subscribe(fn func()) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish invokes every current subscriber. Callbacks run outside the lock so
// a subscriber may subscribe or unsubscribe from within its callback.
func (b *Bus) Publish() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
