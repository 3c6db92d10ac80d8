package share

import "sync"

// Gate is a fixed-capacity admission pool for concurrent transfers.
// Acquisition never blocks: when the pool is saturated the caller is
// expected to answer busy immediately instead of queueing.
type Gate struct {
	slots chan struct{}
}

// NewGate creates a gate admitting up to capacity concurrent holders.
func NewGate(capacity int) *Gate {
	if capacity <= 0 {
		panic("share: gate capacity must be positive")
	}
	return &Gate{
		slots: make(chan struct{}, capacity),
	}
}

// TryAcquire takes a slot without blocking. The second return value is
// false when the gate is saturated. A nil gate is unbounded and always
// admits.
func (g *Gate) TryAcquire() (*Token, bool) {
	if g == nil {
		return nil, true
	}
	select {
	case g.slots <- struct{}{}:
		return &Token{gate: g}, true
	default:
		return nil, false
	}
}

// Capacity returns the gate's fixed capacity. Zero for a nil gate.
func (g *Gate) Capacity() int {
	if g == nil {
		return 0
	}
	return cap(g.slots)
}

// Active returns the number of slots currently held.
func (g *Gate) Active() int {
	if g == nil {
		return 0
	}
	return len(g.slots)
}

// Token is an admission slot. Release returns it to the pool; releasing
// more than once is a no-op, so deferred and explicit releases can coexist.
type Token struct {
	gate *Gate
	once sync.Once
}

// Release returns the slot to the gate. Safe on a nil token.
func (t *Token) Release() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		<-t.gate.slots
	})
}
