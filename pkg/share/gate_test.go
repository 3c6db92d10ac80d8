package share

import (
	"sync"
	"testing"
)

func TestGateAdmitsUpToCapacity(t *testing.T) {
	g := NewGate(3)

	var tokens []*Token
	for i := 0; i < 3; i++ {
		tok, ok := g.TryAcquire()
		if !ok {
			t.Fatalf("acquire %d: pool saturated early", i)
		}
		tokens = append(tokens, tok)
	}

	if _, ok := g.TryAcquire(); ok {
		t.Fatal("acquire beyond capacity succeeded")
	}
	if got := g.Active(); got != 3 {
		t.Fatalf("Active() = %d, want 3", got)
	}

	// Releasing one slot admits the next pending request.
	tokens[0].Release()
	tok, ok := g.TryAcquire()
	if !ok {
		t.Fatal("acquire after release failed")
	}
	tok.Release()

	for _, tok := range tokens[1:] {
		tok.Release()
	}
	if got := g.Active(); got != 0 {
		t.Fatalf("Active() = %d after all releases, want 0", got)
	}
}

func TestTokenReleaseIsIdempotent(t *testing.T) {
	g := NewGate(1)

	tok, ok := g.TryAcquire()
	if !ok {
		t.Fatal("acquire failed")
	}

	tok.Release()
	tok.Release()
	tok.Release()

	if got := g.Active(); got != 0 {
		t.Fatalf("Active() = %d, want 0", got)
	}

	// The pool must not have been over-credited by the repeated releases.
	tok2, ok := g.TryAcquire()
	if !ok {
		t.Fatal("acquire after releases failed")
	}
	if _, ok := g.TryAcquire(); ok {
		t.Fatal("capacity grew after double release")
	}
	tok2.Release()
}

func TestNilGateAlwaysAdmits(t *testing.T) {
	var g *Gate

	for i := 0; i < 100; i++ {
		tok, ok := g.TryAcquire()
		if !ok {
			t.Fatal("nil gate refused admission")
		}
		tok.Release()
	}
	if g.Capacity() != 0 || g.Active() != 0 {
		t.Fatal("nil gate reported nonzero counts")
	}
}

func TestGateConcurrentAcquire(t *testing.T) {
	const capacity = 4
	const attempts = 100

	g := NewGate(capacity)

	var mu sync.Mutex
	admitted := 0

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tok, ok := g.TryAcquire(); ok {
				mu.Lock()
				admitted++
				mu.Unlock()
				_ = tok // held until the end of the test
			}
		}()
	}
	wg.Wait()

	if admitted != capacity {
		t.Fatalf("admitted %d, want exactly %d", admitted, capacity)
	}
}
