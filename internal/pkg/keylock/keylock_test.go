package keylock

import (
	"sync"
	"testing"
)

func TestSameKeySerializes(t *testing.T) {
	kl := New()
	const workers = 50

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kl.Lock("emp-1")
			counter++
			kl.Unlock("emp-1")
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Errorf("counter = %d, want %d", counter, workers)
	}
}

func TestDifferentKeysIndependent(t *testing.T) {
	kl := New()

	kl.Lock("emp-1")
	done := make(chan struct{})
	go func() {
		kl.Lock("emp-2")
		kl.Unlock("emp-2")
		close(done)
	}()
	<-done // must not deadlock while emp-1 is held
	kl.Unlock("emp-1")
}

func TestEntriesReleased(t *testing.T) {
	kl := New()
	kl.Lock("emp-1")
	kl.Unlock("emp-1")

	kl.mu.Lock()
	n := len(kl.locks)
	kl.mu.Unlock()
	if n != 0 {
		t.Errorf("lock table has %d entries after release, want 0", n)
	}
}
