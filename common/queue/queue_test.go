package queue

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPushPopFIFO(t *testing.T) {
	q := New[int]()

	for i := 0; i < 5; i++ {
		if err := q.Push(i); err != nil {
			t.Fatalf("Push(%d) returned error: %v", i, err)
		}
	}

	if got := q.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}

	for i := 0; i < 5; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop() signalled closed at item %d", i)
		}
		if v != i {
			t.Errorf("Pop() = %d, want %d", v, i)
		}
	}
}

func TestPushAfterClose(t *testing.T) {
	q := New[string]()
	q.Close()

	if err := q.Push("late"); !errors.Is(err, ErrClosed) {
		t.Errorf("Push after Close = %v, want ErrClosed", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	q := New[int]()
	q.Close()
	q.Close()

	if !q.Closed() {
		t.Error("Closed() = false after Close")
	}
}

func TestCloseDeliversPendingItems(t *testing.T) {
	q := New[int]()

	if err := q.Push(1); err != nil {
		t.Fatal(err)
	}
	if err := q.Push(2); err != nil {
		t.Fatal(err)
	}
	q.Close()

	v, ok := q.Pop()
	if !ok || v != 1 {
		t.Fatalf("Pop() = (%d, %v), want (1, true)", v, ok)
	}
	v, ok = q.Pop()
	if !ok || v != 2 {
		t.Fatalf("Pop() = (%d, %v), want (2, true)", v, ok)
	}

	if _, ok := q.Pop(); ok {
		t.Error("Pop() on drained closed queue reported an item")
	}
}

func TestPopBlocksUntilPush(t *testing.T) {
	q := New[int]()

	got := make(chan int, 1)
	go func() {
		v, ok := q.Pop()
		if ok {
			got <- v
		}
	}()

	// Give the consumer time to block.
	time.Sleep(50 * time.Millisecond)

	if err := q.Push(42); err != nil {
		t.Fatal(err)
	}

	select {
	case v := <-got:
		if v != 42 {
			t.Errorf("Pop() = %d, want 42", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for blocked Pop to wake")
	}
}

func TestCloseWakesBlockedConsumers(t *testing.T) {
	q := New[int]()

	const consumers = 3
	var wg sync.WaitGroup
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := q.Pop(); ok {
				t.Error("Pop() reported an item on an empty closed queue")
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	q.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for blocked consumers to wake after Close")
	}
}

func TestCompetingConsumersEachItemOnce(t *testing.T) {
	q := New[int]()

	const items = 100
	const consumers = 4

	seen := make([]int32, items)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, ok := q.Pop()
				if !ok {
					return
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}

	for i := 0; i < items; i++ {
		if err := q.Push(i); err != nil {
			t.Fatal(err)
		}
	}
	q.Close()
	wg.Wait()

	for i, count := range seen {
		if count != 1 {
			t.Errorf("item %d delivered %d times, want exactly once", i, count)
		}
	}
}
