package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestDebouncerCoalescesRapidEvents(t *testing.T) {
	d := newDebouncer(20*time.Millisecond, logrus.New())
	defer d.stop()

	var mu sync.Mutex
	var batches [][]string
	handler := func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, files)
		return nil
	}

	d.add(FileChangeEvent{Path: "a.js"}, handler)
	d.add(FileChangeEvent{Path: "b.js"}, handler)
	d.add(FileChangeEvent{Path: "a.js"}, handler) // duplicate path

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(batches) != 1 {
		t.Fatalf("expected one coalesced batch, got %d", len(batches))
	}
	if len(batches[0]) != 2 {
		t.Errorf("expected 2 distinct paths, got %v", batches[0])
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	d := newDebouncer(10*time.Millisecond, logrus.New())
	defer d.stop()

	var mu sync.Mutex
	calls := 0
	handler := func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil
	}

	d.add(FileChangeEvent{Path: "a.js"}, handler)
	time.Sleep(50 * time.Millisecond)
	d.add(FileChangeEvent{Path: "b.js"}, handler)
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("expected 2 separate flushes, got %d", calls)
	}
}
