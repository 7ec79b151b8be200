package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher_ReportsExternalWrite(t *testing.T) {
	store := newTestStore(t)

	w, err := Watch(store)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	// Simulate another process appending to the same file.
	other, err := NewStore(filepath.Dir(store.Path()), 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Append("external", "write", ""); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after external write")
	}
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	store := newTestStore(t)

	w, err := Watch(store)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if _, err := store.Append("p", "r", ""); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after burst")
	}

	// The buffered channel holds at most one pending signal, so after
	// draining once and waiting out the debounce there is nothing more.
	time.Sleep(300 * time.Millisecond)
	select {
	case <-w.Changes():
		// One trailing signal is acceptable if the timer fired again,
		// but a third would mean no coalescing at all.
		select {
		case <-w.Changes():
			t.Error("burst of writes produced more than two signals")
		default:
		}
	default:
	}
}

func TestWatcher_Close(t *testing.T) {
	store := newTestStore(t)

	w, err := Watch(store)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
