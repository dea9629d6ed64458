package notify

import (
	"sync"
	"testing"
	"time"
)

func TestNotifier_Subscribe(t *testing.T) {
	n := New()
	defer n.Close()

	var got []Change
	sub := n.Subscribe(func(c Change) { got = append(got, c) })
	defer sub.Unsubscribe()

	n.NotifySet("Username", "alice")

	if len(got) != 1 {
		t.Fatalf("received %d changes, want 1", len(got))
	}
	if got[0].Key != "Username" || got[0].Value != "alice" || got[0].Type != ChangeSet {
		t.Errorf("change = %+v", got[0])
	}
}

func TestNotifier_SubscribeKey(t *testing.T) {
	n := New()
	defer n.Close()

	var got []Change
	sub := n.SubscribeKey("Theme", func(c Change) { got = append(got, c) })
	defer sub.Unsubscribe()

	n.NotifySet("Username", "alice")
	n.NotifySet("Theme", "dark")

	if len(got) != 1 {
		t.Fatalf("received %d changes, want 1", len(got))
	}
	if got[0].Key != "Theme" {
		t.Errorf("change key = %q, want Theme", got[0].Key)
	}
}

func TestNotifier_ReloadReachesKeyObservers(t *testing.T) {
	n := New()
	defer n.Close()

	var got []Change
	n.SubscribeKey("Theme", func(c Change) { got = append(got, c) })

	n.NotifyReload("/tmp/config.ini")

	if len(got) != 1 {
		t.Fatalf("received %d changes, want 1", len(got))
	}
	if got[0].Type != ChangeReload || got[0].Source != "/tmp/config.ini" {
		t.Errorf("change = %+v", got[0])
	}
}

func TestSubscription_Unsubscribe(t *testing.T) {
	n := New()
	defer n.Close()

	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })

	n.NotifySet("a", "1")
	sub.Unsubscribe()
	n.NotifySet("a", "2")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestNotifier_Async(t *testing.T) {
	n := New(WithAsync(16))

	var mu sync.Mutex
	var got []Change
	done := make(chan struct{})
	n.Subscribe(func(c Change) {
		mu.Lock()
		got = append(got, c)
		if len(got) == 3 {
			close(done)
		}
		mu.Unlock()
	})

	n.NotifySet("a", "1")
	n.NotifySet("b", "2")
	n.NotifySet("c", "3")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async delivery")
	}
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 {
		t.Errorf("received %d changes, want 3", len(got))
	}
}

func TestNotifier_CloseIdempotent(t *testing.T) {
	n := New()
	n.Close()
	n.Close()

	// Notifying after close is a no-op.
	n.NotifySet("a", "1")
}

func TestChangeType_String(t *testing.T) {
	tests := []struct {
		typ  ChangeType
		want string
	}{
		{ChangeSet, "set"},
		{ChangeReload, "reload"},
		{ChangeType(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("ChangeType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
