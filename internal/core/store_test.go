package core

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSessionStore_CreateAndGet(t *testing.T) {
	st := NewSessionStore(testTable(), StoreConfig{})

	s := st.Create()
	if s.ID() == "" {
		t.Fatal("Create() returned empty id")
	}

	got, err := st.Get(s.ID())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != s {
		t.Error("Get() returned a different session")
	}

	if _, err := st.Get("missing"); err != ErrSessionNotFound {
		t.Errorf("Get(missing) error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_GetOrCreate(t *testing.T) {
	st := NewSessionStore(testTable(), StoreConfig{})

	s, created := st.GetOrCreate("")
	if !created {
		t.Error("GetOrCreate(\"\") did not create")
	}

	again, created := st.GetOrCreate(s.ID())
	if created || again != s {
		t.Error("GetOrCreate(existing) created a new session")
	}

	_, created = st.GetOrCreate("stale-cookie")
	if !created {
		t.Error("GetOrCreate(unknown) did not create")
	}
	if st.Len() != 2 {
		t.Errorf("Len() = %d, want 2", st.Len())
	}
}

func TestSessionStore_SessionsAreIsolated(t *testing.T) {
	st := NewSessionStore(testTable(), StoreConfig{})
	a := st.Create()
	b := st.Create()

	a.SetSearchText("berlin")
	if b.Filter().SearchText != "" {
		t.Error("session b sees session a's search")
	}
	if a.Table() != b.Table() {
		t.Error("sessions do not share the table")
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	st := NewSessionStore(testTable(), StoreConfig{TTL: time.Minute})
	now := time.Now()
	st.now = func() time.Time { return now }

	s := st.Create()
	if _, err := st.Get(s.ID()); err != nil {
		t.Fatalf("fresh session: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := st.Get(s.ID()); err != ErrSessionNotFound {
		t.Errorf("expired session error = %v, want ErrSessionNotFound", err)
	}
	if st.Len() != 0 {
		t.Errorf("Len() = %d after expiry, want 0", st.Len())
	}
}

func TestSessionStore_Sweep(t *testing.T) {
	st := NewSessionStore(testTable(), StoreConfig{TTL: time.Minute})
	now := time.Now()
	st.now = func() time.Time { return now }

	st.Create()
	st.Create()

	if n := st.Sweep(); n != 0 {
		t.Errorf("Sweep() removed %d fresh sessions", n)
	}

	now = now.Add(time.Hour)
	if n := st.Sweep(); n != 2 {
		t.Errorf("Sweep() = %d, want 2", n)
	}
}

func TestSessionStore_MaxSessionsEvictsOldest(t *testing.T) {
	var live atomic.Int64
	st := NewSessionStore(testTable(), StoreConfig{
		MaxSessions:   2,
		OnCountChange: func(n int) { live.Store(int64(n)) },
	})

	first := st.Create()
	time.Sleep(2 * time.Millisecond)
	second := st.Create()
	time.Sleep(2 * time.Millisecond)
	st.Create()

	if st.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", st.Len())
	}
	if _, err := st.Get(first.ID()); err != ErrSessionNotFound {
		t.Error("oldest session was not evicted")
	}
	if _, err := st.Get(second.ID()); err != nil {
		t.Errorf("second session evicted: %v", err)
	}
	if live.Load() != 2 {
		t.Errorf("OnCountChange reported %d, want 2", live.Load())
	}
}

func TestSessionStore_JanitorStopsOnCancel(t *testing.T) {
	st := NewSessionStore(testTable(), StoreConfig{SweepInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		st.StartJanitor(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}
