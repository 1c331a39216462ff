package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	store := NewSessionStore(time.Hour)
	s := testSession(t, nil, nil)
	store.Put(s)

	got, err := store.Get("tok")
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Error("expected the same session back")
	}

	store.Remove("tok")
	if _, err := store.Get("tok"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStoreUnknownToken(t *testing.T) {
	store := NewSessionStore(time.Hour)
	if _, err := store.Get("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore(time.Millisecond)
	store.Put(testSession(t, nil, nil))

	time.Sleep(5 * time.Millisecond)

	if _, err := store.Get("tok"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected expired session to be gone, got %v", err)
	}
}

func TestSessionStoreSweep(t *testing.T) {
	store := NewSessionStore(time.Millisecond)
	store.Put(testSession(t, nil, nil))

	time.Sleep(5 * time.Millisecond)

	if n := store.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if n := store.Sweep(); n != 0 {
		t.Errorf("second Sweep() = %d, want 0", n)
	}
}
