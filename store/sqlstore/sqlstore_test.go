package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/templui/magiclink/store"
)

func openTest(t *testing.T) *SQL {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLSetGetDelete(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	err = s.Set(ctx, "k", []byte("v1"), 0)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Overwrite
	err = s.Set(ctx, "k", []byte("v2"), time.Minute)
	if err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get = %q, want %q", got, "v2")
	}

	err = s.Delete(ctx, "k")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = s.Get(ctx, "k")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get after Delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLExpiry(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	err := s.Set(ctx, "k", []byte("v"), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	_, err = s.Get(ctx, "k")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get after expiry error = %v, want ErrNotFound", err)
	}

	removed, err := s.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired: %v", err)
	}
	if removed != 1 {
		t.Errorf("CleanupExpired = %d, want 1", removed)
	}
}

func TestSQLIncrement(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.Increment(ctx, "counter", time.Minute)
		if err != nil {
			t.Fatalf("Increment: %v", err)
		}
		if got != want {
			t.Errorf("Increment = %d, want %d", got, want)
		}
	}
}

func TestSQLIncrementRestartsAfterExpiry(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	_, err := s.Increment(ctx, "counter", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	got, err := s.Increment(ctx, "counter", time.Minute)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if got != 1 {
		t.Errorf("Increment after expiry = %d, want 1", got)
	}
}

func TestSQLCompareAndSwap(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	swapped, err := s.CompareAndSwap(ctx, "missing", []byte("a"), []byte("b"), time.Minute)
	if err != nil {
		t.Fatalf("CompareAndSwap: %v", err)
	}
	if swapped {
		t.Error("CompareAndSwap on missing key should not swap")
	}

	err = s.Set(ctx, "k", []byte("a"), time.Minute)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	swapped, err = s.CompareAndSwap(ctx, "k", []byte("stale"), []byte("b"), time.Minute)
	if err != nil {
		t.Fatalf("CompareAndSwap: %v", err)
	}
	if swapped {
		t.Error("CompareAndSwap with stale old value should not swap")
	}

	swapped, err = s.CompareAndSwap(ctx, "k", []byte("a"), []byte("b"), time.Minute)
	if err != nil {
		t.Fatalf("CompareAndSwap: %v", err)
	}
	if !swapped {
		t.Error("CompareAndSwap with matching old value should swap")
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "b" {
		t.Errorf("Get after swap = %q, want %q", got, "b")
	}
}
