package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemorySetGetDelete(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	err = m.Set(ctx, "k", []byte("v"), 0)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get = %q, want %q", got, "v")
	}

	err = m.Delete(ctx, "k")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = m.Get(ctx, "k")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete error = %v, want ErrNotFound", err)
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	err := m.Set(ctx, "k", []byte("v"), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	_, err = m.Get(ctx, "k")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after expiry error = %v, want ErrNotFound", err)
	}
}

func TestMemoryIncrement(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := m.Increment(ctx, "counter", time.Minute)
		if err != nil {
			t.Fatalf("Increment: %v", err)
		}
		if got != want {
			t.Errorf("Increment = %d, want %d", got, want)
		}
	}
}

func TestMemoryIncrementRestartsAfterExpiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_, err := m.Increment(ctx, "counter", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	got, err := m.Increment(ctx, "counter", time.Minute)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if got != 1 {
		t.Errorf("Increment after expiry = %d, want 1", got)
	}
}

func TestMemoryCompareAndSwap(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	swapped, err := m.CompareAndSwap(ctx, "missing", []byte("a"), []byte("b"), time.Minute)
	if err != nil {
		t.Fatalf("CompareAndSwap: %v", err)
	}
	if swapped {
		t.Error("CompareAndSwap on missing key should not swap")
	}

	err = m.Set(ctx, "k", []byte("a"), time.Minute)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	swapped, err = m.CompareAndSwap(ctx, "k", []byte("x"), []byte("b"), time.Minute)
	if err != nil {
		t.Fatalf("CompareAndSwap: %v", err)
	}
	if swapped {
		t.Error("CompareAndSwap with stale old value should not swap")
	}

	swapped, err = m.CompareAndSwap(ctx, "k", []byte("a"), []byte("b"), time.Minute)
	if err != nil {
		t.Fatalf("CompareAndSwap: %v", err)
	}
	if !swapped {
		t.Error("CompareAndSwap with matching old value should swap")
	}

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "b" {
		t.Errorf("Get after swap = %q, want %q", got, "b")
	}
}
