package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	store := NewStore(time.Minute)
	ctx := context.Background()

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Fatal("expected miss for unknown key")
	}

	store.Set(ctx, "k", 42)
	value, ok := store.Get(ctx, "k")
	if !ok || value != 42 {
		t.Fatalf("expected 42, got %v ok=%t", value, ok)
	}

	store.Delete(ctx, "k")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestStore_GetOrLoad(t *testing.T) {
	store := NewStore(time.Minute)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		value, err := store.GetOrLoad(ctx, "k", loader)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if value != "loaded" {
			t.Fatalf("expected loaded value, got %v", value)
		}
	}
	if loads != 1 {
		t.Fatalf("expected a single load, got %d", loads)
	}

	wantErr := errors.New("boom")
	if _, err := store.GetOrLoad(ctx, "other", func(context.Context) (any, error) {
		return nil, wantErr
	}); !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}
}
