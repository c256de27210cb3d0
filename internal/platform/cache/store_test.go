package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		time.Sleep(10 * time.Millisecond)
		return "payload", nil
	}

	const readers = 24
	gate := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(readers)

	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			<-gate
			v, err := store.GetOrLoad(context.Background(), "pbp:0022300477", loader)
			if err != nil {
				t.Errorf("GetOrLoad: %v", err)
				return
			}
			if got, _ := v.(string); got != "payload" {
				t.Errorf("GetOrLoad value = %v, want payload", v)
			}
		}()
	}

	close(gate)
	wg.Wait()

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ReturnsCachedValueOnSecondCall(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "boxscore", nil
	}

	for i := 0; i < 3; i++ {
		v, err := store.GetOrLoad(context.Background(), "box:0022300477", loader)
		if err != nil {
			t.Fatalf("GetOrLoad %d: %v", i, err)
		}
		if got, _ := v.(string); got != "boxscore" {
			t.Fatalf("GetOrLoad %d value = %v, want boxscore", i, v)
		}
	}

	if got := loads.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheLoaderErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	wantErr := errors.New("upstream unavailable")
	var loads atomic.Int32

	failing := func(context.Context) (any, error) {
		loads.Add(1)
		return nil, wantErr
	}

	if _, err := store.GetOrLoad(context.Background(), "pbp:0022300478", failing); !errors.Is(err, wantErr) {
		t.Fatalf("first GetOrLoad error = %v, want %v", err, wantErr)
	}

	v, err := store.GetOrLoad(context.Background(), "pbp:0022300478", func(context.Context) (any, error) {
		loads.Add(1)
		return "payload", nil
	})
	if err != nil {
		t.Fatalf("retry GetOrLoad: %v", err)
	}
	if got, _ := v.(string); got != "payload" {
		t.Fatalf("retry value = %v, want payload", v)
	}
	if got := loads.Load(); got != 2 {
		t.Fatalf("loader ran %d times, want 2", got)
	}
}

func TestStore_EmptyKeyBypassesCache(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var loads atomic.Int32

	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "direct", nil
	}

	for i := 0; i < 2; i++ {
		if _, err := store.GetOrLoad(context.Background(), "", loader); err != nil {
			t.Fatalf("GetOrLoad %d: %v", i, err)
		}
	}
	if got := loads.Load(); got != 2 {
		t.Fatalf("loader ran %d times, want 2", got)
	}
}
