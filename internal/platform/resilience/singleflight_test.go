package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCallers(t *testing.T) {
	var g SingleFlight
	var executions int32

	const callers = 16
	gate := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	var shared int32
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-gate
			v, err, dup := g.Do("playbyplay_0022300477.json", func() (any, error) {
				atomic.AddInt32(&executions, 1)
				time.Sleep(10 * time.Millisecond)
				return "payload", nil
			})
			if err != nil {
				t.Errorf("Do: %v", err)
			}
			if v != "payload" {
				t.Errorf("Do value = %v, want payload", v)
			}
			if dup {
				atomic.AddInt32(&shared, 1)
			}
		}()
	}

	close(gate)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("loader executed %d times, want 1", got)
	}
	if got := atomic.LoadInt32(&shared); got != callers-1 {
		t.Fatalf("%d callers saw a shared result, want %d", got, callers-1)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight
	var executions int32

	for _, key := range []string{"pbp:0022300477", "pbp:0022300478"} {
		if _, err, dup := g.Do(key, func() (any, error) {
			atomic.AddInt32(&executions, 1)
			return key, nil
		}); err != nil || dup {
			t.Fatalf("Do(%q) err=%v dup=%v", key, err, dup)
		}
	}

	if got := atomic.LoadInt32(&executions); got != 2 {
		t.Fatalf("loader executed %d times, want 2", got)
	}
}
