package scheduler

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestEngineStressConcurrentSchedule(t *testing.T) {
	engine := NewEngine(4096)
	engine.Start()
	defer engine.Stop()

	const workers = 8
	const perWorker = 200
	total := workers * perWorker

	now := time.Now().UTC()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				delay := time.Duration((w+i)%50+10) * time.Millisecond
				a := Alarm{
					ID:        fmt.Sprintf("w%d-%d", w, i),
					Kind:      AlarmCheckIn,
					Label:     fmt.Sprintf("skill-%d", i),
					TriggerAt: now.Add(delay),
				}
				if err := engine.Schedule(a); err != nil {
					t.Errorf("schedule failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	deadline := time.After(5 * time.Second)
	seen := make(map[string]bool, total)
	for len(seen) < total {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting alarms: received=%d total=%d dropped=%d", len(seen), total, engine.Dropped())
		case a := <-engine.C():
			if seen[a.ID] {
				t.Fatalf("alarm %s delivered twice", a.ID)
			}
			seen[a.ID] = true
		}
	}

	if engine.Dropped() != 0 {
		t.Fatalf("expected zero drops with active consumer, got=%d", engine.Dropped())
	}
}

func TestEngineStressScheduleAndCancel(t *testing.T) {
	engine := NewEngine(1024)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(50 * time.Millisecond)
	for i := 0; i < 200; i++ {
		if err := engine.Schedule(Alarm{ID: fmt.Sprintf("a-%d", i), TriggerAt: at}); err != nil {
			t.Fatalf("schedule: %v", err)
		}
	}
	var wg sync.WaitGroup
	for i := 0; i < 200; i += 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine.Cancel(fmt.Sprintf("a-%d", i))
		}()
	}
	wg.Wait()

	got := 0
	timeout := time.After(2 * time.Second)
	for got < 100 {
		select {
		case <-engine.C():
			got++
		case <-timeout:
			t.Fatalf("expected 100 alarms, got %d", got)
		}
	}
	select {
	case a := <-engine.C():
		t.Fatalf("cancelled alarm fired: %+v", a)
	case <-time.After(50 * time.Millisecond):
	}
}
