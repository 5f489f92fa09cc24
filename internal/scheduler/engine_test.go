package scheduler

import (
	"fmt"
	"testing"
	"time"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(Alarm{ID: "later", Kind: AlarmNap, TriggerAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Alarm{ID: "sooner", Kind: AlarmCheckIn, TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitAlarm(t, engine.C(), time.Second)
	second := waitAlarm(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
	if _, ok := engine.Pending("later"); ok {
		t.Fatal("fired alarm should no longer be pending")
	}
}

func TestEngineRescheduleMovesAlarm(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(Alarm{ID: "nap", Kind: AlarmNap, TriggerAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := engine.Schedule(Alarm{ID: "nap", Kind: AlarmNap, Label: "moved", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	got := waitAlarm(t, engine.C(), time.Second)
	if got.Label != "moved" {
		t.Fatalf("expected moved alarm, got %+v", got)
	}
	select {
	case extra := <-engine.C():
		t.Fatalf("alarm fired twice: %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngineCancel(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	if err := engine.Schedule(Alarm{ID: "nap", Kind: AlarmNap, TriggerAt: time.Now().Add(30 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !engine.Cancel("nap") {
		t.Fatal("expected pending alarm to be cancelled")
	}
	if engine.Cancel("nap") {
		t.Fatal("second cancel should report nothing pending")
	}
	select {
	case a := <-engine.C():
		t.Fatalf("cancelled alarm fired: %+v", a)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().UTC().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(Alarm{ID: fmt.Sprintf("a-%d", i), TriggerAt: at}); err != nil {
			t.Fatalf("schedule alarm: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped alarms > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidates(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Alarm{ID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
	if err := engine.Schedule(Alarm{TriggerAt: time.Now()}); err != ErrMissingID {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
	engine.Stop()
	if err := engine.Schedule(Alarm{ID: "late", TriggerAt: time.Now()}); err != ErrEngineStopped {
		t.Fatalf("expected ErrEngineStopped, got %v", err)
	}
}

func waitAlarm(t *testing.T, ch <-chan Alarm, timeout time.Duration) Alarm {
	t.Helper()
	select {
	case a := <-ch:
		return a
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for alarm")
		return Alarm{}
	}
}
