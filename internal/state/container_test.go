package state

import (
	"context"
	"errors"
	"testing"

	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/storage"
)

type flakyPersister struct {
	failures int
	calls    int
	saved    []model.AppState
}

func (f *flakyPersister) Save(_ context.Context, s model.AppState) error {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errors.New("disk full")
	}
	f.saved = append(f.saved, s.Clone())
	return nil
}

func TestShipReportScenarioPersists(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewStateRepository(storage.NewMemoryStore(), "")
	c, outcome, err := Open(ctx, repo, testEnv(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if outcome != storage.LoadFresh {
		t.Fatalf("expected fresh load, got %s", outcome)
	}

	if _, err := c.Dispatch(ctx, AddTask{Domain: model.DomainWork, Text: "Ship report", Priority: model.PriorityMust}); err != nil {
		t.Fatalf("add: %v", err)
	}
	id := c.State().Tasks(model.DomainWork)[0].ID
	if _, err := c.Dispatch(ctx, ToggleTask{Domain: model.DomainWork, TaskID: id}); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	reloaded, outcome, err := repo.Load(ctx, testEnv().Now())
	if err != nil || outcome != storage.LoadRestored {
		t.Fatalf("reload: outcome=%s err=%v", outcome, err)
	}
	work := reloaded.Tasks(model.DomainWork)
	if len(work) != 1 || work[0].Text != "Ship report" || work[0].Priority != model.PriorityMust || !work[0].Completed {
		t.Fatalf("unexpected WORK list: %+v", work)
	}
	for _, d := range []model.Domain{model.DomainHealth, model.DomainSkills, model.DomainJoy} {
		if len(reloaded.Tasks(d)) != 0 {
			t.Fatalf("expected %s empty, got %+v", d, reloaded.Tasks(d))
		}
	}
}

func TestDispatchNoOpDoesNotWrite(t *testing.T) {
	p := &flakyPersister{}
	c := NewContainer(freshState(), p, testEnv(), nil)
	changed, err := c.Dispatch(context.Background(), AddTask{Domain: model.DomainWork, Text: "  ", Priority: model.PriorityMust})
	if err != nil || changed {
		t.Fatalf("expected no-op, changed=%v err=%v", changed, err)
	}
	if p.calls != 0 {
		t.Fatalf("expected no writes, got %d", p.calls)
	}
}

func TestDispatchRetriesOnce(t *testing.T) {
	p := &flakyPersister{failures: 1}
	c := NewContainer(freshState(), p, testEnv(), nil)
	if _, err := c.Dispatch(context.Background(), SetUserName{Name: "Ada"}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if p.calls != 2 || len(p.saved) != 1 || p.saved[0].UserName != "Ada" {
		t.Fatalf("unexpected writes: calls=%d saved=%+v", p.calls, p.saved)
	}
}

func TestDispatchKeepsStateWhenPersistFails(t *testing.T) {
	p := &flakyPersister{failures: 5}
	c := NewContainer(freshState(), p, testEnv(), nil)
	changed, err := c.Dispatch(context.Background(), AddTask{Domain: model.DomainJoy, Text: "Nap", Priority: model.PriorityCould})
	if !changed {
		t.Fatal("expected change")
	}
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
	if p.calls != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", p.calls)
	}
	if len(c.State().Tasks(model.DomainJoy)) != 1 || c.LastPersistError() == nil {
		t.Fatal("in-memory state should keep the new task")
	}

	p.failures = 0
	if _, err := c.Dispatch(context.Background(), SyncSkill{}); err != nil {
		t.Fatalf("later write: %v", err)
	}
	if c.LastPersistError() != nil || len(p.saved[0].Tasks(model.DomainJoy)) != 1 {
		t.Fatal("recovered write should carry the earlier change")
	}
}

func TestOpenCorruptDocumentStartsFromDefaults(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	if err := store.Put(ctx, storage.DefaultStateKey, []byte("{broken")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	c, outcome, err := Open(ctx, storage.NewStateRepository(store, ""), testEnv(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if outcome != storage.LoadCorrupt || !c.State().NeedsOnboarding() {
		t.Fatalf("expected default state after corrupt load, outcome=%s", outcome)
	}
}

func TestOpenRepairedDocumentKeepsUserData(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	body := `{"userName":"Ada","activeDomain":"WORK",
		"tasks":{"WORK":[{"id":"w-1","text":"Ship report","priority":"MUST","completed":false},{"id":"w-2","text":"Escalate","priority":"URGENT","completed":false}]},
		"health":{"waterIntake":5,"sleepHours":7,"mood":"","lastPeriodDate":"","meals":{"breakfast":"","lunch":"","dinner":""}},
		"skill":{"currentSkill":"Go","progress":10,"lastUpdate":"2026-02-20T00:00:00Z"}}`
	if err := store.Put(ctx, storage.DefaultStateKey, []byte(body)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := storage.NewStateRepository(store, "")
	c, outcome, err := Open(ctx, repo, testEnv(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if outcome != storage.LoadRepaired || c.State().NeedsOnboarding() {
		t.Fatalf("expected repaired load without onboarding, outcome=%s", outcome)
	}

	if _, err := c.Dispatch(ctx, AddTask{Domain: model.DomainJoy, Text: "Hike", Priority: model.PriorityWould}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	reloaded, outcome, err := repo.Load(ctx, testEnv().Now())
	if err != nil || outcome != storage.LoadRestored {
		t.Fatalf("expected clean document after rewrite, outcome=%s err=%v", outcome, err)
	}
	if reloaded.UserName != "Ada" || reloaded.Health.WaterIntake != 5 || reloaded.Skill.CurrentSkill != "Go" {
		t.Fatalf("user data lost on rewrite: %+v", reloaded)
	}
	if work := reloaded.Tasks(model.DomainWork); len(work) != 1 || work[0].ID != "w-1" {
		t.Fatalf("expected valid work task kept, got %+v", work)
	}
}

func TestResetPersistsDefaults(t *testing.T) {
	p := &flakyPersister{}
	s := freshState()
	s.UserName = "Ada"
	s.TasksByDomain[model.DomainWork] = []model.Task{{ID: "1", Text: "x", Priority: model.PriorityMust}}
	c := NewContainer(s, p, testEnv(), nil)
	if err := c.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !c.State().NeedsOnboarding() || c.State().TaskCount() != 0 || len(p.saved) != 1 {
		t.Fatalf("unexpected state after reset: %+v", c.State())
	}
}
