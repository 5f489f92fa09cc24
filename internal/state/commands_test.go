package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/lifesys/internal/board"
	"github.com/sandeepkv93/lifesys/internal/model"
)

func testEnv() Env {
	n := 0
	return Env{
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Now: func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	}
}

func freshState() model.AppState {
	return model.DefaultState(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
}

func TestAddTaskAppendsToOneDomain(t *testing.T) {
	in := freshState()
	in.TasksByDomain[model.DomainJoy] = []model.Task{{ID: "j", Text: "Hike", Priority: model.PriorityCould}}

	out, changed := AddTask{Domain: model.DomainWork, Text: "  Ship report ", Priority: model.PriorityMust}.Apply(in, testEnv())
	if !changed {
		t.Fatal("expected add to change state")
	}
	work := out.Tasks(model.DomainWork)
	if len(work) != 1 || work[0].Text != "Ship report" || work[0].Completed || work[0].ID == "" {
		t.Fatalf("unexpected work list: %+v", work)
	}
	if len(out.Tasks(model.DomainJoy)) != 1 || len(out.Tasks(model.DomainHealth)) != 0 {
		t.Fatalf("other domains should be untouched: %+v", out.TasksByDomain)
	}
	if len(in.Tasks(model.DomainWork)) != 0 {
		t.Fatal("input state was mutated")
	}
}

func TestAddTaskBlankTextIsNoOp(t *testing.T) {
	in := freshState()
	for _, text := range []string{"", "   ", "\t\n"} {
		out, changed := AddTask{Domain: model.DomainWork, Text: text, Priority: model.PriorityMust}.Apply(in, testEnv())
		if changed || out.TaskCount() != 0 {
			t.Fatalf("expected no-op for %q", text)
		}
	}
	if _, changed := (AddTask{Domain: model.DomainWork, Text: "x", Priority: "ZZZ"}).Apply(in, testEnv()); changed {
		t.Fatal("expected invalid priority to be rejected")
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	env := testEnv()
	s, _ := AddTask{Domain: model.DomainSkills, Text: "Read", Priority: model.PriorityShould}.Apply(freshState(), env)
	id := s.Tasks(model.DomainSkills)[0].ID

	once, changed := ToggleTask{Domain: model.DomainSkills, TaskID: id}.Apply(s, env)
	if !changed || !once.Tasks(model.DomainSkills)[0].Completed {
		t.Fatal("expected first toggle to complete the task")
	}
	twice, _ := ToggleTask{Domain: model.DomainSkills, TaskID: id}.Apply(once, env)
	if twice.Tasks(model.DomainSkills)[0] != s.Tasks(model.DomainSkills)[0] {
		t.Fatalf("expected toggle twice to restore, got %+v", twice.Tasks(model.DomainSkills)[0])
	}
}

func TestToggleAndDeleteMissingIDAreNoOps(t *testing.T) {
	in := freshState()
	if _, changed := (ToggleTask{Domain: model.DomainWork, TaskID: "nope"}).Apply(in, testEnv()); changed {
		t.Fatal("toggle of missing id changed state")
	}
	if _, changed := (DeleteTask{Domain: model.DomainWork, TaskID: "nope"}).Apply(in, testEnv()); changed {
		t.Fatal("delete of missing id changed state")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	env := testEnv()
	s, _ := AddTask{Domain: model.DomainWork, Text: "a", Priority: model.PriorityMust}.Apply(freshState(), env)
	s, _ = AddTask{Domain: model.DomainWork, Text: "b", Priority: model.PriorityMust}.Apply(s, env)
	id := s.Tasks(model.DomainWork)[0].ID

	once, changed := DeleteTask{Domain: model.DomainWork, TaskID: id}.Apply(s, env)
	if !changed {
		t.Fatal("expected delete to change state")
	}
	twice, changed := DeleteTask{Domain: model.DomainWork, TaskID: id}.Apply(once, env)
	if changed || len(twice.Tasks(model.DomainWork)) != 1 || twice.Tasks(model.DomainWork)[0].Text != "b" {
		t.Fatalf("expected second delete to be a no-op, got %+v", twice.Tasks(model.DomainWork))
	}
	if len(s.Tasks(model.DomainWork)) != 2 {
		t.Fatal("delete mutated its input")
	}
}

func TestMergeSuggestionsAppendsValidOnly(t *testing.T) {
	in := freshState()
	in.TasksByDomain[model.DomainHealth] = []model.Task{{ID: "h", Text: "Walk", Priority: model.PriorityShould}}
	out, changed := MergeSuggestions{Domain: model.DomainHealth, Suggestions: []board.Suggestion{
		{Text: "Do X", Priority: model.PriorityMust},
		{Text: "", Priority: model.PriorityShould},
		{Text: "Do Y", Priority: "ZZZ"},
		{Text: "Do Z", Priority: model.PriorityWould},
	}}.Apply(in, testEnv())
	if !changed {
		t.Fatal("expected merge to change state")
	}
	got := out.Tasks(model.DomainHealth)
	if len(got) != 3 || got[0].ID != "h" || got[1].Text != "Do X" || got[2].Text != "Do Z" {
		t.Fatalf("unexpected merged list: %+v", got)
	}

	if _, changed := (MergeSuggestions{Domain: model.DomainHealth}).Apply(out, testEnv()); changed {
		t.Fatal("empty merge should be a no-op")
	}
}

func TestReplaceHealthClampsAndKeepsValidDate(t *testing.T) {
	in := freshState()
	in.Health.LastPeriodDate = "2026-01-15"
	out, changed := ReplaceHealth{Health: model.HealthRecord{
		WaterIntake:    11,
		SleepHours:     7.3,
		Mood:           "calm",
		LastPeriodDate: "15/01/2026",
	}}.Apply(in, testEnv())
	if !changed {
		t.Fatal("expected health change")
	}
	if out.Health.WaterIntake != 8 || out.Health.SleepHours != 7.5 || out.Health.LastPeriodDate != "2026-01-15" {
		t.Fatalf("unexpected health: %+v", out.Health)
	}
}

func TestReplaceSkillKeepsTimestampUntilSync(t *testing.T) {
	env := testEnv()
	in := freshState()
	out, changed := ReplaceSkill{Skill: model.SkillRecord{CurrentSkill: "Go", Progress: 140}}.Apply(in, env)
	if !changed || out.Skill.Progress != 100 || !out.Skill.LastUpdate.Equal(in.Skill.LastUpdate) {
		t.Fatalf("unexpected skill after replace: %+v", out.Skill)
	}
	synced, _ := SyncSkill{}.Apply(out, env)
	if !synced.Skill.LastUpdate.Equal(env.Now()) {
		t.Fatalf("sync did not move lastUpdate: %v", synced.Skill.LastUpdate)
	}
	if synced.Skill.Staleness(env.Now()).NeedsUpdate {
		t.Fatal("freshly synced skill should not need an update")
	}
}

func TestSetUserNameOverwrites(t *testing.T) {
	s, changed := SetUserName{Name: " Ada "}.Apply(freshState(), testEnv())
	if !changed || s.UserName != "Ada" || s.NeedsOnboarding() {
		t.Fatalf("unexpected name state: %+v", s)
	}
	s, changed = SetUserName{Name: "Grace"}.Apply(s, testEnv())
	if !changed || s.UserName != "Grace" {
		t.Fatalf("expected overwrite, got %q", s.UserName)
	}
	if _, changed := (SetUserName{Name: "  "}).Apply(s, testEnv()); changed {
		t.Fatal("blank name should be ignored")
	}
}

func TestSetActiveDomain(t *testing.T) {
	s, changed := SetActiveDomain{Domain: model.DomainJoy}.Apply(freshState(), testEnv())
	if !changed || s.ActiveDomain != model.DomainJoy {
		t.Fatalf("expected JOY active, got %s", s.ActiveDomain)
	}
	if _, changed := (SetActiveDomain{Domain: "MARS"}).Apply(s, testEnv()); changed {
		t.Fatal("invalid domain accepted")
	}
}
