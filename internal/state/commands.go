// Package state holds the pure update functions over model.AppState and the
// container that applies them and persists the result.
package state

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/lifesys/internal/board"
	"github.com/sandeepkv93/lifesys/internal/model"
)

// Env supplies the only impure inputs a command may need.
type Env struct {
	NewID func() string
	Now   func() time.Time
}

func DefaultEnv() Env {
	return Env{NewID: uuid.NewString, Now: time.Now}
}

// Command is one state transition. Apply must not mutate in; it returns the
// next state and whether anything changed.
type Command interface {
	Kind() string
	Apply(in model.AppState, env Env) (model.AppState, bool)
}

type SetActiveDomain struct {
	Domain model.Domain
}

func (SetActiveDomain) Kind() string { return "set_active_domain" }

func (c SetActiveDomain) Apply(in model.AppState, _ Env) (model.AppState, bool) {
	if !c.Domain.IsValid() || in.ActiveDomain == c.Domain {
		return in, false
	}
	out := in.Clone()
	out.ActiveDomain = c.Domain
	return out, true
}

type AddTask struct {
	Domain   model.Domain
	Text     string
	Priority model.Priority
}

func (AddTask) Kind() string { return "add_task" }

func (c AddTask) Apply(in model.AppState, env Env) (model.AppState, bool) {
	text := strings.TrimSpace(c.Text)
	if text == "" || !c.Domain.IsValid() || !c.Priority.IsValid() {
		return in, false
	}
	out := in.Clone()
	out.TasksByDomain[c.Domain] = append(out.TasksByDomain[c.Domain], model.Task{
		ID:       env.NewID(),
		Text:     text,
		Priority: c.Priority,
	})
	return out, true
}

type ToggleTask struct {
	Domain model.Domain
	TaskID string
}

func (ToggleTask) Kind() string { return "toggle_task" }

func (c ToggleTask) Apply(in model.AppState, _ Env) (model.AppState, bool) {
	idx := indexOf(in.Tasks(c.Domain), c.TaskID)
	if idx < 0 {
		return in, false
	}
	out := in.Clone()
	out.TasksByDomain[c.Domain][idx].Completed = !out.TasksByDomain[c.Domain][idx].Completed
	return out, true
}

type DeleteTask struct {
	Domain model.Domain
	TaskID string
}

func (DeleteTask) Kind() string { return "delete_task" }

func (c DeleteTask) Apply(in model.AppState, _ Env) (model.AppState, bool) {
	idx := indexOf(in.Tasks(c.Domain), c.TaskID)
	if idx < 0 {
		return in, false
	}
	out := in.Clone()
	list := out.TasksByDomain[c.Domain]
	out.TasksByDomain[c.Domain] = append(list[:idx], list[idx+1:]...)
	return out, true
}

// MergeSuggestions appends AI suggestions to the domain's current list,
// whatever it holds by the time the response arrives.
type MergeSuggestions struct {
	Domain      model.Domain
	Suggestions []board.Suggestion
}

func (MergeSuggestions) Kind() string { return "merge_suggestions" }

func (c MergeSuggestions) Apply(in model.AppState, env Env) (model.AppState, bool) {
	if !c.Domain.IsValid() {
		return in, false
	}
	merged, added := board.Merge(in.Tasks(c.Domain), c.Suggestions, env.NewID)
	if added == 0 {
		return in, false
	}
	out := in.Clone()
	out.TasksByDomain[c.Domain] = merged
	return out, true
}

type ReplaceHealth struct {
	Health model.HealthRecord
}

func (ReplaceHealth) Kind() string { return "replace_health" }

func (c ReplaceHealth) Apply(in model.AppState, _ Env) (model.AppState, bool) {
	next := c.Health.Clamped()
	if model.ValidatePeriodDate(next.LastPeriodDate) != nil {
		next.LastPeriodDate = in.Health.LastPeriodDate
	}
	if next == in.Health {
		return in, false
	}
	out := in.Clone()
	out.Health = next
	return out, true
}

// ReplaceSkill overwrites skill fields but never LastUpdate; only SyncSkill
// moves the timestamp.
type ReplaceSkill struct {
	Skill model.SkillRecord
}

func (ReplaceSkill) Kind() string { return "replace_skill" }

func (c ReplaceSkill) Apply(in model.AppState, _ Env) (model.AppState, bool) {
	next := c.Skill.Clamped()
	next.LastUpdate = in.Skill.LastUpdate
	if next == in.Skill {
		return in, false
	}
	out := in.Clone()
	out.Skill = next
	return out, true
}

type SyncSkill struct{}

func (SyncSkill) Kind() string { return "sync_skill" }

func (SyncSkill) Apply(in model.AppState, env Env) (model.AppState, bool) {
	out := in.Clone()
	out.Skill.LastUpdate = env.Now().UTC()
	return out, true
}

// SetUserName may be repeated; a later name overwrites the earlier one.
type SetUserName struct {
	Name string
}

func (SetUserName) Kind() string { return "set_user_name" }

func (c SetUserName) Apply(in model.AppState, _ Env) (model.AppState, bool) {
	name := strings.TrimSpace(c.Name)
	if name == "" || name == in.UserName {
		return in, false
	}
	out := in.Clone()
	out.UserName = name
	return out, true
}

func indexOf(tasks []model.Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
