package model

import "time"

// AppState is the single persisted document. An empty UserName means
// onboarding has not happened yet.
type AppState struct {
	UserName      string
	ActiveDomain  Domain
	TasksByDomain map[Domain][]Task
	Health        HealthRecord
	Skill         SkillRecord
}

func DefaultState(now time.Time) AppState {
	tasks := make(map[Domain][]Task, len(Domains))
	for _, d := range Domains {
		tasks[d] = []Task{}
	}
	return AppState{
		ActiveDomain:  DomainWork,
		TasksByDomain: tasks,
		Health:        DefaultHealth(),
		Skill:         DefaultSkill(now),
	}
}

func (s AppState) NeedsOnboarding() bool {
	return s.UserName == ""
}

// Tasks returns the list for d; never nil.
func (s AppState) Tasks(d Domain) []Task {
	if list, ok := s.TasksByDomain[d]; ok && list != nil {
		return list
	}
	return []Task{}
}

// Clone deep-copies the task lists so callers can mutate the result freely.
func (s AppState) Clone() AppState {
	out := s
	out.TasksByDomain = make(map[Domain][]Task, len(Domains))
	for _, d := range Domains {
		src := s.TasksByDomain[d]
		dst := make([]Task, len(src))
		copy(dst, src)
		out.TasksByDomain[d] = dst
	}
	return out
}

func (s AppState) TaskCount() int {
	n := 0
	for _, d := range Domains {
		n += len(s.TasksByDomain[d])
	}
	return n
}
