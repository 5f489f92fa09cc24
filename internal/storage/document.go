package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sandeepkv93/lifesys/internal/model"
)

// ErrIncompatibleDocument marks a stored document that cannot be read back
// as application state.
var ErrIncompatibleDocument = errors.New("storage: incompatible document")

type document struct {
	UserName     *string              `json:"userName"`
	ActiveDomain string               `json:"activeDomain"`
	Tasks        map[string][]taskDoc `json:"tasks"`
	Health       *healthDoc           `json:"health"`
	Skill        *skillDoc            `json:"skill"`
}

type taskDoc struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
}

type healthDoc struct {
	WaterIntake    float64  `json:"waterIntake"`
	SleepHours     float64  `json:"sleepHours"`
	Mood           string   `json:"mood"`
	LastPeriodDate string   `json:"lastPeriodDate"`
	Meals          mealsDoc `json:"meals"`
}

type mealsDoc struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

type skillDoc struct {
	CurrentSkill string  `json:"currentSkill"`
	Progress     float64 `json:"progress"`
	LastUpdate   string  `json:"lastUpdate"`
}

// EncodeState renders the whole state as one JSON document. Every domain
// key is always present.
func EncodeState(s model.AppState) ([]byte, error) {
	doc := document{
		ActiveDomain: string(s.ActiveDomain),
		Tasks:        make(map[string][]taskDoc, len(model.Domains)),
		Health: &healthDoc{
			WaterIntake:    float64(s.Health.WaterIntake),
			SleepHours:     s.Health.SleepHours,
			Mood:           s.Health.Mood,
			LastPeriodDate: s.Health.LastPeriodDate,
			Meals: mealsDoc{
				Breakfast: s.Health.Meals.Breakfast,
				Lunch:     s.Health.Meals.Lunch,
				Dinner:    s.Health.Meals.Dinner,
			},
		},
		Skill: &skillDoc{
			CurrentSkill: s.Skill.CurrentSkill,
			Progress:     float64(s.Skill.Progress),
			LastUpdate:   s.Skill.LastUpdate.UTC().Format(time.RFC3339Nano),
		},
	}
	if s.UserName != "" {
		name := s.UserName
		doc.UserName = &name
	}
	for _, d := range model.Domains {
		list := s.Tasks(d)
		out := make([]taskDoc, 0, len(list))
		for _, t := range list {
			out = append(out, taskDoc{ID: t.ID, Text: t.Text, Priority: string(t.Priority), Completed: t.Completed})
		}
		doc.Tasks[string(d)] = out
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeState parses a stored document. Numeric fields are clamped into
// range. Task elements that fail validation or repeat an id are dropped one
// by one and counted. Only a wrong document shape yields
// ErrIncompatibleDocument.
func DecodeState(raw []byte) (model.AppState, int, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.AppState{}, 0, fmt.Errorf("%w: %v", ErrIncompatibleDocument, err)
	}
	domain := model.Domain(doc.ActiveDomain)
	if !domain.IsValid() {
		return model.AppState{}, 0, fmt.Errorf("%w: active domain %q", ErrIncompatibleDocument, doc.ActiveDomain)
	}
	if doc.Tasks == nil || doc.Health == nil || doc.Skill == nil {
		return model.AppState{}, 0, fmt.Errorf("%w: missing tasks, health or skill", ErrIncompatibleDocument)
	}

	lastUpdate, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(doc.Skill.LastUpdate))
	if err != nil {
		return model.AppState{}, 0, fmt.Errorf("%w: skill lastUpdate: %v", ErrIncompatibleDocument, err)
	}

	out := model.AppState{
		ActiveDomain:  domain,
		TasksByDomain: make(map[model.Domain][]model.Task, len(model.Domains)),
		Health: model.HealthRecord{
			WaterIntake:    int(math.Round(doc.Health.WaterIntake)),
			SleepHours:     doc.Health.SleepHours,
			Mood:           doc.Health.Mood,
			LastPeriodDate: doc.Health.LastPeriodDate,
			Meals: model.Meals{
				Breakfast: doc.Health.Meals.Breakfast,
				Lunch:     doc.Health.Meals.Lunch,
				Dinner:    doc.Health.Meals.Dinner,
			},
		}.Clamped(),
		Skill: model.SkillRecord{
			CurrentSkill: doc.Skill.CurrentSkill,
			Progress:     int(math.Round(doc.Skill.Progress)),
			LastUpdate:   lastUpdate.UTC(),
		}.Clamped(),
	}
	if doc.UserName != nil {
		out.UserName = strings.TrimSpace(*doc.UserName)
	}

	seen := make(map[string]bool)
	dropped := 0
	for _, d := range model.Domains {
		list := doc.Tasks[string(d)]
		tasks := make([]model.Task, 0, len(list))
		for _, item := range list {
			t := model.Task{ID: item.ID, Text: item.Text, Priority: model.Priority(item.Priority), Completed: item.Completed}
			if t.Validate() != nil || seen[t.ID] {
				dropped++
				continue
			}
			seen[t.ID] = true
			tasks = append(tasks, t)
		}
		out.TasksByDomain[d] = tasks
	}
	return out, dropped, nil
}
