package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandeepkv93/lifesys/internal/model"
)

func suggestionSchema() *Schema {
	enum := make([]string, 0, len(model.Priorities))
	for _, p := range model.Priorities {
		enum = append(enum, string(p))
	}
	return &Schema{
		Type: "ARRAY",
		Items: &Schema{
			Type: "OBJECT",
			Properties: map[string]Schema{
				"text":     {Type: "STRING"},
				"priority": {Type: "STRING", Enum: enum},
			},
			Required: []string{"text", "priority"},
		},
	}
}

func buildSuggestPrompt(domainLabel, goal string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "I am working on my %s. My goal is: %q.\n", domainLabel, goal)
	sb.WriteString("Generate 4 specific, actionable tasks to help me achieve this, ")
	sb.WriteString("exactly one for each priority level:\n")
	for _, p := range model.Priorities {
		fmt.Fprintf(&sb, "- %s: %s\n", p, promptHint(p))
	}
	sb.WriteString(`Return a JSON array of objects shaped {"text": "...", "priority": "MUST|SHOULD|COULD|WOULD"}.` + "\n")
	sb.WriteString("Return only valid JSON.")
	return sb.String()
}

func promptHint(p model.Priority) string {
	switch p {
	case model.PriorityMust:
		return "Critical, immediate deadline"
	case model.PriorityShould:
		return "Important but not vital immediately"
	case model.PriorityCould:
		return "Nice to have, beneficial"
	default:
		return "Wishlist, low priority"
	}
}

type healthContext struct {
	WaterIntake    int     `json:"waterIntake"`
	SleepHours     float64 `json:"sleepHours"`
	Mood           string  `json:"mood"`
	LastPeriodDate string  `json:"lastPeriodDate"`
	Meals          struct {
		Breakfast string `json:"breakfast"`
		Lunch     string `json:"lunch"`
		Dinner    string `json:"dinner"`
	} `json:"meals"`
}

func buildReflectionPrompt(h model.HealthRecord) (string, error) {
	hc := healthContext{
		WaterIntake:    h.WaterIntake,
		SleepHours:     h.SleepHours,
		Mood:           h.Mood,
		LastPeriodDate: h.LastPeriodDate,
	}
	hc.Meals.Breakfast = h.Meals.Breakfast
	hc.Meals.Lunch = h.Meals.Lunch
	hc.Meals.Dinner = h.Meals.Dinner
	raw, err := json.Marshal(hc)
	if err != nil {
		return "", fmt.Errorf("marshal health context: %w", err)
	}
	return "Based on this health data, give me a short, 1-sentence encouraging reflection or tip: " + string(raw), nil
}
