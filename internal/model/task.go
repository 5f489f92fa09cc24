package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDomain   = errors.New("model: invalid domain")
	ErrInvalidPriority = errors.New("model: invalid task priority")
)

type Domain string

const (
	DomainWork   Domain = "WORK"
	DomainHealth Domain = "HEALTH"
	DomainSkills Domain = "SKILLS"
	DomainJoy    Domain = "JOY"
)

// Domains lists every domain in navigation order.
var Domains = []Domain{DomainWork, DomainHealth, DomainSkills, DomainJoy}

func (d Domain) IsValid() bool {
	switch d {
	case DomainWork, DomainHealth, DomainSkills, DomainJoy:
		return true
	default:
		return false
	}
}

// Title is the heading shown for the domain and the label sent to the AI.
func (d Domain) Title() string {
	switch d {
	case DomainWork:
		return "COMMAND_CENTER // CAREER"
	case DomainHealth:
		return "BIO_LABS // HEALTH"
	case DomainSkills:
		return "UPGRADE_STATION // SKILLS"
	case DomainJoy:
		return "RECREATION_DECK // JOY"
	default:
		return string(d)
	}
}

func (d Domain) NavLabel() string {
	switch d {
	case DomainWork:
		return "CAREER"
	case DomainHealth:
		return "LIFESTYLE"
	case DomainSkills:
		return "GROWTH"
	case DomainJoy:
		return "JOY"
	default:
		return string(d)
	}
}

func (d Domain) Description() string {
	switch d {
	case DomainWork:
		return "Mission control for professional objectives."
	case DomainHealth:
		return "System diagnostics and biological maintenance."
	case DomainSkills:
		return "Skill acquisition and capability expansion."
	case DomainJoy:
		return "Mental regeneration and leisure protocols."
	default:
		return ""
	}
}

// ParseDomain accepts the wire names plus the nav labels ("career", "growth", ...).
func ParseDomain(raw string) (Domain, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "WORK", "CAREER":
		return DomainWork, nil
	case "HEALTH", "LIFESTYLE":
		return DomainHealth, nil
	case "SKILLS", "SKILL", "GROWTH":
		return DomainSkills, nil
	case "JOY", "LEISURE":
		return DomainJoy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, raw)
	}
}

type Priority string

const (
	PriorityMust   Priority = "MUST"
	PriorityShould Priority = "SHOULD"
	PriorityCould  Priority = "COULD"
	PriorityWould  Priority = "WOULD"
)

// Priorities lists the buckets in board order.
var Priorities = []Priority{PriorityMust, PriorityShould, PriorityCould, PriorityWould}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityMust, PriorityShould, PriorityCould, PriorityWould:
		return true
	default:
		return false
	}
}

func (p Priority) Label() string {
	if !p.IsValid() {
		return string(p)
	}
	return "THE " + string(p) + "S"
}

func (p Priority) Description() string {
	switch p {
	case PriorityMust:
		return "CRITICAL // IMMEDIATE"
	case PriorityShould:
		return "IMPORTANT // TACTICAL"
	case PriorityCould:
		return "OPTIONAL // BENEFICIAL"
	case PriorityWould:
		return "WISHLIST // LONG-TERM"
	default:
		return ""
	}
}

// Next cycles MUST -> SHOULD -> COULD -> WOULD -> MUST.
func (p Priority) Next() Priority {
	for i, item := range Priorities {
		if item == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityMust
}

// ParsePriority is case-insensitive; anything outside the four buckets is rejected.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

type Task struct {
	ID        string
	Text      string
	Priority  Priority
	Completed bool
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("model: task text is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	return nil
}
