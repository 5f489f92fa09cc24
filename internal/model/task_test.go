package model

import (
	"errors"
	"testing"
)

func TestTaskValidateSuccess(t *testing.T) {
	task := Task{ID: "task-1", Text: "Ship report", Priority: PriorityMust}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateRequiresText(t *testing.T) {
	task := Task{ID: "task-1", Text: "   ", Priority: PriorityShould}
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "model: task text is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskValidateInvalidPriority(t *testing.T) {
	task := Task{ID: "task-1", Text: "Do Y", Priority: Priority("ZZZ")}
	err := task.Validate()
	if err == nil || !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority(" should ")
	if err != nil || p != PriorityShould {
		t.Fatalf("expected SHOULD, got %q err=%v", p, err)
	}
	if _, err := ParsePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestParseDomainAcceptsLabels(t *testing.T) {
	cases := map[string]Domain{
		"work":      DomainWork,
		"career":    DomainWork,
		"LIFESTYLE": DomainHealth,
		"growth":    DomainSkills,
		"joy":       DomainJoy,
	}
	for in, want := range cases {
		got, err := ParseDomain(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q = %s, want %s", in, got, want)
		}
	}
	if _, err := ParseDomain("mars"); !errors.Is(err, ErrInvalidDomain) {
		t.Fatalf("expected ErrInvalidDomain, got %v", err)
	}
}

func TestPriorityNextCycles(t *testing.T) {
	p := PriorityMust
	seen := []Priority{p}
	for i := 0; i < 4; i++ {
		p = p.Next()
		seen = append(seen, p)
	}
	want := []Priority{PriorityMust, PriorityShould, PriorityCould, PriorityWould, PriorityMust}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("cycle[%d] = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestDomainTitles(t *testing.T) {
	if DomainWork.Title() != "COMMAND_CENTER // CAREER" {
		t.Fatalf("unexpected work title: %q", DomainWork.Title())
	}
	if PriorityMust.Label() != "THE MUSTS" {
		t.Fatalf("unexpected must label: %q", PriorityMust.Label())
	}
}
