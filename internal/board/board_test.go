package board

import (
	"fmt"
	"testing"

	"github.com/sandeepkv93/lifesys/internal/model"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestPartitionPreservesOrderWithinBucket(t *testing.T) {
	tasks := []model.Task{
		{ID: "1", Text: "a", Priority: model.PriorityCould},
		{ID: "2", Text: "b", Priority: model.PriorityMust},
		{ID: "3", Text: "c", Priority: model.PriorityCould},
		{ID: "4", Text: "d", Priority: model.PriorityWould},
		{ID: "5", Text: "e", Priority: model.PriorityMust},
	}
	cols := Partition(tasks)
	if len(cols) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(cols))
	}
	if cols[0].Priority != model.PriorityMust || cols[3].Priority != model.PriorityWould {
		t.Fatalf("unexpected column order: %s..%s", cols[0].Priority, cols[3].Priority)
	}
	if got := ids(cols[0].Tasks); got != "2,5" {
		t.Fatalf("must column = %s", got)
	}
	if got := ids(cols[1].Tasks); got != "" {
		t.Fatalf("should column = %s", got)
	}
	if got := ids(cols[2].Tasks); got != "1,3" {
		t.Fatalf("could column = %s", got)
	}
	if got := ids(Flatten(cols)); got != "2,5,1,3,4" {
		t.Fatalf("flatten = %s", got)
	}
}

func TestColumnOpenCount(t *testing.T) {
	col := Column{Tasks: []model.Task{{Completed: true}, {}, {}}}
	if col.Open() != 2 {
		t.Fatalf("expected 2 open, got %d", col.Open())
	}
}

func TestMergeDropsInvalidSuggestions(t *testing.T) {
	existing := []model.Task{{ID: "old", Text: "keep", Priority: model.PriorityShould}}
	suggestions := []Suggestion{
		{Text: "Do X", Priority: model.PriorityMust},
		{Text: "", Priority: model.PriorityShould},
		{Text: "Do Y", Priority: model.Priority("ZZZ")},
		{Text: "Do Z", Priority: model.PriorityWould},
	}
	out, added := Merge(existing, suggestions, seqIDs())
	if added != 2 || len(out) != 3 {
		t.Fatalf("expected 2 added (3 total), got added=%d total=%d", added, len(out))
	}
	if out[1].Text != "Do X" || out[1].Priority != model.PriorityMust || out[1].Completed {
		t.Fatalf("unexpected first merged task: %+v", out[1])
	}
	if out[2].Text != "Do Z" || out[2].Priority != model.PriorityWould {
		t.Fatalf("unexpected second merged task: %+v", out[2])
	}
	if out[1].ID == out[2].ID {
		t.Fatal("merged tasks share an id")
	}
	if len(existing) != 1 {
		t.Fatal("merge mutated input slice")
	}
}

func ids(tasks []model.Task) string {
	out := ""
	for i, t := range tasks {
		if i > 0 {
			out += ","
		}
		out += t.ID
	}
	return out
}
