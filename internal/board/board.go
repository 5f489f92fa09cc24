// Package board partitions a domain's tasks into priority buckets and turns
// AI suggestions into tasks.
package board

import (
	"strings"

	"github.com/sandeepkv93/lifesys/internal/model"
)

type Column struct {
	Priority model.Priority
	Tasks    []model.Task
}

func (c Column) Open() int {
	n := 0
	for _, t := range c.Tasks {
		if !t.Completed {
			n++
		}
	}
	return n
}

// Partition returns one column per priority in board order. Relative order
// inside a column follows the input list. Tasks with an unknown priority are
// not displayed.
func Partition(tasks []model.Task) []Column {
	cols := make([]Column, len(model.Priorities))
	index := make(map[model.Priority]int, len(model.Priorities))
	for i, p := range model.Priorities {
		cols[i] = Column{Priority: p, Tasks: []model.Task{}}
		index[p] = i
	}
	for _, t := range tasks {
		i, ok := index[t.Priority]
		if !ok {
			continue
		}
		cols[i].Tasks = append(cols[i].Tasks, t)
	}
	return cols
}

// Flatten lists tasks in display order: column by column.
func Flatten(cols []Column) []model.Task {
	out := make([]model.Task, 0)
	for _, c := range cols {
		out = append(out, c.Tasks...)
	}
	return out
}

type Suggestion struct {
	Text     string
	Priority model.Priority
}

func (s Suggestion) Valid() bool {
	return strings.TrimSpace(s.Text) != "" && s.Priority.IsValid()
}

// Merge appends one new task per valid suggestion, in the order received.
// Invalid suggestions are dropped silently. The input slice is not modified.
func Merge(tasks []model.Task, suggestions []Suggestion, newID func() string) ([]model.Task, int) {
	out := make([]model.Task, len(tasks), len(tasks)+len(suggestions))
	copy(out, tasks)
	added := 0
	for _, s := range suggestions {
		if !s.Valid() {
			continue
		}
		out = append(out, model.Task{
			ID:       newID(),
			Text:     strings.TrimSpace(s.Text),
			Priority: s.Priority,
		})
		added++
	}
	return out, added
}
