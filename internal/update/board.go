package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifesys/internal/ai"
	"github.com/sandeepkv93/lifesys/internal/board"
	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/state"
	"github.com/sandeepkv93/lifesys/internal/views"
)

var domainColors = map[model.Domain]string{
	model.DomainWork:   "14",
	model.DomainHealth: "10",
	model.DomainSkills: "13",
	model.DomainJoy:    "11",
}

var priorityColors = map[model.Priority]string{
	model.PriorityMust:   "9",
	model.PriorityShould: "11",
	model.PriorityCould:  "12",
	model.PriorityWould:  "8",
}

// visibleTasks is the active domain's list in board order; Cursor and the
// 1-based numbers used by /done and /rm index into it.
func (m Model) visibleTasks() []model.Task {
	return board.Flatten(board.Partition(m.State.Tasks(m.activeDomain())))
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor], true
}

func (m Model) taskAt(index int) (model.Task, bool) {
	tasks := m.visibleTasks()
	if index < 1 || index > len(tasks) {
		return model.Task{}, false
	}
	return tasks[index-1], true
}

func (m Model) handleBoardKey(keyStr string) (Model, tea.Cmd, bool) {
	switch keyStr {
	case "j", "down":
		m.Cursor++
		m.clampCursor()
	case "k", "up":
		m.Cursor--
		m.clampCursor()
	case "a":
		m.Input.Priority = model.PriorityMust
		m.openInput(InputTask, "")
	case "x", " ", "enter":
		if t, ok := m.selectedTask(); ok {
			m.dispatch(state.ToggleTask{Domain: m.activeDomain(), TaskID: t.ID})
		}
	case "d", "delete":
		if t, ok := m.selectedTask(); ok {
			if m.dispatch(state.DeleteTask{Domain: m.activeDomain(), TaskID: t.ID}) {
				m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", t.Text)}
			}
		}
	case "g":
		if m.Suggesting {
			m.Status = StatusBar{Text: "tactical plan already generating", IsError: true}
			return m, nil, true
		}
		m.openInput(InputGoal, "")
	default:
		return m, nil, false
	}
	return m, nil, true
}

// startSuggest launches one AI request for the active domain. While one is
// in flight further requests are refused.
func (m *Model) startSuggest(goal string) tea.Cmd {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil
	}
	if m.Suggesting {
		m.Status = StatusBar{Text: "tactical plan already generating", IsError: true}
		return nil
	}
	m.Suggesting = true
	d := m.activeDomain()
	m.Status = StatusBar{Text: fmt.Sprintf("generating plan for %s", d.NavLabel())}
	return tea.Batch(m.spinner.Tick, suggestCmd(m.ai, d, goal))
}

func suggestCmd(client *ai.Client, d model.Domain, goal string) tea.Cmd {
	return func() tea.Msg {
		return SuggestionsMsg{Domain: d, Goal: goal, Result: client.SuggestTasks(context.Background(), d.Title(), goal)}
	}
}

func (m *Model) applySuggestions(msg SuggestionsMsg) {
	m.Suggesting = false
	switch msg.Result.Source {
	case ai.SourceDisabled:
		m.Status = StatusBar{Text: "ai offline: set API_KEY to enable suggestions", IsError: true}
		return
	case ai.SourceFailed:
		m.Status = StatusBar{Text: "no suggestions received, try again", IsError: true}
		return
	}
	before := len(m.State.Tasks(msg.Domain))
	m.dispatch(state.MergeSuggestions{Domain: msg.Domain, Suggestions: msg.Result.Items})
	added := len(m.State.Tasks(msg.Domain)) - before
	if added == 0 {
		m.Status = StatusBar{Text: "no usable suggestions for that goal"}
		return
	}
	text := fmt.Sprintf("added %d task(s) to %s", added, msg.Domain.NavLabel())
	if !m.Status.IsError {
		m.Status = StatusBar{Text: text}
	}
	m.notify("Tactical Plan", text, "info")
}

func (m Model) renderNav() string {
	keys := []string{m.Keys.Work, m.Keys.Health, m.Keys.Skills, m.Keys.Joy}
	items := make([]views.NavItem, 0, len(model.Domains))
	for i, d := range model.Domains {
		items = append(items, views.NavItem{
			Key:    keys[i],
			Label:  d.NavLabel(),
			Color:  domainColors[d],
			Active: d == m.activeDomain(),
		})
	}
	return views.RenderNav(items)
}

func (m Model) renderBoard() string {
	d := m.activeDomain()
	cols := board.Partition(m.State.Tasks(d))
	selected, hasSelection := m.selectedTask()

	data := views.BoardData{
		Title:       d.Title(),
		Description: d.Description(),
		Color:       domainColors[d],
		Suggesting:  m.Suggesting,
		SpinnerView: m.spinner.View(),
		AIEnabled:   m.ai.Enabled(),
		InputView:   m.renderInput(),
	}
	index := 1
	for _, col := range cols {
		cd := views.ColumnData{
			Label:       col.Priority.Label(),
			Description: col.Priority.Description(),
			Color:       priorityColors[col.Priority],
			Open:        col.Open(),
		}
		for _, t := range col.Tasks {
			cd.Tasks = append(cd.Tasks, views.TaskLine{
				Index:     index,
				Text:      t.Text,
				Completed: t.Completed,
				Selected:  hasSelection && t.ID == selected.ID,
			})
			index++
		}
		data.Columns = append(data.Columns, cd)
	}
	return views.RenderBoard(data)
}
