package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/state"
)

func (m *Model) openInput(mode InputMode, value string) {
	m.Input.Mode = mode
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	m.textInput.Placeholder = inputPlaceholder(mode)
	m.textInput.Prompt = string(mode) + "> "
	m.textInput.Focus()
}

func (m *Model) closeInput() {
	m.Input.Mode = InputNone
	m.textInput.SetValue("")
	m.textInput.Blur()
}

func inputPlaceholder(mode InputMode) string {
	switch mode {
	case InputName:
		return "your name"
	case InputTask:
		return "new objective"
	case InputGoal:
		return "describe a goal for the AI to plan"
	case InputPeriod:
		return "YYYY-MM-DD (empty clears)"
	case InputSkill:
		return "skill in progress"
	default:
		return ""
	}
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.Input.Mode == InputName {
			return m, nil
		}
		m.closeInput()
		return m, nil
	case "enter":
		mode, value := m.Input.Mode, m.textInput.Value()
		if mode != InputName {
			m.closeInput()
		}
		cmd := m.submitInput(mode, value)
		return m, cmd
	case "tab":
		if m.Input.Mode == InputTask {
			m.Input.Priority = m.Input.Priority.Next()
			return m, nil
		}
	}
	if msg.Type == tea.KeyRunes {
		m.textInput.SetValue(m.textInput.Value() + string(msg.Runes))
		return m, nil
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// submitInput applies the edited value. Blank task text and blank goals are
// ignored without a message.
func (m *Model) submitInput(mode InputMode, value string) tea.Cmd {
	value = strings.TrimSpace(value)
	switch mode {
	case InputName:
		if m.dispatch(state.SetUserName{Name: value}) {
			m.closeInput()
			m.Status = StatusBar{Text: fmt.Sprintf("welcome, %s", m.State.UserName)}
		}
	case InputTask:
		m.dispatch(state.AddTask{Domain: m.activeDomain(), Text: value, Priority: m.Input.Priority})
	case InputGoal:
		return m.startSuggest(value)
	case InputMood:
		h := m.State.Health
		h.Mood = value
		m.dispatch(state.ReplaceHealth{Health: h})
	case InputPeriod:
		if err := model.ValidatePeriodDate(value); err != nil {
			m.Status = StatusBar{Text: "cycle date must be YYYY-MM-DD", IsError: true}
			return nil
		}
		h := m.State.Health
		h.LastPeriodDate = value
		m.dispatch(state.ReplaceHealth{Health: h})
	case InputBreakfast, InputLunch, InputDinner:
		h := m.State.Health
		setMeal(&h.Meals, string(mode), value)
		m.dispatch(state.ReplaceHealth{Health: h})
	case InputSkill:
		s := m.State.Skill
		s.CurrentSkill = value
		m.dispatch(state.ReplaceSkill{Skill: s})
	}
	return nil
}

func setMeal(meals *model.Meals, meal, value string) {
	switch meal {
	case "breakfast":
		meals.Breakfast = value
	case "lunch":
		meals.Lunch = value
	case "dinner":
		meals.Dinner = value
	}
}

func (m Model) renderInput() string {
	if m.Input.Mode == InputNone || m.Input.Mode == InputName {
		return ""
	}
	view := m.textInput.View()
	if m.Input.Mode == InputTask {
		p := m.Input.Priority
		tag := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(priorityColors[p])).Render(string(p))
		view = fmt.Sprintf("%s  [tab] priority: %s", view, tag)
	}
	return view + "\n[enter] save  [esc] cancel"
}
