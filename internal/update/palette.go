package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifesys/internal/commands"
	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/state"
	"github.com/sandeepkv93/lifesys/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	prevErr := m.LastError
	health := func(edit func(*model.HealthRecord)) {
		h := m.State.Health
		edit(&h)
		m.dispatch(state.ReplaceHealth{Health: h})
	}
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.dispatch(state.AddTask{Domain: m.activeDomain(), Text: a.Text, Priority: a.Priority})
			return commands.Result{Message: fmt.Sprintf("added %s task: %s", a.Priority, a.Text)}, nil
		},
		Done: func(r commands.TaskRefArgs) (commands.Result, error) {
			t, ok := m.taskAt(r.Index)
			if !ok {
				return commands.Result{}, noTask(r.Index)
			}
			m.dispatch(state.ToggleTask{Domain: m.activeDomain(), TaskID: t.ID})
			return commands.Result{Message: fmt.Sprintf("toggled: %s", t.Text)}, nil
		},
		Remove: func(r commands.TaskRefArgs) (commands.Result, error) {
			t, ok := m.taskAt(r.Index)
			if !ok {
				return commands.Result{}, noTask(r.Index)
			}
			m.dispatch(state.DeleteTask{Domain: m.activeDomain(), TaskID: t.ID})
			return commands.Result{Message: fmt.Sprintf("deleted: %s", t.Text)}, nil
		},
		Suggest: func(s commands.SuggestArgs) (commands.Result, error) {
			if m.Suggesting {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "tactical plan already generating"}
			}
			follow = m.startSuggest(s.Goal)
			return commands.Result{Message: fmt.Sprintf("generating plan for %s", m.activeDomain().NavLabel())}, nil
		},
		Domain: func(d commands.DomainArgs) (commands.Result, error) {
			m.switchDomain(d.Domain)
			return commands.Result{Message: fmt.Sprintf("switched to %s", d.Domain.NavLabel())}, nil
		},
		Water: func(w commands.WaterArgs) (commands.Result, error) {
			glasses := w.Glasses
			if w.Relative {
				glasses += m.State.Health.WaterIntake
			}
			m.setWater(glasses)
			return commands.Result{Message: fmt.Sprintf("hydration: %d/%d", m.State.Health.WaterIntake, model.MaxWaterIntake)}, nil
		},
		Sleep: func(s commands.SleepArgs) (commands.Result, error) {
			health(func(h *model.HealthRecord) { h.SleepHours = s.Hours })
			return commands.Result{Message: fmt.Sprintf("sleep: %.1fh", m.State.Health.SleepHours)}, nil
		},
		Mood: func(t commands.TextArgs) (commands.Result, error) {
			health(func(h *model.HealthRecord) { h.Mood = t.Text })
			return commands.Result{Message: "mood updated"}, nil
		},
		Meal: func(a commands.MealArgs) (commands.Result, error) {
			health(func(h *model.HealthRecord) { setMeal(&h.Meals, a.Meal, a.Text) })
			return commands.Result{Message: a.Meal + " logged"}, nil
		},
		Period: func(t commands.TextArgs) (commands.Result, error) {
			health(func(h *model.HealthRecord) { h.LastPeriodDate = t.Text })
			return commands.Result{Message: "cycle date updated"}, nil
		},
		Skill: func(t commands.TextArgs) (commands.Result, error) {
			s := m.State.Skill
			s.CurrentSkill = t.Text
			m.dispatch(state.ReplaceSkill{Skill: s})
			return commands.Result{Message: "skill updated"}, nil
		},
		Progress: func(p commands.ProgressArgs) (commands.Result, error) {
			s := m.State.Skill
			s.Progress = p.Percent
			m.dispatch(state.ReplaceSkill{Skill: s})
			return commands.Result{Message: fmt.Sprintf("progress: %d%%", m.State.Skill.Progress)}, nil
		},
		Sync: func() (commands.Result, error) {
			m.syncSkill()
			return commands.Result{Message: "skill progress synced"}, nil
		},
		Name: func(t commands.TextArgs) (commands.Result, error) {
			m.dispatch(state.SetUserName{Name: t.Text})
			return commands.Result{Message: fmt.Sprintf("operator: %s", m.State.UserName)}, nil
		},
		Reflect: func() (commands.Result, error) {
			follow = m.startReflect()
			return commands.Result{Message: "requesting reflection"}, nil
		},
		Nap: func(n commands.NapArgs) (commands.Result, error) {
			if n.Stop {
				m.stopNap()
				return commands.Result{Message: "nap aborted"}, nil
			}
			follow = m.startNap()
			if follow == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: m.Status.Text}
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, follow
	}
	if m.LastError == prevErr {
		m.Status = StatusBar{Text: res.Message}
	}
	m.notify("Command", res.Message, "info")
	return m, follow
}

func noTask(index int) error {
	return &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task #%d on this board", index)}
}

func (m Model) renderCommandPalette() string {
	usages := make([]string, 0, len(commands.Types))
	head := ""
	if fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(m.Palette.Input), "/")); len(fields) > 0 {
		head = strings.ToLower(fields[0])
	}
	for _, t := range commands.Types {
		if strings.HasPrefix(string(t), head) {
			usages = append(usages, t.Usage())
		}
	}
	return views.RenderCommandPalette(views.PaletteData{
		Active:    m.Palette.Active,
		InputView: m.commandInput.View(),
		Usages:    usages,
	})
}
