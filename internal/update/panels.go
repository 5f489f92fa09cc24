package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifesys/internal/ai"
	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/scheduler"
	"github.com/sandeepkv93/lifesys/internal/state"
	"github.com/sandeepkv93/lifesys/internal/views"
)

const (
	sleepStep    = 0.5
	progressStep = 5
)

func (m Model) handleHealthKey(keyStr string) (tea.Model, tea.Cmd) {
	h := m.State.Health
	switch keyStr {
	case "+", "=":
		h.WaterIntake++
		m.dispatch(state.ReplaceHealth{Health: h})
	case "-", "_":
		h.WaterIntake--
		m.dispatch(state.ReplaceHealth{Health: h})
	case "]":
		h.SleepHours += sleepStep
		m.dispatch(state.ReplaceHealth{Health: h})
	case "[":
		h.SleepHours -= sleepStep
		m.dispatch(state.ReplaceHealth{Health: h})
	case "m":
		m.openInput(InputMood, h.Mood)
	case "p":
		m.openInput(InputPeriod, h.LastPeriodDate)
	case "B":
		m.openInput(InputBreakfast, h.Meals.Breakfast)
	case "L":
		m.openInput(InputLunch, h.Meals.Lunch)
	case "D":
		m.openInput(InputDinner, h.Meals.Dinner)
	case "r":
		return m, m.startReflect()
	}
	return m, nil
}

func (m *Model) setWater(glasses int) {
	h := m.State.Health
	h.WaterIntake = glasses
	m.dispatch(state.ReplaceHealth{Health: h})
}

func (m *Model) startReflect() tea.Cmd {
	if m.Reflecting {
		return nil
	}
	m.Reflecting = true
	return tea.Batch(m.spinner.Tick, reflectCmd(m.ai, m.State.Health))
}

func reflectCmd(client *ai.Client, h model.HealthRecord) tea.Cmd {
	return func() tea.Msg {
		return ReflectionMsg{Result: client.Reflect(context.Background(), h)}
	}
}

func (m Model) handleSkillKey(keyStr string) (tea.Model, tea.Cmd) {
	s := m.State.Skill
	switch keyStr {
	case "s":
		m.openInput(InputSkill, s.CurrentSkill)
	case ">", ".":
		s.Progress += progressStep
		m.dispatch(state.ReplaceSkill{Skill: s})
	case "<", ",":
		s.Progress -= progressStep
		m.dispatch(state.ReplaceSkill{Skill: s})
	case "y":
		m.syncSkill()
	}
	return m, nil
}

func (m *Model) syncSkill() {
	m.dispatch(state.SyncSkill{})
	m.Status = StatusBar{Text: "skill progress synced"}
	m.armCheckIn()
}

// armCheckIn schedules the alarm for when the skill record turns stale.
// Nothing is scheduled once it already is.
func (m *Model) armCheckIn() {
	if m.Scheduler == nil {
		return
	}
	at := m.State.Skill.LastUpdate.Add(model.StaleAfterDays * 24 * time.Hour)
	if !at.After(m.now()) {
		m.Scheduler.Cancel(checkInAlarmID)
		return
	}
	if err := m.Scheduler.Schedule(scheduler.Alarm{
		ID:        checkInAlarmID,
		Kind:      scheduler.AlarmCheckIn,
		Label:     m.State.Skill.CurrentSkill,
		TriggerAt: at,
	}); err != nil {
		m.log.Warn("schedule check-in failed", "err", err)
	}
}

func (m Model) handleJoyKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case "n":
		return m, m.startNap()
	case "N":
		m.stopNap()
	}
	return m, nil
}

func (m *Model) startNap() tea.Cmd {
	if m.Scheduler == nil {
		m.Status = StatusBar{Text: "nap timer unavailable", IsError: true}
		return nil
	}
	if m.Nap.Running {
		m.Status = StatusBar{Text: "stasis pod already engaged"}
		return nil
	}
	start := m.now()
	end := start.Add(m.napDuration)
	if err := m.Scheduler.Schedule(scheduler.Alarm{ID: napAlarmID, Kind: scheduler.AlarmNap, Label: "Stasis Pod", TriggerAt: end}); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return nil
	}
	m.Nap = NapState{Running: true, StartedAt: start, EndsAt: end}
	m.Status = StatusBar{Text: fmt.Sprintf("stasis pod engaged for %d minutes", int(m.napDuration/time.Minute))}
	return napTickCmd()
}

func (m *Model) stopNap() {
	if !m.Nap.Running {
		return
	}
	if m.Scheduler != nil {
		m.Scheduler.Cancel(napAlarmID)
	}
	m.Nap = NapState{}
	m.Status = StatusBar{Text: "nap aborted"}
}

func napTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return NapTickMsg{} })
}

func (m *Model) onAlarm(a scheduler.Alarm) {
	switch a.Kind {
	case scheduler.AlarmNap:
		m.Nap = NapState{}
		m.Status = StatusBar{Text: "nap complete, systems recharged"}
		m.notify("Stasis Pod", "Nap complete. Systems recharged.", "info")
	case scheduler.AlarmCheckIn:
		skill := a.Label
		if skill == "" {
			skill = "your skill"
		}
		body := fmt.Sprintf("Time to sync progress on %s.", skill)
		m.Status = StatusBar{Text: "skill check-in due"}
		m.notify("Neural Link", body, "warn")
	}
}

func (m Model) renderDomainPanel() string {
	now := m.now()
	switch m.activeDomain() {
	case model.DomainHealth:
		h := m.State.Health
		return views.RenderHealthPanel(views.HealthPanelData{
			Water:          h.WaterIntake,
			MaxWater:       model.MaxWaterIntake,
			SleepHours:     h.SleepHours,
			SleepBar:       m.progressBar.ViewAs(h.SleepHours / model.MaxSleepHours),
			Mood:           h.Mood,
			LastPeriodDate: h.LastPeriodDate,
			Breakfast:      h.Meals.Breakfast,
			Lunch:          h.Meals.Lunch,
			Dinner:         h.Meals.Dinner,
			Reflection:     m.reflectionView,
			Reflecting:     m.Reflecting,
			SpinnerView:    m.spinner.View(),
		}) + "\n" + m.renderInput()
	case model.DomainSkills:
		s := m.State.Skill
		st := s.Staleness(now)
		return views.RenderSkillPanel(views.SkillPanelData{
			Skill:       s.CurrentSkill,
			Progress:    s.Progress,
			ProgressBar: m.progressBar.ViewAs(float64(s.Progress) / model.MaxProgress),
			DaysSince:   st.DaysSince,
			NeedsUpdate: st.NeedsUpdate,
			DaysUntil:   st.DaysUntilCheckIn(),
		})
	case model.DomainJoy:
		data := views.JoyPanelData{NapMinutes: int(m.napDuration / time.Minute), Running: m.Nap.Running}
		if m.Nap.Running {
			remaining := m.Nap.EndsAt.Sub(now)
			if remaining < 0 {
				remaining = 0
			}
			total := m.Nap.EndsAt.Sub(m.Nap.StartedAt)
			pct := 1.0
			if total > 0 {
				pct = 1 - float64(remaining)/float64(total)
			}
			data.Remaining = formatDuration(int(remaining / time.Second))
			data.Bar = m.progressBar.ViewAs(pct)
		}
		return views.RenderJoyPanel(data)
	default:
		return ""
	}
}

func formatDuration(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	min := totalSec / 60
	sec := totalSec % 60
	return fmt.Sprintf("%02d:%02d", min, sec)
}
