package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifesys/internal/ai"
	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/scheduler"
	"github.com/sandeepkv93/lifesys/internal/state"
	"github.com/sandeepkv93/lifesys/internal/storage"
	"github.com/sandeepkv93/lifesys/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.Scheduler != nil {
		cmds = append(cmds, waitForAlarmCmd(m.Scheduler.C()))
	}
	if m.Nap.Running {
		cmds = append(cmds, napTickCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.Suggesting || m.Reflecting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(typed)
			return m, cmd
		}
	case SwitchDomainMsg:
		m.switchDomain(typed.Domain)
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case SuggestionsMsg:
		m.applySuggestions(typed)
		return m, nil
	case ReflectionMsg:
		m.Reflecting = false
		m.Reflection = typed.Result
		m.reflectionView = views.RenderMarkdown("> " + typed.Result.Text)
		if typed.Result.Source == ai.SourceFailed {
			m.Status = StatusBar{Text: "reflection unavailable, showing a default tip", IsError: true}
		}
		return m, nil
	case AlarmMsg:
		m.onAlarm(typed.Alarm)
		if m.Scheduler != nil {
			return m, waitForAlarmCmd(m.Scheduler.C())
		}
		return m, nil
	case NapTickMsg:
		if m.Nap.Running {
			return m, napTickCmd()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.State.NeedsOnboarding() {
		return m.handleOnboardingKey(msg)
	}
	if m.Palette.Active {
		if keyStr == m.Keys.Help {
			m.HelpVisible = !m.HelpVisible
			return m, nil
		}
		return m.handlePaletteKey(msg)
	}
	if m.Input.Mode != InputNone {
		return m.handleInputKey(msg)
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Work:
		m.switchDomain(model.DomainWork)
		return m, nil
	case m.Keys.Health:
		m.switchDomain(model.DomainHealth)
		return m, nil
	case m.Keys.Skills:
		m.switchDomain(model.DomainSkills)
		return m, nil
	case m.Keys.Joy:
		m.switchDomain(model.DomainJoy)
		return m, nil
	case "tab":
		m.switchDomain(nextDomain(m.activeDomain()))
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	if next, cmd, handled := m.handleBoardKey(keyStr); handled {
		return next, cmd
	}
	switch m.activeDomain() {
	case model.DomainHealth:
		return m.handleHealthKey(keyStr)
	case model.DomainSkills:
		return m.handleSkillKey(keyStr)
	case model.DomainJoy:
		return m.handleJoyKey(keyStr)
	}
	return m, nil
}

func (m Model) handleOnboardingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Input.Mode != InputName {
		m.openInput(InputName, "")
	}
	return m.handleInputKey(msg)
}

// dispatch applies cmd through the container and refreshes the snapshot. A
// failed write keeps the change and reports it on the status bar.
func (m *Model) dispatch(cmd state.Command) bool {
	changed, err := m.store.Dispatch(context.Background(), cmd)
	m.State = m.store.State()
	m.clampCursor()
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: "save failed, changes kept in memory", IsError: true}
		m.notify("Storage", err.Error(), "error")
	}
	return changed
}

func (m *Model) switchDomain(d model.Domain) {
	if !d.IsValid() {
		return
	}
	m.dispatch(state.SetActiveDomain{Domain: d})
	m.Cursor = 0
	m.clampCursor()
}

func nextDomain(d model.Domain) model.Domain {
	for i, item := range model.Domains {
		if item == d {
			return model.Domains[(i+1)%len(model.Domains)]
		}
	}
	return model.DomainWork
}

func (m Model) View() string {
	if m.State.NeedsOnboarding() {
		return views.RenderApp(views.AppData{
			Header:   "LIFE SYSTEM",
			MainPane: views.RenderOnboarding(views.OnboardingData{InputView: m.textInput.View(), Corrupt: m.LoadOutcome == storage.LoadCorrupt}),
		})
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	side := strings.TrimSpace(strings.Join([]string{
		m.renderDomainPanel(),
		m.renderCommandPalette(),
		m.renderHelpIfVisible(),
	}, "\n\n"))

	header := fmt.Sprintf("LIFE SYSTEM | operator: %s | %s", m.State.UserName, m.now().Format("Mon 02 Jan 15:04"))
	if m.store.LastPersistError() != nil {
		header += " | UNSAVED"
	}

	return views.RenderApp(views.AppData{
		Header:       header,
		Nav:          m.renderNav(),
		MainPane:     m.renderBoard(),
		SidePane:     side,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer:       fmt.Sprintf("keys: %s-%s domain | a add | x done | d delete | g ai plan | / cmd | %s help | %s quit", m.Keys.Work, m.Keys.Joy, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func waitForAlarmCmd(ch <-chan scheduler.Alarm) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return AlarmMsg{Alarm: a}
	}
}
