package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.domainBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Domain:   m.activeDomain().NavLabel(),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Work, Action: "career board"},
		{Key: m.Keys.Health, Action: "lifestyle board"},
		{Key: m.Keys.Skills, Action: "growth board"},
		{Key: m.Keys.Joy, Action: "joy board"},
		{Key: "tab", Action: "next domain"},
		{Key: "j/k", Action: "move selection"},
		{Key: "a", Action: "add task (tab cycles priority)"},
		{Key: "x", Action: "toggle complete"},
		{Key: "d", Action: "delete task"},
		{Key: "g", Action: "ai tactical plan from a goal"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) domainBindings() []KeyBinding {
	switch m.activeDomain() {
	case model.DomainHealth:
		return []KeyBinding{
			{Key: "+/-", Action: "water glass up/down"},
			{Key: "]/[", Action: "sleep +/- 0.5h"},
			{Key: "m", Action: "edit mood"},
			{Key: "p", Action: "edit cycle start date"},
			{Key: "B/L/D", Action: "log breakfast/lunch/dinner"},
			{Key: "r", Action: "ai reflection"},
		}
	case model.DomainSkills:
		return []KeyBinding{
			{Key: "s", Action: "edit current skill"},
			{Key: ">/<", Action: "progress +/- 5%"},
			{Key: "y", Action: "sync progress"},
		}
	case model.DomainJoy:
		return []KeyBinding{
			{Key: "n", Action: "start nap timer"},
			{Key: "N", Action: "abort nap"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no domain bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.domainBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.domainBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
