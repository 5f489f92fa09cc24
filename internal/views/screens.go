package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type NavItem struct {
	Key    string
	Label  string
	Color  string
	Active bool
}

type TaskLine struct {
	Index     int
	Text      string
	Completed bool
	Selected  bool
}

type ColumnData struct {
	Label       string
	Description string
	Color       string
	Open        int
	Tasks       []TaskLine
}

type BoardData struct {
	Title       string
	Description string
	Color       string
	Columns     []ColumnData
	InputView   string
	Suggesting  bool
	SpinnerView string
	AIEnabled   bool
}

type HealthPanelData struct {
	Water          int
	MaxWater       int
	SleepHours     float64
	SleepBar       string
	Mood           string
	LastPeriodDate string
	Breakfast      string
	Lunch          string
	Dinner         string
	Reflection     string
	Reflecting     bool
	SpinnerView    string
}

type SkillPanelData struct {
	Skill       string
	Progress    int
	ProgressBar string
	DaysSince   int
	NeedsUpdate bool
	DaysUntil   int
}

type JoyPanelData struct {
	NapMinutes int
	Running    bool
	Remaining  string
	Bar        string
}

type OnboardingData struct {
	InputView string
	Corrupt   bool
}

type HelpPanelData struct {
	Domain   string
	Bindings []string
	HelpView string
}

type PaletteData struct {
	Active    bool
	InputView string
	Usages    []string
}

func RenderNav(items []NavItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		label := fmt.Sprintf("[%s] %s", it.Key, it.Label)
		style := lipgloss.NewStyle().Padding(0, 1)
		if it.Active {
			style = style.Bold(true).Reverse(true).Foreground(lipgloss.Color(it.Color))
		} else {
			style = style.Foreground(lipgloss.Color("8"))
		}
		parts = append(parts, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func RenderBoard(data BoardData) string {
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(data.Color)).Render(data.Title)
	b.WriteString(title + "\n")
	b.WriteString(dimStyle.Render(data.Description) + "\n")

	cols := make([]string, 0, len(data.Columns))
	for _, col := range data.Columns {
		cols = append(cols, renderColumn(col))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	switch {
	case data.InputView != "":
		b.WriteString(data.InputView)
	case data.Suggesting:
		b.WriteString(fmt.Sprintf("%s generating tactical plan...", data.SpinnerView))
	case !data.AIEnabled:
		b.WriteString(dimStyle.Render("ai: offline (set API_KEY to enable suggestions)"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderColumn(col ColumnData) string {
	style := lipgloss.NewStyle().Width(20).MarginRight(1)
	head := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(col.Color))

	var b strings.Builder
	b.WriteString(head.Render(fmt.Sprintf("%s (%d)", col.Label, col.Open)) + "\n")
	b.WriteString(dimStyle.Render(col.Description) + "\n")
	if len(col.Tasks) == 0 {
		b.WriteString(dimStyle.Render("Sector Clear"))
		return style.Render(b.String())
	}
	for _, t := range col.Tasks {
		cursor := " "
		if t.Selected {
			cursor = ">"
		}
		box := "[ ]"
		text := t.Text
		if t.Completed {
			box = "[x]"
			text = dimStyle.Strikethrough(true).Render(text)
		}
		b.WriteString(fmt.Sprintf("%s%d %s %s\n", cursor, t.Index, box, text))
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func RenderHealthPanel(data HealthPanelData) string {
	var b strings.Builder
	b.WriteString("vitals:\n")
	glasses := strings.Repeat("●", data.Water) + strings.Repeat("○", max(data.MaxWater-data.Water, 0))
	b.WriteString(fmt.Sprintf("hydration: %s %d/%d\n", glasses, data.Water, data.MaxWater))
	b.WriteString(fmt.Sprintf("sleep: %s %.1fh\n", data.SleepBar, data.SleepHours))
	b.WriteString(fmt.Sprintf("mood: %s\n", orDash(data.Mood)))
	b.WriteString(fmt.Sprintf("cycle start: %s\n", orDash(data.LastPeriodDate)))
	b.WriteString("fuel log:\n")
	b.WriteString(fmt.Sprintf("  breakfast: %s\n", orDash(data.Breakfast)))
	b.WriteString(fmt.Sprintf("  lunch: %s\n", orDash(data.Lunch)))
	b.WriteString(fmt.Sprintf("  dinner: %s\n", orDash(data.Dinner)))
	b.WriteString("\nreflection:\n")
	switch {
	case data.Reflecting:
		b.WriteString(data.SpinnerView + " analyzing vitals...")
	case data.Reflection != "":
		b.WriteString(data.Reflection)
	default:
		b.WriteString(dimStyle.Render("press [r] for a reflection"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderSkillPanel(data SkillPanelData) string {
	var b strings.Builder
	b.WriteString("neural link:\n")
	b.WriteString(fmt.Sprintf("current skill: %s\n", orDash(data.Skill)))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressBar, data.Progress))
	if data.NeedsUpdate {
		b.WriteString(alertStyle.Render(fmt.Sprintf("SYNC REQUIRED: %d days since last update", data.DaysSince)) + "\n")
		b.WriteString("press [y] to sync progress")
	} else {
		b.WriteString(okStyle.Render(fmt.Sprintf("NEXT CHECK-IN: T-MINUS %d DAYS", data.DaysUntil)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderJoyPanel(data JoyPanelData) string {
	var b strings.Builder
	b.WriteString("stasis pod // nap station:\n")
	if data.Running {
		b.WriteString(fmt.Sprintf("status: RECHARGING %s\n", data.Remaining))
		b.WriteString(data.Bar + "\n")
		b.WriteString("press [N] to abort")
	} else {
		b.WriteString("status: IDLE\n")
		b.WriteString(fmt.Sprintf("press [n] to start a %d minute nap", data.NapMinutes))
	}
	return b.String()
}

func RenderOnboarding(data OnboardingData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("LIFE SYSTEM // INITIALIZATION") + "\n\n")
	if data.Corrupt {
		b.WriteString(errorStyle.Render("stored profile was unreadable and has been reset") + "\n\n")
	}
	b.WriteString("identify yourself, operator:\n")
	b.WriteString(data.InputView + "\n\n")
	b.WriteString(dimStyle.Render("[enter] confirm  [ctrl+c] quit"))
	return b.String()
}

func RenderCommandPalette(data PaletteData) string {
	if !data.Active {
		return ""
	}
	var b strings.Builder
	b.WriteString("command: " + data.InputView + "\n")
	for _, u := range data.Usages {
		b.WriteString(dimStyle.Render("  "+u) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s keys:\n%s\n%s",
		strings.ToLower(data.Domain),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
