package update

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/lifesys/internal/ai"
	"github.com/sandeepkv93/lifesys/internal/config"
	"github.com/sandeepkv93/lifesys/internal/model"
	"github.com/sandeepkv93/lifesys/internal/scheduler"
	"github.com/sandeepkv93/lifesys/internal/state"
	"github.com/sandeepkv93/lifesys/internal/storage"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Work   string
	Health string
	Skills string
	Joy    string
	Help   string
	Quit   string
}

type InputMode string

const (
	InputNone      InputMode = ""
	InputName      InputMode = "name"
	InputTask      InputMode = "task"
	InputGoal      InputMode = "goal"
	InputMood      InputMode = "mood"
	InputPeriod    InputMode = "period"
	InputBreakfast InputMode = "breakfast"
	InputLunch     InputMode = "lunch"
	InputDinner    InputMode = "dinner"
	InputSkill     InputMode = "skill"
)

// InputState tracks the single line editor. Priority only matters for
// InputTask.
type InputState struct {
	Mode     InputMode
	Priority model.Priority
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type NapState struct {
	Running   bool
	StartedAt time.Time
	EndsAt    time.Time
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	State          model.AppState
	LoadOutcome    storage.LoadOutcome
	Cursor         int
	Input          InputState
	Palette        CommandPaletteState
	HelpVisible    bool
	Suggesting     bool
	Reflecting     bool
	Reflection     ai.Reflection
	Nap            NapState
	Scheduler      *scheduler.Engine
	Notifications  []Notification
	DesktopEnabled bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	store       *state.Container
	ai          *ai.Client
	notifier    DesktopNotifier
	log         *slog.Logger
	now         func() time.Time
	napDuration time.Duration

	reflectionView string
	textInput      textinput.Model
	commandInput   textinput.Model
	spinner        spinner.Model
	helpModel      help.Model
	progressBar    progress.Model
}

// Options wires the model to its collaborators. Every field is optional; a
// zero Options gives an in-memory model with AI disabled.
type Options struct {
	Store       *state.Container
	AI          *ai.Client
	Scheduler   *scheduler.Engine
	Notifier    DesktopNotifier
	Config      config.RuntimeConfig
	LoadOutcome storage.LoadOutcome
	Logger      *slog.Logger
	Now         func() time.Time
}

type SwitchDomainMsg struct {
	Domain model.Domain
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// SuggestionsMsg carries an AI response back to the domain it was asked for,
// which may no longer be the active one.
type SuggestionsMsg struct {
	Domain model.Domain
	Goal   string
	Result ai.Suggestions
}

type ReflectionMsg struct {
	Result ai.Reflection
}

type AlarmMsg struct {
	Alarm scheduler.Alarm
}

type NapTickMsg struct{}

const (
	napAlarmID     = "joy:nap"
	checkInAlarmID = "skills:check-in"
)

func NewModel(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	store := opts.Store
	if store == nil {
		store = state.NewContainer(model.DefaultState(now()), nil, state.Env{Now: now}, log)
	}
	client := opts.AI
	if client == nil {
		client = ai.NewClient(nil, log, 0)
	}
	cfg := opts.Config
	if cfg.NapMinutes <= 0 {
		cfg.NapMinutes = config.DefaultRuntimeConfig().NapMinutes
	}

	m := Model{
		State:          store.State(),
		LoadOutcome:    opts.LoadOutcome,
		Scheduler:      opts.Scheduler,
		DesktopEnabled: cfg.DesktopNotifications,
		notifier:       NoopDesktopNotifier{},
		Keys: GlobalKeyMap{
			Work:   "1",
			Health: "2",
			Skills: "3",
			Joy:    "4",
			Help:   "?",
			Quit:   "q",
		},
		store:       store,
		ai:          client,
		log:         log,
		now:         now,
		napDuration: cfg.NapDuration(),
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	m.initBubbleComponents()
	if m.State.NeedsOnboarding() {
		m.openInput(InputName, "")
	}
	switch opts.LoadOutcome {
	case storage.LoadCorrupt:
		m.Status = StatusBar{Text: "stored state was unreadable; started fresh", IsError: true}
	case storage.LoadRepaired:
		m.Status = StatusBar{Text: "some stored tasks were unreadable and were left out", IsError: true}
	}
	m.armCheckIn()
	return m
}

func (m *Model) initBubbleComponents() {
	m.textInput = textinput.New()
	m.textInput.CharLimit = 256
	m.textInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.progressBar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(24))
}

func (m Model) activeDomain() model.Domain {
	if m.State.ActiveDomain.IsValid() {
		return m.State.ActiveDomain
	}
	return model.DomainWork
}
