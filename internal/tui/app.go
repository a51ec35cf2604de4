package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/clonkbot/synthia-music-ai-972047/internal/avatar"
	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
	"github.com/clonkbot/synthia-music-ai-972047/internal/responder"
	"github.com/clonkbot/synthia-music-ai-972047/internal/session"
)

// Backend is the session surface the TUI drives
type Backend interface {
	SubmitUserMessage(text string) error
	SubmitSongRequest(prompt, genre string) error
	SelectSong(id string) error
	TogglePlayPause() bool
	Snapshot() session.Snapshot
	Subscribe(eventType bus.EventType, handler bus.Handler) bus.SubscriptionID
	Unsubscribe(id bus.SubscriptionID) error
}

// Focus identifies the panel receiving keys
type Focus int

const (
	FocusChat Focus = iota
	FocusGenerator
	FocusPlayer
	focusCount
)

// AppConfig holds TUI configuration
type AppConfig struct {
	Theme     Theme
	AltScreen bool
	Logger    *logging.Logger
}

// activityMsg reports that the session published at least one event since the
// last snapshot.
type activityMsg struct{}

const (
	defaultWidth  = 100
	defaultHeight = 32
)

// AppModel is the main application model
type AppModel struct {
	backend Backend
	styles  Styles
	keys    KeyMap
	log     *logging.Logger

	help      help.Model
	spinner   spinner.Model
	face      avatar.State
	chat      *ChatPanel
	generator *GeneratorPanel
	player    *PlayerPanel

	snapshot session.Snapshot
	focus    Focus
	width    int
	height   int
	showHelp bool
	status   string
	quitting bool

	activity chan struct{}
	subID    bus.SubscriptionID
}

// NewApp creates the model and subscribes it to the backend's events. Call
// Close to drop the subscription.
func NewApp(backend Backend, cfg AppConfig) *AppModel {
	styles := NewStyles(cfg.Theme)
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.Face.Thinking

	m := &AppModel{
		backend:   backend,
		styles:    styles,
		keys:      DefaultKeyMap(),
		log:       log,
		help:      help.New(),
		spinner:   sp,
		chat:      NewChatPanel(styles, defaultWidth/2, defaultHeight),
		generator: NewGeneratorPanel(styles, defaultWidth/2),
		player:    NewPlayerPanel(styles, defaultWidth/2, defaultHeight),
		width:     defaultWidth,
		height:    defaultHeight,
		activity:  make(chan struct{}, 1),
	}

	// Handlers run on the session loop and must not block: coalesce bursts
	// into a single pending signal.
	m.subID = backend.Subscribe("", func(bus.Event) {
		select {
		case m.activity <- struct{}{}:
		default:
		}
	})

	m.chat.Focus()
	m.layout()
	m.refresh()
	return m
}

// Close drops the event subscription
func (m *AppModel) Close() {
	if m.subID != "" {
		_ = m.backend.Unsubscribe(m.subID)
		m.subID = ""
	}
}

// Init starts the spinner and the event bridge
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForActivity(), m.chat.Focus())
}

// waitForActivity blocks until the session signals a change.
func (m *AppModel) waitForActivity() tea.Cmd {
	ch := m.activity
	return func() tea.Msg {
		<-ch
		return activityMsg{}
	}
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case activityMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, m.waitForActivity())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, m.forward(msg)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return nil
	case key.Matches(msg, m.keys.NextPanel):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, m.keys.PrevPanel):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	case key.Matches(msg, m.keys.PlayPause):
		m.backend.TogglePlayPause()
		return m.refresh()
	}

	// Quick prompts only fill the chat input; Send still goes through the
	// thinking gate.
	for i, b := range m.keys.QuickPrompts {
		if key.Matches(msg, b) {
			if m.chat.Disabled() {
				return nil
			}
			m.chat.SetValue(responder.QuickPrompts[i])
			return m.setFocus(FocusChat)
		}
	}

	switch m.focus {
	case FocusChat:
		if key.Matches(msg, m.keys.Send) {
			return m.sendChat()
		}
		return m.chat.Update(msg)

	case FocusGenerator:
		switch {
		case key.Matches(msg, m.keys.Send):
			return m.sendSong()
		case key.Matches(msg, m.keys.GenreNext):
			m.generator.CycleGenre(1)
			return nil
		case key.Matches(msg, m.keys.GenrePrev):
			m.generator.CycleGenre(-1)
			return nil
		}
		return m.generator.Update(msg)

	case FocusPlayer:
		switch {
		case key.Matches(msg, m.keys.SongUp):
			m.player.MoveCursor(-1)
		case key.Matches(msg, m.keys.SongDown):
			m.player.MoveCursor(1)
		case key.Matches(msg, m.keys.SelectSong):
			if id := m.player.SelectedID(); id != "" {
				m.report(m.backend.SelectSong(id))
				return m.refresh()
			}
		case key.Matches(msg, m.keys.Toggle):
			m.backend.TogglePlayPause()
			return m.refresh()
		}
	}
	return nil
}

// forward passes non-key messages such as cursor blinks to the focused input.
func (m *AppModel) forward(msg tea.Msg) tea.Cmd {
	switch m.focus {
	case FocusChat:
		return m.chat.Update(msg)
	case FocusGenerator:
		return m.generator.Update(msg)
	}
	return nil
}

func (m *AppModel) sendChat() tea.Cmd {
	if m.chat.Disabled() {
		return nil
	}
	text := m.chat.Value()
	err := m.backend.SubmitUserMessage(text)
	if errors.Is(err, responder.ErrEmptyInput) {
		return nil
	}
	if m.report(err) {
		m.chat.ClearInput()
	}
	return m.refresh()
}

func (m *AppModel) sendSong() tea.Cmd {
	if m.generator.Disabled() {
		return nil
	}
	prompt := m.generator.Prompt()
	err := m.backend.SubmitSongRequest(prompt, string(m.generator.Genre().ID))
	if errors.Is(err, responder.ErrEmptyInput) {
		return nil
	}
	if m.report(err) {
		m.generator.ClearPrompt()
	}
	return m.refresh()
}

// report shows err in the status bar and returns true when err is nil.
func (m *AppModel) report(err error) bool {
	if err == nil {
		m.status = ""
		return true
	}
	if errors.Is(err, responder.ErrBusy) {
		m.status = "SYNTHIA is still busy, try again in a moment"
	} else {
		m.status = err.Error()
	}
	m.log.Warn("tui", "Request rejected", map[string]interface{}{"error": err.Error()})
	return false
}

func (m *AppModel) setFocus(f Focus) tea.Cmd {
	m.chat.Blur()
	m.generator.Blur()
	m.player.Blur()
	m.focus = f

	switch f {
	case FocusChat:
		return m.chat.Focus()
	case FocusGenerator:
		return m.generator.Focus()
	default:
		m.player.Focus()
		return nil
	}
}

// refresh pulls a fresh snapshot and pushes it into the panels.
func (m *AppModel) refresh() tea.Cmd {
	snap := m.backend.Snapshot()
	m.snapshot = snap
	m.face = snap.Avatar
	m.chat.SetMessages(snap.Messages)
	m.player.SetState(snap.Songs, snap.Playback)
	return tea.Batch(m.chat.SetDisabled(snap.Thinking), m.generator.SetDisabled(snap.Thinking))
}

func (m *AppModel) layout() {
	left := m.width / 2
	right := m.width - left
	body := max(m.height-3, 10)

	m.player.SetSize(left, body-faceHeight)
	m.generator.SetWidth(right)
	m.chat.SetSize(right, body-generatorHeight)
	m.help.Width = m.width
}

const (
	faceHeight      = 11
	generatorHeight = 4
)

// Focused returns the panel receiving keys
func (m *AppModel) Focused() Focus {
	return m.focus
}

// Snapshot returns the last session snapshot the view was built from
func (m *AppModel) Snapshot() session.Snapshot {
	return m.snapshot
}

// View renders the application
func (m *AppModel) View() string {
	if m.quitting {
		return ""
	}

	left := m.width / 2

	face := m.styles.Panel("SYNTHIA", renderFace(m.styles, m.face, m.spinner.View(), left-4), left, false)
	leftCol := lipgloss.JoinVertical(lipgloss.Left, face, m.player.View())
	rightCol := lipgloss.JoinVertical(lipgloss.Left, m.chat.View(), m.generator.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	footer := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		footer = m.help.FullHelpView(m.keys.FullHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderStatusBar(), body, footer)
}

func (m *AppModel) renderStatusBar() string {
	s := m.styles.StatusBar
	mode := s.Mode.Render(avatar.StatusLabel(m.face.Mode))
	info := s.Info.Render(fmt.Sprintf("%d songs", len(m.snapshot.Songs)))
	if m.snapshot.Pending > 0 {
		info += s.Info.Render(fmt.Sprintf(" | %d pending", m.snapshot.Pending))
	}
	if m.status != "" {
		info += "  " + s.Warning.Render(m.status)
	} else if last := m.log.GetHistory(1); len(last) > 0 {
		info += "  " + s.Info.Render(last[0].Component+": "+last[0].Message)
	}
	title := m.styles.App.Title.Render("SYNTHIA") + " " + m.styles.App.Subtitle.Render("AI music companion")
	return s.Container.Render(title + "  " + mode + " " + info)
}

// Run starts the TUI and blocks until the user quits
func Run(backend Backend, cfg AppConfig) error {
	if termenv.EnvNoColor() || cfg.Theme == ThemeMono {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	m := NewApp(backend, cfg)
	defer m.Close()

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
