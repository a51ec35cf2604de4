package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clonkbot/synthia-music-ai-972047/internal/conversation"
	"github.com/clonkbot/synthia-music-ai-972047/internal/responder"
)

const (
	chatPlaceholder     = "Chat with SYNTHIA..."
	thinkingPlaceholder = "SYNTHIA is thinking..."
)

// ChatPanel shows the transcript and the message input
type ChatPanel struct {
	styles   Styles
	width    int
	height   int
	focused  bool
	disabled bool
	messages []conversation.Message
	viewport viewport.Model
	input    textarea.Model
}

// NewChatPanel creates a new chat panel
func NewChatPanel(styles Styles, width, height int) *ChatPanel {
	input := textarea.New()
	input.Placeholder = chatPlaceholder
	input.Prompt = "> "
	input.ShowLineNumbers = false
	input.SetHeight(1)
	input.FocusedStyle.CursorLine = lipgloss.NewStyle()
	input.FocusedStyle.Prompt = styles.Chat.Prompt
	input.KeyMap.InsertNewline.SetEnabled(false)

	cp := &ChatPanel{
		styles:   styles,
		input:    input,
		viewport: viewport.New(0, 0),
	}
	cp.SetSize(width, height)
	return cp
}

// SetSize updates dimensions
func (cp *ChatPanel) SetSize(width, height int) {
	cp.width = width
	cp.height = height
	cp.input.SetWidth(max(width-4, 10))
	cp.viewport.Width = max(width-4, 10)
	cp.viewport.Height = max(height-7, 3)
	cp.updateViewport()
}

// Focus activates the panel
func (cp *ChatPanel) Focus() tea.Cmd {
	cp.focused = true
	if cp.disabled {
		return nil
	}
	return cp.input.Focus()
}

// Blur deactivates the panel
func (cp *ChatPanel) Blur() {
	cp.focused = false
	cp.input.Blur()
}

// IsFocused returns focus state
func (cp *ChatPanel) IsFocused() bool {
	return cp.focused
}

// SetDisabled locks the input while SYNTHIA is thinking. Typed text survives.
func (cp *ChatPanel) SetDisabled(disabled bool) tea.Cmd {
	if disabled == cp.disabled {
		return nil
	}
	cp.disabled = disabled
	if disabled {
		cp.input.Placeholder = thinkingPlaceholder
		cp.input.Blur()
		return nil
	}
	cp.input.Placeholder = chatPlaceholder
	if cp.focused {
		return cp.input.Focus()
	}
	return nil
}

// Disabled reports whether input is locked
func (cp *ChatPanel) Disabled() bool {
	return cp.disabled
}

// SetMessages replaces the transcript
func (cp *ChatPanel) SetMessages(msgs []conversation.Message) {
	cp.messages = msgs
	cp.updateViewport()
}

// Value returns the current input
func (cp *ChatPanel) Value() string {
	return cp.input.Value()
}

// SetValue replaces the input text
func (cp *ChatPanel) SetValue(s string) {
	cp.input.SetValue(s)
}

// ClearInput clears the input
func (cp *ChatPanel) ClearInput() {
	cp.input.Reset()
}

// Update forwards key and blink messages to the input and viewport
func (cp *ChatPanel) Update(msg tea.Msg) tea.Cmd {
	if !cp.focused {
		return nil
	}
	var cmds []tea.Cmd
	if !cp.disabled {
		var cmd tea.Cmd
		cp.input, cmd = cp.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	if km, ok := msg.(tea.KeyMsg); ok && (km.Type == tea.KeyPgUp || km.Type == tea.KeyPgDown) {
		var cmd tea.Cmd
		cp.viewport, cmd = cp.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (cp *ChatPanel) updateViewport() {
	var content strings.Builder
	for i, msg := range cp.messages {
		if i > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(cp.renderMessage(msg))
	}
	cp.viewport.SetContent(lipgloss.NewStyle().Width(cp.viewport.Width).Render(content.String()))
	cp.viewport.GotoBottom()
}

func (cp *ChatPanel) renderMessage(msg conversation.Message) string {
	sender := "You"
	style := cp.styles.Chat.UserMessage
	if msg.Role == conversation.RoleBot {
		sender = "SYNTHIA"
		style = cp.styles.Chat.BotMessage
	}

	header := cp.styles.Chat.Timestamp.Render(msg.Timestamp.Format("15:04")+" ") +
		cp.styles.Chat.Sender.Inherit(style).Render(sender)
	return header + "\n" + style.Render(msg.Content)
}

// View renders the panel
func (cp *ChatPanel) View() string {
	var b strings.Builder
	b.WriteString(cp.viewport.View())
	b.WriteString("\n")

	var prompts []string
	for i, p := range responder.QuickPrompts {
		prompts = append(prompts, fmt.Sprintf("%d:%s", i+1, p))
	}
	b.WriteString(cp.styles.Chat.QuickPrompt.
		Width(max(cp.width-4, 10)).
		MaxHeight(1).
		Render(strings.Join(prompts, "  ")))
	b.WriteString("\n")
	b.WriteString(cp.input.View())

	return cp.styles.Panel("Chat", b.String(), cp.width, cp.focused)
}
