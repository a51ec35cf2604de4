package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clonkbot/synthia-music-ai-972047/internal/catalog"
)

const generatorPlaceholder = "Describe your song..."

// GeneratorPanel takes a song prompt and a genre. The genre choice is kept
// across submissions; the prompt is cleared.
type GeneratorPanel struct {
	styles   Styles
	width    int
	focused  bool
	disabled bool
	genre    int
	input    textinput.Model
}

// NewGeneratorPanel creates a generator starting on the default genre
func NewGeneratorPanel(styles Styles, width int) *GeneratorPanel {
	input := textinput.New()
	input.Placeholder = generatorPlaceholder
	input.Prompt = "♪ "
	input.PromptStyle = styles.Chat.Prompt

	gp := &GeneratorPanel{styles: styles, input: input}
	for i, g := range catalog.Genres {
		if g.ID == catalog.DefaultGenre {
			gp.genre = i
		}
	}
	gp.SetWidth(width)
	return gp
}

// SetWidth updates the panel width
func (gp *GeneratorPanel) SetWidth(width int) {
	gp.width = width
	gp.input.Width = max(width-8, 10)
}

// Focus activates the panel
func (gp *GeneratorPanel) Focus() tea.Cmd {
	gp.focused = true
	if gp.disabled {
		return nil
	}
	return gp.input.Focus()
}

// Blur deactivates the panel
func (gp *GeneratorPanel) Blur() {
	gp.focused = false
	gp.input.Blur()
}

// SetDisabled locks the prompt while a song is being generated. The genre
// can still be changed.
func (gp *GeneratorPanel) SetDisabled(disabled bool) tea.Cmd {
	if disabled == gp.disabled {
		return nil
	}
	gp.disabled = disabled
	if disabled {
		gp.input.Blur()
		return nil
	}
	if gp.focused {
		return gp.input.Focus()
	}
	return nil
}

// Disabled reports whether the prompt is locked
func (gp *GeneratorPanel) Disabled() bool {
	return gp.disabled
}

// Genre returns the selected genre
func (gp *GeneratorPanel) Genre() catalog.GenreInfo {
	return catalog.Genres[gp.genre]
}

// CycleGenre moves the selection by delta, wrapping around
func (gp *GeneratorPanel) CycleGenre(delta int) {
	n := len(catalog.Genres)
	gp.genre = ((gp.genre+delta)%n + n) % n
}

// Prompt returns the current prompt text
func (gp *GeneratorPanel) Prompt() string {
	return gp.input.Value()
}

// ClearPrompt empties the prompt. The genre is kept.
func (gp *GeneratorPanel) ClearPrompt() {
	gp.input.Reset()
}

// Update forwards messages to the prompt input
func (gp *GeneratorPanel) Update(msg tea.Msg) tea.Cmd {
	if !gp.focused || gp.disabled {
		return nil
	}
	var cmd tea.Cmd
	gp.input, cmd = gp.input.Update(msg)
	return cmd
}

// View renders the panel
func (gp *GeneratorPanel) View() string {
	g := gp.styles.Generator
	genre := g.Label.Render("Genre: ") +
		g.Arrow.Render("◀ ") + g.Genre.Render(gp.Genre().Label) + g.Arrow.Render(" ▶")
	prompt := gp.input.View()
	if gp.disabled {
		prompt = g.Label.Render("♪ Generating...")
	}
	return gp.styles.Panel("Create a Song", prompt+"\n"+genre, gp.width, gp.focused)
}
