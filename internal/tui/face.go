package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clonkbot/synthia-music-ai-972047/internal/avatar"
)

// mouthShapes go from closed to wide open. All share one display width.
var mouthShapes = []string{
	"  ───  ",
	"  ╰─╯  ",
	" ╰───╯ ",
	" ( O ) ",
}

// MouthShape picks the glyphs for a mouth openness in [0,1].
func MouthShape(openness float64) string {
	if openness <= 0 {
		return mouthShapes[0]
	}
	i := int(openness * float64(len(mouthShapes)))
	if i >= len(mouthShapes) {
		i = len(mouthShapes) - 1
	}
	if i < 1 {
		i = 1
	}
	return mouthShapes[i]
}

// EyeShape renders both eyes for the given state.
func EyeShape(state avatar.EyeState) string {
	if state == avatar.EyeClosed {
		return "─     ─"
	}
	return "◉     ◉"
}

// renderFace draws the avatar head and its status line. spin is the spinner
// frame shown while thinking.
func renderFace(s Styles, st avatar.State, spin string, width int) string {
	head := s.Face.Head
	lines := []string{
		head.Render("╭─────────╮"),
		head.Render("│ ") + s.Face.Eyes.Render(EyeShape(st.EyeState)) + head.Render(" │"),
		head.Render("│         │"),
		head.Render("│ ") + s.Face.Mouth.Render(MouthShape(st.MouthOpenness)) + head.Render(" │"),
		head.Render("╰─────────╯"),
		"",
	}

	status := s.Face.Status.Render(avatar.StatusLabel(st.Mode))
	if st.Mode == avatar.ModeThinking {
		status = s.Face.Thinking.Render(spin) + " " + status
	}
	lines = append(lines, status)

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n"))
}
