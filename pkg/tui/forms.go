package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func makeInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Width = width
	ti.Prompt = "> "
	return ti
}

func makePasswordInput(placeholder string, width int) textinput.Model {
	ti := makeInput(placeholder, width)
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return ti
}

// setFocus focuses exactly one input of the group.
func setFocus(inputs []textinput.Model, idx int) {
	for i := range inputs {
		if i == idx {
			inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
}

// cycleFocus moves focus by delta, wrapping.
func cycleFocus(inputs []textinput.Model, idx, delta int) int {
	idx = (idx + delta + len(inputs)) % len(inputs)
	setFocus(inputs, idx)
	return idx
}

// updateInputs feeds a message to every input; only the focused one
// reacts to keystrokes.
func updateInputs(inputs []textinput.Model, msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(inputs))
	for i := range inputs {
		inputs[i], cmds[i] = inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}
