package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kpreisser/wasmtime/stackimage"
	"github.com/kpreisser/wasmtime/trap"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateInputShape modelState = iota
	stateStepWalk
)

type interactiveModel struct {
	err    error
	im     *stackimage.Image
	frames []trap.Frame
	input  textinput.Model
	shape  string
	step   int
	state  modelState
}

func newInteractiveModel(shape string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "2,0,3"
	ti.Prompt = "shape: "
	ti.SetValue(shape)
	ti.Width = 40
	ti.Focus()

	return &interactiveModel{
		input: ti,
		state: stateInputShape,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateStepWalk {
				return m, tea.Quit
			}

		case "enter":
			if m.state == stateInputShape {
				m.startWalk()
				return m, nil
			}

		case " ", "n", "right":
			if m.state == stateStepWalk && m.step < len(m.frames) {
				m.step++
			}

		case "b", "left":
			if m.state == stateStepWalk && m.step > 1 {
				m.step--
			}

		case "esc":
			if m.state == stateStepWalk {
				m.state = stateInputShape
				m.err = nil
				m.input.Focus()
			}
		}
	}

	if m.state == stateInputShape {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) startWalk() {
	m.shape = m.input.Value()
	im, ts, err := buildStack(m.shape)
	if err != nil {
		m.err = err
		return
	}

	m.im = im
	m.frames = nil
	trap.Walk(ts, func(f trap.Frame) trap.Control {
		m.frames = append(m.frames, f)
		return trap.Continue
	})

	m.step = 1
	m.state = stateStepWalk
	m.input.Blur()
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tracewalk"))
	b.WriteString("\n\n")

	switch m.state {
	case stateInputShape:
		b.WriteString("Frames per call level, innermost first (0 = host call that never entered wasm):\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n\n")
		}
		b.WriteString(helpStyle.Render("enter walk • ctrl+c quit"))

	case stateStepWalk:
		fmt.Fprintf(&b, "shape %s, frame %d of %d\n\n", m.shape, m.step, len(m.frames))
		b.WriteString(renderWalk(m.im, m.frames, m.step))
		b.WriteString("\n")
		b.WriteString(m.renderLinkage())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("space/n next frame • b back • esc new shape • q quit"))
	}

	return b.String()
}

// renderLinkage dumps the linkage words of the frame the walk is standing
// on, the same words the walker reads to find the next older frame.
func (m *interactiveModel) renderLinkage() string {
	if m.step < 1 || m.step > len(m.frames) {
		return ""
	}
	f := m.frames[m.step-1]

	var words *stackimage.RegionWords
	for _, r := range m.im.Regions() {
		w := r.Words()
		if w == nil {
			continue
		}
		if lo, hi := w.Bounds(); f.FP() >= lo && f.FP() < hi {
			words = w
			break
		}
	}
	if words == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(selectedStyle.Render(fmt.Sprintf(" frame %d ", m.step-1)))
	fmt.Fprintf(&b, " pc=%#x\n", f.PC())
	for i, label := range []string{"saved fp", "ret addr"} {
		addr := f.FP() + uintptr(i*8)
		v, err := words.Word(addr)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  [%s] %s = %#016x\n", addrStyle.Render(fmt.Sprintf("%#x", addr)), label, v)
	}
	return b.String()
}

func runInteractive(shape string) error {
	p := tea.NewProgram(newInteractiveModel(shape), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
