package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qtermopt/cancel"
	"qtermopt/circuit"
	"qtermopt/compile"
	"qtermopt/route"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusLegend
)

// Model is the state of the optimisation viewer.
type Model struct {
	source *circuit.Circuit
	model  *route.FidelityModel // nil disables routing
	opts   compile.Options

	result *compile.Result
	keep   circuit.KeepMask // cancellation mask over source, for marking dropped gates
	err    error

	showOptimized bool
	cursorStep    int
	viewStartStep int // first step currently visible in the view
	width         int
	height        int
	qasmView      viewport.Model
	focus         focus
	statusMsg     string // transient status message (e.g. save confirmation)
	savePath      string

	menuItem  int
	legendCat int
}

// newModel builds a viewer over src. A nil fidelity model switches routing
// off for the lifetime of the viewer.
func newModel(src *circuit.Circuit, model *route.FidelityModel, opts compile.Options, savePath string) Model {
	// The TUI owns the terminal; compile logs would tear the frame.
	opts.Logger = slog.New(slog.DiscardHandler)
	if model == nil {
		opts.Route = false
	}
	m := Model{
		source:        src,
		model:         model,
		opts:          opts,
		qasmView:      viewport.New(40, 20),
		focus:         focusCircuit,
		showOptimized: true,
		savePath:      savePath,
	}
	m.recompile()
	return m
}

// recompile reruns the passes with the current options and refreshes every
// derived view.
func (m *Model) recompile() {
	m.keep = cancel.Cancel(circuit.Project(m.source))
	m.result, m.err = compile.Compile(m.source, m.model, m.opts)
	m.syncQASM()
}

func (m *Model) syncQASM() {
	c, _ := m.shownCircuit()
	m.qasmView.SetContent(c.QASM())
	m.qasmView.GotoTop()
}

// maxStep is the last step the cursor may reach.
func (m Model) maxStep() int {
	c, keep := m.shownCircuit()
	return max(layoutCircuit(c, keep).steps-1, 0)
}

// save writes the optimised circuit as QASM to savePath.
func (m *Model) save() {
	if m.result == nil {
		m.statusMsg = "Nothing to save"
		return
	}
	if err := os.WriteFile(m.savePath, []byte(m.result.Circuit.QASM()), 0o644); err != nil {
		m.statusMsg = fmt.Sprintf("Save error: %v", err)
		return
	}
	m.statusMsg = "Saved " + m.savePath
}

// apply performs a pass-menu action and recompiles.
func (m *Model) apply(action menuAction) {
	switch action {
	case actionToggleCancel:
		m.opts.Cancel = !m.opts.Cancel
	case actionToggleRoute:
		if m.model == nil {
			m.statusMsg = "No fidelity model loaded"
			return
		}
		m.opts.Route = !m.opts.Route
	case actionCycleOrder:
		if m.opts.Order == compile.RouteFirst {
			m.opts.Order = compile.CancelFirst
		} else {
			m.opts.Order = compile.RouteFirst
		}
	case actionCycleStrategy:
		if m.opts.Strategy == route.StrategyRank {
			m.opts.Strategy = route.StrategyGreedy
		} else {
			m.opts.Strategy = route.StrategyRank
		}
	}
	m.recompile()
	m.cursorStep = min(m.cursorStep, m.maxStep())
	m.viewStartStep = min(m.viewStartStep, m.cursorStep)
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.qasmView.Width = max(msg.Width/3-6, 20)
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		m.qasmView.Height = max(circH-8, 4)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
			case "ctrl+s":
				m.save()
			case " ", "v":
				m.showOptimized = !m.showOptimized
				m.syncQASM()
				m.cursorStep = min(m.cursorStep, m.maxStep())
				m.viewStartStep = min(m.viewStartStep, m.cursorStep)
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
					if m.cursorStep < m.viewStartStep {
						m.viewStartStep = m.cursorStep
					}
				}
			case "right", "l":
				if m.cursorStep < m.maxStep() {
					m.cursorStep++
				}
			case "c":
				m.apply(actionToggleCancel)
			case "r":
				m.apply(actionToggleRoute)
			case "o":
				m.apply(actionCycleOrder)
			case "s":
				m.apply(actionCycleStrategy)
			case "a", "m":
				m.focus = focusMenu
				m.menuItem = 0
			case "?":
				m.focus = focusLegend
				m.legendCat = 0
			}

		case focusMenu:
			switch key {
			case "esc", "q":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(passMenu)-1 {
					m.menuItem++
				}
			case "enter", " ":
				m.apply(passMenu[m.menuItem].action)
			}

		case focusLegend:
			switch key {
			case "esc", "q", "?":
				m.focus = focusCircuit
			case "left", "h":
				if m.legendCat > 0 {
					m.legendCat--
				}
			case "right", "l":
				if m.legendCat < len(legendCategories())-1 {
					m.legendCat++
				}
			}

		case focusQASM:
			switch key {
			case "tab", "esc":
				m.focus = focusCircuit
			default:
				var cmd tea.Cmd
				m.qasmView, cmd = m.qasmView.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	// Keep the cursor inside the visible window.
	displaySteps := max((circuitWidth-labelVisualW-4)/cellW, 1)
	if m.cursorStep >= m.viewStartStep+displaySteps {
		m.viewStartStep = m.cursorStep - displaySteps + 1
	}

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, circuitHeight)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusLegend:
		frame = overlayAt(frame, m.renderLegend(), 2, 2)
	}

	return frame
}
