package main

import (
	"fmt"
	"strings"

	"qtermopt/circuit"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns a box label of at most gateNameW characters.
func gateDisplayName(op circuit.Opcode) string {
	switch op {
	case circuit.OpSi:
		return "Sdg"
	case circuit.OpTi:
		return "Tdg"
	case circuit.OpV:
		return "SX"
	case circuit.OpVi:
		return "SXdg"
	case circuit.OpPhaseShift, circuit.OpCPhaseShift:
		return "P"
	case circuit.OpCPhaseShift00:
		return "P00"
	case circuit.OpCPhaseShift01:
		return "P01"
	case circuit.OpCPhaseShift10:
		return "P10"
	case circuit.OpCY:
		return "Y"
	case circuit.OpISwap:
		return "iSWP"
	case circuit.OpPSwap:
		return "pSWP"
	default:
		return strings.ToUpper(op.String())
	}
}

// wireSymbol returns the glyph drawn for operand pos of op, or "" when the
// operand is drawn as a labelled box.
func wireSymbol(op circuit.Opcode, pos int) string {
	switch op {
	case circuit.OpCNot:
		return []string{"●", "⊕"}[pos]
	case circuit.OpCCNot:
		return []string{"●", "●", "⊕"}[pos]
	case circuit.OpCZ:
		return "●"
	case circuit.OpSwap:
		return "×"
	case circuit.OpCSwap:
		return []string{"●", "×", "×"}[pos]
	case circuit.OpCY, circuit.OpCPhaseShift, circuit.OpCPhaseShift00, circuit.OpCPhaseShift01, circuit.OpCPhaseShift10:
		if pos == 0 {
			return "●"
		}
	}
	return ""
}

// ──────────────────────────── Cell rendering ────────────────────────────

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW visual characters wide.
func renderCell(info cellInfo, highlighted bool) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	style := gateStyle
	if info.dropped {
		style = droppedGateStyle
	}

	// ── Highlighted cell (cursor column) ──
	if highlighted {
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = cursorBoxStyle.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = cursorBoxStyle.Render("╚" + strings.Repeat("═", innerW) + "╝")
		edge := cursorBoxStyle.Render("║")

		switch {
		case info.instr != nil:
			if sym := wireSymbol(info.instr.Op, info.pos); sym != "" {
				mid = edge + strings.Repeat("─", dashL) + style.Render(sym) + strings.Repeat("─", dashR) + edge
			} else {
				name := padCenter(gateDisplayName(info.instr.Op), gateNameW)
				mid = edge + "─┤" + style.Render(name) + "├─" + edge
			}
		case info.passThrough:
			mid = edge + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + edge
		default:
			mid = edge + strings.Repeat("─", innerW) + edge
		}
		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	top = emptyRow
	if info.vertAbove {
		top = vertRow
	}
	bot = emptyRow
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case info.instr != nil:
		if sym := wireSymbol(info.instr.Op, info.pos); sym != "" {
			mid = strings.Repeat("─", dashL) + style.Render(sym) + strings.Repeat("─", dashR)
			return
		}
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(gateDisplayName(info.instr.Op), gateNameW)

		boxTop := "┌" + strings.Repeat("─", gateNameW) + "┐"
		boxBot := "└" + strings.Repeat("─", gateNameW) + "┘"
		if info.vertAbove {
			boxTop = "┌" + strings.Repeat("─", gateNameW/2) + "┴" + strings.Repeat("─", gateNameW-gateNameW/2-1) + "┐"
		}
		if info.vertBelow {
			boxBot = "└" + strings.Repeat("─", gateNameW/2) + "┬" + strings.Repeat("─", gateNameW-gateNameW/2-1) + "┘"
		}
		top = strings.Repeat(" ", margin) + style.Render(boxTop) + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + style.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + style.Render(boxBot) + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)

	default:
		mid = strings.Repeat("─", cellW)
	}
	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// shownCircuit returns the circuit the panels currently display and, for the
// source circuit, the cancellation mask used to mark dropped gates.
func (m Model) shownCircuit() (*circuit.Circuit, circuit.KeepMask) {
	if m.showOptimized && m.result != nil {
		return m.result.Circuit, nil
	}
	if m.opts.Cancel {
		return m.source, m.keep
	}
	return m.source, nil
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	c, keep := m.shownCircuit()
	title := "Original Circuit"
	if m.showOptimized && m.result != nil {
		title = "Optimized Circuit"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	g := layoutCircuit(c, keep)

	// How many steps fit
	availWidth := width - labelVisualW - 4
	displaySteps := max(availWidth/cellW, 1)

	startStep := m.viewStartStep
	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", startStep, startStep+displaySteps-1)
	}

	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+displaySteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range g.numQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+displaySteps; step++ {
			highlighted := step == m.cursorStep && m.focus == focusCircuit
			top, mid, bot := renderCell(g.at(step, qubit), highlighted)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	fmt.Fprintf(&sb, "\n  Step %d of %d  │  %d instructions", m.cursorStep, g.steps, c.Len())
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", fieldLabelStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the read-only QASM panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmView.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom status and help bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(fieldLabelStyle.Render("Passes:   "))
	fmt.Fprintf(&sb, "cancel %s  route %s  order %s  strategy %s",
		onOff(m.opts.Cancel), onOff(m.opts.Route), m.opts.Order, m.opts.Strategy)
	sb.WriteString("\n")

	sb.WriteString(fieldLabelStyle.Render("Result:   "))
	switch {
	case m.err != nil:
		sb.WriteString(errorStyle.Render(m.err.Error()))
	case m.result != nil:
		fmt.Fprintf(&sb, "dropped %d  permutation %s  score %.3f → %.3f",
			m.result.Dropped, m.result.Permutation, m.result.ScoreBefore, m.result.ScoreAfter)
	}
	sb.WriteString("\n")

	sb.WriteString(fieldLabelStyle.Render("Keys:     "))
	sb.WriteString("←→/hl Step  Space Original/Optimized  c/r Toggle pass  m Menu  ? Gates  Tab Focus  ^S Save  q Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// isEscEnd reports whether r terminates an ANSI escape sequence.
func isEscEnd(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix, suffix strings.Builder
	col, i := 0, 0

	// Collect prefix: everything up to visible column x
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		prefix.WriteRune(runes[i])
		col++
		i++
	}

	// Pad prefix if bg line is shorter than x
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Skip over ovWidth visible columns in the background
	for skipped := 0; i < len(runes) && skipped < ovWidth; {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if isEscEnd(runes[i-1]) {
					break
				}
			}
			continue
		}
		skipped++
		i++
	}

	for ; i < len(runes); i++ {
		suffix.WriteRune(runes[i])
	}
	return prefix.String() + overlay + suffix.String()
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if isEscEnd(r) {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
