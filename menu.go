package main

import (
	"fmt"
	"strings"

	"qtermopt/circuit"
)

// menuAction identifies what a pass-menu entry changes.
type menuAction int

const (
	actionToggleCancel menuAction = iota
	actionToggleRoute
	actionCycleOrder
	actionCycleStrategy
)

// menuItem is a single line of the pass menu.
type menuItem struct {
	name   string
	action menuAction
}

// passMenu lists the compile options the viewer can change.
var passMenu = []menuItem{
	{name: "Gate cancellation", action: actionToggleCancel},
	{name: "Qubit routing", action: actionToggleRoute},
	{name: "Pass order", action: actionCycleOrder},
	{name: "Routing strategy", action: actionCycleStrategy},
}

// menuValue returns the current setting of item as shown in the menu.
func (m Model) menuValue(item menuItem) string {
	switch item.action {
	case actionToggleCancel:
		return onOff(m.opts.Cancel)
	case actionToggleRoute:
		if m.model == nil {
			return "n/a"
		}
		return onOff(m.opts.Route)
	case actionCycleOrder:
		return string(m.opts.Order)
	case actionCycleStrategy:
		return string(m.opts.Strategy)
	}
	return ""
}

// renderMenu renders the floating pass-options popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Passes"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 34)))
	sb.WriteString("\n")

	for i, item := range passMenu {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(gateStyle.Render(m.menuValue(item)))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", item.name)))
			sb.WriteString(dimStyle.Render(m.menuValue(item)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ⏎ Change  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

// legendCategory groups opcodes by arity for the gate legend.
type legendCategory struct {
	name string
	ops  []circuit.Opcode
}

func legendCategories() []legendCategory {
	cats := []legendCategory{
		{name: "Single Qubit"},
		{name: "Two Qubit"},
		{name: "Three Qubit"},
	}
	for _, op := range circuit.Opcodes() {
		if a := op.Arity(); a >= 1 && a <= len(cats) {
			cats[a-1].ops = append(cats[a-1].ops, op)
		}
	}
	return cats
}

// legendSymbol draws op the way the circuit panel does, operand by operand.
func legendSymbol(op circuit.Opcode) string {
	parts := make([]string, op.Arity())
	for pos := range parts {
		if sym := wireSymbol(op, pos); sym != "" {
			parts[pos] = sym
		} else {
			parts[pos] = gateDisplayName(op)
		}
	}
	return strings.Join(parts, "─")
}

// renderLegend renders the opcode reference popup.
func (m Model) renderLegend() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Gates"))
	sb.WriteString("\n")

	cats := legendCategories()
	for i, cat := range cats {
		name := " " + cat.name + " "
		if i == m.legendCat {
			sb.WriteString(fieldLabelStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(cats)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 42)))
	sb.WriteString("\n")

	for _, op := range cats[m.legendCat].ops {
		info, _ := op.Info()
		sb.WriteString("   ")
		sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-16s", op.String())))
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%-8s", op.Mnemonic())))
		sb.WriteString(gateStyle.Render(legendSymbol(op)))
		if info.Params > 0 {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (%d params)", info.Params)))
		}
		if info.SelfInverse {
			sb.WriteString(dimStyle.Render(" self-inverse"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ←→ Cat  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
