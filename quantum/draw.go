package quantum

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// padCenter centres s in a field of width runes, filling with fill.
func padCenter(s string, width int, fill string) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(fill, left) + s + strings.Repeat(fill, right)
}

// gateLabel is the box text of a single-qubit gate or of the target of a
// controlled gate.
func gateLabel(g Gate) string {
	name := g.Type
	info := vocabulary[g.Type]
	if info.kind == TwoQubit && info.base != "" {
		name = info.base
	}
	switch name {
	case "SDG":
		name = "S†"
	case "TDG":
		name = "T†"
	case "SX":
		name = "√X"
	case "SXDG":
		name = "√X†"
	}
	if len(g.Params) > 0 {
		name = fmt.Sprintf("%s(%s)", name, shortAngle(g.Params[0]))
	}
	return name
}

// targetSymbol returns the symbol drawn on the target wire of a two-qubit gate.
func targetSymbol(g Gate) string {
	switch g.Type {
	case "CX":
		return "⊕"
	case "CZ":
		return "●"
	case "SWAP":
		return "×"
	}
	return gateLabel(g)
}

func controlSymbol(g Gate) string {
	if g.Type == "SWAP" {
		return "×"
	}
	return "●"
}

// cellWidthForName returns the column width needed for a gate label.
func cellWidthForName(name string) int {
	n := utf8.RuneCountInString(name)
	if n <= 1 {
		return 3
	}
	return n + 2
}

// Draw renders the circuit as text, one wire per qubit and one column per
// layer, e.g.
//
//	q[0]: ──H────●──
//	q[1]: ───────⊕──
func (c *Circuit) Draw() string {
	layers := c.depth
	for _, g := range c.gates {
		layers = max(layers, g.Step+1)
	}

	rows := make([]strings.Builder, c.numQubits)
	for q := range rows {
		fmt.Fprintf(&rows[q], "%-6s──", fmt.Sprintf("q[%d]:", q))
	}

	for step := range layers {
		gates := c.Layer(step)
		width := 3
		for _, g := range gates {
			width = max(width, cellWidthForName(gateLabel(g)))
		}

		cells := make([]string, c.numQubits)
		for _, g := range gates {
			if g.Control < 0 {
				cells[g.Target] = padCenter(gateLabel(g), width, "─")
				continue
			}
			lo, hi := min(g.Control, g.Target), max(g.Control, g.Target)
			for q := lo + 1; q < hi; q++ {
				if cells[q] == "" {
					cells[q] = padCenter("┼", width, "─")
				}
			}
			cells[g.Control] = padCenter(controlSymbol(g), width, "─")
			cells[g.Target] = padCenter(targetSymbol(g), width, "─")
		}

		for q := range rows {
			if cells[q] == "" {
				cells[q] = strings.Repeat("─", width)
			}
			rows[q].WriteString(cells[q])
			rows[q].WriteString("─")
		}
	}

	lines := make([]string, len(rows))
	for q := range rows {
		lines[q] = rows[q].String()
	}
	return strings.Join(lines, "\n")
}
