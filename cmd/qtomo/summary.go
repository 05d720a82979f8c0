package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hershlalwani/qtomo/experiment"
	"github.com/hershlalwani/qtomo/quantum"
	"github.com/hershlalwani/qtomo/store"
)

// summaryRows caps the rounds listed in the summary table.
const summaryRows = 16

func styleCell(row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		return tableHeaderStyle
	}
	return tableCellStyle
}

// topOutcome returns the most frequent bitstring, lowest first on ties.
func topOutcome(c quantum.Counts) (string, int) {
	best, n := "", -1
	for _, k := range slices.Sorted(maps.Keys(c)) {
		if c[k] > n {
			best, n = k, c[k]
		}
	}
	return best, n
}

func resultsTable(results experiment.Results) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(styleCell).
		Headers("#", "BASIS", "OUTCOMES", "TOP", "FREQ")

	for _, r := range results[:min(len(results), summaryRows)] {
		top, n := topOutcome(r.Counts)
		freq := float64(n) / float64(r.Counts.Total())
		t.Row(
			strconv.Itoa(r.Index),
			r.Basis.String(),
			strconv.Itoa(len(r.Counts)),
			top,
			strconv.FormatFloat(freq, 'f', 3, 64),
		)
	}
	return t.Render()
}

func renderSummary(runner *experiment.Runner, results experiment.Results, m store.Manifest) string {
	cfg := runner.Config()
	rho := runner.DensityMatrix()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(cfg.Name) + "\n")
	fmt.Fprintf(&sb, "%s %s\n", dimStyle.Render("run"), m.RunID)
	fmt.Fprintf(&sb, "%s %d  %s %d  %s %d  %s %d\n",
		dimStyle.Render("qubits"), cfg.Qubits,
		dimStyle.Render("depth"), runner.Circuit().Depth(),
		dimStyle.Render("shots"), cfg.Shots,
		dimStyle.Render("rounds"), len(results))
	fmt.Fprintf(&sb, "%s %.6f  %s %.6f\n",
		dimStyle.Render("trace"), real(rho.Trace()),
		dimStyle.Render("purity"), rho.Purity())
	sb.WriteString(resultsTable(results))
	if len(results) > summaryRows {
		sb.WriteString("\n" + dimStyle.Render(fmt.Sprintf("… %d more rounds", len(results)-summaryRows)))
	}
	return sb.String()
}

// marginalsTable lists each qubit's computational-basis marginals.
func marginalsTable(s *quantum.StateVector) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(styleCell).
		Headers("QUBIT", "P(0)", "P(1)")
	for q, p := range s.QubitProbabilities() {
		t.Row(
			qubitLabelStyle.Render("q"+strconv.Itoa(q)),
			strconv.FormatFloat(p.Prob0, 'f', 4, 64),
			strconv.FormatFloat(p.Prob1, 'f', 4, 64),
		)
	}
	return t.Render()
}
