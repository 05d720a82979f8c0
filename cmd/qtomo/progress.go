package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	barPadding  = 2
	barMaxWidth = 60
)

// roundMsg reports one finished measurement round.
type roundMsg struct{ index int }

// finishedMsg ends the program once the run returned.
type finishedMsg struct{ err error }

// progressModel tracks measurement rounds.
type progressModel struct {
	title       string
	total       int
	done        int
	bar         progress.Model
	err         error
	finished    bool
	interrupted bool
}

func newProgressModel(title string, total int) progressModel {
	return progressModel{
		title: title,
		total: total,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.interrupted = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = max(min(msg.Width-barPadding*2-16, barMaxWidth), 10)

	case roundMsg:
		m.done = min(m.done+1, m.total)

	case finishedMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

func (m progressModel) View() string {
	pad := strings.Repeat(" ", barPadding)
	var sb strings.Builder
	sb.WriteString("\n" + pad + titleStyle.Render(m.title) + "\n\n")
	sb.WriteString(pad + m.bar.ViewAs(m.percent()))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %d/%d rounds", m.done, m.total)) + "\n")
	if m.finished && m.err != nil {
		sb.WriteString("\n" + pad + errorStyle.Render("run failed, measured rounds discarded") + "\n")
	}
	if !m.finished && !m.interrupted {
		sb.WriteString("\n" + pad + dimStyle.Render("ctrl+c to cancel") + "\n")
	}
	return sb.String()
}

// teaWriter prints log lines above a running program.
type teaWriter struct {
	p *tea.Program
}

func (w teaWriter) Write(b []byte) (int, error) {
	w.p.Println(strings.TrimRight(string(b), "\n"))
	return len(b), nil
}
