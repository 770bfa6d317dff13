package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pathint/internal/quad"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type roundMsg quad.RoundStats

type doneMsg struct {
	out *quad.IntegralOutput
	err error
}

type liveModel struct {
	integrandName string
	roundCh       chan quad.RoundStats
	doneCh        chan doneMsg

	rounds   []quad.RoundStats
	out      *quad.IntegralOutput
	err      error
	finished bool
}

func (m liveModel) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m liveModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case rs := <-m.roundCh:
			return roundMsg(rs)
		case d := <-m.doneCh:
			return d
		}
	}
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case roundMsg:
		m.rounds = append(m.rounds, quad.RoundStats(msg))
		return m, m.waitForEvent()
	case doneMsg:
		m.out = msg.out
		m.err = msg.err
		m.finished = true
		return m, nil
	}
	return m, nil
}

func (m liveModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("pathint live: " + m.integrandName))
	b.WriteString("\n")

	if len(m.rounds) > 0 {
		last := m.rounds[len(m.rounds)-1]
		row := func(label, value string) {
			b.WriteString(labelStyle.Render(label))
			b.WriteString(valueStyle.Render(value))
			b.WriteString("\n")
		}
		row("round", fmt.Sprintf("%d", last.Round))
		row("grid points", fmt.Sprintf("%d (+%d, -%d)", last.Points, last.Added, last.Removed))
		row("flagged", fmt.Sprintf("%d", last.Flagged))
		row("worst ratio", fmt.Sprintf("%.4g", last.MaxRatio))
		row("integral", fmt.Sprintf("%v", []float64(last.Integral)))

		if len(m.rounds) > 1 {
			trace := make([]float64, len(m.rounds))
			for i, rs := range m.rounds {
				trace[i] = rs.Integral[0]
			}
			b.WriteString(graphStyle.Render(asciigraph.Plot(trace,
				asciigraph.Height(8),
				asciigraph.Width(64),
				asciigraph.Caption("integral estimate per round"),
			)))
			b.WriteString("\n")
		}
	}

	if m.finished {
		if m.err != nil {
			b.WriteString(warnStyle.Render("error: " + m.err.Error()))
			b.WriteString("\n")
		} else {
			b.WriteString(headerStyle.Render(fmt.Sprintf("converged: %v", []float64(m.out.Integral))))
			b.WriteString("\n")
			if m.out.Degenerate {
				b.WriteString(warnStyle.Render("warning: coarsening removed every interior point"))
				b.WriteString("\n")
			}
		}
		b.WriteString(helpStyle.Render("press q to exit"))
	} else {
		b.WriteString(helpStyle.Render("integrating… press q to abort the view"))
	}
	return b.String()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	// Buffered to the round budget so the integration goroutine never
	// blocks if the view is quit early.
	roundCh := make(chan quad.RoundStats, cfg.MaxRounds)
	doneCh := make(chan doneMsg, 1)

	pa, ev, err := buildIntegrator(cfg, func(rs quad.RoundStats) {
		roundCh <- rs
	})
	if err != nil {
		return err
	}

	go func() {
		out, err := pa.Integrate(context.Background(), ev, nil, cfg.TInit, cfg.TFinal, nil)
		doneCh <- doneMsg{out: out, err: err}
	}()

	m := liveModel{
		integrandName: cfg.Integrand,
		roundCh:       roundCh,
		doneCh:        doneCh,
	}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}

	lm := final.(liveModel)
	if lm.err != nil {
		return lm.err
	}
	if lm.out != nil {
		fmt.Printf("integral: %v (%d points, %d rounds)\n",
			[]float64(lm.out.Integral), len(lm.out.Times), lm.out.Rounds)
	}
	return nil
}
