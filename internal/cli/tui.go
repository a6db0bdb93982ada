package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/itisgraph/pkg/pipeline"
)

var (
	tuiPhaseStyle = lipgloss.NewStyle().Foreground(colorGray).Width(6)
	tuiNameStyle  = lipgloss.NewStyle().Foreground(colorWhite).Width(22)
	tuiCountStyle = lipgloss.NewStyle().Foreground(colorCyan).Width(20).Align(lipgloss.Right)
)

// =============================================================================
// Messages
// =============================================================================

type domainStartMsg struct {
	phase, domain string
	total         int64
}

type domainProgressMsg struct {
	phase, domain string
	done          int64
}

type domainCompleteMsg struct {
	phase, domain string
	count         int64
	elapsed       time.Duration
	err           error
}

type convertDoneMsg struct {
	result *pipeline.Result
	err    error
}

// =============================================================================
// Hooks
// =============================================================================

// tuiHooks forwards conversion events to a bubbletea program.
type tuiHooks struct {
	send func(tea.Msg)
}

func (h *tuiHooks) OnPhaseStart(context.Context, string) {}

func (h *tuiHooks) OnPhaseComplete(context.Context, string, int64, time.Duration, error) {}

func (h *tuiHooks) OnDomainStart(_ context.Context, phase, domain string, total int64) {
	h.send(domainStartMsg{phase: phase, domain: domain, total: total})
}

func (h *tuiHooks) OnDomainProgress(_ context.Context, phase, domain string, done int64) {
	h.send(domainProgressMsg{phase: phase, domain: domain, done: done})
}

func (h *tuiHooks) OnDomainComplete(_ context.Context, phase, domain string, count int64, elapsed time.Duration, err error) {
	h.send(domainCompleteMsg{phase: phase, domain: domain, count: count, elapsed: elapsed, err: err})
}

// =============================================================================
// ConvertModel - live per-domain progress
// =============================================================================

type domainRow struct {
	phase, domain string
	total, done   int64
	finished      bool
	elapsed       time.Duration
	err           error
}

// ConvertModel is the bubbletea model shown by convert --tui.
type ConvertModel struct {
	Source string

	rows     []domainRow
	cancel   context.CancelFunc
	quitting bool
	result   *pipeline.Result
	err      error
}

func newConvertModel(source string, cancel context.CancelFunc) ConvertModel {
	return ConvertModel{Source: source, cancel: cancel}
}

func (m ConvertModel) Init() tea.Cmd {
	return nil
}

func (m ConvertModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// The run reports context.Canceled through convertDoneMsg.
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
		}
	case domainStartMsg:
		m.rows = append(m.rows, domainRow{phase: msg.phase, domain: msg.domain, total: msg.total})
	case domainProgressMsg:
		if r := m.row(msg.phase, msg.domain); r != nil {
			r.done = msg.done
		}
	case domainCompleteMsg:
		if r := m.row(msg.phase, msg.domain); r != nil {
			r.done = msg.count
			r.finished = true
			r.elapsed = msg.elapsed
			r.err = msg.err
		}
	case convertDoneMsg:
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

// row returns the most recent row of a domain. Rows are few, so a linear scan
// from the end is enough.
func (m *ConvertModel) row(phase, domain string) *domainRow {
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].phase == phase && m.rows[i].domain == domain {
			return &m.rows[i]
		}
	}
	return nil
}

func (m ConvertModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Converting " + m.Source))
	b.WriteString("\n")
	if m.quitting {
		b.WriteString(StyleWarning.Render("cancelling..."))
	} else {
		b.WriteString(StyleDim.Render("q cancel"))
	}
	b.WriteString("\n\n")

	for _, r := range m.rows {
		b.WriteString(tuiPhaseStyle.Render(r.phase))
		b.WriteString(tuiNameStyle.Render(r.domain))
		b.WriteString(tuiCountStyle.Render(r.counter()))
		b.WriteString(" ")
		b.WriteString(r.status())
		b.WriteString("\n")
	}
	return b.String()
}

func (r domainRow) counter() string {
	if r.total < 0 || r.finished {
		return fmt.Sprintf("%d", r.done)
	}
	return fmt.Sprintf("%d/%d", r.done, r.total)
}

func (r domainRow) status() string {
	switch {
	case r.err != nil:
		return styleIconError.Render(iconError)
	case r.finished:
		return styleIconSuccess.Render(iconSuccess) + " " + StyleDim.Render(r.elapsed.Round(time.Millisecond).String())
	case r.total > 0:
		return StyleDim.Render(fmt.Sprintf("%3d%%", r.done*100/r.total))
	}
	return StyleDim.Render("...")
}

// runWithTUI executes the conversion while a ConvertModel shows its progress
// on stderr.
func runWithTUI(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newConvertModel(opts.Source, cancel), tea.WithOutput(os.Stderr))
	opts.Hooks = &tuiHooks{send: p.Send}

	go func() {
		result, err := runner.Execute(ctx, opts)
		p.Send(convertDoneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	m := final.(ConvertModel)
	return m.result, m.err
}
