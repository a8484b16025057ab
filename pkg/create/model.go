// Package create provides the Bubble Tea TUI for the create command.
package create

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaspreet-dot-casa/lxcup/pkg/provision"
)

// provisionProgressMsg wraps a provision.Event for Bubble Tea.
type provisionProgressMsg provision.Event

// provisionCompleteMsg is sent when provisioning finishes.
type provisionCompleteMsg struct {
	result *provision.Result
}

// provisionModel is a Bubble Tea model for provisioning progress.
type provisionModel struct {
	ctx         context.Context
	cancel      context.CancelFunc
	provisioner *provision.Provisioner
	opts        provision.Options

	spinner      spinner.Model
	progressBar  progress.Model
	events       []provision.Event
	progressChan chan provision.Event
	result       *provision.Result
	done         bool
	quitting     bool

	width  int
	height int
}

func newProvisionModel(ctx context.Context, p *provision.Provisioner, opts provision.Options) provisionModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	runCtx, cancel := context.WithCancel(ctx)

	return provisionModel{
		ctx:          runCtx,
		cancel:       cancel,
		provisioner:  p,
		opts:         opts,
		spinner:      s,
		progressBar:  bar,
		events:       make([]provision.Event, 0),
		progressChan: make(chan provision.Event, 100),
	}
}

func (m provisionModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.startProvisioning(),
		m.waitForProgress(),
	)
}

func (m provisionModel) startProvisioning() tea.Cmd {
	return func() tea.Msg {
		callback := func(e provision.Event) {
			m.progressChan <- e
		}

		result, _ := m.provisioner.Provision(m.ctx, m.opts, callback)

		close(m.progressChan)
		return provisionCompleteMsg{result: result}
	}
}

func (m provisionModel) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.progressChan
		if !ok {
			return nil // channel closed
		}
		return provisionProgressMsg(event)
	}
}

func (m provisionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(msg.Width-10, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.done {
				return m, tea.Quit
			}
			// Cancel the run; rollback happens inside the provisioner and
			// the complete message still arrives.
			m.quitting = true
			m.cancel()
			return m, nil
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd

	case provisionProgressMsg:
		m.events = append(m.events, provision.Event(msg))
		cmds := []tea.Cmd{m.waitForProgress()}
		if msg.Percent >= 0 {
			cmds = append(cmds, m.progressBar.SetPercent(float64(msg.Percent)/100.0))
		}
		return m, tea.Batch(cmds...)

	case provisionCompleteMsg:
		m.done = true
		m.result = msg.result
		return m, nil
	}

	return m, nil
}

func (m provisionModel) View() string {
	if m.quitting && !m.done {
		return "\n  Cancelling and rolling back...\n"
	}

	var s strings.Builder

	header := titleStyle.Render(fmt.Sprintf(" Creating %s container ", m.opts.App.Title))
	s.WriteString("\n")
	s.WriteString(header)
	s.WriteString("\n\n")

	if len(m.events) > 0 {
		lastEvent := m.events[len(m.events)-1]
		percent := lastEvent.Percent
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}

		barView := m.progressBar.ViewAs(float64(percent) / 100.0)
		s.WriteString(progressBarStyle.Render(barView))
		s.WriteString(fmt.Sprintf(" %d%%", percent))
		s.WriteString("\n\n")
	}

	for i, event := range m.events {
		isLast := i == len(m.events)-1 && !m.done

		icon := "  "
		msgStyle := dimStyle

		if event.IsError {
			icon = errorStyle.Render("  ")
			msgStyle = errorStyle
		} else if event.Stage == provision.StageComplete {
			icon = successStyle.Render("  ")
			msgStyle = successStyle
		} else if isLast {
			icon = activeStyle.Render("  ")
			msgStyle = lipgloss.NewStyle()
		} else {
			icon = successStyle.Render("  ")
		}

		s.WriteString(icon)
		s.WriteString(msgStyle.Render(event.Message))
		s.WriteString("\n")

		if event.Command != "" && (isLast || event.IsError) {
			s.WriteString("     ")
			s.WriteString(commandStyle.Render(" " + event.Command))
			s.WriteString("\n")
		}

		if event.Detail != "" && (isLast || event.IsError) {
			s.WriteString("     ")
			s.WriteString(dimStyle.Render(event.Detail))
			s.WriteString("\n")
		}
	}

	if !m.done && len(m.events) > 0 {
		s.WriteString("\n")
		s.WriteString("  ")
		s.WriteString(m.spinner.View())
		s.WriteString(" Working...")
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.done {
		s.WriteString(dimStyle.Render("  Press Enter to view results"))
	} else {
		s.WriteString(dimStyle.Render("  Press Ctrl+C to cancel"))
	}
	s.WriteString("\n")

	return s.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
