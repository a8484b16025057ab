package create

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaspreet-dot-casa/lxcup/pkg/provision"
)

// Run provisions a container behind a Bubble Tea progress UI and prints the
// results once the alt-screen closes.
func Run(ctx context.Context, p *provision.Provisioner, opts provision.Options) error {
	m := newProvisionModel(ctx, p, opts)
	prog := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := prog.Run()
	if err != nil {
		return fmt.Errorf("provisioning UI error: %w", err)
	}

	model, ok := finalModel.(provisionModel)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}

	// Print final results outside of alt-screen so they stay scrollable.
	PrintResult(model.result)

	if model.result != nil && !model.result.Success {
		return model.result.Error
	}
	return nil
}

// RunPlain provisions without the TUI, logging each progress event as a
// plain line. Suited to scripts and non-interactive shells.
func RunPlain(ctx context.Context, p *provision.Provisioner, opts provision.Options) error {
	progress := func(e provision.Event) {
		switch {
		case e.IsError:
			fmt.Println(errorStyle.Render("  " + e.Message))
		case e.Stage == provision.StageComplete:
			fmt.Println(successStyle.Render("  " + e.Message))
		default:
			fmt.Printf("  %s %s\n", dimStyle.Render(e.Stage.DisplayName()+":"), e.Message)
			if e.Command != "" {
				fmt.Println(commandStyle.Render("     " + e.Command))
			}
		}
	}

	result, err := p.Provision(ctx, opts, progress)
	PrintResult(result)
	return err
}
