package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/jaspreet-dot-casa/lxcup/pkg/apps"
	"github.com/jaspreet-dot-casa/lxcup/pkg/pve"
)

// ErrCancelled is returned when the operator backs out of a menu. Callers
// treat it as a clean abort, not a failure.
var ErrCancelled = errors.New("cancelled by operator")

// SelectStoragePool asks the operator to pick one of several eligible
// storage pools.
func SelectStoragePool(pools []pve.StoragePool) (pve.StoragePool, error) {
	options := make([]huh.Option[int], len(pools))
	for i, pool := range pools {
		options[i] = huh.NewOption(poolOptionLabel(pool), i)
	}

	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Storage Pool").
				Description("Multiple pools can hold container root disks; pick one").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(Theme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return pve.StoragePool{}, ErrCancelled
		}
		return pve.StoragePool{}, fmt.Errorf("storage selection failed: %w", err)
	}
	return pools[choice], nil
}

// SelectApp asks the operator which application to install.
func SelectApp(catalog *apps.Catalog) (*apps.App, error) {
	options := make([]huh.Option[string], 0, len(catalog.Apps))
	for _, app := range catalog.Apps {
		options = append(options, huh.NewOption(appOptionLabel(app), app.Name))
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Application").
				Description("What should run in the new container? (type to filter)").
				Options(options...).
				Filtering(true).
				Value(&choice),
		),
	).WithTheme(Theme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("app selection failed: %w", err)
	}
	return catalog.Get(choice)
}

// ConfirmProvision shows a final summary and asks for go-ahead. A declined
// or aborted prompt returns false.
func ConfirmProvision(app *apps.App, ctid int, storage string) bool {
	ctidLabel := "next free"
	if ctid != 0 {
		ctidLabel = fmt.Sprint(ctid)
	}
	storageLabel := storage
	if storageLabel == "" {
		storageLabel = "auto"
	}
	summary := fmt.Sprintf("%s\n\n  App:      %s\n  CTID:     %s\n  Storage:  %s\n  Disk:     %d GiB\n  Memory:   %d MiB\n  Cores:    %d\n",
		TitleStyle.Render("Review"),
		app.Title, ctidLabel, storageLabel, app.DiskGB, app.MemoryMB, app.Cores)
	fmt.Println(summary)

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Create this container?").
				Affirmative("Yes, create it").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(Theme())

	if err := form.Run(); err != nil {
		return false
	}
	return confirm
}

func poolOptionLabel(pool pve.StoragePool) string {
	return fmt.Sprintf("%s (%s, %s free)", pool.Name, pool.Type, pool.FreeString())
}

func appOptionLabel(app apps.App) string {
	if app.Description == "" {
		return app.Title
	}
	return fmt.Sprintf("%s - %s", app.Title, app.Description)
}
