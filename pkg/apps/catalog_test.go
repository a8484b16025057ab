package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"jdownloader2", "jellyfin"}, catalog.Names())
}

func TestGet(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	app, err := catalog.Get("jellyfin")
	require.NoError(t, err)
	assert.Equal(t, "Jellyfin", app.Title)
	assert.Equal(t, "debian-12-standard", app.TemplatePrefix)
	assert.Equal(t, "jellyfin.service", app.UnitName)
	assert.NotEmpty(t, app.UnitURL)
	assert.Contains(t, app.Packages, "curl")
	assert.Equal(t, 8096, app.Port)
}

func TestGet_Unknown(t *testing.T) {
	catalog, err := Load()
	require.NoError(t, err)

	_, err = catalog.Get("plex")
	assert.ErrorContains(t, err, `unknown application "plex"`)
}

func TestValidate(t *testing.T) {
	valid := App{
		Name:           "x",
		TemplatePrefix: "debian-12-standard",
		OSType:         "debian",
		DiskGB:         8,
		MemoryMB:       1024,
		Cores:          1,
		UnitName:       "x.service",
		UnitURL:        "https://example.com/x.service",
	}
	assert.NoError(t, valid.validate())

	tests := []struct {
		name   string
		mutate func(*App)
	}{
		{"missing name", func(a *App) { a.Name = "" }},
		{"missing template prefix", func(a *App) { a.TemplatePrefix = "" }},
		{"missing ostype", func(a *App) { a.OSType = "" }},
		{"missing unit", func(a *App) { a.UnitURL = "" }},
		{"zero disk", func(a *App) { a.DiskGB = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := valid
			tt.mutate(&app)
			assert.Error(t, app.validate())
		})
	}
}
