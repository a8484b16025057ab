package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaspreet-dot-casa/lxcup/pkg/apps"
	"github.com/jaspreet-dot-casa/lxcup/pkg/pve"
)

func TestPoolOptionLabel(t *testing.T) {
	pool := pve.StoragePool{
		Name:  "tank",
		Type:  "zfspool",
		Avail: 231630848, // KiB
	}
	assert.Equal(t, "tank (zfspool, 220.9 GiB free)", poolOptionLabel(pool))
}

func TestAppOptionLabel(t *testing.T) {
	withDesc := apps.App{Title: "Jellyfin", Description: "Media server"}
	assert.Equal(t, "Jellyfin - Media server", appOptionLabel(withDesc))

	bare := apps.App{Title: "Jellyfin"}
	assert.Equal(t, "Jellyfin", appOptionLabel(bare))
}
