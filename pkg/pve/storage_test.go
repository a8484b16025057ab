package pve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pvesmStatusOutput = `Name             Type     Status           Total            Used       Available        %
local              dir     active        98497780         2871568        90576820    2.92%
local-zfs      zfspool     active       232783872         1153024       231630848    0.50%
backup             nfs   disabled               0               0               0    0.00%
`

func TestParsePoolStatus(t *testing.T) {
	pools := parsePoolStatus(pvesmStatusOutput)
	require.Len(t, pools, 3)

	assert.Equal(t, "local", pools[0].Name)
	assert.Equal(t, "dir", pools[0].Type)
	assert.True(t, pools[0].Active)
	assert.Equal(t, int64(98497780), pools[0].Total)
	assert.Equal(t, int64(90576820), pools[0].Avail)

	assert.Equal(t, "local-zfs", pools[1].Name)
	assert.Equal(t, "zfspool", pools[1].Type)

	assert.Equal(t, "backup", pools[2].Name)
	assert.False(t, pools[2].Active)
}

func TestParsePoolStatus_Garbage(t *testing.T) {
	assert.Empty(t, parsePoolStatus(""))
	assert.Empty(t, parsePoolStatus("unexpected error text\nmore text"))
}

func TestRootDirPools_FiltersInactive(t *testing.T) {
	exec := &MockExecutor{
		RunFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			assert.Equal(t, "pvesm", name)
			assert.Equal(t, []string{"status", "-content", "rootdir"}, args)
			return pvesmStatusOutput, nil
		},
	}

	pools, err := NewWithExecutor(exec).RootDirPools(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, "local", pools[0].Name)
	assert.Equal(t, "local-zfs", pools[1].Name)
}

func TestRootDirPools_CommandError(t *testing.T) {
	exec := &MockExecutor{
		RunFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("pvesm: not a proxmox host")
		},
	}

	_, err := NewWithExecutor(exec).RootDirPools(context.Background())
	assert.ErrorContains(t, err, "failed to list storage pools")
}

func TestBackendKind(t *testing.T) {
	tests := []struct {
		poolType string
		expected BackendKind
	}{
		{"dir", KindFile},
		{"nfs", KindFile},
		{"cifs", KindFile},
		{"zfspool", KindZFS},
		{"lvm", KindLVM},
		{"lvmthin", KindLVM},
		{"rbd", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.poolType, func(t *testing.T) {
			p := StoragePool{Type: tt.poolType}
			assert.Equal(t, tt.expected, p.Backend())
		})
	}
}

func TestFreeString(t *testing.T) {
	tests := []struct {
		name     string
		availKiB int64
		expected string
	}{
		{"kib", 512, "512 KiB"},
		{"mib", 2048, "2.0 MiB"},
		{"gib", 90576820, "86.4 GiB"},
		{"tib", 3 * 1024 * 1024 * 1024, "3.0 TiB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := StoragePool{Avail: tt.availKiB}
			assert.Equal(t, tt.expected, p.FreeString())
		})
	}
}
