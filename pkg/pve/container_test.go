package pve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContainerConfig() ContainerConfig {
	return ContainerConfig{
		CTID:         106,
		Hostname:     "jdownloader2",
		TemplateVol:  "local:vztmpl/debian-12-standard_12.7-1_amd64.tar.zst",
		RootFSVol:    "local:vm-106-disk-0.raw",
		RootFSSizeGB: 8,
		OSType:       "debian",
		Arch:         "amd64",
		Cores:        2,
		MemoryMB:     2048,
		Bridge:       "vmbr0",
		IP:           "dhcp",
		Unprivileged: true,
		Features:     "nesting=1",
		OnBoot:       true,
	}
}

func TestCreate_Arguments(t *testing.T) {
	exec := &MockExecutor{}
	c := NewWithExecutor(exec)

	require.NoError(t, c.Create(context.Background(), testContainerConfig()))

	require.Len(t, exec.Commands, 1)
	assert.Equal(t, []string{
		"pct", "create", "106", "local:vztmpl/debian-12-standard_12.7-1_amd64.tar.zst",
		"-arch", "amd64",
		"-cores", "2",
		"-hostname", "jdownloader2",
		"-memory", "2048",
		"-net0", "name=eth0,bridge=vmbr0,ip=dhcp",
		"-onboot", "1",
		"-ostype", "debian",
		"-rootfs", "local:vm-106-disk-0.raw,size=8G",
		"-unprivileged", "1",
		"-features", "nesting=1",
	}, exec.Commands[0])
}

func TestNetConfig_StaticWithGateway(t *testing.T) {
	cfg := testContainerConfig()
	cfg.IP = "192.168.1.50/24"
	cfg.Gateway = "192.168.1.1"

	assert.Equal(t, "name=eth0,bridge=vmbr0,ip=192.168.1.50/24,gw=192.168.1.1", cfg.netConfig())
}

func TestMount_ParsesMountpoint(t *testing.T) {
	exec := &MockExecutor{
		RunFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "mounted CT 106 in '/var/lib/lxc/106/rootfs'\n", nil
		},
	}

	mp, err := NewWithExecutor(exec).Mount(context.Background(), 106)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/lxc/106/rootfs", mp)
}

func TestMount_UnexpectedOutput(t *testing.T) {
	exec := &MockExecutor{
		RunFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "something else entirely", nil
		},
	}

	_, err := NewWithExecutor(exec).Mount(context.Background(), 106)
	assert.ErrorContains(t, err, "mountpoint")
}

func TestExec_WrapsFailure(t *testing.T) {
	exec := &MockExecutor{
		RunFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("pct: command 'apt-get install' failed: exit code 100")
		},
	}

	_, err := NewWithExecutor(exec).Exec(context.Background(), 106, "apt-get", "install", "-y", "jellyfin")
	assert.ErrorContains(t, err, "command failed in container 106")
	assert.ErrorContains(t, err, "exit code 100")
}

func TestIPv4(t *testing.T) {
	exec := &MockExecutor{
		RunFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			assert.Equal(t, []string{"exec", "106", "--", "ip", "-4", "-o", "addr", "show", "dev", "eth0"}, args)
			return "2: eth0    inet 192.168.1.57/24 brd 192.168.1.255 scope global dynamic eth0\n", nil
		},
	}

	ip, err := NewWithExecutor(exec).IPv4(context.Background(), 106)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.57", ip)
}

func TestIPv4_NoAddress(t *testing.T) {
	exec := &MockExecutor{
		RunFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "", nil
		},
	}

	_, err := NewWithExecutor(exec).IPv4(context.Background(), 106)
	assert.ErrorContains(t, err, "no IPv4 address")
}

func TestStatus(t *testing.T) {
	exec := &MockExecutor{
		RunFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			return "status: running\n", nil
		},
	}

	status, err := NewWithExecutor(exec).Status(context.Background(), 106)
	require.NoError(t, err)
	assert.Equal(t, "running", status)
}

func TestNextID(t *testing.T) {
	exec := &MockExecutor{
		RunFunc: func(ctx context.Context, name string, args ...string) (string, error) {
			assert.Equal(t, "pvesh", name)
			return "108\n", nil
		},
	}

	id, err := NewWithExecutor(exec).NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 108, id)
}

func TestCheckInstalled_MissingTool(t *testing.T) {
	exec := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if file == "pveam" {
				return "", errors.New("not found")
			}
			return "/usr/sbin/" + file, nil
		},
	}

	err := NewWithExecutor(exec).CheckInstalled()
	assert.ErrorContains(t, err, "pveam is not installed")
}
