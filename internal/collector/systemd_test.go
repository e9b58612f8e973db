package collector

import (
	"context"
	"testing"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unitsFixture = "../../testdata/systemd/units.json"

func TestSystemdSource(t *testing.T) {
	ss := &SystemdSource{HostIP: "192.168.1.112", TestFile: unitsFixture}

	inv := model.NewInventory()
	require.NoError(t, ss.Collect(context.Background(), inv))
	assert.Len(t, inv.Applications, 6)

	sshd := inv.Find("ssh", model.ServiceTypeHost)
	require.NotNil(t, sshd)
	assert.Equal(t, model.StatusRunning, sshd.Status)
	assert.Equal(t, "System service", sshd.ContainerType)
	assert.Equal(t, "OpenBSD Secure Shell server", sshd.Description)
	assert.Equal(t, "192.168.1.112", sshd.HostIP)
}

func TestSystemdSourceFilters(t *testing.T) {
	tests := []struct {
		name    string
		filter  []string
		exclude []string
		want    []string
	}{
		{"filter", []string{"ssh", "cockpit"}, nil, []string{"ssh", "cockpit"}},
		{"exclude", nil, []string{"container", "docker", "snap", "cron"}, []string{"ssh", "cockpit"}},
		{"case insensitive", []string{"COCKPIT"}, nil, []string{"cockpit"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss := &SystemdSource{Filter: tt.filter, Exclude: tt.exclude, TestFile: unitsFixture}
			inv := model.NewInventory()
			require.NoError(t, ss.Collect(context.Background(), inv))
			assert.Equal(t, tt.want, recordNames(inv))
		})
	}
}

func TestSystemdSourcePorts(t *testing.T) {
	ss := &SystemdSource{}
	require.NoError(t, ss.Configure(map[string]any{
		"test_file": unitsFixture,
		"filter":    []any{"ssh", "cockpit"},
		"ports":     map[string]any{"ssh": 22, "cockpit": float64(9090)},
	}))

	inv := model.NewInventory()
	require.NoError(t, ss.Collect(context.Background(), inv))
	assert.Equal(t, model.Port(22), inv.Find("ssh", model.ServiceTypeHost).Port)
	assert.Equal(t, model.Port(9090), inv.Find("cockpit", model.ServiceTypeHost).Port)
	assert.Empty(t, ss.Validate())

	bad := &SystemdSource{TestFile: unitsFixture, Ports: map[string]int{"ssh": 70000}}
	errs := bad.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "sources.systemd.ports.ssh", errs[0].Field)

	assert.Error(t, (&SystemdSource{}).Configure(map[string]any{"ports": map[string]any{"ssh": "twenty-two"}}))
}
