package ui

import (
	"errors"
	"testing"

	"github.com/CDTO-DENKART/app-visualizer/internal/detail"
	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	out := FormatError("config not found", "no hostmap.yml", "run hostmap init")
	assert.Contains(t, out, "Error: config not found")
	assert.Contains(t, out, "no hostmap.yml")
	assert.Contains(t, out, "Hint: run hostmap init")

	out = FormatError("boom", "", "")
	assert.NotContains(t, out, "Hint")
}

func TestStats(t *testing.T) {
	cat := locale.Get("en")
	out := Stats(cat, model.Statistics{Total: 9, Running: 7, Docker: 4, LXD: 3, Host: 2})
	assert.Contains(t, out, "Total: 9 | Running: 7 | Docker: 4 | LXD: 3 | Host: 2")
}

func TestDetail(t *testing.T) {
	cat := locale.Get("en")
	d := detail.Detail{
		Title: "Docker: grafana",
		Fields: []detail.Field{
			{Label: "Status", Value: "running"},
			{Label: "Port", Value: "3000", Lines: []string{"internal 3000"}},
			{Label: "Domains", Links: []string{"https://grafana.example"}},
		},
		Diagnostics: []diagnostics.TestCommand{
			{Label: "Health", Command: "curl -f http://127.0.0.1:3000/api/health"},
			{Label: "Info", Note: "Checked by the monitoring stack"},
		},
	}
	affordances := []*diagnostics.Affordance{{State: diagnostics.Pending.String()}, nil}

	out := Detail(d, cat, affordances)
	assert.Contains(t, out, "Docker: grafana")
	assert.Contains(t, out, "Status: running")
	assert.Contains(t, out, "internal 3000")
	assert.Contains(t, out, "https://grafana.example")
	assert.Contains(t, out, "[0] Health")
	assert.Contains(t, out, cat.Launching)
	assert.Contains(t, out, "curl -f http://127.0.0.1:3000/api/health")
	assert.Contains(t, out, "Checked by the monitoring stack")
	assert.NotContains(t, out, "[1]")
}

func TestDetailWithoutDiagnostics(t *testing.T) {
	cat := locale.Get("en")
	out := Detail(detail.Detail{Title: "Host: cron"}, cat, nil)
	assert.Contains(t, out, cat.NoDiagnostics)
}

func TestAffordance(t *testing.T) {
	cat := locale.Get("en")
	tests := []struct {
		name string
		a    *diagnostics.Affordance
		want string
	}{
		{"nil is idle", nil, cat.Run},
		{"idle", &diagnostics.Affordance{State: diagnostics.Idle.String()}, cat.Run},
		{"pending", &diagnostics.Affordance{State: diagnostics.Pending.String()}, cat.Launching},
		{"success", &diagnostics.Affordance{State: diagnostics.Success.String()}, cat.Launched},
		{"failed", &diagnostics.Affordance{State: diagnostics.Failed.String(), Error: "busy"}, "Failed to launch test: busy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Affordance(cat, tt.a), tt.want)
		})
	}
}

func TestNotification(t *testing.T) {
	cat := locale.Get("en")
	tests := []struct {
		name string
		n    diagnostics.Notification
		want string
	}{
		{"launched", diagnostics.Notification{Label: "E2E testing", PID: 4242}, `Test "E2E testing" launched (PID 4242)`},
		{"default label", diagnostics.Notification{PID: 1}, `Test "Test" launched (PID 1)`},
		{"unknown pid", diagnostics.Notification{Label: "x"}, "(PID ?)"},
		{"failed", diagnostics.Notification{Label: "x", Err: errors.New("busy")}, "Failed to launch test: busy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, Notification(cat, tt.n), tt.want)
		})
	}
}
