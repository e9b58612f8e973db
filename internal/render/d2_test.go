package render

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *model.Graph {
	grafana := &model.ServiceRecord{Name: "grafana", Type: model.ServiceTypeDocker, Status: model.StatusRunning, Image: "grafana/grafana"}
	pg := &model.ServiceRecord{Name: "db", Type: model.ServiceTypeDocker, Status: model.StatusRunning, AppType: "databases"}
	nginx := &model.ServiceRecord{Name: "docs-denkart - nginx", Type: model.ServiceTypeLXD, Status: model.StatusRunning}

	return &model.Graph{
		Nodes: []*model.Node{
			{ID: model.RootID, Group: model.GroupHost, Label: "Host server\n192.168.1.112",
				Color: model.Color{Background: "#667eea", Border: "#5568d3"}},
			{ID: "1", Level: 1, Group: model.GroupDocker, Label: "grafana\nMonitoring\n✅ Running",
				Color: model.Color{Background: "#28a745", Border: "#1e7e34"}, Title: "grafana\nType: docker", Record: grafana},
			{ID: "2", Level: 1, Group: model.GroupDocker, Label: "db\ndatabases\n✅ Running", Record: pg},
			{ID: "3", Level: 1, Group: model.GroupLXD, Label: "LXD: docs-denkart\nContainer",
				Container: &model.ContainerGroup{Name: "docs-denkart", Members: []*model.ServiceRecord{nginx}}},
			{ID: "4", Level: 2, Group: model.GroupLXDApp, Label: "nginx\nApplication", Record: nginx},
		},
		Edges: []*model.Edge{
			{From: model.RootID, To: "1", Label: ":3000"},
			{From: model.RootID, To: "2"},
			{From: model.RootID, To: "3", Label: "LXD"},
			{From: "3", To: "4", Label: ":80"},
		},
	}
}

func TestD2RendererStandard(t *testing.T) {
	out := (&D2Renderer{}).Render(sampleGraph())

	assert.Contains(t, out, "direction: down")
	assert.Contains(t, out, `host: "Host server\n192.168.1.112" {`)
	assert.Contains(t, out, "  style.bold: true")
	assert.Contains(t, out, `n1: "grafana\nMonitoring\n✅ Running" {`)
	assert.Contains(t, out, `  style.fill: "#28a745"`)
	assert.Contains(t, out, "  icon: "+selfhst+"/grafana.svg")
	assert.Contains(t, out, `host -> n1: ":3000"`)
	assert.Contains(t, out, "host -> n2\n")
	assert.Contains(t, out, `host -> n3: "LXD"`)
	assert.Contains(t, out, `n3 -> n4: ":80"`)
	assert.NotContains(t, out, "tooltip:")
}

func TestD2RendererShapes(t *testing.T) {
	out := (&D2Renderer{}).Render(sampleGraph())
	assert.Contains(t, out, "shape: cylinder")
	assert.Contains(t, out, "shape: hexagon")
}

func TestD2RendererMinimal(t *testing.T) {
	out := (&D2Renderer{DetailLevel: "minimal", Direction: "right"}).Render(sampleGraph())

	assert.Contains(t, out, "direction: right")
	assert.Contains(t, out, `n1: "grafana" {`)
	assert.NotContains(t, out, "icon:")
}

func TestD2RendererDetailedTooltips(t *testing.T) {
	out := (&D2Renderer{DetailLevel: "detailed"}).Render(sampleGraph())
	assert.Contains(t, out, `tooltip: "grafana\nType: docker"`)
}

func TestD2RendererDeterministic(t *testing.T) {
	r := &D2Renderer{}
	assert.Equal(t, r.Render(sampleGraph()), r.Render(sampleGraph()))
}

func TestRenderJSONShape(t *testing.T) {
	data, err := RenderJSON(sampleGraph())
	require.NoError(t, err)

	var decoded struct {
		Nodes []map[string]any `json:"nodes"`
		Edges []map[string]any `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Nodes, 5)
	require.Len(t, decoded.Edges, 4)

	assert.Equal(t, "host", decoded.Nodes[0]["id"])
	assert.Equal(t, "lxd-app", decoded.Nodes[4]["group"])
	assert.Equal(t, float64(2), decoded.Nodes[4]["level"])
	assert.NotContains(t, decoded.Nodes[1], "Record")
	assert.Equal(t, ":3000", decoded.Edges[0]["label"])
}

func TestWriterSurface(t *testing.T) {
	var buf bytes.Buffer
	s := &WriterSurface{W: &buf}
	require.True(t, s.Ready())
	require.NoError(t, s.Draw(sampleGraph()))
	assert.Contains(t, buf.String(), `"from": "host"`)

	assert.ErrorIs(t, (&WriterSurface{}).Draw(sampleGraph()), ErrSurfaceNotReady)
}

func TestFileSurface(t *testing.T) {
	dir := t.TempDir()
	s := &FileSurface{Path: filepath.Join(dir, "topology.d2"), Renderer: &D2Renderer{}}
	require.True(t, s.Ready())
	require.NoError(t, s.Draw(sampleGraph()))

	data, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `host -> n1: ":3000"`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	missing := &FileSurface{Path: filepath.Join(dir, "nope", "topology.d2"), Renderer: &D2Renderer{}}
	assert.False(t, missing.Ready())
	assert.ErrorIs(t, missing.Draw(sampleGraph()), ErrSurfaceNotReady)
}

func TestRenderD2FileMissingBinary(t *testing.T) {
	orig := findExecutable
	defer func() { findExecutable = orig }()
	findExecutable = func(string) (string, error) { return "", exec.ErrNotFound }

	_, err := RenderD2File("topology.d2", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "d2 not found")
}

func TestRenderD2FileRunsBinary(t *testing.T) {
	origFind, origExec := findExecutable, execCommand
	defer func() { findExecutable, execCommand = origFind, origExec }()

	var gotArgs []string
	findExecutable = func(string) (string, error) { return "/usr/bin/d2", nil }
	execCommand = func(name string, args ...string) *exec.Cmd {
		gotArgs = append([]string{name}, args...)
		return exec.Command("true")
	}

	out, err := RenderD2File("/tmp/topology.d2", "png")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/topology.png", out)
	assert.Equal(t, []string{"/usr/bin/d2", "/tmp/topology.d2", "/tmp/topology.png"}, gotArgs)
}
