package topology

import (
	"errors"
	"strings"
	"testing"

	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterApply(t *testing.T) {
	inv := loadInventory(t)
	all := inv.Applications

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"everything", DefaultFilter(), 8},
		{"nothing", Filter{}, 0},
		{"docker only", Filter{ShowDocker: true}, 3},
		{"lxd only", Filter{ShowLXD: true}, 3},
		{"running only", Filter{ShowDocker: true, ShowLXD: true, ShowHost: true, OnlyRunning: true}, 6},
		{"running docker", Filter{ShowDocker: true, OnlyRunning: true}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, tt.filter.Apply(all), tt.want)
		})
	}
}

func TestFilterIsIdempotentAndNonMutating(t *testing.T) {
	inv := loadInventory(t)
	before := append([]*model.ServiceRecord(nil), inv.Applications...)
	f := Filter{ShowDocker: true, ShowHost: true, OnlyRunning: true}

	once := f.Apply(inv.Applications)
	twice := f.Apply(once)
	assert.Equal(t, once, twice)
	assert.Equal(t, before, inv.Applications)

	var names []string
	for _, r := range once {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"grafana", "portainer", "SSH", "Cockpit"}, names)
}

func TestFilterUnknownType(t *testing.T) {
	vm := &model.ServiceRecord{Name: "vm", Type: "vm", Status: model.StatusStopped}
	assert.True(t, Filter{}.Allows(vm))
	assert.False(t, Filter{OnlyRunning: true}.Allows(vm))
}

func TestHostIP(t *testing.T) {
	inv := &model.Inventory{
		HostIP:       "10.0.0.2",
		Applications: []*model.ServiceRecord{{Name: "a", HostIP: "10.0.0.3"}},
	}
	assert.Equal(t, "10.0.0.4", HostIP([]*model.ServiceRecord{{HostIP: "10.0.0.4"}}, inv, "127.0.0.1"))
	assert.Equal(t, "10.0.0.3", HostIP(nil, inv, "127.0.0.1"))
	inv.Applications[0].HostIP = ""
	assert.Equal(t, "10.0.0.2", HostIP(nil, inv, "127.0.0.1"))
	inv.Add(&model.ServiceRecord{Name: "b", HostIP: "10.0.0.5"})
	assert.Equal(t, "10.0.0.2", HostIP(nil, inv, "127.0.0.1"), "only the first record is consulted")
	assert.Equal(t, "127.0.0.1", HostIP(nil, nil, "127.0.0.1"))
}

type fakeSurface struct {
	ready bool
	draws []*model.Graph
}

func (s *fakeSurface) Ready() bool { return s.ready }

func (s *fakeSurface) Draw(g *model.Graph) error {
	s.draws = append(s.draws, g)
	return nil
}

func newTestView() *View {
	return NewView(newTestBuilder(), diagnostics.NewResolver(diagnostics.DefaultRules()), DefaultFilter(), "127.0.0.1")
}

func TestViewStartsWithRootOnly(t *testing.T) {
	v := newTestView()
	g := v.Graph()
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, "Host server\n127.0.0.1", g.Nodes[0].Label)
}

func TestViewApplyAndFilter(t *testing.T) {
	v := newTestView()
	inv := loadInventory(t)
	v.Apply(inv)
	assert.Len(t, v.Graph().Nodes, 11)

	v.SetFilter(Filter{ShowDocker: true, OnlyRunning: true})
	assert.Len(t, v.Graph().Nodes, 3)
	assert.Len(t, inv.Applications, 8)

	s := v.State()
	assert.Equal(t, "192.168.1.112", s.HostIP)
	assert.Equal(t, 8, s.Statistics.Total)
}

func TestViewErrorKeepsGraph(t *testing.T) {
	v := newTestView()
	v.Apply(loadInventory(t))
	g := v.Graph()

	v.SetError(errors.New("GET /api/apps: 502"))
	assert.Same(t, g, v.Graph())
	assert.Equal(t, "GET /api/apps: 502", v.State().Error)

	v.Apply(loadInventory(t))
	assert.Empty(t, v.State().Error)
}

func TestViewSelection(t *testing.T) {
	v := newTestView()
	v.Apply(loadInventory(t))

	d, err := v.Select("8")
	require.NoError(t, err)
	assert.Equal(t, "BBB-CONT22-1 - bigbluebutton", d.Title)
	assert.Equal(t, "E2E testing", d.Diagnostics[0].Label)
	assert.Equal(t, "8", v.State().Selected)

	_, err = v.Select("host")
	require.NoError(t, err)
	assert.Equal(t, "8", v.State().Selected)

	_, err = v.Select("99")
	assert.ErrorIs(t, err, ErrUnknownNode)

	v.ClearSelection()
	assert.Empty(t, v.State().Selected)
}

func TestViewSelectionDroppedWhenNodeDisappears(t *testing.T) {
	v := newTestView()
	v.Apply(loadInventory(t))
	_, err := v.Select("10")
	require.NoError(t, err)

	v.SetFilter(Filter{ShowDocker: true})
	assert.Empty(t, v.State().Selected)
}

func TestViewSelectionFollowsServiceAcrossRenumbering(t *testing.T) {
	v := newTestView()
	v.Apply(loadInventory(t))

	d, err := v.Select("1")
	require.NoError(t, err)
	assert.Equal(t, "grafana", d.Title)

	v.SetFilter(Filter{ShowLXD: true, ShowHost: true})
	assert.Equal(t, "LXD: docs-denkart", firstLine(v.Graph().Node("1").Label))
	assert.Empty(t, v.State().Selected)

	d, err = v.Select("6")
	require.NoError(t, err)
	assert.Equal(t, "SSH", d.Title)

	v.SetFilter(DefaultFilter())
	s := v.State()
	assert.Equal(t, "9", s.Selected)
	assert.Equal(t, "SSH", s.Graph.Node(s.Selected).Record.Name)

	v.Apply(loadInventory(t))
	assert.Equal(t, "9", v.State().Selected)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func TestViewPublish(t *testing.T) {
	v := newTestView()
	v.Apply(loadInventory(t))

	s := &fakeSurface{}
	require.NoError(t, v.Publish(s))
	assert.Empty(t, s.draws)

	s.ready = true
	require.NoError(t, v.Publish(s))
	require.Len(t, s.draws, 1)
	assert.Same(t, v.Graph(), s.draws[0])
}

func TestViewDescribeKeepsSelection(t *testing.T) {
	v := newTestView()
	v.Apply(loadInventory(t))

	d, ok, err := v.Describe("7")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "LXD container: BBB-CONT22-1", d.Title)
	assert.Empty(t, v.State().Selected)

	_, ok, err = v.Describe("host")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = v.Describe("42")
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestViewSetBuilderRebuilds(t *testing.T) {
	v := newTestView()
	v.Apply(loadInventory(t))
	before := v.Graph()

	v.SetBuilder(NewBuilder(style.GetTheme("dark"), locale.Get("ru")))
	after := v.Graph()
	require.Len(t, after.Nodes, len(before.Nodes))
	assert.NotSame(t, before, after)
	assert.NotEqual(t, before.Nodes[0].Label, after.Nodes[0].Label)
	assert.Equal(t, before.Nodes[1].ID, after.Nodes[1].ID)
}
