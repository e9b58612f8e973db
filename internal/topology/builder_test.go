package topology

import (
	"encoding/json"
	"os"
	"strconv"
	"testing"

	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadInventory(t *testing.T) *model.Inventory {
	t.Helper()
	data, err := os.ReadFile("../../testdata/api/apps.json")
	require.NoError(t, err)
	var inv model.Inventory
	require.NoError(t, json.Unmarshal(data, &inv))
	return &inv
}

func newTestBuilder() *Builder {
	return NewBuilder(style.GetTheme("default"), locale.Get("en"))
}

func TestBuildFixture(t *testing.T) {
	inv := loadInventory(t)
	g := newTestBuilder().Build(inv.Applications, inv.HostIP)

	// root + 3 docker + 2 containers + 3 lxd apps + 2 host
	require.Len(t, g.Nodes, 11)
	require.Len(t, g.Edges, 10)

	var ids []string
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"host", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, ids)

	root := g.Node("host")
	assert.Equal(t, "Host server\n192.168.1.112", root.Label)
	assert.Equal(t, 0, root.Level)

	docs := g.Node("4")
	assert.Equal(t, model.GroupLXD, docs.Group)
	assert.Equal(t, []string{"5", "6"}, g.Children("4"))
	assert.Equal(t, model.GroupLXDApp, g.Node("5").Group)
	assert.Equal(t, 2, g.Node("5").Level)

	bbb := g.Node("7")
	assert.Equal(t, "BBB-CONT22-1", bbb.Container.Name)
	assert.Equal(t, []string{"8"}, g.Children("7"))

	assert.Equal(t, model.GroupHostService, g.Node("9").Group)
	assert.Equal(t, "SSH", g.Node("9").Record.Name)
}

func TestBuildIsATree(t *testing.T) {
	inv := loadInventory(t)
	g := newTestBuilder().Build(inv.Applications, inv.HostIP)

	seen := map[string]bool{}
	for _, n := range g.Nodes {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}

	incoming := map[string]int{}
	for _, e := range g.Edges {
		incoming[e.To]++
		assert.Equal(t, g.Node(e.From).Level+1, g.Node(e.To).Level, "edge %s -> %s", e.From, e.To)
	}
	for _, n := range g.Nodes {
		if n.ID == model.RootID {
			assert.Zero(t, incoming[n.ID])
			continue
		}
		assert.Equal(t, 1, incoming[n.ID], "node %s", n.ID)
	}
}

func TestBuildNodeCountFormula(t *testing.T) {
	b := newTestBuilder()
	tests := []struct {
		name    string
		records []*model.ServiceRecord
		want    int
	}{
		{"empty", nil, 1},
		{"docker only", []*model.ServiceRecord{
			{Name: "a", Type: model.ServiceTypeDocker},
			{Name: "b", Type: model.ServiceTypeDocker},
		}, 3},
		{"two lxd in one container", []*model.ServiceRecord{
			{Name: "c1 - x", Type: model.ServiceTypeLXD},
			{Name: "c1 - y", Type: model.ServiceTypeLXD},
		}, 4},
		{"mixed with unknown type", []*model.ServiceRecord{
			{Name: "a", Type: model.ServiceTypeDocker},
			{Name: "c1 - x", Type: model.ServiceTypeLXD},
			{Name: "c2 - y", Type: model.ServiceTypeLXD},
			{Name: "s", Type: model.ServiceTypeHost},
			{Name: "?", Type: "vm"},
		}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := b.Build(tt.records, "10.0.0.1")
			assert.Len(t, g.Nodes, tt.want)
			assert.Len(t, g.Edges, tt.want-1)
		})
	}
}

func TestBuildIsStable(t *testing.T) {
	inv := loadInventory(t)
	b := newTestBuilder()
	first := b.Build(inv.Applications, inv.HostIP)
	second := b.Build(inv.Applications, inv.HostIP)

	require.Len(t, second.Nodes, len(first.Nodes))
	for i := range first.Nodes {
		assert.Equal(t, first.Nodes[i].ID, second.Nodes[i].ID)
		assert.Equal(t, first.Nodes[i].Label, second.Nodes[i].Label)
	}
}

func TestDockerRunningNoDomains(t *testing.T) {
	r := &model.ServiceRecord{
		Name:         "web",
		Type:         model.ServiceTypeDocker,
		Status:       model.StatusRunning,
		PortMappings: []model.PortMapping{{HostPort: 8080, ContainerPort: 80}},
	}
	g := newTestBuilder().Build([]*model.ServiceRecord{r}, "10.0.0.1")

	require.Len(t, g.Nodes, 2)
	n := g.Node("1")
	assert.Equal(t, "web\nApplication\n🔀 Port: 8080→80\n✅ Running", n.Label)
	assert.Equal(t, model.Color{Background: "#28a745", Border: "#1e7e34"}, n.Color)
	assert.Equal(t, ":8080", g.Edges[0].Label)
}

func TestLXDContainerScenario(t *testing.T) {
	records := []*model.ServiceRecord{
		{
			Name: "web1 - nginx", Type: model.ServiceTypeLXD, Status: model.StatusStopped,
			Port: 80, InternalIP: "10.1.1.5",
		},
		{
			Name: "web1 - app", Type: model.ServiceTypeLXD, Status: model.StatusRunning,
			Port: 8000, URLAvailable: model.Available,
			Domains: []model.DomainBinding{{Domain: "app.example.org", Status: model.DomainActive}},
		},
	}
	g := newTestBuilder().Build(records, "10.0.0.1")

	require.Len(t, g.Nodes, 4)
	container := g.Node("1")
	assert.Equal(t, "LXD: web1\nContainer\n🌐 app.example.org ✅\n📡 IP: 10.1.1.5\n✅ Running", container.Label)
	assert.Equal(t, model.Color{Background: "#ffc107", Border: "#e0a800"}, container.Color)
	assert.Equal(t, "LXD container: web1", container.Title)

	nginx := g.Node("2")
	assert.Equal(t, "nginx\nApplication\n📡 IP: 10.1.1.5\n⏸ Stopped", nginx.Label)
	assert.Equal(t, model.Color{Background: "#dc3545", Border: "#c82333"}, nginx.Color)

	app := g.Node("3")
	assert.Equal(t, model.Color{Background: "#17a2b8", Border: "#138496"}, app.Color)

	assert.Equal(t, "LXD", g.Edges[0].Label)
	assert.Equal(t, ":80", g.Edges[1].Label)
	assert.Equal(t, ":8000", g.Edges[2].Label)
}

func TestActiveDomainBeatsPlanned(t *testing.T) {
	r := &model.ServiceRecord{
		Name: "site", Type: model.ServiceTypeDocker, Status: model.StatusRunning,
		URLAvailable: model.Unavailable,
		Domains: []model.DomainBinding{
			{Domain: "next.example.org", Status: model.DomainPlanned},
			{Domain: "site.example.org", Status: model.DomainActive},
		},
	}
	g := newTestBuilder().Build([]*model.ServiceRecord{r}, "")
	assert.Contains(t, g.Node("1").Label, "\n🌐 site.example.org ❌\n")
	assert.NotContains(t, g.Node("1").Label, "next.example.org")

	r.Domains = r.Domains[:1]
	g = newTestBuilder().Build([]*model.ServiceRecord{r}, "")
	assert.Contains(t, g.Node("1").Label, "\n⏳ next.example.org\n")
}

func TestFixtureLabels(t *testing.T) {
	inv := loadInventory(t)
	g := newTestBuilder().Build(inv.Applications, inv.HostIP)

	tests := []struct {
		id    string
		label string
	}{
		{"1", "grafana\nMonitoring\n⏳ stat.cdto.group\n📡 IP: 172.17.0.2\n🔀 Port: 3000→3000\n✅ Running"},
		{"2", "portainer\nManagement\n🔀 Port: 9443→9443\n✅ Running"},
		{"4", "LXD: docs-denkart\nContainer\n🌐 docs.cdto.life ✅\n📡 IP: 10.10.10.5\n✅ Running"},
		{"5", "nginx\nDocumentation\n🌐 docs.cdto.life ✅\n📡 IP: 10.10.10.5\n🔀 Proxy: 80→80\n✅ Running"},
		{"6", "cockpit\nApplication\n🌐 denkart.cdto.life ❌\n📡 IP: 10.10.10.5\n✅ Running"},
		{"8", "bigbluebutton\nApplication\n🌐 school.cdto.life\n📡 IP: 10.10.10.22\n🔀 FW: DNAT → 10.10.10.22:443\n⏸ Stopped"},
		{"10", "Cockpit\nService\n📡 IP: 192.168.1.112\n✅ Running"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.label, g.Node(tt.id).Label)
		})
	}

	assert.Equal(t, ":3000", edgeTo(g, "1").Label)
	assert.Equal(t, ":9443, :8000", edgeTo(g, "2").Label)
	assert.Equal(t, ":22", edgeTo(g, "9").Label)
}

func TestRoutingLinePriority(t *testing.T) {
	nat := &model.RoutingInfo{Via: model.FirewallNAT{Type: "DNAT", Destination: "10.0.0.9:443"}}
	proxy := &model.RoutingInfo{Via: model.ProxyDevice{ExternalPort: 8443, InternalPort: 443}}

	tests := []struct {
		name   string
		record model.ServiceRecord
		want   string
	}{
		{"nat", model.ServiceRecord{Routing: nat, ProxyListen: "tcp:0.0.0.0:1", ProxyConnect: "tcp:127.0.0.1:2"}, "🔀 FW: DNAT → 10.0.0.9:443"},
		{"proxy device", model.ServiceRecord{Routing: proxy, Port: 8443, InternalPort: 443}, "🔀 Proxy: 8443→443"},
		{"proxy device without ports falls through", model.ServiceRecord{Routing: proxy,
			PortMappings: []model.PortMapping{{HostPort: 1, ContainerPort: 2}}}, "🔀 Port: 1→2"},
		{"raw proxy", model.ServiceRecord{ProxyListen: "tcp:0.0.0.0:8080", ProxyConnect: "tcp:127.0.0.1:80"}, "🔀 Proxy: 8080→80"},
		{"raw proxy without ports", model.ServiceRecord{ProxyListen: "unix:/a", ProxyConnect: "tcp:127.0.0.1:80"}, ""},
		{"mapping", model.ServiceRecord{PortMappings: []model.PortMapping{{HostPort: 9101, ContainerPort: 9100}}}, "🔀 Port: 9101→9100"},
		{"none", model.ServiceRecord{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routingLine(&tt.record))
		})
	}
}

func TestIDsAreSequentialAcrossPartitions(t *testing.T) {
	var records []*model.ServiceRecord
	for i := 0; i < 3; i++ {
		records = append(records, &model.ServiceRecord{Name: "h" + strconv.Itoa(i), Type: model.ServiceTypeHost})
	}
	records = append(records, &model.ServiceRecord{Name: "d", Type: model.ServiceTypeDocker})

	g := newTestBuilder().Build(records, "")
	assert.Equal(t, "d", g.Node("1").Record.Name)
	assert.Equal(t, "h0", g.Node("2").Record.Name)
	assert.Equal(t, "h2", g.Node("4").Record.Name)
}

func edgeTo(g *model.Graph, id string) *model.Edge {
	for _, e := range g.Edges {
		if e.To == id {
			return e
		}
	}
	return nil
}

func TestDomainMarkFallsBackToURLCheck(t *testing.T) {
	var r model.ServiceRecord
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "web", "type": "docker", "status": "running",
		"url_check": {"available": true},
		"domains": [{"domain": "a.example", "status": "active"}]
	}`), &r))

	g := newTestBuilder().Build([]*model.ServiceRecord{&r}, "10.0.0.1")
	n := g.Node("1")
	assert.Equal(t, "web\nApplication\n🌐 a.example ✅\n✅ Running", n.Label)
	assert.Equal(t, model.Color{Background: "#28a745", Border: "#1e7e34"}, n.Color)

	members := []*model.ServiceRecord{{
		Name: "web1 - app", Type: model.ServiceTypeLXD, Status: model.StatusRunning,
		URLCheck: &model.URLCheck{Available: model.Unavailable},
		Domains:  []model.DomainBinding{{Domain: "app.example.org", Status: model.DomainActive}},
	}}
	g = newTestBuilder().Build(members, "10.0.0.1")
	assert.Contains(t, g.Node("1").Label, "🌐 app.example.org ❌")
}
