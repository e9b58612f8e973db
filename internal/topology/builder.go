// Package topology turns a flat inventory into the three-tier host graph
// and holds the view state built from it.
package topology

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/detail"
	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/style"
)

var trailingPort = regexp.MustCompile(`:(\d+)$`)

// Builder builds graphs with one theme and one message catalog.
type Builder struct {
	theme   *style.Theme
	catalog *locale.Catalog
}

// NewBuilder returns a builder. Nil arguments select the defaults.
func NewBuilder(theme *style.Theme, catalog *locale.Catalog) *Builder {
	if theme == nil {
		theme = style.GetTheme("default")
	}
	if catalog == nil {
		catalog = locale.Get("")
	}
	return &Builder{theme: theme, catalog: catalog}
}

// Catalog returns the builder's message catalog.
func (b *Builder) Catalog() *locale.Catalog { return b.catalog }

// Build creates the graph for records. Node ids come from a single counter
// shared across docker, lxd (container then members) and host records, so
// the same input always yields the same ids.
func (b *Builder) Build(records []*model.ServiceRecord, hostIP string) *model.Graph {
	g := &model.Graph{}
	g.Nodes = append(g.Nodes, &model.Node{
		ID:    model.RootID,
		Key:   model.RootID,
		Level: 0,
		Group: model.GroupHost,
		Label: b.catalog.HostServer + "\n" + hostIP,
		Color: style.Resolve(b.theme, model.GroupHost, nil),
	})

	var docker, lxd, host []*model.ServiceRecord
	for _, r := range records {
		switch r.Type {
		case model.ServiceTypeDocker:
			docker = append(docker, r)
		case model.ServiceTypeLXD:
			lxd = append(lxd, r)
		case model.ServiceTypeHost:
			host = append(host, r)
		}
	}

	next := 1
	newID := func() string {
		id := strconv.Itoa(next)
		next++
		return id
	}

	for _, r := range docker {
		id := newID()
		g.Nodes = append(g.Nodes, b.recordNode(id, 1, model.GroupDocker, r.Name, r))
		g.Edges = append(g.Edges, &model.Edge{From: model.RootID, To: id, Label: dockerEdgeLabel(r)})
	}

	for _, cg := range groupContainers(lxd) {
		cid := newID()
		g.Nodes = append(g.Nodes, b.containerNode(cid, cg))
		g.Edges = append(g.Edges, &model.Edge{From: model.RootID, To: cid, Label: "LXD"})
		for _, r := range cg.Members {
			id := newID()
			g.Nodes = append(g.Nodes, b.recordNode(id, 2, model.GroupLXDApp, r.ShortName(), r))
			g.Edges = append(g.Edges, &model.Edge{From: cid, To: id, Label: portEdgeLabel(r)})
		}
	}

	for _, r := range host {
		id := newID()
		g.Nodes = append(g.Nodes, b.recordNode(id, 1, model.GroupHostService, r.Name, r))
		g.Edges = append(g.Edges, &model.Edge{From: model.RootID, To: id, Label: portEdgeLabel(r)})
	}
	return g
}

// groupContainers groups LXD records by container, ordered by first
// appearance.
func groupContainers(records []*model.ServiceRecord) []*model.ContainerGroup {
	var groups []*model.ContainerGroup
	index := make(map[string]*model.ContainerGroup)
	for _, r := range records {
		key := r.GroupKey()
		cg, ok := index[key]
		if !ok {
			cg = &model.ContainerGroup{Name: key}
			index[key] = cg
			groups = append(groups, cg)
		}
		cg.Members = append(cg.Members, r)
		cg.Domains = model.UnionDomains(cg.Domains, r.Domains)
	}
	return groups
}

func (b *Builder) recordNode(id string, level int, group model.Group, name string, r *model.ServiceRecord) *model.Node {
	lines := []string{name, b.category(group, r.AppType)}
	if l := domainLine(r.Domains, r.DomainAvailability()); l != "" {
		lines = append(lines, l)
	}
	ip := r.InternalIP
	if ip == "" && group == model.GroupHostService {
		ip = r.HostIP
	}
	if ip != "" {
		lines = append(lines, "📡 IP: "+ip)
	}
	if l := routingLine(r); l != "" {
		lines = append(lines, l)
	}
	lines = append(lines, b.catalog.StatusText(r.Running()))

	return &model.Node{
		ID:     id,
		Key:    model.RecordKey(r),
		Level:  level,
		Group:  group,
		Label:  strings.Join(lines, "\n"),
		Color:  style.Resolve(b.theme, group, r),
		Title:  detail.Tooltip(r, b.catalog),
		Record: r,
	}
}

func (b *Builder) containerNode(id string, cg *model.ContainerGroup) *model.Node {
	lines := []string{fmt.Sprintf(b.catalog.ContainerLabelF, cg.Name), b.catalog.Container}

	avail := model.AvailabilityUnknown
	if active, ok := model.FirstDomain(cg.Domains, model.DomainActive); ok {
		if owner := cg.Owner(active.Domain); owner != nil {
			avail = owner.DomainAvailability()
		}
	}
	if l := domainLine(cg.Domains, avail); l != "" {
		lines = append(lines, l)
	}
	if ip := cg.InternalIP(); ip != "" {
		lines = append(lines, "📡 IP: "+ip)
	}
	lines = append(lines, b.catalog.StatusText(cg.Running()))

	return &model.Node{
		ID:        id,
		Key:       model.ContainerKey(cg.Name),
		Level:     1,
		Group:     model.GroupLXD,
		Label:     strings.Join(lines, "\n"),
		Color:     style.Resolve(b.theme, model.GroupLXD, nil),
		Title:     detail.ContainerTooltip(cg, b.catalog),
		Container: cg,
	}
}

func (b *Builder) category(group model.Group, appType string) string {
	if appType != "" {
		return appType
	}
	if group == model.GroupHostService {
		return b.catalog.Service
	}
	return b.catalog.Application
}

// domainLine shows the first active domain with its availability mark, or
// the first planned domain when nothing is active.
func domainLine(bindings []model.DomainBinding, avail model.Availability) string {
	if d, ok := model.FirstDomain(bindings, model.DomainActive); ok {
		switch avail {
		case model.Available:
			return "🌐 " + d.Domain + " ✅"
		case model.Unavailable:
			return "🌐 " + d.Domain + " ❌"
		default:
			return "🌐 " + d.Domain
		}
	}
	if d, ok := model.FirstDomain(bindings, model.DomainPlanned); ok {
		return "⏳ " + d.Domain
	}
	return ""
}

func routingLine(r *model.ServiceRecord) string {
	if nat, ok := r.FirewallNAT(); ok {
		return "🔀 FW: DNAT → " + nat.Destination
	}
	if _, ok := r.ProxyDevice(); ok && r.Port != 0 && r.InternalPort != 0 {
		return fmt.Sprintf("🔀 Proxy: %d→%d", r.Port, r.InternalPort)
	}
	if r.ProxyListen != "" && r.ProxyConnect != "" {
		l := trailingPort.FindStringSubmatch(r.ProxyListen)
		c := trailingPort.FindStringSubmatch(r.ProxyConnect)
		if l != nil && c != nil {
			return "🔀 Proxy: " + l[1] + "→" + c[1]
		}
	}
	if len(r.PortMappings) > 0 {
		pm := r.PortMappings[0]
		if pm.HostPort != 0 && pm.ContainerPort != 0 {
			return "🔀 Port: " + pm.Arrow()
		}
	}
	return ""
}

func dockerEdgeLabel(r *model.ServiceRecord) string {
	parts := make([]string, 0, len(r.PortMappings))
	for _, pm := range r.PortMappings {
		parts = append(parts, ":"+pm.HostPort.String())
	}
	return strings.Join(parts, ", ")
}

func portEdgeLabel(r *model.ServiceRecord) string {
	if r.Port == 0 {
		return ""
	}
	return ":" + r.Port.String()
}
