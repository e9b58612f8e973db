// Package detail composes the detail view of a selected node and the plain
// text tooltips shown on hover.
package detail

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
)

// Field is one row of the detail view. Value holds single-line content and
// Lines holds annotations rendered under it.
type Field struct {
	Label    string   `json:"label"`
	Value    string   `json:"value,omitempty"`
	Lines    []string `json:"lines,omitempty"`
	Link     string   `json:"link,omitempty"`
	Links    []string `json:"links,omitempty"`
	Inactive bool     `json:"inactive,omitempty"`
	Warning  bool     `json:"warning,omitempty"`
}

// Detail is the composed view of one node.
type Detail struct {
	NodeID      string                    `json:"node_id"`
	NodeKey     string                    `json:"node_key"`
	Title       string                    `json:"title"`
	Fields      []Field                   `json:"fields"`
	Diagnostics []diagnostics.TestCommand `json:"diagnostics,omitempty"`
	Record      *model.ServiceRecord      `json:"-"`
}

// Field returns the first field with the given label.
func (d Detail) Field(label string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}

// CommandResolver maps a record to its diagnostic commands.
type CommandResolver interface {
	Resolve(rec *model.ServiceRecord) ([]diagnostics.TestCommand, bool)
}

var proxyAddr = regexp.MustCompile(`tcp:(.*):(\d+)`)

// Representative synthesizes the record shown for an LXD container node.
func Representative(cg *model.ContainerGroup, cat *locale.Catalog) *model.ServiceRecord {
	return &model.ServiceRecord{
		Name:          cg.Name,
		Type:          model.ServiceTypeLXD,
		ContainerType: cat.ContainerType,
		ContainerName: cg.Name,
		Status:        cg.Status(),
		Domains:       cg.Domains,
		Description:   fmt.Sprintf(cat.ContainerDescriptionF, cg.Name, len(cg.Members)),
	}
}

// RecordOf returns the record a node describes, synthesizing one for
// container nodes. The root host node has none.
func RecordOf(n *model.Node, cat *locale.Catalog) *model.ServiceRecord {
	switch {
	case n == nil:
		return nil
	case n.Container != nil:
		return Representative(n.Container, cat)
	default:
		return n.Record
	}
}

// Describe composes the detail view of a node. ok is false for nodes that
// carry no record, such as the root.
func Describe(n *model.Node, cat *locale.Catalog, resolver CommandResolver) (Detail, bool) {
	rec := RecordOf(n, cat)
	if rec == nil {
		return Detail{}, false
	}
	d := Detail{
		NodeID:  n.ID,
		NodeKey: n.Key,
		Title:   rec.Name,
		Fields:  Fields(rec, cat),
		Record:  rec,
	}
	if n.Container != nil {
		d.Title = fmt.Sprintf(cat.ContainerTitleF, n.Container.Name)
	}
	if resolver != nil {
		d.Diagnostics, _ = resolver.Resolve(rec)
	}
	return d, true
}

// Fields lists the detail rows of a record in display order. Absent values
// produce no row.
func Fields(r *model.ServiceRecord, cat *locale.Catalog) []Field {
	fields := []Field{
		{Label: cat.Name, Value: orNA(r.Name)},
		{Label: cat.Type, Value: orNA(displayType(r))},
		{Label: cat.Status, Value: cat.StatusText(r.Running())},
	}
	if f, ok := urlField(r, cat); ok {
		fields = append(fields, f)
	}

	add := func(label, value string) {
		if value != "" {
			fields = append(fields, Field{Label: label, Value: value})
		}
	}
	add(cat.Port, r.Port.String())
	add(cat.Protocol, strings.ToUpper(r.Protocol))
	add(cat.InternalIP, r.InternalIP)
	add(cat.HostIP, r.HostIP)
	add(cat.Image, r.Image)
	add(cat.PortMappings, joinMappings(r.PortMappings))
	add(cat.Category, r.AppType)
	add(cat.Description, r.Description)
	if r.InternalOnly {
		fields = append(fields, Field{Label: cat.InternalAccess, Value: cat.InternalOnly, Warning: true})
	}

	if r.Routing != nil {
		if nat, ok := r.FirewallNAT(); ok {
			add(cat.Routing, fmt.Sprintf(cat.FirewallNATF, nat.Type, nat.Destination))
		} else if proxy, ok := r.ProxyDevice(); ok {
			add(cat.Routing, fmt.Sprintf(cat.ProxyDeviceF, proxy.ExternalPort, proxy.InternalPort))
		}
	}
	if r.ProxyListen != "" && r.ProxyConnect != "" {
		f := Field{Label: cat.LXDProxy, Lines: []string{
			fmt.Sprintf(cat.ProxyListenF, r.ProxyListen),
			fmt.Sprintf(cat.ProxyConnectF, r.ProxyConnect),
		}}
		l := proxyAddr.FindStringSubmatch(r.ProxyListen)
		c := proxyAddr.FindStringSubmatch(r.ProxyConnect)
		if l != nil && c != nil {
			f.Lines = append(f.Lines, fmt.Sprintf(cat.ProxyRouteF, l[2], c[2]))
		}
		fields = append(fields, f)
	}
	if len(r.PortMappings) > 0 && r.PortMappings[0].HostPort != r.PortMappings[0].ContainerPort {
		add(cat.PortMapping, joinMappings(r.PortMappings))
	}

	if active := model.DomainsWithStatus(r.Domains, model.DomainActive); len(active) > 0 {
		f := Field{Label: cat.ActiveDomains, Value: domainNames(active)}
		for _, b := range active {
			f.Links = append(f.Links, "https://"+b.Domain)
		}
		fields = append(fields, f)
	}
	if planned := model.DomainsWithStatus(r.Domains, model.DomainPlanned); len(planned) > 0 {
		fields = append(fields, Field{Label: cat.PlannedDomains, Value: domainNames(planned), Inactive: true})
	}
	return fields
}

// urlField renders the URL row. An unavailable URL is not clickable; a
// missing one is synthesized from host_ip and port when possible.
func urlField(r *model.ServiceRecord, cat *locale.Catalog) (Field, bool) {
	if r.URL == "" {
		if r.HostIP == "" || r.Port == 0 {
			return Field{}, false
		}
		proto := r.Protocol
		if proto == "" {
			proto = "http"
		}
		return Field{
			Label:    cat.URL,
			Value:    fmt.Sprintf("%s://%s:%s", proto, r.HostIP, r.Port),
			Lines:    []string{cat.URLRecommendedIdle},
			Inactive: true,
		}, true
	}

	f := Field{Label: cat.URL, Value: r.URL, Link: r.URL}
	check := r.URLCheck
	if check == nil {
		check = &model.URLCheck{}
	}
	switch r.DomainAvailability() {
	case model.Available:
		status := cat.URLAvailable
		if check.StatusCode != 0 {
			status += " " + fmt.Sprintf(cat.HTTPCodeF, check.StatusCode)
		}
		f.Lines = append(f.Lines, status)
		if check.ResponseTime != nil {
			ms := strconv.FormatFloat(*check.ResponseTime, 'f', -1, 64)
			f.Lines = append(f.Lines, fmt.Sprintf(cat.ResponseTimeF, ms))
		}
	case model.Unavailable:
		f.Link = ""
		f.Inactive = true
		f.Lines = append(f.Lines, cat.URLUnavailable)
		if check.Error != "" {
			f.Lines = append(f.Lines, fmt.Sprintf(cat.ErrorF, check.Error))
		}
		if check.StatusCode != 0 {
			f.Lines = append(f.Lines, fmt.Sprintf(cat.HTTPStatusF, check.StatusCode))
		}
	default:
		f.Lines = append(f.Lines, cat.URLNotChecked)
		if check.Error != "" {
			f.Lines = append(f.Lines, fmt.Sprintf(cat.InfoF, check.Error))
		}
	}
	if r.URLRecommended {
		f.Lines = append(f.Lines, cat.URLRecommended)
	}
	return f, true
}

func displayType(r *model.ServiceRecord) string {
	if r.ContainerType != "" {
		return r.ContainerType
	}
	return string(r.Type)
}

func joinMappings(pms []model.PortMapping) string {
	parts := make([]string, 0, len(pms))
	for _, pm := range pms {
		parts = append(parts, pm.Arrow())
	}
	return strings.Join(parts, ", ")
}

func domainNames(bindings []model.DomainBinding) string {
	names := make([]string, 0, len(bindings))
	for _, b := range bindings {
		names = append(names, b.Domain)
	}
	return strings.Join(names, ", ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
