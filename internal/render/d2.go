// Package render turns a topology graph into output for a drawing surface:
// D2 diagram text, graph JSON, or a file rendered by the d2 binary.
package render

import (
	"fmt"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/util"
)

// Renderer produces diagram text from a graph.
type Renderer interface {
	Render(g *model.Graph) string
}

// D2Renderer generates D2 diagram text.
type D2Renderer struct {
	DetailLevel string // minimal, standard, detailed
	Direction   string
}

func (r *D2Renderer) detail() string {
	if r.DetailLevel == "" {
		return "standard"
	}
	return r.DetailLevel
}

// Render writes nodes in graph order, then edges in graph order.
func (r *D2Renderer) Render(g *model.Graph) string {
	var b strings.Builder

	direction := r.Direction
	if direction == "" {
		direction = "down"
	}
	fmt.Fprintf(&b, "direction: %s\n\n", direction)

	if g == nil {
		return b.String()
	}
	for _, n := range g.Nodes {
		r.renderNode(&b, n)
	}
	if len(g.Edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "%s -> %s", nodeID(e.From), nodeID(e.To))
		if e.Label != "" {
			fmt.Fprintf(&b, ": %s", util.Quote(e.Label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (r *D2Renderer) renderNode(b *strings.Builder, n *model.Node) {
	label := n.Label
	if r.detail() == "minimal" {
		label, _, _ = strings.Cut(label, "\n")
	}
	fmt.Fprintf(b, "%s: %s {\n", nodeID(n.ID), util.Quote(label))
	for _, prop := range r.nodeProperties(n) {
		fmt.Fprintf(b, "  %s\n", prop)
	}
	b.WriteString("}\n")
}

func (r *D2Renderer) nodeProperties(n *model.Node) []string {
	var props []string

	switch {
	case n.Group == model.GroupLXD:
		props = append(props, "shape: hexagon")
	case n.Record != nil && isDatabase(n.Record):
		props = append(props, "shape: cylinder")
	}
	if n.Group == model.GroupHost {
		props = append(props, "style.bold: true")
	}
	if n.Color.Background != "" {
		props = append(props, fmt.Sprintf("style.fill: %q", n.Color.Background))
	}
	if n.Color.Border != "" {
		props = append(props, fmt.Sprintf("style.stroke: %q", n.Color.Border))
	}

	if r.detail() != "minimal" {
		if icon := nodeIcon(n); icon != "" {
			props = append(props, "icon: "+icon)
		}
	}
	if r.detail() == "detailed" && n.Title != "" {
		props = append(props, "tooltip: "+util.Quote(n.Title))
	}
	return props
}

func nodeIcon(n *model.Node) string {
	switch {
	case n.Record != nil:
		return LookupIcon(n.Record.ShortName(), n.Record.Image)
	case n.Group == model.GroupLXD:
		return LookupIcon("lxd", "")
	case n.Group == model.GroupHost:
		return LookupIcon("linux", "")
	}
	return ""
}

func isDatabase(r *model.ServiceRecord) bool {
	cat := strings.ToLower(r.AppType)
	return strings.Contains(cat, "database") || strings.Contains(cat, "базы данных")
}

// nodeID maps graph ids to D2 keys. Counter ids are prefixed so they do
// not read as numbers.
func nodeID(id string) string {
	if id == model.RootID {
		return id
	}
	return util.SanitizeID("n" + id)
}
