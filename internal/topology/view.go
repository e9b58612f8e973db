package topology

import (
	"errors"
	"sync"
	"time"

	"github.com/CDTO-DENKART/app-visualizer/internal/detail"
	"github.com/CDTO-DENKART/app-visualizer/internal/metrics"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/render"
	"github.com/charmbracelet/log"
)

// ErrUnknownNode is returned when selecting an id the current graph lacks.
var ErrUnknownNode = errors.New("node not in current graph")

// State is a point-in-time copy of the view.
type State struct {
	Graph      *model.Graph     `json:"graph"`
	Filter     Filter           `json:"filter"`
	Selected   string           `json:"selected,omitempty"`
	HostIP     string           `json:"host_ip"`
	Statistics model.Statistics `json:"statistics"`
	Error      string           `json:"error,omitempty"`
	Updated    time.Time        `json:"updated"`
}

// View owns the last inventory, the filter, the graph built from both and
// the current selection. Every change rebuilds the graph from scratch.
type View struct {
	mu       sync.Mutex
	builder  *Builder
	resolver detail.CommandResolver
	fallback string

	inv      *model.Inventory
	filter   Filter
	graph    *model.Graph
	selected string
	// selectedKey follows the selected service across rebuilds, which
	// renumber node ids.
	selectedKey string
	lastErr     error
	updated     time.Time
}

// NewView returns an empty view. fallbackIP is shown on the root node when
// no record or inventory carries a host address.
func NewView(b *Builder, resolver detail.CommandResolver, filter Filter, fallbackIP string) *View {
	v := &View{
		builder:  b,
		resolver: resolver,
		fallback: fallbackIP,
		filter:   filter,
	}
	v.rebuild()
	return v
}

// Apply replaces the inventory and rebuilds. A successful apply clears the
// last error.
func (v *View) Apply(inv *model.Inventory) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inv = inv
	v.lastErr = nil
	v.rebuild()
}

// SetFilter replaces the filter and rebuilds.
func (v *View) SetFilter(f Filter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
	v.rebuild()
}

// SetBuilder swaps the theme and catalog used to build nodes and rebuilds.
func (v *View) SetBuilder(b *Builder) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.builder = b
	v.rebuild()
}

// SetError records a failed refresh. The graph is kept.
func (v *View) SetError(err error) {
	v.mu.Lock()
	v.lastErr = err
	v.mu.Unlock()
}

// Select marks a node as selected and returns its detail. Selecting a node
// without a detail, such as the root, leaves the selection unchanged.
func (v *View) Select(id string) (detail.Detail, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := v.graph.Node(id)
	if n == nil {
		return detail.Detail{}, ErrUnknownNode
	}
	d, ok := detail.Describe(n, v.builder.Catalog(), v.resolver)
	if !ok {
		return detail.Detail{}, nil
	}
	v.selected = id
	v.selectedKey = n.Key
	return d, nil
}

// Describe returns a node's detail without touching the selection. ok is
// false for nodes without a detail, such as the root.
func (v *View) Describe(id string) (d detail.Detail, ok bool, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := v.graph.Node(id)
	if n == nil {
		return detail.Detail{}, false, ErrUnknownNode
	}
	d, ok = detail.Describe(n, v.builder.Catalog(), v.resolver)
	return d, ok, nil
}

// ClearSelection drops the selection, as a click on empty canvas does.
func (v *View) ClearSelection() {
	v.mu.Lock()
	v.selected = ""
	v.selectedKey = ""
	v.mu.Unlock()
}

// Graph returns the current graph. It is replaced, never mutated, on
// rebuild.
func (v *View) Graph() *model.Graph {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.graph
}

// State returns a copy of the view.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := State{
		Graph:    v.graph,
		Filter:   v.filter,
		Selected: v.selected,
		HostIP:   HostIP(nil, v.inv, v.fallback),
		Updated:  v.updated,
	}
	if v.inv != nil {
		s.Statistics = v.inv.Statistics
		s.HostIP = HostIP(v.filter.Apply(v.inv.Applications), v.inv, v.fallback)
	}
	if v.lastErr != nil {
		s.Error = v.lastErr.Error()
	}
	return s
}

// Publish draws the current graph on s. A surface that is not ready yet is
// skipped.
func (v *View) Publish(s render.Surface) error {
	if !s.Ready() {
		log.Warn("Skipping draw", "err", render.ErrSurfaceNotReady)
		return nil
	}
	return s.Draw(v.Graph())
}

// rebuild must be called with mu held.
func (v *View) rebuild() {
	var records []*model.ServiceRecord
	if v.inv != nil {
		records = v.filter.Apply(v.inv.Applications)
	}
	v.graph = v.builder.Build(records, HostIP(records, v.inv, v.fallback))
	v.selected = ""
	if n := v.graph.NodeByKey(v.selectedKey); n != nil {
		v.selected = n.ID
	} else {
		v.selectedKey = ""
	}
	v.updated = time.Now()

	counts := map[model.Group]int{}
	for _, n := range v.graph.Nodes {
		counts[n.Group]++
	}
	for _, g := range []model.Group{model.GroupHost, model.GroupDocker, model.GroupLXD, model.GroupLXDApp, model.GroupHostService} {
		metrics.GraphNodes.WithLabelValues(string(g)).Set(float64(counts[g]))
	}
	log.Debug("Rebuilt topology", "nodes", len(v.graph.Nodes), "edges", len(v.graph.Edges))
}
