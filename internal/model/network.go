package model

// RootID is the id of the host node.
const RootID = "host"

// Group tags a node with the kind of thing it represents.
type Group string

const (
	GroupHost        Group = "host"
	GroupDocker      Group = "docker"
	GroupLXD         Group = "lxd"
	GroupLXDApp      Group = "lxd-app"
	GroupHostService Group = "host-service"
)

// Color is a background/border pair.
type Color struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// Node is one vertex of the topology graph.
type Node struct {
	ID        string          `json:"id"`
	Key       string          `json:"key"`
	Level     int             `json:"level"`
	Group     Group           `json:"group"`
	Label     string          `json:"label"`
	Color     Color           `json:"color"`
	Title     string          `json:"title,omitempty"`
	Record    *ServiceRecord  `json:"-"`
	Container *ContainerGroup `json:"-"`
}

// Edge links a tier parent to its child.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Graph is the node/edge set handed to a drawing surface. It is rebuilt
// from scratch on every refresh and filter change.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	if g == nil {
		return nil
	}
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeByKey returns the first node with the given key, or nil.
func (g *Graph) NodeByKey(key string) *Node {
	if g == nil || key == "" {
		return nil
	}
	for _, n := range g.Nodes {
		if n.Key == key {
			return n
		}
	}
	return nil
}

// RecordKey identifies a record's node across rebuilds.
func RecordKey(r *ServiceRecord) string {
	return string(r.Type) + "/" + r.Name
}

// ContainerKey identifies an LXD container node across rebuilds.
func ContainerKey(name string) string {
	return "container/" + name
}

// Children returns the ids of nodes with an edge from id, in edge order.
func (g *Graph) Children(id string) []string {
	var out []string
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e.To)
		}
	}
	return out
}

// ContainerGroup is the set of LXD records sharing a container name. It only
// lives for one build.
type ContainerGroup struct {
	Name    string
	Members []*ServiceRecord
	Domains []DomainBinding
}

// Running reports whether any member is running.
func (cg *ContainerGroup) Running() bool {
	for _, m := range cg.Members {
		if m.Running() {
			return true
		}
	}
	return false
}

// Status is the aggregate status of the group.
func (cg *ContainerGroup) Status() Status {
	if cg.Running() {
		return StatusRunning
	}
	return StatusStopped
}

// InternalIP is the first member IP, if any.
func (cg *ContainerGroup) InternalIP() string {
	for _, m := range cg.Members {
		if m.InternalIP != "" {
			return m.InternalIP
		}
	}
	return ""
}

// Owner returns the first member bound to domain.
func (cg *ContainerGroup) Owner(domain string) *ServiceRecord {
	for _, m := range cg.Members {
		if HasDomain(m.Domains, domain) {
			return m
		}
	}
	return nil
}
