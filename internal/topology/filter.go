package topology

import "github.com/CDTO-DENKART/app-visualizer/internal/model"

// Filter selects which records reach the graph.
type Filter struct {
	ShowDocker  bool `json:"show_docker" mapstructure:"show_docker"`
	ShowLXD     bool `json:"show_lxd" mapstructure:"show_lxd"`
	ShowHost    bool `json:"show_host" mapstructure:"show_host"`
	OnlyRunning bool `json:"only_running" mapstructure:"only_running"`
}

// DefaultFilter shows everything.
func DefaultFilter() Filter {
	return Filter{ShowDocker: true, ShowLXD: true, ShowHost: true}
}

// Allows reports whether r passes the filter. Records of an unknown type
// are not covered by a show flag and pass on run state alone.
func (f Filter) Allows(r *model.ServiceRecord) bool {
	if f.OnlyRunning && !r.Running() {
		return false
	}
	switch r.Type {
	case model.ServiceTypeDocker:
		return f.ShowDocker
	case model.ServiceTypeLXD:
		return f.ShowLXD
	case model.ServiceTypeHost:
		return f.ShowHost
	default:
		return true
	}
}

// Apply returns the records that pass f, in input order. The input is
// not modified.
func (f Filter) Apply(records []*model.ServiceRecord) []*model.ServiceRecord {
	out := make([]*model.ServiceRecord, 0, len(records))
	for _, r := range records {
		if f.Allows(r) {
			out = append(out, r)
		}
	}
	return out
}

// HostIP picks the address shown on the root node: the first filtered
// record's host_ip, then the first inventory record's, then the inventory's,
// then fallback.
func HostIP(filtered []*model.ServiceRecord, inv *model.Inventory, fallback string) string {
	if len(filtered) > 0 && filtered[0].HostIP != "" {
		return filtered[0].HostIP
	}
	if inv != nil {
		if len(inv.Applications) > 0 && inv.Applications[0].HostIP != "" {
			return inv.Applications[0].HostIP
		}
		if inv.HostIP != "" {
			return inv.HostIP
		}
	}
	return fallback
}
