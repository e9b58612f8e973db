package model

// Inventory is the top-level aggregate of everything known about the host.
type Inventory struct {
	HostIP       string           `json:"host_ip,omitempty"`
	Applications []*ServiceRecord `json:"applications"`
	Statistics   Statistics       `json:"statistics"`
	Error        string           `json:"error,omitempty"`
	Domains      *DomainsConfig   `json:"-"`
}

// Statistics summarizes an inventory.
type Statistics struct {
	Total   int `json:"total"`
	Running int `json:"running"`
	Stopped int `json:"stopped"`
	Docker  int `json:"docker"`
	LXD     int `json:"lxd"`
	Host    int `json:"host"`
}

// NewInventory creates an initialized Inventory.
func NewInventory() *Inventory {
	return &Inventory{Domains: &DomainsConfig{}}
}

// Add appends records to the inventory.
func (inv *Inventory) Add(records ...*ServiceRecord) {
	inv.Applications = append(inv.Applications, records...)
}

// Find returns the record with the given name and type.
func (inv *Inventory) Find(name string, typ ServiceType) *ServiceRecord {
	for _, r := range inv.Applications {
		if r.Name == name && r.Type == typ {
			return r
		}
	}
	return nil
}

// ComputeStatistics recounts Statistics from Applications. LXD counts only
// running apps, matching what the inventory backend reports.
func (inv *Inventory) ComputeStatistics() {
	var s Statistics
	for _, r := range inv.Applications {
		s.Total++
		switch r.Status {
		case StatusRunning:
			s.Running++
		case StatusStopped:
			s.Stopped++
		}
		switch r.Type {
		case ServiceTypeDocker:
			s.Docker++
		case ServiceTypeLXD:
			if r.Running() {
				s.LXD++
			}
		case ServiceTypeHost:
			s.Host++
		}
	}
	inv.Statistics = s
}
