package model

import "strings"

// ServiceType classifies where a record runs.
type ServiceType string

const (
	ServiceTypeHost   ServiceType = "host"
	ServiceTypeDocker ServiceType = "docker"
	ServiceTypeLXD    ServiceType = "lxd"
)

// Status is the run state reported by the inventory backend.
type Status string

const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// ServiceRecord is one inventory entry: a host service, a Docker container,
// or an application inside an LXD container.
type ServiceRecord struct {
	Name           string          `json:"name"`
	Type           ServiceType     `json:"type"`
	ContainerType  string          `json:"container_type,omitempty"`
	Status         Status          `json:"status"`
	AppType        string          `json:"app_type,omitempty"`
	InternalIP     string          `json:"internal_ip,omitempty"`
	HostIP         string          `json:"host_ip,omitempty"`
	Port           Port            `json:"port,omitempty"`
	InternalPort   Port            `json:"internal_port,omitempty"`
	Protocol       string          `json:"protocol,omitempty"`
	Image          string          `json:"image,omitempty"`
	PortMappings   []PortMapping   `json:"port_mappings,omitempty"`
	Routing        *RoutingInfo    `json:"routing,omitempty"`
	ProxyListen    string          `json:"proxy_listen,omitempty"`
	ProxyConnect   string          `json:"proxy_connect,omitempty"`
	ContainerName  string          `json:"container_name,omitempty"`
	Domains        []DomainBinding `json:"domains,omitempty"`
	URL            string          `json:"url,omitempty"`
	URLAvailable   Availability    `json:"url_available,omitempty"`
	URLRecommended bool            `json:"url_recommended,omitempty"`
	URLCheck       *URLCheck       `json:"url_check,omitempty"`
	InternalOnly   bool            `json:"internal_only,omitempty"`
	Description    string          `json:"description,omitempty"`
}

// URLCheck holds the result of the backend's reachability probe.
type URLCheck struct {
	Available    Availability `json:"available"`
	StatusCode   int          `json:"status_code,omitempty"`
	ResponseTime *float64     `json:"response_time,omitempty"` // milliseconds
	Error        string       `json:"error,omitempty"`
}

// Running reports whether the record is up. Any status other than
// "running" counts as not running.
func (r *ServiceRecord) Running() bool {
	return r.Status == StatusRunning
}

// CheckAvailability returns the probe result, or unknown when no probe ran.
func (r *ServiceRecord) CheckAvailability() Availability {
	if r.URLCheck == nil {
		return AvailabilityUnknown
	}
	return r.URLCheck.Available
}

// DomainAvailability is url_available, or the url_check result when the
// backend left url_available unset.
func (r *ServiceRecord) DomainAvailability() Availability {
	if r.URLAvailable != AvailabilityUnknown {
		return r.URLAvailable
	}
	return r.CheckAvailability()
}

// GroupKey is the LXD container a record belongs to: container_name when
// set, else the part of the name before the first " - ".
func (r *ServiceRecord) GroupKey() string {
	if r.ContainerName != "" {
		return r.ContainerName
	}
	name, _, _ := strings.Cut(r.Name, " - ")
	return name
}

// ShortName is the display name of an app nested in an LXD container: the
// part after the first " - ", or the full name.
func (r *ServiceRecord) ShortName() string {
	if _, after, ok := strings.Cut(r.Name, " - "); ok && after != "" {
		return after
	}
	return r.Name
}

// FirewallNAT returns the NAT routing variant if that is how the record is reached.
func (r *ServiceRecord) FirewallNAT() (FirewallNAT, bool) {
	if r.Routing == nil {
		return FirewallNAT{}, false
	}
	nat, ok := r.Routing.Via.(FirewallNAT)
	return nat, ok
}

// ProxyDevice returns the LXD proxy routing variant if present.
func (r *ServiceRecord) ProxyDevice() (ProxyDevice, bool) {
	if r.Routing == nil {
		return ProxyDevice{}, false
	}
	proxy, ok := r.Routing.Via.(ProxyDevice)
	return proxy, ok
}
