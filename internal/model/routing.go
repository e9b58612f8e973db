package model

import "encoding/json"

// Routing is one of FirewallNAT or ProxyDevice.
type Routing interface {
	routing()
}

// FirewallNAT is a host firewall DNAT rule forwarding to the record.
type FirewallNAT struct {
	Type        string `json:"type"`
	Destination string `json:"destination"`
}

// ProxyDevice is an LXD proxy device mapping a host port into a container.
type ProxyDevice struct {
	ExternalPort Port `json:"external_port"`
	InternalPort Port `json:"internal_port"`
}

func (FirewallNAT) routing() {}
func (ProxyDevice) routing() {}

// RoutingInfo wraps the routing variant. On the wire it is an object with
// optional firewall_nat and proxy_device keys; firewall_nat wins when both
// are set.
type RoutingInfo struct {
	Via Routing
}

type routingWire struct {
	FirewallNAT *FirewallNAT `json:"firewall_nat,omitempty"`
	ProxyDevice *ProxyDevice `json:"proxy_device,omitempty"`
}

func (ri *RoutingInfo) UnmarshalJSON(data []byte) error {
	var w routingWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.FirewallNAT != nil:
		ri.Via = *w.FirewallNAT
	case w.ProxyDevice != nil:
		ri.Via = *w.ProxyDevice
	default:
		ri.Via = nil
	}
	return nil
}

func (ri RoutingInfo) MarshalJSON() ([]byte, error) {
	var w routingWire
	switch v := ri.Via.(type) {
	case FirewallNAT:
		w.FirewallNAT = &v
	case ProxyDevice:
		w.ProxyDevice = &v
	}
	return json.Marshal(w)
}
