package model

import (
	"encoding/json"
	"strings"
)

// DomainStatus is either active or planned.
type DomainStatus string

const (
	DomainActive  DomainStatus = "active"
	DomainPlanned DomainStatus = "planned"
)

// DomainBinding associates a public hostname with a record.
type DomainBinding struct {
	Domain        string       `json:"domain"`
	Status        DomainStatus `json:"status"`
	Description   string       `json:"description,omitempty"`
	ContainerName string       `json:"container_name,omitempty"`
	AppName       string       `json:"app_name,omitempty"`
}

// FirstDomain returns the first binding with the given status.
func FirstDomain(bindings []DomainBinding, status DomainStatus) (DomainBinding, bool) {
	for _, b := range bindings {
		if b.Status == status {
			return b, true
		}
	}
	return DomainBinding{}, false
}

// DomainsWithStatus returns the bindings with the given status, in order.
func DomainsWithStatus(bindings []DomainBinding, status DomainStatus) []DomainBinding {
	var out []DomainBinding
	for _, b := range bindings {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// UnionDomains appends bindings from src whose domain is not yet in dst.
// The first binding seen for a domain wins.
func UnionDomains(dst, src []DomainBinding) []DomainBinding {
	for _, b := range src {
		if !HasDomain(dst, b.Domain) {
			dst = append(dst, b)
		}
	}
	return dst
}

// HasDomain reports whether any binding is for domain.
func HasDomain(bindings []DomainBinding, domain string) bool {
	for _, b := range bindings {
		if b.Domain == domain {
			return true
		}
	}
	return false
}

// DomainsConfig is the response of GET /api/domains.
type DomainsConfig struct {
	Active  []DomainBinding `json:"active"`
	Planned []DomainBinding `json:"planned"`
}

// UnmarshalJSON fills in each binding's status from the list it came from.
func (dc *DomainsConfig) UnmarshalJSON(data []byte) error {
	type plain DomainsConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	for i := range p.Active {
		p.Active[i].Status = DomainActive
	}
	for i := range p.Planned {
		p.Planned[i].Status = DomainPlanned
	}
	*dc = DomainsConfig(p)
	return nil
}

// For returns the bindings that belong to an app. A container match takes
// precedence over an app name match for the same entry.
func (dc *DomainsConfig) For(appName, containerName string) []DomainBinding {
	if dc == nil {
		return nil
	}
	app := strings.ToLower(appName)
	container := strings.ToLower(containerName)

	var out []DomainBinding
	for _, list := range [][]DomainBinding{dc.Active, dc.Planned} {
		for _, b := range list {
			bc := strings.ToLower(b.ContainerName)
			ba := strings.ToLower(b.AppName)
			switch {
			case container != "" && bc != "" && strings.Contains(container, bc):
				out = append(out, b)
			case app != "" && ba != "" && strings.Contains(app, ba):
				out = append(out, b)
			}
		}
	}
	return out
}

// Len is the total number of bindings.
func (dc *DomainsConfig) Len() int {
	if dc == nil {
		return 0
	}
	return len(dc.Active) + len(dc.Planned)
}
