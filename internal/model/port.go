package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Port is a port number. Zero means absent. The inventory backend emits
// ports as strings, so both "8080" and 8080 decode.
type Port int

func (p Port) String() string {
	if p == 0 {
		return ""
	}
	return strconv.Itoa(int(p))
}

func (p *Port) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*p = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*p = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("port %q: %w", s, err)
		}
		*p = Port(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("port %s: %w", data, err)
	}
	*p = Port(n)
	return nil
}

// PortMapping represents a port binding.
type PortMapping struct {
	HostIP        string `json:"host_ip,omitempty"`
	HostPort      Port   `json:"host_port"`
	ContainerPort Port   `json:"container_port"`
	Protocol      string `json:"protocol,omitempty"` // tcp or udp
}

// String returns a human-readable port mapping.
func (p PortMapping) String() string {
	proto := p.Protocol
	if proto == "" || proto == "tcp" {
		proto = ""
	} else {
		proto = "/" + proto
	}
	if p.HostPort == p.ContainerPort {
		return fmt.Sprintf("%d%s", p.HostPort, proto)
	}
	return fmt.Sprintf("%d→%d%s", p.HostPort, p.ContainerPort, proto)
}

// Arrow renders the mapping as host→container regardless of equality.
func (p PortMapping) Arrow() string {
	return fmt.Sprintf("%d→%d", p.HostPort, p.ContainerPort)
}

// ParsePortMapping parses a Docker port string like "8080:80" or "127.0.0.1:8080:80/tcp".
func ParsePortMapping(s string) PortMapping {
	pm := PortMapping{Protocol: "tcp"}

	if idx := strings.Index(s, "/"); idx != -1 {
		pm.Protocol = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		port, _ := strconv.Atoi(parts[0])
		pm.HostPort = Port(port)
		pm.ContainerPort = Port(port)
	case 2:
		pm.HostPort = atoiPort(parts[0])
		pm.ContainerPort = atoiPort(parts[1])
	case 3:
		pm.HostIP = parts[0]
		pm.HostPort = atoiPort(parts[1])
		pm.ContainerPort = atoiPort(parts[2])
	}
	return pm
}

func atoiPort(s string) Port {
	n, _ := strconv.Atoi(s)
	return Port(n)
}
