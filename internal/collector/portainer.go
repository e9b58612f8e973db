package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/CDTO-DENKART/app-visualizer/internal/client"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
)

func init() {
	Register(func() Source { return &PortainerSource{} })
}

// PortainerSource collects this host's Docker containers from a Portainer
// instance.
type PortainerSource struct {
	URL      string
	APIKey   string
	Endpoint int
	HostIP   string
	Timeout  time.Duration
	// TestFile for testing (bypasses HTTP calls)
	TestFile string
}

func (ps *PortainerSource) Metadata() SourceMetadata {
	return SourceMetadata{
		Name:        "portainer",
		DisplayName: "Portainer",
		Description: "Collects Docker containers from Portainer via its API",
		ConfigKey:   "portainer",
		Kind:        KindLive,
	}
}

func (ps *PortainerSource) Enabled(sources map[string]any) bool {
	section, ok := enabledSection(sources, "portainer")
	if !ok {
		return false
	}
	return stringValue(section, "url") != "" || stringValue(section, "test_file") != ""
}

func (ps *PortainerSource) Configure(section map[string]any) error {
	if section == nil {
		return nil
	}
	ps.URL = strings.TrimRight(stringValue(section, "url"), "/")
	ps.APIKey = stringValue(section, "api_key")
	if ps.APIKey == "" {
		ps.APIKey = os.Getenv("HOSTMAP_PORTAINER_API_KEY")
	}
	switch v := section["endpoint"].(type) {
	case int:
		ps.Endpoint = v
	case float64:
		ps.Endpoint = int(v)
	}
	if ps.Endpoint == 0 {
		ps.Endpoint = 1
	}
	ps.HostIP = stringValue(section, "host_ip")
	ps.TestFile = stringValue(section, "test_file")
	d, err := durationValue(section, "timeout")
	if err != nil {
		return err
	}
	ps.Timeout = d
	return nil
}

func (ps *PortainerSource) Validate() []ValidationError {
	if ps.TestFile != "" {
		return nil
	}
	var errs []ValidationError
	if ps.URL == "" {
		errs = append(errs, ValidationError{
			Field:      "sources.portainer.url",
			Message:    "url is required",
			Suggestion: "set the URL of your Portainer instance, e.g. https://portainer.local:9443",
		})
	}
	if ps.APIKey == "" {
		errs = append(errs, ValidationError{
			Field:      "sources.portainer.api_key",
			Message:    "api_key is required",
			Suggestion: "create an API key in Portainer: User Settings → Access tokens, or set HOSTMAP_PORTAINER_API_KEY",
		})
	}
	return errs
}

type portainerContainer struct {
	ID              string            `json:"Id"`
	Names           []string          `json:"Names"`
	Image           string            `json:"Image"`
	State           string            `json:"State"`
	Ports           []portainerPort   `json:"Ports"`
	Labels          map[string]string `json:"Labels"`
	NetworkSettings struct {
		Networks map[string]struct {
			IPAddress string `json:"IPAddress"`
		} `json:"Networks"`
	} `json:"NetworkSettings"`
}

type portainerPort struct {
	IP          string `json:"IP"`
	PrivatePort int    `json:"PrivatePort"`
	PublicPort  int    `json:"PublicPort"`
	Type        string `json:"Type"`
}

func (ps *PortainerSource) Collect(ctx context.Context, inv *model.Inventory) error {
	containers, err := ps.getContainers(ctx)
	if err != nil {
		return fmt.Errorf("getting containers: %w", err)
	}

	inv.HostIP = ps.HostIP
	for _, c := range containers {
		inv.Add(ps.record(c))
	}
	return nil
}

func (ps *PortainerSource) record(c portainerContainer) *model.ServiceRecord {
	r := &model.ServiceRecord{
		Name:          containerName(c.Names),
		Type:          model.ServiceTypeDocker,
		ContainerType: "Docker",
		Status:        model.StatusStopped,
		Image:         c.Image,
		InternalIP:    containerIP(c),
		HostIP:        ps.HostIP,
		Description:   c.Labels["org.opencontainers.image.description"],
	}
	if c.State == "running" {
		r.Status = model.StatusRunning
	}

	var ports []model.PortMapping
	seen := map[int]bool{}
	for _, p := range c.Ports {
		// Docker lists each binding once per address family.
		if p.PublicPort == 0 || seen[p.PublicPort] {
			continue
		}
		seen[p.PublicPort] = true
		ports = append(ports, model.PortMapping{
			HostPort:      model.Port(p.PublicPort),
			ContainerPort: model.Port(p.PrivatePort),
			Protocol:      p.Type,
		})
	}
	setPorts(r, ports)
	if len(ports) == 0 {
		r.InternalOnly = true
	}
	return r
}

func (ps *PortainerSource) getContainers(ctx context.Context) ([]portainerContainer, error) {
	var containers []portainerContainer
	if ps.TestFile != "" {
		if err := readDocument(ps.TestFile, &containers); err != nil {
			return nil, err
		}
		return containers, nil
	}

	path := fmt.Sprintf("/api/endpoints/%d/docker/containers/json", ps.Endpoint)
	url := ps.URL + path + "?all=true"
	op := http.MethodGet + " " + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &client.TransportError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("X-API-Key", ps.APIKey)

	timeout := ps.Timeout
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}
	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return nil, &client.TransportError{Op: op, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &client.TransportError{Op: op, URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &client.TransportError{Op: op, URL: url, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	if err := client.Decode(url, body, &containers); err != nil {
		return nil, err
	}
	return containers, nil
}

// containerName extracts a clean name from Docker container names (removes leading /).
func containerName(names []string) string {
	if len(names) == 0 {
		return "unknown"
	}
	return strings.TrimPrefix(names[0], "/")
}

// containerIP is the address on the first network, by name, that has one.
func containerIP(c portainerContainer) string {
	names := make([]string, 0, len(c.NetworkSettings.Networks))
	for name := range c.NetworkSettings.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ip := c.NetworkSettings.Networks[name].IPAddress; ip != "" {
			return ip
		}
	}
	return ""
}
