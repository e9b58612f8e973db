package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
)

func init() {
	Register(func() Source { return &SystemdSource{} })
}

// SystemdSource collects running systemd services as host records.
type SystemdSource struct {
	SSH      string   // user@host for remote execution
	Filter   []string // include only these service names
	Exclude  []string // exclude these service names
	Ports    map[string]int
	HostIP   string
	TestFile string // path to test JSON data
}

func (ss *SystemdSource) Metadata() SourceMetadata {
	return SourceMetadata{
		Name:        "systemd",
		DisplayName: "systemd Services",
		Description: "Collects running systemd services on this host",
		ConfigKey:   "systemd",
		DetectHint:  "systemctl",
		Kind:        KindLive,
	}
}

func (ss *SystemdSource) Enabled(sources map[string]any) bool {
	_, ok := enabledSection(sources, "systemd")
	return ok
}

func (ss *SystemdSource) Configure(section map[string]any) error {
	if section == nil {
		return nil
	}
	ss.SSH = stringValue(section, "ssh")
	ss.Filter = stringList(section, "filter")
	ss.Exclude = stringList(section, "exclude")
	ss.HostIP = stringValue(section, "host_ip")
	ss.TestFile = stringValue(section, "test_file")
	if ports, ok := section["ports"].(map[string]any); ok {
		ss.Ports = make(map[string]int, len(ports))
		for name, v := range ports {
			switch p := v.(type) {
			case int:
				ss.Ports[name] = p
			case float64:
				ss.Ports[name] = int(p)
			default:
				return fmt.Errorf("ports.%s: not a number: %v", name, v)
			}
		}
	}
	return nil
}

func (ss *SystemdSource) Validate() []ValidationError {
	var errs []ValidationError
	for name, p := range ss.Ports {
		if p <= 0 || p > 65535 {
			errs = append(errs, ValidationError{
				Field:      "sources.systemd.ports." + name,
				Message:    fmt.Sprintf("port out of range: %d", p),
				Suggestion: "use a TCP port between 1 and 65535",
			})
		}
	}
	if ss.TestFile == "" && ss.SSH == "" {
		if _, err := exec.LookPath("systemctl"); err != nil {
			errs = append(errs, ValidationError{
				Field:      "sources.systemd",
				Message:    "systemctl not found in PATH",
				Suggestion: "run on a systemd host or set ssh: user@host",
			})
		}
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
	return errs
}

type systemdUnit struct {
	Unit        string `json:"unit"`
	Load        string `json:"load"`
	Active      string `json:"active"`
	Sub         string `json:"sub"`
	Description string `json:"description"`
}

func (ss *SystemdSource) Collect(ctx context.Context, inv *model.Inventory) error {
	units, err := ss.getUnits(ctx)
	if err != nil {
		return fmt.Errorf("getting units: %w", err)
	}

	inv.HostIP = ss.HostIP
	for _, unit := range units {
		name := strings.TrimSuffix(unit.Unit, ".service")

		if len(ss.Filter) > 0 && !matchesAny(name, ss.Filter) {
			continue
		}
		if matchesAny(name, ss.Exclude) {
			continue
		}

		r := &model.ServiceRecord{
			Name:          name,
			Type:          model.ServiceTypeHost,
			ContainerType: "System service",
			Status:        model.StatusStopped,
			HostIP:        ss.HostIP,
			Description:   unit.Description,
		}
		if unit.Active == "active" && unit.Sub == "running" {
			r.Status = model.StatusRunning
		}
		if p, ok := ss.Ports[name]; ok {
			r.Port = model.Port(p)
		}
		inv.Add(r)
	}
	return nil
}

func (ss *SystemdSource) getUnits(ctx context.Context) ([]systemdUnit, error) {
	var units []systemdUnit
	if ss.TestFile != "" {
		if err := readDocument(ss.TestFile, &units); err != nil {
			return nil, err
		}
		return units, nil
	}

	args := []string{"list-units", "--type=service", "--state=running", "--output=json"}

	var cmd *exec.Cmd
	if ss.SSH != "" {
		cmd = exec.CommandContext(ctx, "ssh", append([]string{ss.SSH, "systemctl"}, args...)...)
	} else {
		cmd = exec.CommandContext(ctx, "systemctl", args...)
	}

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("systemctl: %w", err)
	}
	if err := json.Unmarshal(out, &units); err != nil {
		return nil, fmt.Errorf("parsing systemctl output: %w", err)
	}
	return units, nil
}

func matchesAny(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
