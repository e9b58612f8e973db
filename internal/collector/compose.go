package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/util"
	"github.com/charmbracelet/log"
	"github.com/compose-spec/compose-go/v2/cli"
	composetypes "github.com/compose-spec/compose-go/v2/types"
	yamlv3 "gopkg.in/yaml.v3"
)

func init() {
	Register(func() Source { return &ComposeSource{} })
}

// ComposeFile is one compose file to read.
type ComposeFile struct {
	Path     string
	Template bool
}

// ComposeSource parses docker-compose files and templates. Declared
// services become stopped docker records unless a live source reports them.
type ComposeSource struct {
	Files    []ComposeFile
	ScanDirs []string
}

func (cs *ComposeSource) Metadata() SourceMetadata {
	return SourceMetadata{
		Name:        "compose",
		DisplayName: "Docker Compose",
		Description: "Parses docker-compose files and Jinja2 templates for declared services",
		ConfigKey:   "compose",
		DetectHint:  "docker-compose.yml",
		Kind:        KindDeclared,
	}
}

func (cs *ComposeSource) Enabled(sources map[string]any) bool {
	section, ok := enabledSection(sources, "compose")
	if !ok {
		return false
	}
	if list, ok := section["files"].([]any); ok && len(list) > 0 {
		return true
	}
	return len(stringList(section, "scan_dirs")) > 0
}

func (cs *ComposeSource) Configure(section map[string]any) error {
	if section == nil {
		return nil
	}
	if list, ok := section["files"].([]any); ok {
		for _, item := range list {
			switch v := item.(type) {
			case string:
				cs.Files = append(cs.Files, ComposeFile{Path: v})
			case map[string]any:
				cs.Files = append(cs.Files, ComposeFile{
					Path:     stringValue(v, "path"),
					Template: boolValue(v, "template"),
				})
			}
		}
	}
	cs.ScanDirs = stringList(section, "scan_dirs")
	return nil
}

func (cs *ComposeSource) Validate() []ValidationError {
	var errs []ValidationError
	for i, f := range cs.Files {
		if _, err := os.Stat(util.ExpandPath(f.Path)); err != nil {
			errs = append(errs, ValidationError{
				Field:      fmt.Sprintf("sources.compose.files[%d]", i),
				Message:    fmt.Sprintf("file not found: %s", f.Path),
				Suggestion: "check the path or remove this entry",
			})
		}
	}
	for i, d := range cs.ScanDirs {
		if info, err := os.Stat(util.ExpandPath(d)); err != nil || !info.IsDir() {
			errs = append(errs, ValidationError{
				Field:      fmt.Sprintf("sources.compose.scan_dirs[%d]", i),
				Message:    fmt.Sprintf("directory not found: %s", d),
				Suggestion: "check the path or remove this entry",
			})
		}
	}
	return errs
}

func (cs *ComposeSource) Collect(ctx context.Context, inv *model.Inventory) error {
	for _, f := range cs.Files {
		path := util.ExpandPath(f.Path)
		if err := cs.parseComposeFile(ctx, inv, path, f.Template); err != nil {
			return fmt.Errorf("parsing compose file %s: %w", f.Path, err)
		}
	}
	for _, dir := range cs.ScanDirs {
		if err := cs.scanDirectory(ctx, inv, util.ExpandPath(dir)); err != nil {
			return fmt.Errorf("scanning directory %s: %w", dir, err)
		}
	}
	return nil
}

func (cs *ComposeSource) scanDirectory(ctx context.Context, inv *model.Inventory, dir string) error {
	patterns := []string{
		"docker-compose.yml",
		"docker-compose.yaml",
		"compose.yml",
		"compose.yaml",
	}

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			name := info.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor") {
				return filepath.SkipDir
			}
			return nil
		}
		for _, pattern := range patterns {
			if info.Name() == pattern {
				if err := cs.parseComposeFile(ctx, inv, path, false); err != nil {
					log.Warn("skipping compose file", "path", path, "err", err)
				}
				return nil
			}
		}
		return nil
	})
}

func (cs *ComposeSource) parseComposeFile(ctx context.Context, inv *model.Inventory, path string, isTemplate bool) error {
	if isTemplate {
		return cs.parseFallback(inv, path)
	}
	return cs.parseStandard(ctx, inv, path)
}

func (cs *ComposeSource) parseStandard(ctx context.Context, inv *model.Inventory, path string) error {
	opts, err := cli.NewProjectOptions(
		[]string{path},
		cli.WithDotEnv,
		cli.WithInterpolation(false),
	)
	if err != nil {
		return fmt.Errorf("project options: %w", err)
	}

	project, err := cli.ProjectFromOptions(ctx, opts)
	if err != nil {
		log.Debug("compose-go rejected file, using raw YAML", "path", path, "err", err)
		return cs.parseFallback(inv, path)
	}

	cs.projectToRecords(inv, project, path)
	return nil
}

// parseFallback reads the services map as raw YAML. It also handles Jinja2
// templates, which compose-go cannot load.
func (cs *ComposeSource) parseFallback(inv *model.Inventory, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	content := string(data)
	if strings.Contains(content, "{{") || strings.Contains(content, "{%") {
		content = util.StripTemplating(content)
	}

	var raw map[string]any
	if err := yamlv3.Unmarshal([]byte(content), &raw); err != nil {
		return fmt.Errorf("yaml parse: %w", err)
	}
	servicesMap, ok := raw["services"].(map[string]any)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(servicesMap))
	for name := range servicesMap {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		svcMap, ok := servicesMap[name].(map[string]any)
		if !ok {
			continue
		}
		r := declaredRecord(name, toString(svcMap["container_name"]), toString(svcMap["image"]), path)
		if portsRaw, ok := svcMap["ports"]; ok {
			setPorts(r, parsePorts(portsRaw))
		}
		inv.Add(r)
	}
	return nil
}

func (cs *ComposeSource) projectToRecords(inv *model.Inventory, project *composetypes.Project, path string) {
	names := make([]string, 0, len(project.Services))
	for name := range project.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		svc := project.Services[name]
		r := declaredRecord(svc.Name, svc.ContainerName, svc.Image, path)

		var ports []model.PortMapping
		for _, p := range svc.Ports {
			hostPort, _ := strconv.Atoi(p.Published)
			if hostPort == 0 {
				continue
			}
			ports = append(ports, model.PortMapping{
				HostIP:        p.HostIP,
				HostPort:      model.Port(hostPort),
				ContainerPort: model.Port(p.Target),
				Protocol:      p.Protocol,
			})
		}
		setPorts(r, ports)
		if desc := svc.Labels["org.opencontainers.image.description"]; desc != "" {
			r.Description = desc
		}
		inv.Add(r)
	}
}

func declaredRecord(service, containerName, image, path string) *model.ServiceRecord {
	name := service
	if containerName != "" && !strings.Contains(containerName, "PLACEHOLDER") {
		name = containerName
	}
	return &model.ServiceRecord{
		Name:          name,
		Type:          model.ServiceTypeDocker,
		ContainerType: "Docker",
		Status:        model.StatusStopped,
		Image:         image,
		Description:   "Declared in " + filepath.Base(path),
	}
}

func setPorts(r *model.ServiceRecord, ports []model.PortMapping) {
	r.PortMappings = ports
	if len(ports) > 0 {
		r.Port = ports[0].HostPort
		r.InternalPort = ports[0].ContainerPort
	}
}

func parsePorts(raw any) []model.PortMapping {
	var ports []model.PortMapping
	list, ok := raw.([]any)
	if !ok {
		return nil
	}
	for _, p := range list {
		s := fmt.Sprintf("%v", p)
		// templated host parts become PLACEHOLDER
		s = strings.ReplaceAll(s, "PLACEHOLDER:", "")
		if s == "" || s == "PLACEHOLDER" {
			continue
		}
		pm := model.ParsePortMapping(s)
		if pm.HostPort > 0 {
			ports = append(ports, pm)
		}
	}
	return ports
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
