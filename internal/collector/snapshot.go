package collector

import (
	"context"
	"fmt"
	"os"

	"github.com/CDTO-DENKART/app-visualizer/internal/client"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/util"
)

func init() {
	Register(func() Source { return &SnapshotSource{} })
}

// SnapshotSource reads saved /api/apps and /api/domains responses from disk.
type SnapshotSource struct {
	AppsFile    string
	DomainsFile string
}

func (s *SnapshotSource) Metadata() SourceMetadata {
	return SourceMetadata{
		Name:        "snapshot",
		DisplayName: "Inventory snapshot",
		Description: "Reads saved apps and domains JSON documents",
		ConfigKey:   "snapshot",
		DetectHint:  "apps.json",
		Kind:        KindLive,
	}
}

func (s *SnapshotSource) Enabled(sources map[string]any) bool {
	section, ok := enabledSection(sources, "snapshot")
	return ok && stringValue(section, "apps") != ""
}

func (s *SnapshotSource) Configure(section map[string]any) error {
	if section == nil {
		return nil
	}
	s.AppsFile = stringValue(section, "apps")
	s.DomainsFile = stringValue(section, "domains")
	return nil
}

func (s *SnapshotSource) Validate() []ValidationError {
	var errs []ValidationError
	for _, f := range []struct{ field, path string }{{"apps", s.AppsFile}, {"domains", s.DomainsFile}} {
		field, path := f.field, f.path
		if path == "" {
			continue
		}
		if _, err := os.Stat(util.ExpandPath(path)); err != nil {
			errs = append(errs, ValidationError{
				Field:      "sources.snapshot." + field,
				Message:    fmt.Sprintf("file not found: %s", path),
				Suggestion: "save the backend response with: curl -o " + path + " <backend>/api/" + field,
			})
		}
	}
	return errs
}

func (s *SnapshotSource) Collect(ctx context.Context, inv *model.Inventory) error {
	var got model.Inventory
	if err := readDocument(s.AppsFile, &got); err != nil {
		return err
	}
	got.Domains = &model.DomainsConfig{}
	if s.DomainsFile != "" {
		if err := readDocument(s.DomainsFile, got.Domains); err != nil {
			return err
		}
	}
	*inv = got
	return nil
}

func readDocument(path string, out any) error {
	path = util.ExpandPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return client.Decode(path, data, out)
}
