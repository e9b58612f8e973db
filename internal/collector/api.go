package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/CDTO-DENKART/app-visualizer/internal/client"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
)

func init() {
	Register(func() Source { return &APISource{} })
}

// APISource reads the live inventory from the backend.
type APISource struct {
	URL     string
	Timeout time.Duration
}

func (a *APISource) Metadata() SourceMetadata {
	return SourceMetadata{
		Name:        "api",
		DisplayName: "Inventory API",
		Description: "Fetches /api/apps and /api/domains from the inventory backend",
		ConfigKey:   "api",
		Kind:        KindLive,
	}
}

func (a *APISource) Enabled(sources map[string]any) bool {
	section, ok := enabledSection(sources, "api")
	return ok && stringValue(section, "url") != ""
}

func (a *APISource) Configure(section map[string]any) error {
	if section == nil {
		return nil
	}
	a.URL = stringValue(section, "url")
	d, err := durationValue(section, "timeout")
	if err != nil {
		return err
	}
	a.Timeout = d
	return nil
}

func (a *APISource) Validate() []ValidationError {
	if a.URL == "" {
		return []ValidationError{{
			Field:      "sources.api.url",
			Message:    "backend URL is required",
			Suggestion: "set it to the inventory backend, e.g. http://127.0.0.1:5000",
		}}
	}
	if u, err := url.Parse(a.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return []ValidationError{{
			Field:      "sources.api.url",
			Message:    fmt.Sprintf("not an absolute URL: %s", a.URL),
			Suggestion: "include the scheme and host, e.g. http://127.0.0.1:5000",
		}}
	}
	return nil
}

func (a *APISource) Collect(ctx context.Context, inv *model.Inventory) error {
	got, err := client.New(a.URL, a.Timeout).FetchInventory(ctx)
	if err != nil {
		return err
	}
	*inv = *got
	if inv.Domains == nil {
		inv.Domains = &model.DomainsConfig{}
	}
	return nil
}
