package collector

import (
	"context"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
)

// Kind tells Merge how a source's records rank against the others.
type Kind int

const (
	// KindLive sources report what is running right now.
	KindLive Kind = iota
	// KindDeclared sources report what should exist, e.g. compose files.
	KindDeclared
)

// Source defines the interface for self-registering inventory sources.
type Source interface {
	Metadata() SourceMetadata
	Enabled(sources map[string]any) bool
	Configure(section map[string]any) error
	Validate() []ValidationError
	Collect(ctx context.Context, inv *model.Inventory) error
}

// SourceMetadata describes a source for discovery and documentation.
type SourceMetadata struct {
	Name        string // internal key, e.g. "portainer"
	DisplayName string // human-readable, e.g. "Portainer"
	Description string // one-line description
	ConfigKey   string // YAML key under sources
	DetectHint  string // filesystem hint for auto-detection, e.g. "docker-compose.yml"
	Kind        Kind
}

// ValidationError reports a config problem with a suggested fix.
type ValidationError struct {
	Field      string // dotted path, e.g. "sources.api.url"
	Message    string
	Suggestion string
}

var registry []func() Source

// Register adds a source factory to the global registry.
// Each source calls this in its init().
func Register(factory func() Source) {
	registry = append(registry, factory)
}

// All returns fresh instances of every registered source.
func All() []Source {
	out := make([]Source, len(registry))
	for i, f := range registry {
		out[i] = f()
	}
	return out
}

// Lookup returns a fresh instance of the source registered under name.
func Lookup(name string) (Source, bool) {
	for _, f := range registry {
		s := f()
		if s.Metadata().Name == name {
			return s, true
		}
	}
	return nil, false
}
