package style

import (
	"sort"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
)

// Theme defines node colors for each visual state.
type Theme struct {
	Name   string
	Colors map[string]model.Color
}

// Color keys.
const (
	KeyHost        = "host"
	KeyRunning     = "running"
	KeyNested      = "nested"
	KeyDegraded    = "degraded"
	KeyStopped     = "stopped"
	KeyContainer   = "container"
	KeyHostService = "host-service"
)

var themes = map[string]*Theme{
	"default": {
		Name: "default",
		Colors: map[string]model.Color{
			KeyHost:        {Background: "#667eea", Border: "#5568d3"},
			KeyRunning:     {Background: "#28a745", Border: "#1e7e34"},
			KeyNested:      {Background: "#17a2b8", Border: "#138496"},
			KeyDegraded:    {Background: "#ff9800", Border: "#f57c00"},
			KeyStopped:     {Background: "#dc3545", Border: "#c82333"},
			KeyContainer:   {Background: "#ffc107", Border: "#e0a800"},
			KeyHostService: {Background: "#6c757d", Border: "#5a6268"},
		},
	},
	"dark": {
		Name: "dark",
		Colors: map[string]model.Color{
			KeyHost:        {Background: "#1E1B4B", Border: "#818CF8"},
			KeyRunning:     {Background: "#052E16", Border: "#22C55E"},
			KeyNested:      {Background: "#083344", Border: "#22D3EE"},
			KeyDegraded:    {Background: "#431407", Border: "#F97316"},
			KeyStopped:     {Background: "#450A0A", Border: "#EF4444"},
			KeyContainer:   {Background: "#422006", Border: "#EAB308"},
			KeyHostService: {Background: "#1F2937", Border: "#9CA3AF"},
		},
	},
	"monochrome": {
		Name: "monochrome",
		Colors: map[string]model.Color{
			KeyHost:        {Background: "#D1D5DB", Border: "#111827"},
			KeyRunning:     {Background: "#F9FAFB", Border: "#4B5563"},
			KeyNested:      {Background: "#F3F4F6", Border: "#6B7280"},
			KeyDegraded:    {Background: "#E5E7EB", Border: "#374151"},
			KeyStopped:     {Background: "#9CA3AF", Border: "#111827"},
			KeyContainer:   {Background: "#E5E7EB", Border: "#4B5563"},
			KeyHostService: {Background: "#F3F4F6", Border: "#9CA3AF"},
		},
	},
	"ocean": {
		Name: "ocean",
		Colors: map[string]model.Color{
			KeyHost:        {Background: "#1E40AF", Border: "#1E3A8A"},
			KeyRunning:     {Background: "#0891B2", Border: "#155E75"},
			KeyNested:      {Background: "#38BDF8", Border: "#0369A1"},
			KeyDegraded:    {Background: "#F59E0B", Border: "#B45309"},
			KeyStopped:     {Background: "#DC2626", Border: "#991B1B"},
			KeyContainer:   {Background: "#C7D2FE", Border: "#4F46E5"},
			KeyHostService: {Background: "#94A3B8", Border: "#475569"},
		},
	},
}

// ThemeNames returns all available theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns the named theme or the default.
func GetTheme(name string) *Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["default"]
}

// Color returns the theme color for a key.
func (t *Theme) Color(key string) model.Color {
	if c, ok := t.Colors[key]; ok {
		return c
	}
	return model.Color{Background: "#F9FAFB", Border: "#D1D5DB"}
}
