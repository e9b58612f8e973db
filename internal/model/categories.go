package model

import "strings"

type categoryPattern struct {
	pattern  string
	category string
}

// categoryPatterns maps name/image substrings to categories. Earlier entries
// win, so more specific patterns come first.
var categoryPatterns = []categoryPattern{
	// Monitoring
	{"node-exporter", "metrics"},
	{"exporter", "metrics"},
	{"grafana", "monitoring"},
	{"prometheus", "monitoring"},
	{"netdata", "monitoring"},
	{"uptime-kuma", "monitoring"},
	{"cockpit", "management"},

	// Management
	{"portainer", "management"},
	{"watchtower", "management"},

	// Conferencing
	{"bigbluebutton", "conferencing"},
	{"bbb", "conferencing"},
	{"jitsi", "conferencing"},

	// Documentation
	{"docs", "documentation"},
	{"wiki", "documentation"},
	{"outline", "documentation"},

	// Infrastructure
	{"nginx-proxy-manager", "infrastructure"},
	{"nginx", "infrastructure"},
	{"traefik", "infrastructure"},
	{"caddy", "infrastructure"},
	{"haproxy", "infrastructure"},
	{"sshd", "infrastructure"},
	{"ssh", "infrastructure"},

	// Databases
	{"postgres", "databases"},
	{"mysql", "databases"},
	{"mariadb", "databases"},
	{"mongo", "databases"},
	{"redis", "databases"},

	// Business
	{"1c", "erp"},
	{"erp", "erp"},
	{"crm", "crm"},
	{"cms", "cms"},

	// Dev
	{"gitea", "dev"},
	{"gitlab", "dev"},
	{"forgejo", "dev"},

	// Security
	{"vaultwarden", "security"},
	{"authelia", "security"},
}

// CategorizeService determines the category for a service based on its name and image.
func CategorizeService(name, image string) string {
	nameLower := strings.ToLower(name)

	// Exact name match first
	for _, p := range categoryPatterns {
		if nameLower == p.pattern {
			return p.category
		}
	}

	lower := nameLower + " " + strings.ToLower(image)
	for _, p := range categoryPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.category
		}
	}

	return ""
}
