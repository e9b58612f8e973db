package util

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

var templateExpr = regexp.MustCompile(`\{\{[^}]*\}\}|\{%[^%]*%\}`)

// StripTemplating replaces Jinja2 expressions and drops Jinja2 statements so
// templated compose files still parse as YAML.
func StripTemplating(content string) string {
	return templateExpr.ReplaceAllStringFunc(content, func(m string) string {
		if strings.HasPrefix(m, "{%") {
			return ""
		}
		return "PLACEHOLDER"
	})
}
