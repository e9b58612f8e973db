package util

import (
	"regexp"
	"strings"
)

var nonAlphaNum = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeID converts a node id into a valid D2 identifier.
func SanitizeID(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(" ", "-", ".", "-", "/", "-", ":", "-").Replace(s)
	s = nonAlphaNum.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}

// Quote wraps a label in double quotes for D2. Line breaks survive as \n.
func Quote(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s)
	return `"` + s + `"`
}
