// Package diagnostics maps a service record to the diagnostic commands that
// can be launched for it, and tracks the launch state of each command.
package diagnostics

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/CDTO-DENKART/app-visualizer/internal/util"
	yamlv3 "gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// TestCommand is one diagnostic entry. Either Command or Note is set; a
// note carries no executable action.
type TestCommand struct {
	Label   string `yaml:"label" json:"label"`
	Command string `yaml:"command,omitempty" json:"command,omitempty"`
	Note    string `yaml:"note,omitempty" json:"note,omitempty"`
}

// IsNote reports whether the entry is informational only.
func (c TestCommand) IsNote() bool {
	return c.Command == ""
}

// Match lists lowercase substrings tested against a record. A rule fires
// when any substring matches.
type Match struct {
	Name     []string `yaml:"name"`
	Category []string `yaml:"category"`
	Domain   []string `yaml:"domain"`
}

// Rule pairs a predicate with the entries it contributes.
type Rule struct {
	Name    string        `yaml:"name"`
	Match   Match         `yaml:"match"`
	Entries []TestCommand `yaml:"entries"`
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// subject is the normalized view of a record the rules run against.
type subject struct {
	name     string
	category string
	domains  []string
}

func newSubject(r *model.ServiceRecord) subject {
	s := subject{
		name:     strings.ToLower(r.Name),
		category: strings.ToLower(r.AppType),
	}
	for _, d := range r.Domains {
		if d.Domain != "" {
			s.domains = append(s.domains, strings.ToLower(d.Domain))
		}
	}
	return s
}

// matches reports whether the rule fires for s.
func (rule Rule) matches(s subject) bool {
	for _, p := range rule.Match.Name {
		if strings.Contains(s.name, p) {
			return true
		}
	}
	for _, p := range rule.Match.Category {
		if s.category != "" && strings.Contains(s.category, p) {
			return true
		}
	}
	for _, p := range rule.Match.Domain {
		for _, d := range s.domains {
			if strings.Contains(d, p) {
				return true
			}
		}
	}
	return false
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(data []byte) ([]Rule, error) {
	var f ruleFile
	if err := yamlv3.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml parse: %w", err)
	}
	for i := range f.Rules {
		rule := &f.Rules[i]
		if rule.Name == "" {
			return nil, fmt.Errorf("rules[%d]: name is required", i)
		}
		rule.Match.Name = lowerAll(rule.Match.Name)
		rule.Match.Category = lowerAll(rule.Match.Category)
		rule.Match.Domain = lowerAll(rule.Match.Domain)
		if len(rule.Match.Name)+len(rule.Match.Category)+len(rule.Match.Domain) == 0 {
			return nil, fmt.Errorf("rule %q: no match patterns", rule.Name)
		}
		if len(rule.Entries) == 0 {
			return nil, fmt.Errorf("rule %q: no entries", rule.Name)
		}
		for j, e := range rule.Entries {
			if (e.Command == "") == (e.Note == "") {
				return nil, fmt.Errorf("rule %q entries[%d]: exactly one of command or note is required", rule.Name, j)
			}
		}
	}
	return f.Rules, nil
}

// DefaultRules returns the built-in rule table.
func DefaultRules() []Rule {
	rules, err := ParseRules(defaultRules)
	if err != nil {
		panic("diagnostics: invalid built-in rules: " + err.Error())
	}
	return rules
}

// LoadRules reads a rule table from path. An empty path yields the defaults.
func LoadRules(path string) ([]Rule, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	data, err := os.ReadFile(util.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

func lowerAll(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Resolver evaluates an ordered rule table. The table can be swapped while
// resolves are running.
type Resolver struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewResolver returns a resolver over rules.
func NewResolver(rules []Rule) *Resolver {
	return &Resolver{rules: rules}
}

// Resolve returns the entries of every matching rule, in rule order. ok is
// false when no rule fires; the slice is then nil.
func (r *Resolver) Resolve(rec *model.ServiceRecord) (cmds []TestCommand, ok bool) {
	if rec == nil {
		return nil, false
	}
	s := newSubject(rec)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rule := range r.rules {
		if rule.matches(s) {
			cmds = append(cmds, rule.Entries...)
		}
	}
	return cmds, len(cmds) > 0
}

// Swap replaces the rule table.
func (r *Resolver) Swap(rules []Rule) {
	r.mu.Lock()
	r.rules = rules
	r.mu.Unlock()
}

// Rules returns a copy of the current table.
func (r *Resolver) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}
