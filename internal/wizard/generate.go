package wizard

import (
	"bytes"
	"text/template"
)

// Answers holds all user responses from the wizard.
type Answers struct {
	EnableAPI      bool
	EnableSnapshot bool
	EnableCompose  bool
	EnableSystemd  bool

	APIURL string

	AppsFile    string
	DomainsFile string

	ComposeFiles    []ComposeFileEntry
	ComposeScanDirs []string

	SystemdFilter []string

	Locale      string
	Theme       string
	Direction   string
	DetailLevel string
	OnlyRunning bool
	ServerAddr  string
}

// ComposeFileEntry is an explicit compose file.
type ComposeFileEntry struct {
	Path     string
	Template bool
}

const configTemplate = `# hostmap configuration

output: hostmap.d2
theme: {{ .Theme }}
locale: {{ .Locale }}

filter:
  only_running: {{ if .OnlyRunning }}true{{ else }}false{{ end }}

render:
  direction: {{ .Direction }}
  detail_level: {{ .DetailLevel }}

server:
  addr: {{ .ServerAddr }}

sources:
{{- if .EnableAPI }}
  api:
    url: {{ .APIURL }}
{{- end }}

{{- if .EnableSnapshot }}
  snapshot:
    apps: {{ .AppsFile }}
{{- if .DomainsFile }}
    domains: {{ .DomainsFile }}
{{- end }}
{{- end }}

{{- if .EnableCompose }}
  compose:
{{- if .ComposeFiles }}
    files:
{{- range .ComposeFiles }}
      - path: {{ .Path }}
{{- if .Template }}
        template: true
{{- end }}
{{- end }}
{{- end }}
{{- if .ComposeScanDirs }}
    scan_dirs:
{{- range .ComposeScanDirs }}
      - {{ . }}
{{- end }}
{{- end }}
{{- end }}

{{- if .EnableSystemd }}
  systemd:
    enabled: true
{{- if .SystemdFilter }}
    filter:
{{- range .SystemdFilter }}
      - {{ . }}
{{- end }}
{{- end }}
{{- end }}
`

// GenerateConfig renders hostmap.yml from wizard answers.
func GenerateConfig(answers Answers) (string, error) {
	if answers.Theme == "" {
		answers.Theme = "default"
	}
	if answers.Locale == "" {
		answers.Locale = "en"
	}
	if answers.Direction == "" {
		answers.Direction = "down"
	}
	if answers.DetailLevel == "" {
		answers.DetailLevel = "standard"
	}
	if answers.ServerAddr == "" {
		answers.ServerAddr = "127.0.0.1:8090"
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, answers); err != nil {
		return "", err
	}
	return buf.String(), nil
}
