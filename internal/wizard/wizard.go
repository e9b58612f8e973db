// Package wizard asks for the sources of a new hostmap.yml.
package wizard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/style"
	"github.com/charmbracelet/huh"
)

// DefaultAPIURL is where the inventory backend usually listens.
const DefaultAPIURL = "http://127.0.0.1:5000"

// Defaults pre-fills answers from what Detect found.
func Defaults(detection DetectionResult) *Answers {
	answers := &Answers{
		EnableAPI:   true,
		APIURL:      DefaultAPIURL,
		Locale:      "en",
		Theme:       "default",
		Direction:   "down",
		DetailLevel: "standard",
		ServerAddr:  "127.0.0.1:8090",
	}
	if detection.AppsSnapshot != "" {
		answers.EnableSnapshot = true
		answers.AppsFile = detection.AppsSnapshot
		answers.DomainsFile = detection.DomainsSnapshot
	}
	for _, f := range detection.ComposeFiles {
		answers.EnableCompose = true
		answers.ComposeFiles = append(answers.ComposeFiles, ComposeFileEntry{Path: f, Template: strings.HasSuffix(f, ".j2")})
	}
	answers.EnableSystemd = detection.SystemctlAvailable
	return answers
}

// Run executes the interactive wizard and returns the user's answers.
func Run(detection DetectionResult) (*Answers, error) {
	answers := Defaults(detection)

	var hints []string
	if detection.AppsSnapshot != "" {
		hints = append(hints, "Snapshot found: "+detection.AppsSnapshot)
	}
	if len(detection.ComposeFiles) > 0 {
		hints = append(hints, "Compose files found: "+strings.Join(detection.ComposeFiles, ", "))
	}
	if detection.SystemctlAvailable {
		hints = append(hints, "systemctl detected")
	}

	desc := "Select where hostmap reads this host's services from."
	if len(hints) > 0 {
		desc += "\n\nAuto-detected:\n  " + strings.Join(hints, "\n  ")
	}

	var selected []string
	sourceForm := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which sources do you want to enable?").
				Description(desc).
				Options(
					huh.NewOption("Inventory backend API", "api").Selected(answers.EnableAPI),
					huh.NewOption("Inventory snapshot files", "snapshot").Selected(answers.EnableSnapshot),
					huh.NewOption("Docker Compose", "compose").Selected(answers.EnableCompose),
					huh.NewOption("systemd services", "systemd").Selected(answers.EnableSystemd),
				).
				Value(&selected),
		),
	)
	if err := sourceForm.Run(); err != nil {
		return nil, err
	}
	answers.EnableAPI = slices.Contains(selected, "api")
	answers.EnableSnapshot = slices.Contains(selected, "snapshot")
	answers.EnableCompose = slices.Contains(selected, "compose")
	answers.EnableSystemd = slices.Contains(selected, "systemd")

	var groups []*huh.Group

	if answers.EnableAPI {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Serves /api/apps, /api/domains and /api/test/run").
				Value(&answers.APIURL).
				Validate(requireURL),
		))
	}

	if answers.EnableSnapshot {
		if answers.AppsFile == "" {
			answers.AppsFile = "./apps.json"
		}
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Applications snapshot").
				Value(&answers.AppsFile),
			huh.NewInput().
				Title("Domains snapshot (optional)").
				Value(&answers.DomainsFile),
		))
	}

	var composePath string
	if answers.EnableCompose {
		if len(answers.ComposeFiles) == 0 {
			composePath = "~/docker"
		}
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Additional compose file or scan directory (optional)").
				Description("Declared services appear stopped until a live source reports them").
				Value(&composePath),
		))
	}

	var filter string
	if answers.EnableSystemd {
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Units to include (optional)").
				Description("Comma-separated prefixes, e.g. nginx,postgresql").
				Value(&filter),
		))
	}

	groups = append(groups, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Language").
			Options(huh.NewOptions(locale.Codes()...)...).
			Value(&answers.Locale),
		huh.NewSelect[string]().
			Title("Theme").
			Options(huh.NewOptions(style.ThemeNames()...)...).
			Value(&answers.Theme),
		huh.NewSelect[string]().
			Title("Diagram direction").
			Options(
				huh.NewOption("Down (vertical)", "down"),
				huh.NewOption("Right (horizontal)", "right"),
			).
			Value(&answers.Direction),
		huh.NewSelect[string]().
			Title("Detail level").
			Options(
				huh.NewOption("Minimal: categories and names only", "minimal"),
				huh.NewOption("Standard: ports and icons", "standard"),
				huh.NewOption("Detailed: everything including addresses", "detailed"),
			).
			Value(&answers.DetailLevel),
		huh.NewConfirm().
			Title("Show running services only?").
			Value(&answers.OnlyRunning),
	))

	if err := huh.NewForm(groups...).Run(); err != nil {
		return nil, err
	}

	addComposePath(answers, composePath)
	answers.SystemdFilter = splitList(filter)
	return answers, nil
}

// addComposePath files p as an explicit compose file or a scan directory.
func addComposePath(answers *Answers, p string) {
	p = strings.TrimSpace(p)
	if p == "" {
		return
	}
	if strings.HasSuffix(p, ".yml") || strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".j2") {
		answers.ComposeFiles = append(answers.ComposeFiles, ComposeFileEntry{Path: p, Template: strings.HasSuffix(p, ".j2")})
		return
	}
	answers.ComposeScanDirs = append(answers.ComposeScanDirs, p)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func requireURL(s string) error {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("expected an http(s) URL")
	}
	return nil
}
