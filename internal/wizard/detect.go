package wizard

import (
	"os"
	"os/exec"
	"path/filepath"
)

// DetectionResult holds what was found on this host.
type DetectionResult struct {
	SystemctlAvailable bool
	ComposeFiles       []string
	AppsSnapshot       string // path of apps.json if found
	DomainsSnapshot    string
}

// Detector abstracts filesystem and path lookups for testing.
type Detector interface {
	LookPath(name string) (string, error)
	Stat(path string) (os.FileInfo, error)
	UserHomeDir() (string, error)
}

// OSDetector uses the real OS for detection.
type OSDetector struct{}

func (OSDetector) LookPath(name string) (string, error)  { return exec.LookPath(name) }
func (OSDetector) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }
func (OSDetector) UserHomeDir() (string, error)          { return os.UserHomeDir() }

var composeNames = []string{
	"docker-compose.yml",
	"docker-compose.yaml",
	"compose.yml",
	"compose.yaml",
}

// Detect looks for the inputs each source can read.
func Detect(d Detector) DetectionResult {
	if d == nil {
		d = OSDetector{}
	}

	result := DetectionResult{}

	if _, err := d.LookPath("systemctl"); err == nil {
		result.SystemctlAvailable = true
	}

	for _, dir := range []string{".", "data", "snapshot"} {
		apps := filepath.Join(dir, "apps.json")
		if _, err := d.Stat(apps); err != nil {
			continue
		}
		result.AppsSnapshot = apps
		if domains := filepath.Join(dir, "domains.json"); exists(d, domains) {
			result.DomainsSnapshot = domains
		}
		break
	}

	for _, name := range composeNames {
		if exists(d, name) {
			result.ComposeFiles = append(result.ComposeFiles, name)
		}
	}
	if home, err := d.UserHomeDir(); err == nil {
		dockerDir := filepath.Join(home, "docker")
		if info, err := d.Stat(dockerDir); err == nil && info.IsDir() {
			for _, name := range composeNames {
				if p := filepath.Join(dockerDir, name); exists(d, p) {
					result.ComposeFiles = append(result.ComposeFiles, p)
				}
			}
		}
	}

	return result
}

func exists(d Detector, path string) bool {
	_, err := d.Stat(path)
	return err == nil
}
