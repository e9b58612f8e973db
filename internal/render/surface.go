package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/charmbracelet/log"
)

// ErrSurfaceNotReady is reported when a draw is requested before the
// surface can accept one.
var ErrSurfaceNotReady = errors.New("render surface not ready")

// Surface is a drawing target for the topology graph.
type Surface interface {
	Ready() bool
	Draw(g *model.Graph) error
}

// RenderJSON encodes the graph in the node/edge shape network renderers
// accept.
func RenderJSON(g *model.Graph) ([]byte, error) {
	if g == nil {
		g = &model.Graph{}
	}
	return json.MarshalIndent(g, "", "  ")
}

// WriterSurface writes graph JSON to W on every draw.
type WriterSurface struct {
	W io.Writer
}

func (s *WriterSurface) Ready() bool { return s.W != nil }

func (s *WriterSurface) Draw(g *model.Graph) error {
	if !s.Ready() {
		return ErrSurfaceNotReady
	}
	data, err := RenderJSON(g)
	if err != nil {
		return err
	}
	_, err = s.W.Write(append(data, '\n'))
	return err
}

// Hooks for tests.
var (
	findExecutable = exec.LookPath
	execCommand    = exec.Command
)

// FileSurface writes rendered text to Path and, when AutoRender is set,
// runs the d2 binary on it.
type FileSurface struct {
	Path       string
	Renderer   Renderer
	AutoRender bool
	Format     string // svg or png
}

// Ready reports whether the output directory exists.
func (s *FileSurface) Ready() bool {
	info, err := os.Stat(filepath.Dir(s.Path))
	return err == nil && info.IsDir()
}

// Draw replaces the file atomically so watchers never read a partial
// diagram.
func (s *FileSurface) Draw(g *model.Graph) error {
	if !s.Ready() {
		return ErrSurfaceNotReady
	}
	content := s.Renderer.Render(g)

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".appviz-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return err
	}

	if s.AutoRender {
		out, err := RenderD2File(s.Path, s.Format)
		if err != nil {
			return err
		}
		log.Debug("Rendered diagram", "file", out)
	}
	return nil
}

// RenderD2File runs d2 on a .d2 file and returns the output path.
func RenderD2File(d2File, format string) (string, error) {
	if format == "" {
		format = "svg"
	}
	d2Path, err := findExecutable("d2")
	if err != nil {
		return "", fmt.Errorf("d2 not found in PATH, install it from https://d2lang.com/tour/install")
	}

	outFile := strings.TrimSuffix(d2File, filepath.Ext(d2File)) + "." + format
	cmd := execCommand(d2Path, d2File, outFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("d2 render failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return outFile, nil
}
