// Package ui renders user-facing terminal output with lipgloss.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CDTO-DENKART/app-visualizer/internal/detail"
	"github.com/CDTO-DENKART/app-visualizer/internal/diagnostics"
	"github.com/CDTO-DENKART/app-visualizer/internal/locale"
	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563EB")).Underline(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#667EEA"))
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#DC3545")).Padding(0, 1)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#D1D5DB")).Padding(0, 1)
)

// FormatError returns a styled multi-line error message.
func FormatError(title, detail, suggestion string) string {
	out := errorStyle.Render("Error: "+title) + "\n"
	if detail != "" {
		out += "  " + detail + "\n"
	}
	if suggestion != "" {
		out += "  " + hintStyle.Render("Hint: "+suggestion) + "\n"
	}
	return out
}

// SourceStarted prints a styled status when a source begins work.
func SourceStarted(name string) {
	fmt.Printf("  %s %s\n", dimStyle.Render("..."), name)
}

// SourceDone prints a styled status when a source finishes.
func SourceDone(name, detail string) {
	msg := successStyle.Render("  OK ") + " " + name
	if detail != "" {
		msg += " " + dimStyle.Render(detail)
	}
	fmt.Println(msg)
}

// SourceSkipped prints a styled status when a source is not enabled.
func SourceSkipped(name string) {
	fmt.Printf("  %s %s\n", dimStyle.Render("--"), dimStyle.Render(name+" (skipped)"))
}

// Success prints a green success message.
func Success(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// Warn prints a yellow warning message.
func Warn(msg string) {
	fmt.Println(warnStyle.Render("Warning: " + msg))
}

// Bold renders text in bold.
func Bold(s string) string {
	return boldStyle.Render(s)
}

// Hint renders text in dim italic.
func Hint(s string) string {
	return hintStyle.Render(s)
}

// ValidationOK prints a green check for a valid field.
func ValidationOK(field, detail string) {
	fmt.Printf("  %s %s: %s\n", successStyle.Render("OK "), field, detail)
}

// ValidationErr prints a red error for an invalid field.
func ValidationErr(field, message, suggestion string) {
	fmt.Printf("  %s %s: %s\n", errorStyle.Render("ERR"), field, message)
	if suggestion != "" {
		fmt.Printf("      %s\n", hintStyle.Render("Hint: "+suggestion))
	}
}

// Stats renders the statistics line.
func Stats(cat *locale.Catalog, s model.Statistics) string {
	return dimStyle.Render(fmt.Sprintf(cat.StatsF, s.Total, s.Running, s.Docker, s.LXD, s.Host))
}

// Banner renders the refresh error shown above a kept graph.
func Banner(msg string) string {
	return bannerStyle.Render("⚠ " + msg)
}

// Detail renders a node's detail as a bordered panel. Entries of
// affordances line up with d.Diagnostics; nil entries are notes.
func Detail(d detail.Detail, cat *locale.Catalog, affordances []*diagnostics.Affordance) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Title))
	b.WriteString("\n")

	for _, f := range d.Fields {
		b.WriteString("\n")
		b.WriteString(boldStyle.Render(f.Label + ":"))
		value := f.Value
		switch {
		case f.Link != "":
			value = linkStyle.Render(f.Link) + strings.TrimPrefix(value, f.Link)
		case f.Inactive:
			value = dimStyle.Render(value)
		case f.Warning:
			value = warnStyle.Render(value)
		}
		if value != "" {
			b.WriteString(" " + value)
		}
		for _, line := range f.Lines {
			b.WriteString("\n  " + line)
		}
		for _, link := range f.Links {
			b.WriteString("\n  " + linkStyle.Render(link))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(boldStyle.Render(cat.Diagnostics))
	if len(d.Diagnostics) == 0 {
		b.WriteString("\n  " + dimStyle.Render(cat.NoDiagnostics))
	}
	for i, cmd := range d.Diagnostics {
		if cmd.IsNote() {
			b.WriteString(fmt.Sprintf("\n  %s %s", hintStyle.Render(cat.Note+":"), cmd.Note))
			continue
		}
		var a *diagnostics.Affordance
		if i < len(affordances) {
			a = affordances[i]
		}
		b.WriteString(fmt.Sprintf("\n  [%d] %s %s", i, cmd.Label, Affordance(cat, a)))
		b.WriteString("\n      " + dimStyle.Render(cmd.Command))
	}
	return panelStyle.Render(b.String())
}

// Affordance renders the launch control for one diagnostic in its
// current state. A nil affordance renders as idle.
func Affordance(cat *locale.Catalog, a *diagnostics.Affordance) string {
	if a == nil {
		return successStyle.Render(cat.Run)
	}
	switch a.State {
	case diagnostics.Pending.String():
		return dimStyle.Render(cat.Launching)
	case diagnostics.Success.String():
		return successStyle.Render(cat.Launched)
	case diagnostics.Failed.String():
		return errorStyle.Render(fmt.Sprintf(cat.LaunchFailedF, a.Error))
	default:
		return successStyle.Render(cat.Run)
	}
}

// Notification renders the message shown when a launch finishes.
func Notification(cat *locale.Catalog, n diagnostics.Notification) string {
	if n.Err != nil {
		msg := n.Err.Error()
		if msg == "" {
			msg = cat.UnknownError
		}
		return errorStyle.Render(fmt.Sprintf(cat.LaunchFailedF, msg))
	}
	label := n.Label
	if label == "" {
		label = cat.DefaultTestLabel
	}
	pid := "?"
	if n.PID > 0 {
		pid = strconv.Itoa(n.PID)
	}
	return successStyle.Render(fmt.Sprintf(cat.LaunchedF, label, pid))
}
