package bulk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/saudsami/AgoraTools/internal/resolver"
)

// FileResult is the outcome of one (document, platform) conversion.
type FileResult struct {
	Source   string
	Output   string
	Platform string
	Title    string
	Err      error
	Warnings []resolver.AssetCopyWarning
}

// Report aggregates the outcomes of a bulk export run.
type Report struct {
	Converted int
	Failed    int
	Skipped   int
	Failures  []FileResult
	Warnings  int
}

func (r *Report) add(result FileResult) {
	if result.Err != nil {
		r.Failed++
		r.Failures = append(r.Failures, result)
		return
	}
	r.Converted++
	r.Warnings += len(result.Warnings)
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Summary renders a terminal summary of the run.
func (r *Report) Summary() string {
	var b strings.Builder

	b.WriteString(okStyle.Render(fmt.Sprintf("%d converted", r.Converted)))
	if r.Failed > 0 {
		b.WriteString(dimStyle.Render(" • "))
		b.WriteString(failStyle.Render(fmt.Sprintf("%d failed", r.Failed)))
	}
	if r.Skipped > 0 {
		b.WriteString(dimStyle.Render(" • "))
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d skipped", r.Skipped)))
	}
	if r.Warnings > 0 {
		b.WriteString(dimStyle.Render(" • "))
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d image warnings", r.Warnings)))
	}
	b.WriteString("\n")

	for _, failure := range r.Failures {
		b.WriteString(failStyle.Render("  ✗ "))
		b.WriteString(fmt.Sprintf("%s [%s]: %v\n", failure.Source, failure.Platform, failure.Err))
	}
	return b.String()
}
