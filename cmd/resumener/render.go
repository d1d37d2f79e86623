// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/resumener/resumener/internal/entity"
)

var (
	docStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	sourceStyle  = lipgloss.NewStyle().Faint(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func renderOutcome(w io.Writer, o entity.Outcome) {
	fmt.Fprintln(w, docStyle.Render(o.DocumentID))
	if !o.OK() {
		fmt.Fprintf(w, "  %s %v\n\n", failStyle.Render("[SKIPPED]"), o.Failure)
		return
	}
	renderSpans(w, "Names", o.Result.Details.Names)
	renderSpans(w, "Emails", o.Result.Details.Emails)
	fmt.Fprintln(w)
}

func renderSpans(w io.Writer, title string, spans []entity.Span) {
	fmt.Fprintf(w, "  %s\n", headingStyle.Render(fmt.Sprintf("%s found (%d):", title, len(spans))))
	for _, s := range spans {
		source := string(s.Source)
		if s.Confidence != nil {
			source = fmt.Sprintf("%s %.1f", source, *s.Confidence)
		}
		fmt.Fprintf(w, "    • %s %s\n", s.Text, sourceStyle.Render("("+source+")"))
	}
}

func renderSummary(w io.Writer, batch entity.BatchReport) {
	summary := fmt.Sprintf("%d processed, %d succeeded", len(batch.Outcomes), batch.Succeeded())
	if failed := batch.Failed(); failed > 0 {
		fmt.Fprintln(w, summary+", "+failStyle.Render(fmt.Sprintf("%d failed", failed)))
		return
	}
	fmt.Fprintln(w, okStyle.Render(summary))
}
