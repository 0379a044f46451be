package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/services/notification"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

const markdownWidth = 100

// RenderMarkdown renders a report for the terminal. plain disables colors.
func RenderMarkdown(md string, plain bool) (string, error) {
	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWidth))
	if err != nil {
		return "", fmt.Errorf("error creating markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("error rendering markdown: %w", err)
	}
	return out, nil
}

// PrintReportSummary writes the scores, commit and critical issues of a report.
func PrintReportSummary(w io.Writer, report models.ParsedReport, t *i18n.Translations) {
	_, _ = fmt.Fprintf(w, "\n%s %s\n", StatsEmoji, Accent.Sprint(t.GetMessage("report.summary_title", 0, nil)))

	scores := []struct {
		id    string
		score int
	}{
		{"report.overall", report.OverallScore},
		{"report.security", report.SecurityScore},
		{"report.quality", report.QualityScore},
		{"report.documentation", report.DocumentationScore},
	}
	for _, s := range scores {
		FprintKeyValue(w, t.GetMessage(s.id, 0, nil), fmt.Sprintf("%s %d/100 %s", notification.ScoreEmoji(s.score), s.score, scoreBar(s.score)))
	}
	if report.ScoresInferred {
		_, _ = Dim.Fprintf(w, "   %s\n", t.GetMessage("report.scores_inferred", 0, nil))
	}

	if report.HasCommit() {
		_, _ = fmt.Fprintln(w)
		if report.CommitHash != "" {
			FprintKeyValue(w, t.GetMessage("report.commit", 0, nil), report.CommitHash)
		}
		if report.CommitMessage != "" {
			FprintKeyValue(w, t.GetMessage("report.message", 0, nil), report.CommitMessage)
		}
	}

	if len(report.CriticalIssues) == 0 {
		_, _ = fmt.Fprintf(w, "\n%s %s\n", SuccessEmoji, Success.Sprint(t.GetMessage("report.no_critical_issues", 0, nil)))
		return
	}

	_, _ = fmt.Fprintf(w, "\n%s %s\n", WarningEmoji, Warning.Sprint(t.GetMessage("report.critical_issues", len(report.CriticalIssues), map[string]interface{}{
		"Count": len(report.CriticalIssues),
	})))
	for _, issue := range report.CriticalIssues {
		_, _ = fmt.Fprintf(w, "   • %s\n", issue)
	}
}

func scoreBar(score int) string {
	const width = 20
	filled := score * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	c := color.New(color.FgGreen)
	switch {
	case score < 50:
		c = color.New(color.FgRed)
	case score < 70:
		c = color.New(color.FgYellow)
	}
	return c.Sprint(bar)
}
