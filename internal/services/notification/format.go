package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/version"
)

const (
	maxListedIssues = 5
	shortHashLength = 7
)

// Format builds the message blocks in a fixed order: header, scores, commit
// (only when known), issues (only when present) and the generation footer.
func Format(report models.ParsedReport, projectName string, now time.Time) models.ChatMessage {
	blocks := []models.MessageBlock{
		{
			Type: "header",
			Text: models.PlainText(fmt.Sprintf("🧠 Brainlift Summary: %s", projectName)),
		},
		{
			Type: "section",
			Fields: []models.TextObject{
				models.Markdown(scoreField("Overall Score", report.OverallScore)),
				models.Markdown(scoreField("Security", report.SecurityScore)),
				models.Markdown(scoreField("Quality", report.QualityScore)),
				models.Markdown(scoreField("Documentation", report.DocumentationScore)),
			},
		},
	}

	if report.HasCommit() {
		blocks = append(blocks, commitBlock(report))
	}

	if len(report.CriticalIssues) > 0 {
		blocks = append(blocks, models.MessageBlock{Type: "divider"}, issuesBlock(report.CriticalIssues))
	}

	footer := fmt.Sprintf("Generated at %s | brainlift %s", now.Format(time.RFC1123), version.FullVersion())
	if report.ScoresInferred {
		footer += " | scores inferred"
	}
	blocks = append(blocks, models.MessageBlock{
		Type:     "context",
		Elements: []models.TextObject{models.Markdown(footer)},
	})

	return models.ChatMessage{
		Blocks: blocks,
		Text:   fmt.Sprintf("New brainlift for %s: %d/100", projectName, report.OverallScore),
	}
}

func scoreField(label string, score int) string {
	return fmt.Sprintf("*%s:* %s %d/100", label, ScoreEmoji(score), score)
}

// ScoreEmoji is green from 90, yellow from 70, orange from 50 and red below.
func ScoreEmoji(score int) string {
	switch {
	case score >= 90:
		return "🟢"
	case score >= 70:
		return "🟡"
	case score >= 50:
		return "🟠"
	default:
		return "🔴"
	}
}

func commitBlock(report models.ParsedReport) models.MessageBlock {
	var lines []string
	if report.CommitHash != "" {
		hash := report.CommitHash
		if len(hash) > shortHashLength {
			hash = hash[:shortHashLength]
		}
		lines = append(lines, fmt.Sprintf("*Commit:* `%s`", hash))
	}
	if report.CommitMessage != "" {
		lines = append(lines, fmt.Sprintf("*Commit Message:* %s", report.CommitMessage))
	}
	text := models.Markdown(strings.Join(lines, "\n"))
	return models.MessageBlock{Type: "section", Text: &text}
}

func issuesBlock(issues []string) models.MessageBlock {
	var b strings.Builder
	fmt.Fprintf(&b, "*⚠️ Critical Issues Found (%d):*", len(issues))
	for i, issue := range issues {
		if i == maxListedIssues {
			fmt.Fprintf(&b, "\n_…and %d more_", len(issues)-maxListedIssues)
			break
		}
		fmt.Fprintf(&b, "\n• %s", issue)
	}
	text := models.Markdown(b.String())
	return models.MessageBlock{Type: "section", Text: &text}
}
