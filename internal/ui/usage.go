package ui

import (
	"fmt"
	"io"
	"sort"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/Tomas-vilte/brainlift/internal/services/insights"
	"github.com/fatih/color"
)

func PrintBudgetSummary(w io.Writer, summary insights.UsageSummary, status *insights.CommitBudgetStatus, t *i18n.Translations) {
	yellow := color.New(color.FgYellow)

	_, _ = fmt.Fprintf(w, "%s %s\n", StatsEmoji, Accent.Sprint(t.GetMessage("stats.budget_title", 0, nil)))
	rows := []struct {
		id     string
		totals models.UsageTotals
	}{
		{"stats.today", summary.Today},
		{"stats.week", summary.Week},
		{"stats.month", summary.Month},
		{"stats.total", summary.Total},
	}
	for _, r := range rows {
		FprintKeyValue(w, t.GetMessage(r.id, 0, nil), fmt.Sprintf("%d tokens | $%.4f", r.totals.Tokens, r.totals.Cost))
	}

	if len(summary.ByModel) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.GetMessage("stats.by_model", 0, nil))
		names := make([]string, 0, len(summary.ByModel))
		for name := range summary.ByModel {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			m := summary.ByModel[name]
			FprintKeyValue(w, name, fmt.Sprintf("%d tokens | $%.4f", m.Tokens, m.Cost))
		}
	}

	if len(summary.Recent) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.GetMessage("stats.recent_commits", 0, nil))
		for _, c := range summary.Recent {
			FprintKeyValue(w, shortHash(c.Hash), fmt.Sprintf("%d tokens | $%.4f | %s", c.Tokens, c.Cost, c.Model))
		}
	}

	if status == nil {
		return
	}
	msg := t.GetMessage("stats.last_commit_budget", 0, map[string]interface{}{
		"Percent": fmt.Sprintf("%.0f", status.PercentUsed),
		"Limit":   status.Limit,
	})
	switch {
	case status.IsExceeded:
		_, _ = fmt.Fprintf(w, "\n%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
	case status.IsWarning:
		_, _ = fmt.Fprintf(w, "\n%s %s\n", WarningEmoji, yellow.Sprint(msg))
	default:
		_, _ = fmt.Fprintf(w, "\n%s %s\n", SuccessEmoji, msg)
	}
}

func PrintCacheStats(w io.Writer, stats *models.CacheStats, t *i18n.Translations) {
	if stats == nil {
		_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, t.GetMessage("stats.no_cache_data", 0, nil))
		return
	}

	green := color.New(color.FgGreen)
	_, _ = fmt.Fprintf(w, "%s %s\n", StatsEmoji, Accent.Sprint(t.GetMessage("stats.cache_title", 0, nil)))
	FprintKeyValue(w, t.GetMessage("stats.hit_rate", 0, nil), green.Sprintf("%.1f%%", stats.Overall.HitRate*100))
	FprintKeyValue(w, t.GetMessage("stats.requests", 0, nil), fmt.Sprintf("%d", stats.Overall.TotalRequests))
	FprintKeyValue(w, t.GetMessage("stats.latency", 0, nil), fmt.Sprintf("%.1fms", stats.Overall.AvgLatencyMs))
	FprintKeyValue(w, t.GetMessage("stats.exact_cache", 0, nil), fmt.Sprintf("%d hits / %d entries", stats.ExactCache.HitCount, stats.ExactCache.Entries))
	FprintKeyValue(w, t.GetMessage("stats.semantic_cache", 0, nil), fmt.Sprintf("%d hits / %d entries", stats.SemanticCache.HitCount, stats.SemanticCache.Entries))
	FprintKeyValue(w, t.GetMessage("stats.embeddings", 0, nil), fmt.Sprintf("%d | $%.4f", stats.Embeddings.Generations, stats.Embeddings.EstimatedCost))
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
