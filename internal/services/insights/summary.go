package insights

import (
	"sort"
	"time"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
)

const (
	dayLayout     = "2006-01-02"
	recentCommits = 10
)

type (
	// UsageSummary aggregates a usage record over calendar windows.
	UsageSummary struct {
		Total   models.UsageTotals
		Today   models.UsageTotals
		Week    models.UsageTotals
		Month   models.UsageTotals
		ByModel map[string]models.UsageTotals
		Recent  []CommitEntry
	}

	CommitEntry struct {
		Hash string
		models.CommitUsage
	}

	// CommitBudgetStatus compares the last recorded commit against the per-commit limit.
	CommitBudgetStatus struct {
		Hash         string
		Tokens       int
		Limit        int
		PercentUsed  float64
		IsExceeded   bool
		IsWarning    bool
		WarningLevel int // 50, 75, 90
	}
)

// Summarize folds the daily usage into today, last 7 days and last 30 days.
func Summarize(usage models.BudgetUsage, now time.Time) UsageSummary {
	today := now.Format(dayLayout)
	weekAgo := now.AddDate(0, 0, -7).Format(dayLayout)
	monthAgo := now.AddDate(0, 0, -30).Format(dayLayout)

	summary := UsageSummary{
		Total:   models.UsageTotals{Tokens: usage.TotalTokens, Cost: usage.TotalCost},
		Today:   usage.DailyUsage[today],
		ByModel: usage.ModelBreakdown,
		Recent:  latestCommits(usage.Commits, recentCommits),
	}

	// dates are ISO formatted, so string order is calendar order
	for date, totals := range usage.DailyUsage {
		if date >= weekAgo {
			summary.Week = add(summary.Week, totals)
		}
		if date >= monthAgo {
			summary.Month = add(summary.Month, totals)
		}
	}
	return summary
}

// LastCommitStatus reports how the most recent commit used the token limit.
// It returns nil when no commit has been recorded or limit is not positive.
func LastCommitStatus(usage models.BudgetUsage, limit int) *CommitBudgetStatus {
	latest := latestCommits(usage.Commits, 1)
	if len(latest) == 0 || limit <= 0 {
		return nil
	}

	entry := latest[0]
	percent := float64(entry.Tokens) / float64(limit) * 100
	status := &CommitBudgetStatus{
		Hash:        entry.Hash,
		Tokens:      entry.Tokens,
		Limit:       limit,
		PercentUsed: percent,
		IsExceeded:  entry.Tokens > limit,
	}

	switch {
	case percent >= 90:
		status.IsWarning, status.WarningLevel = true, 90
	case percent >= 75:
		status.IsWarning, status.WarningLevel = true, 75
	case percent >= 50:
		status.IsWarning, status.WarningLevel = true, 50
	}
	return status
}

func latestCommits(commits map[string]models.CommitUsage, n int) []CommitEntry {
	entries := make([]CommitEntry, 0, len(commits))
	for hash, usage := range commits {
		entries = append(entries, CommitEntry{Hash: hash, CommitUsage: usage})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}
		return entries[i].Hash < entries[j].Hash
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func add(a, b models.UsageTotals) models.UsageTotals {
	return models.UsageTotals{Tokens: a.Tokens + b.Tokens, Cost: a.Cost + b.Cost}
}
