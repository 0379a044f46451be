package insights

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
)

const (
	cacheStatsFile  = "stats.json"
	budgetUsageFile = "usage.json"
)

// DataDirFunc resolves the data directory of a project.
type DataDirFunc func(projectID string) string

// Reader loads the summaries the engine keeps under each project data directory.
// It never writes them.
type Reader struct {
	dataDir DataDirFunc
}

func NewReader(dataDir DataDirFunc) *Reader {
	return &Reader{dataDir: dataDir}
}

// CacheStats returns the engine cache statistics, or nil when the engine has not
// written any yet.
func (r *Reader) CacheStats(projectID string) (*models.CacheStats, error) {
	path := filepath.Join(r.dataDir(projectID), "cache", cacheStatsFile)
	var stats models.CacheStats
	found, err := readJSON(path, &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

// BudgetUsage returns the recorded token usage; an empty record when none exists.
func (r *Reader) BudgetUsage(projectID string) (*models.BudgetUsage, error) {
	path := filepath.Join(r.dataDir(projectID), "budget", budgetUsageFile)
	usage := models.BudgetUsage{
		Commits:        map[string]models.CommitUsage{},
		DailyUsage:     map[string]models.UsageTotals{},
		ModelBreakdown: map[string]models.UsageTotals{},
	}
	if _, err := readJSON(path, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("summary file not found", "path", path)
			return false, nil
		}
		return false, fmt.Errorf("error reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		slog.Error("failed to decode summary file", "path", path, "error", err)
		return false, fmt.Errorf("error deserializing %s: %w", path, err)
	}
	return true, nil
}
