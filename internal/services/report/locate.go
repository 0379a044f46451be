package report

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	appErrors "github.com/Tomas-vilte/brainlift/internal/errors"
)

const reportExt = ".md"

// Latest returns the most recently modified markdown file directly inside dir.
// A missing directory or an empty one yields ErrNoReport.
func Latest(dir string) (*models.ReportFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.ErrNoReport.WithContext("dir", dir)
		}
		return nil, appErrors.ErrNoReport.WithError(err).WithContext("dir", dir)
	}

	var newest *models.ReportFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), reportExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == nil || info.ModTime().After(newest.ModTime) ||
			(info.ModTime().Equal(newest.ModTime) && entry.Name() > newest.Name) {
			newest = &models.ReportFile{
				Name:    entry.Name(),
				Path:    filepath.Join(dir, entry.Name()),
				ModTime: info.ModTime(),
			}
		}
	}

	if newest == nil {
		return nil, appErrors.ErrNoReport.WithContext("dir", dir)
	}
	return newest, nil
}

// LoadLatest is Latest plus the file content.
func LoadLatest(dir string) (*models.ReportFile, error) {
	file, err := Latest(dir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, appErrors.ErrNoReport.WithError(err).WithContext("dir", dir)
	}
	file.Content = string(data)
	return file, nil
}
