package ide

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		mode     Mode
		contains string
		excludes string
	}{
		{mode: ModeAlways, contains: "alwaysApply: true", excludes: "globs:"},
		{mode: ModeAuto, contains: `globs: "**/*"`, excludes: "alwaysApply"},
		{mode: ModeManual, excludes: "alwaysApply"},
	}

	for _, tt := range tests {
		t.Run("should render the "+string(tt.mode)+" front matter", func(t *testing.T) {
			content, err := Render("api", tt.mode)

			require.NoError(t, err)
			assert.Contains(t, content, "description: Brainlift project context for api")
			if tt.contains != "" {
				assert.Contains(t, content, tt.contains)
			}
			assert.NotContains(t, content, tt.excludes)
		})
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeAuto, ParseMode("auto"))
	assert.Equal(t, ModeManual, ParseMode("manual"))
	assert.Equal(t, ModeAlways, ParseMode("sometimes"))
}

func TestRuleManager(t *testing.T) {
	t.Run("should write and then remove the rule file with its empty directories", func(t *testing.T) {
		// Arrange
		project := t.TempDir()
		m := NewRuleManager()

		// Act
		path, err := m.Enable(project, "api", ModeAlways)
		require.NoError(t, err)

		// Assert
		assert.Equal(t, filepath.Join(project, ".cursor", "rules", "auto-brainlift.mdc"), path)
		assert.FileExists(t, path)

		require.NoError(t, m.Disable(project))
		assert.NoFileExists(t, path)
		assert.NoDirExists(t, filepath.Join(project, ".cursor"))
	})

	t.Run("should keep directories holding other rules", func(t *testing.T) {
		project := t.TempDir()
		m := NewRuleManager()
		_, err := m.Enable(project, "api", ModeAuto)
		require.NoError(t, err)
		other := filepath.Join(project, ".cursor", "rules", "team.mdc")
		require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

		require.NoError(t, m.Disable(project))

		assert.FileExists(t, other)
	})

	t.Run("should not fail when the rule file does not exist", func(t *testing.T) {
		assert.NoError(t, NewRuleManager().Disable(t.TempDir()))
	})
}
