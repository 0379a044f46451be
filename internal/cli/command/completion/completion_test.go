package completion

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Tomas-vilte/brainlift/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return translations
}

func TestCompletionScripts(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{shell: "bash", want: "complete -o bashdefault"},
		{shell: "zsh", want: "#compdef brainlift"},
	}

	for _, tt := range tests {
		t.Run("should print the "+tt.shell+" script", func(t *testing.T) {
			// Arrange
			out := &bytes.Buffer{}
			app := &cli.Command{
				Name:     "brainlift",
				Writer:   out,
				Commands: []*cli.Command{NewCompletionCommand(newTranslations(t))},
			}

			// Act
			err := app.Run(context.Background(), []string{"brainlift", "completion", tt.shell})

			// Assert
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestInstall(t *testing.T) {
	t.Run("should append the hook once", func(t *testing.T) {
		// Arrange
		home := t.TempDir()
		translations := newTranslations(t)
		out := &bytes.Buffer{}

		// Act
		require.NoError(t, install(out, translations, "/bin/zsh", home))
		require.NoError(t, install(out, translations, "/bin/zsh", home))

		// Assert
		data, err := os.ReadFile(filepath.Join(home, ".zshrc"))
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(data), installMarker))
		assert.Contains(t, string(data), "brainlift completion zsh")
	})

	t.Run("should reject an unsupported shell", func(t *testing.T) {
		// Arrange
		home := t.TempDir()

		// Act
		err := install(&bytes.Buffer{}, newTranslations(t), "/usr/bin/fish", home)

		// Assert
		assert.Error(t, err)
		_, statErr := os.Stat(filepath.Join(home, ".bashrc"))
		assert.True(t, os.IsNotExist(statErr))
	})
}
