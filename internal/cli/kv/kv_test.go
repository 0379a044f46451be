package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("should build nested maps from dotted keys", func(t *testing.T) {
		got, err := Parse([]string{
			"budgetEnabled=true",
			"agents.security.model=gpt-4o",
			"agents.security.enabled=false",
			"styleGuide=null",
			"slackChannel=#a=b",
		})

		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"budgetEnabled": "true",
			"agents": map[string]any{
				"security": map[string]any{"model": "gpt-4o", "enabled": "false"},
			},
			"styleGuide":   nil,
			"slackChannel": "#a=b",
		}, got)
	})

	tests := []struct {
		name  string
		pairs []string
	}{
		{name: "should reject no arguments"},
		{name: "should reject a missing equals sign", pairs: []string{"budgetEnabled"}},
		{name: "should reject an empty key", pairs: []string{"=1"}},
		{name: "should reject an empty segment", pairs: []string{"agents..model=x"}},
		{name: "should reject a repeated key", pairs: []string{"a=1", "a=2"}},
		{name: "should reject a value used as an object", pairs: []string{"a=1", "a.b=2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.pairs)
			assert.Error(t, err)
		})
	}
}
