package notification

import (
	"testing"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestShouldNotify(t *testing.T) {
	tests := []struct {
		name   string
		rule   Rule
		report models.ParsedReport
		want   bool
	}{
		{
			name:   "should suppress the issues rule without issues",
			rule:   RuleIssues,
			report: models.ParsedReport{OverallScore: 40, CriticalIssues: []string{}},
			want:   false,
		},
		{
			name:   "should notify the issues rule with issues",
			rule:   RuleIssues,
			report: models.ParsedReport{OverallScore: 95, CriticalIssues: []string{"Token stored in plain text"}},
			want:   true,
		},
		{
			name:   "should notify the critical rule below the threshold",
			rule:   RuleCritical,
			report: models.ParsedReport{OverallScore: 65},
			want:   true,
		},
		{
			name:   "should suppress the critical rule above the threshold",
			rule:   RuleCritical,
			report: models.ParsedReport{OverallScore: 85},
			want:   false,
		},
		{
			name:   "should suppress the critical rule at the threshold",
			rule:   RuleCritical,
			report: models.ParsedReport{OverallScore: 70},
			want:   false,
		},
		{
			name:   "should always notify with the all rule",
			rule:   RuleAll,
			report: models.ParsedReport{OverallScore: 100},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldNotify(tt.rule, tt.report))
		})
	}
}

func TestParseRule(t *testing.T) {
	assert.Equal(t, RuleIssues, ParseRule("issues"))
	assert.Equal(t, RuleCritical, ParseRule(" CRITICAL "))
	assert.Equal(t, RuleAll, ParseRule("all"))
	assert.Equal(t, RuleAll, ParseRule("sometimes"))
	assert.Equal(t, RuleAll, ParseRule(""))
}
