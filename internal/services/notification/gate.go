// Package notification decides whether a parsed report is worth a Slack
// message, builds the message and dispatches it.
package notification

import (
	"strings"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
)

type Rule string

const (
	RuleAll      Rule = "all"
	RuleIssues   Rule = "issues"
	RuleCritical Rule = "critical"
)

// criticalThreshold is the overall score at or above which the critical rule
// stays silent.
const criticalThreshold = 70

// ParseRule maps a stored rule name to a Rule; unknown names behave as RuleAll.
func ParseRule(s string) Rule {
	switch r := Rule(strings.ToLower(strings.TrimSpace(s))); r {
	case RuleIssues, RuleCritical:
		return r
	default:
		return RuleAll
	}
}

func ShouldNotify(rule Rule, report models.ParsedReport) bool {
	switch rule {
	case RuleIssues:
		return len(report.CriticalIssues) > 0
	case RuleCritical:
		return report.OverallScore < criticalThreshold
	default:
		return true
	}
}
