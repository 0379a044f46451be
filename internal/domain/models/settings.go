package models

const (
	DefaultSlackChannel    = "#dev-updates"
	DefaultCursorRulesMode = "always"
)

// GlobalSettings is the process-wide settings record kept in the settings store.
type GlobalSettings struct {
	APIKey             string  `json:"apiKey" mapstructure:"apiKey"`
	BudgetEnabled      bool    `json:"budgetEnabled" mapstructure:"budgetEnabled"`
	CommitTokenLimit   int     `json:"commitTokenLimit" mapstructure:"commitTokenLimit"`
	CostPer1kTokens    float64 `json:"costPer1kTokens" mapstructure:"costPer1kTokens"`
	SlackEnabled       bool    `json:"slackEnabled" mapstructure:"slackEnabled"`
	SlackToken         string  `json:"slackToken" mapstructure:"slackToken"`
	SlackChannel       string  `json:"slackChannel" mapstructure:"slackChannel"`
	SlackNotifyRule    string  `json:"slackNotifyRule" mapstructure:"slackNotifyRule"`
	GitVisibility      bool    `json:"gitVisibility" mapstructure:"gitVisibility"`
	CursorRulesEnabled bool    `json:"cursorRulesEnabled" mapstructure:"cursorRulesEnabled"`
	CursorRulesMode    string  `json:"cursorRulesMode" mapstructure:"cursorRulesMode"`
}

// DefaultGlobalSettings returns the baseline record seeded on first use.
func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		CommitTokenLimit: DefaultCommitTokenLimit,
		CostPer1kTokens:  DefaultCostPer1kTokens,
		SlackChannel:     DefaultSlackChannel,
		SlackNotifyRule:  "all",
		GitVisibility:    true,
		CursorRulesMode:  DefaultCursorRulesMode,
	}
}

// SlackConfigured reports whether a notification channel can be used.
func (g GlobalSettings) SlackConfigured() bool {
	return g.SlackEnabled && g.SlackToken != ""
}
