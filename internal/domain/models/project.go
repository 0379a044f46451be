package models

import "time"

const (
	AgentSecurity      = "security"
	AgentQuality       = "quality"
	AgentDocumentation = "documentation"
	AgentCursorChat    = "cursor_chat"

	ExecutionParallel   = "parallel"
	ExecutionSequential = "sequential"

	CursorChatLight = "light"
	CursorChatFull  = "full"

	DefaultCommitTokenLimit = 10000
	DefaultCostPer1kTokens  = 0.002
	DefaultAgentModel       = "gpt-4-turbo"
)

// KnownAgents lists the engine sub-agents in contract order.
var KnownAgents = []string{AgentCursorChat, AgentDocumentation, AgentQuality, AgentSecurity}

type (
	// Project is a registered code project the engine can analyze.
	Project struct {
		ID                  string          `json:"id"`
		Name                string          `json:"name"`
		Path                string          `json:"path"`
		CreatedAt           time.Time       `json:"createdAt"`
		LastAccessedAt      time.Time       `json:"lastAccessedAt"`
		LastProcessedCommit *string         `json:"lastProcessedCommit"`
		Settings            ProjectSettings `json:"settings"`
	}

	ProjectSettings struct {
		BudgetEnabled     bool                     `json:"budgetEnabled" mapstructure:"budgetEnabled"`
		CommitTokenLimit  int                      `json:"commitTokenLimit" mapstructure:"commitTokenLimit"`
		ExecutionMode     string                   `json:"executionMode" mapstructure:"executionMode"`
		Agents            map[string]AgentSettings `json:"agents" mapstructure:"agents"`
		CursorChatEnabled bool                     `json:"cursorChatEnabled" mapstructure:"cursorChatEnabled"`
		CursorChatMode    string                   `json:"cursorChatMode" mapstructure:"cursorChatMode"`
		StyleGuide        *StyleGuide              `json:"styleGuide,omitempty" mapstructure:"styleGuide"`
	}

	AgentSettings struct {
		Enabled bool   `json:"enabled" mapstructure:"enabled"`
		Model   string `json:"model" mapstructure:"model"`
	}

	// StyleGuide describes a style-guide file merged into the engine prompts.
	StyleGuide struct {
		Path      string    `json:"path" mapstructure:"path"`
		Name      string    `json:"name" mapstructure:"name"`
		UpdatedAt time.Time `json:"updatedAt" mapstructure:"updatedAt"`
	}

	// OutputPaths are the project-relative directories the engine writes into.
	OutputPaths struct {
		Brainlifts  string
		ContextLogs string
		ErrorLogs   string
	}
)

// DefaultProjectSettings returns the settings given to a newly created project.
func DefaultProjectSettings() ProjectSettings {
	agents := make(map[string]AgentSettings, len(KnownAgents))
	for _, name := range KnownAgents {
		agents[name] = AgentSettings{Enabled: name != AgentCursorChat, Model: DefaultAgentModel}
	}
	return ProjectSettings{
		BudgetEnabled:    false,
		CommitTokenLimit: DefaultCommitTokenLimit,
		ExecutionMode:    ExecutionParallel,
		Agents:           agents,
		CursorChatMode:   CursorChatLight,
	}
}

// Clone returns a deep copy so callers never alias registry state.
func (p Project) Clone() Project {
	out := p
	if p.LastProcessedCommit != nil {
		hash := *p.LastProcessedCommit
		out.LastProcessedCommit = &hash
	}
	out.Settings = p.Settings.Clone()
	return out
}

func (s ProjectSettings) Clone() ProjectSettings {
	out := s
	if s.Agents != nil {
		out.Agents = make(map[string]AgentSettings, len(s.Agents))
		for k, v := range s.Agents {
			out.Agents[k] = v
		}
	}
	if s.StyleGuide != nil {
		sg := *s.StyleGuide
		out.StyleGuide = &sg
	}
	return out
}
