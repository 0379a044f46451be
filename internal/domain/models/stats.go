package models

type (
	// CacheStats mirrors cache/stats.json written by the engine.
	CacheStats struct {
		ProjectID string `json:"project_id"`
		Overall   struct {
			HitRate       float64 `json:"hit_rate"`
			TotalRequests int     `json:"total_requests"`
			AvgLatencyMs  float64 `json:"avg_latency_ms"`
		} `json:"overall"`
		ExactCache    CacheTier `json:"exact_cache"`
		SemanticCache CacheTier `json:"semantic_cache"`
		Embeddings    struct {
			Generations   int     `json:"generations"`
			EstimatedCost float64 `json:"estimated_cost"`
		} `json:"embeddings"`
	}

	CacheTier struct {
		HitCount int `json:"hit_count"`
		Entries  int `json:"entries"`
	}

	// UsageTotals is a tokens/cost pair as found in budget/usage.json.
	UsageTotals struct {
		Tokens int     `json:"tokens"`
		Cost   float64 `json:"cost"`
	}

	CommitUsage struct {
		Tokens    int     `json:"tokens"`
		Cost      float64 `json:"cost"`
		Model     string  `json:"model"`
		Timestamp float64 `json:"timestamp"`
	}

	// BudgetUsage mirrors budget/usage.json written by the engine.
	BudgetUsage struct {
		TotalTokens    int                    `json:"total_tokens"`
		TotalCost      float64                `json:"total_cost"`
		Commits        map[string]CommitUsage `json:"commits"`
		DailyUsage     map[string]UsageTotals `json:"daily_usage"`
		ModelBreakdown map[string]UsageTotals `json:"model_breakdown"`
	}
)
