package models

import "time"

// ParsedReport is the structured view of an engine report.
type ParsedReport struct {
	OverallScore       int      `json:"overallScore"`
	SecurityScore      int      `json:"securityScore"`
	QualityScore       int      `json:"qualityScore"`
	DocumentationScore int      `json:"documentationScore"`
	CommitHash         string   `json:"commitHash"`
	CommitMessage      string   `json:"commitMessage"`
	CriticalIssues     []string `json:"criticalIssues"`
	// ScoresInferred is set when the scores come from the sentiment heuristic
	// instead of explicit labels in the report.
	ScoresInferred bool `json:"scoresInferred"`
}

// HasCommit reports whether the report names a commit.
func (r ParsedReport) HasCommit() bool {
	return r.CommitHash != "" || r.CommitMessage != ""
}

// ReportFile is a report artifact located on disk.
type ReportFile struct {
	Name    string
	Path    string
	Content string
	ModTime time.Time
}
