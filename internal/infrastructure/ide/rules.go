// Package ide writes the editor rule file that points assistants at the
// generated reports.
package ide

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
)

type Mode string

const (
	ModeAlways Mode = "always"
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

const ruleFileName = "auto-brainlift.mdc"

var ruleTemplate = template.Must(template.New("rule").Parse(`---
description: Brainlift project context for {{.Name}}
{{- if .Activation}}
{{.Activation}}
{{- end}}
---

# Brainlift project assistant

Reports for this repository are generated after each commit.

When assisting with this codebase:

1. Read the newest file in ` + "`context_logs/`" + ` for the technical state of the
   project: structure, recent commits, technical debt and agent findings.
2. Read the newest file in ` + "`brainlifts/`" + ` for the reasoning behind recent
   changes, open problems and planned work.
3. Check ` + "`error_logs/`" + ` before suggesting fixes for issues already reported.

File names start with a YYYY-MM-DD_HH-MM-SS timestamp; the latest one wins.
`))

// ParseMode maps a stored mode name to a Mode; unknown names become ModeAlways.
func ParseMode(s string) Mode {
	switch m := Mode(s); m {
	case ModeAuto, ModeManual:
		return m
	default:
		return ModeAlways
	}
}

func (m Mode) activation() string {
	switch m {
	case ModeAuto:
		return `globs: "**/*"`
	case ModeManual:
		return ""
	default:
		return "alwaysApply: true"
	}
}

// RuleManager creates and removes the rule file under <project>/.cursor/rules.
type RuleManager struct{}

func NewRuleManager() *RuleManager {
	return &RuleManager{}
}

func RulePath(projectPath string) string {
	return filepath.Join(projectPath, ".cursor", "rules", ruleFileName)
}

// Render returns the rule file content for a project.
func Render(projectName string, mode Mode) (string, error) {
	var buf bytes.Buffer
	err := ruleTemplate.Execute(&buf, struct {
		Name       string
		Activation string
	}{Name: projectName, Activation: mode.activation()})
	if err != nil {
		return "", fmt.Errorf("error rendering rule file: %w", err)
	}
	return buf.String(), nil
}

// Enable writes the rule file and returns its path.
func (m *RuleManager) Enable(projectPath, projectName string, mode Mode) (string, error) {
	path := RulePath(projectPath)
	content, err := Render(projectName, mode)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("error creating rules directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("error writing rule file: %w", err)
	}
	return path, nil
}

// Disable removes the rule file and any directories left empty by it.
func (m *RuleManager) Disable(projectPath string) error {
	path := RulePath(projectPath)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error removing rule file: %w", err)
	}

	rulesDir := filepath.Dir(path)
	for _, dir := range []string{rulesDir, filepath.Dir(rulesDir)} {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		_ = os.Remove(dir)
	}
	return nil
}
