// Package report extracts scores, commit metadata and critical issues from the
// markdown reports written by the analysis engine.
package report

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Tomas-vilte/brainlift/internal/domain/models"
	"github.com/Tomas-vilte/brainlift/internal/regex"
)

const (
	minIssueLength = 10

	fallbackBase       = 75
	fallbackPosStep    = 2
	fallbackPosCap     = 15
	fallbackNegStep    = 3
	fallbackNegCap     = 20
	fallbackOverallMin = 60
	fallbackOverallMax = 95
	fallbackOffset     = 5

	// a bold line ranks below every markdown heading, a "Title:" label below that
	boldHeadingLevel = 7
	labelLevel       = 8

	// bare hex words shorter than this need a digit to count as a hash
	minWordHashLength = 7
)

var plainTitle = regexp.MustCompile(`^\s*([A-Za-z][\w /&()-]{0,48}):\s*$`)

// Parse never fails: anything it cannot find is left at its zero value.
// When overall, security and quality are all zero the scores are inferred
// from sentiment and ScoresInferred is set.
func Parse(text string) models.ParsedReport {
	report := models.ParsedReport{CriticalIssues: []string{}}
	if strings.TrimSpace(text) == "" {
		return report
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	report.OverallScore = findScore(regex.OverallScore, text)
	report.SecurityScore = findScore(regex.SecurityScore, text)
	report.QualityScore = findScore(regex.QualityScore, text)
	report.DocumentationScore = findScore(regex.DocumentationScore, text)

	report.CommitHash = findCommitHash(text)
	report.CommitMessage = findCommitMessage(text)

	lines := stripChatSections(strings.Split(text, "\n"))
	issues := criticalIssues(lines)
	issues = append(issues, errorLogIssues(lines)...)
	report.CriticalIssues = dedupe(issues)

	if report.OverallScore == 0 && report.SecurityScore == 0 && report.QualityScore == 0 {
		inferScores(&report, text)
	}

	return report
}

// ParseFile reads and parses a report from disk.
func ParseFile(path string) (models.ParsedReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ParsedReport{}, fmt.Errorf("error reading report %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

func findScore(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 100
	}
	return clamp(n, 0, 100)
}

// findCommitHash returns the first hex token placed right after a commit or
// hash label. Labels such as "Commit Date" never match, and words like
// "added" or "cafe" are skipped unless they carry a digit or are hash length.
func findCommitHash(text string) string {
	for _, m := range regex.CommitHash.FindAllStringSubmatch(text, -1) {
		if looksLikeHash(m[1]) {
			return m[1]
		}
	}
	return ""
}

func looksLikeHash(tok string) bool {
	return len(tok) >= minWordHashLength || strings.ContainsAny(tok, "0123456789")
}

func findCommitMessage(text string) string {
	m := regex.CommitMessage.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	msg := cleanInline(m[1])
	return strings.Trim(msg, `"'`)
}

type heading struct {
	level int
	title string
}

func parseHeading(line string) (heading, bool) {
	if m := regex.Heading.FindStringSubmatch(line); m != nil {
		return heading{level: len(m[1]), title: cleanInline(m[2])}, true
	}
	if m := regex.BoldHeading.FindStringSubmatch(line); m != nil {
		return heading{level: boldHeadingLevel, title: strings.TrimSuffix(strings.TrimSpace(m[1]), ":")}, true
	}
	if m := plainTitle.FindStringSubmatch(line); m != nil {
		return heading{level: labelLevel, title: m[1]}, true
	}
	return heading{}, false
}

// stripChatSections drops conversational sections, from their heading up to
// the next heading of the same or a higher level.
func stripChatSections(lines []string) []string {
	out := make([]string, 0, len(lines))
	skipLevel := 0
	for _, line := range lines {
		h, isHeading := parseHeading(line)
		if skipLevel > 0 {
			if !isHeading || h.level > skipLevel {
				continue
			}
			skipLevel = 0
		}
		if isHeading && regex.ChatContextTitle.MatchString(h.title) {
			skipLevel = h.level
			continue
		}
		out = append(out, line)
	}
	return out
}

// criticalIssues collects bullets of every "Critical Issues" section. A
// markdown or bold heading ends the section; a "Title:" label such as
// "Impact:" only ends a section that was itself opened by a label.
func criticalIssues(lines []string) []string {
	var issues []string
	sectionLevel := 0
	for _, line := range lines {
		if h, ok := parseHeading(line); ok {
			switch {
			case regex.CriticalIssuesTitle.MatchString(h.title):
				sectionLevel = h.level
			case h.level <= max(sectionLevel, boldHeadingLevel):
				sectionLevel = 0
			}
			continue
		}
		if sectionLevel == 0 {
			continue
		}
		if item, ok := bulletText(line); ok && isRealIssue(item) {
			issues = append(issues, item)
		}
	}
	return issues
}

// errorLogIssues harvests bullets listed under a High or Critical severity
// marker inside an "Error Log" section.
func errorLogIssues(lines []string) []string {
	var issues []string
	sectionLevel := 0
	capture := false
	for _, line := range lines {
		h, isHeading := parseHeading(line)

		if sectionLevel == 0 {
			if isHeading && regex.ErrorLogTitle.MatchString(h.title) {
				sectionLevel = h.level
				capture = false
			}
			continue
		}

		if marker, ok := severityMarker(line, h, isHeading); ok {
			capture = regex.HighSeverity.MatchString(marker)
			continue
		}

		if isHeading {
			if h.level <= sectionLevel {
				sectionLevel = 0
				if regex.ErrorLogTitle.MatchString(h.title) {
					sectionLevel = h.level
				}
			}
			capture = false
			continue
		}

		item, ok := bulletText(line)
		if !ok {
			continue
		}
		if m := regex.InlineSeverity.FindStringIndex(item); m != nil {
			item = strings.TrimSpace(item[m[1]:])
		} else if !capture {
			continue
		}
		if isRealIssue(item) {
			issues = append(issues, item)
		}
	}
	return issues
}

func severityMarker(line string, h heading, isHeading bool) (string, bool) {
	candidate := cleanInline(line)
	if isHeading {
		candidate = h.title
	}
	if regex.SeverityMarker.MatchString(candidate) {
		return candidate, true
	}
	return "", false
}

func bulletText(line string) (string, bool) {
	m := regex.Bullet.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return cleanInline(m[1]), true
}

func isRealIssue(item string) bool {
	if utf8.RuneCountInString(item) < minIssueLength {
		return false
	}
	if regex.BareNone.MatchString(item) || regex.NoIssuesPhrase.MatchString(item) {
		return false
	}
	return true
}

func cleanInline(s string) string {
	return strings.TrimSpace(regex.EmphasisMark.ReplaceAllString(s, ""))
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// inferScores derives scores from sentiment word counts. The per-category
// offsets come from a generator seeded with the text hash, so the same report
// always yields the same scores.
func inferScores(report *models.ParsedReport, text string) {
	positive := len(regex.PositiveWord.FindAllStringIndex(text, -1))
	negative := len(regex.NegativeWord.FindAllStringIndex(text, -1))

	overall := fallbackBase +
		min(fallbackPosStep*positive, fallbackPosCap) -
		min(fallbackNegStep*negative, fallbackNegCap)
	overall = clamp(overall, fallbackOverallMin, fallbackOverallMax)

	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	offset := func() int { return rng.IntN(2*fallbackOffset+1) - fallbackOffset }

	report.OverallScore = overall
	report.SecurityScore = clamp(overall+offset(), fallbackOverallMin, 100)
	report.QualityScore = clamp(overall+offset(), fallbackOverallMin, 100)
	report.DocumentationScore = clamp(overall+offset(), fallbackOverallMin, 100)
	report.ScoresInferred = true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
