package regex

import "regexp"

var (
	// Report score labels: the label, then the first integer on the same line.
	OverallScore       = regexp.MustCompile(`(?i)\boverall\s+score\b[^\n\d]*(\d+)`)
	SecurityScore      = regexp.MustCompile(`(?i)\bsecurity\s+score\b[^\n\d]*(\d+)`)
	QualityScore       = regexp.MustCompile(`(?i)\bquality\s+score\b[^\n\d]*(\d+)`)
	DocumentationScore = regexp.MustCompile(`(?i)\bdocumentation\s+score\b[^\n\d]*(\d+)`)

	// Commit metadata
	// A commit or hash label followed directly by the hex token, allowing only
	// emphasis, a colon or '#' in between on the same line.
	CommitHash    = regexp.MustCompile(`(?i:\b(?:commit(?:[ \t]+(?:hash|sha|id))?|hash|sha)\b)[*_ \t]*[:#]?[*_ \t` + "`" + `]*([0-9a-f]{3,40})\b`)
	CommitMessage = regexp.MustCompile(`(?im)^[ \t>*_\-]*(?:commit[ \t]+)?message[*_]*[ \t]*:[ \t]*[*_]*[ \t]*(.+?)[ \t]*$`)

	// Markdown structure
	Heading      = regexp.MustCompile(`^\s{0,3}(#{1,6})\s+(.+?)\s*#*\s*$`)
	BoldHeading  = regexp.MustCompile(`^\s*\*\*([^*]+?)\*\*:?\s*$`)
	Bullet       = regexp.MustCompile(`^\s*(?:[-*+•]|\d+[.)])\s+(.+?)\s*$`)
	EmphasisMark = regexp.MustCompile(`\*\*|__|` + "`")

	// Report sections
	CriticalIssuesTitle = regexp.MustCompile(`(?i)\bcritical\s+issues?\b`)
	ErrorLogTitle       = regexp.MustCompile(`(?i)\berror\s+logs?\b`)
	ChatContextTitle    = regexp.MustCompile(`(?i)\b(?:cursor\s+chat|development\s+context)\b`)
	HighSeverity        = regexp.MustCompile(`(?i)\b(?:high|critical)\b`)
	SeverityMarker      = regexp.MustCompile(`(?i)^\W*(?:severity\s*:?\s*)?(critical|high|medium|low|info)\b\W*(?:severity|priority|issues?)?\W*$`)
	InlineSeverity      = regexp.MustCompile(`(?i)^\W*(?:\[(?:critical|high)\]|\((?:critical|high)\)|(?:critical|high)(?:\s+severity)?\s*[:\-])\s*`)

	// Negative results in an issues list
	NoIssuesPhrase = regexp.MustCompile(`(?i)none\s+identified|no\s+issues`)
	BareNone       = regexp.MustCompile(`(?i)^\W*none\W*$`)

	// Sentiment words for the fallback scorer
	PositiveWord = regexp.MustCompile(`(?i)\b(?:good|great|excellent|clean|clear|well|solid|robust|secure|improved|improvement|efficient|readable|maintainable|consistent|correct|strong|best)\b`)
	NegativeWord = regexp.MustCompile(`(?i)\b(?:bad|poor|vulnerable|vulnerability|insecure|bug|bugs|broken|error|errors|issue|issues|problem|problems|unsafe|missing|leak|risk|risky|fail|failed|failure|deprecated)\b`)

	// Git reflog line written by a commit
	ReflogCommit = regexp.MustCompile(`^[0-9a-f]{40} ([0-9a-f]{40}) .*\tcommit(?: \((?:initial|amend|merge)\))?: (.*)$`)
)
