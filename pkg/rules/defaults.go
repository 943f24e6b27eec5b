package rules

import "sync"

// Built-in catalogue. Patterns are illustrative, not a hardened rule set.
var defaultRules = []Rule{
	NewRegex("sqli-union-select", SQLi, `union\s+(all\s+)?select`, false).
		withInfo("UNION-based query stacking", 5),
	NewRegex("sqli-tautology", SQLi, `\bor\s+'?1'?\s*=\s*'?1`, false).
		withInfo("always-true OR condition", 5),
	NewRegex("sqli-comment", SQLi, `--(\s|$)|#\s*$`, false).
		withInfo("trailing SQL line comment", 3),
	NewRegex("sqli-block-comment", SQLi, `/\*.*?\*/`, false).
		withInfo("inline SQL block comment", 3),
	NewLiteral("xss-script-tag", XSS, "<script", false).
		withInfo("script element", 5),
	NewRegex("xss-event-handler", XSS, `\bon(error|load|mouseover|focus|click)\s*=`, false).
		withInfo("inline event handler attribute", 4),
	NewLiteral("xss-javascript-uri", XSS, "javascript:", false).
		withInfo("javascript: URI scheme", 4),
	NewRegex("path-traversal", PathTraversal, `\.\.[/\\]`, true).
		withInfo("parent directory sequence", 4),
	NewRegex("path-sensitive-file", PathTraversal, `/etc/(passwd|shadow|hosts)`, false).
		withInfo("well-known sensitive file", 4),
	NewRegex("cmd-injection", CommandInjection, "(^|[;&|`])\\s*(rm|cat|ls|wget|curl|nc|bash|sh|whoami|id|uname)\\b", false).
		withInfo("shell command at the start or after a separator", 5),
	NewRegex("cmd-substitution", CommandInjection, "\\$\\([^)]*\\)|`[^`]+`", false).
		withInfo("shell command substitution", 4),
	NewLiteral("ssrf-metadata", SSRF, "169.254.169.254", true).
		withInfo("cloud instance metadata address", 5),
	NewRegex("ssrf-loopback", SSRF, `https?://(localhost|127\.0\.0\.1|0\.0\.0\.0|\[::1\])`, false).
		withInfo("loopback host in a URL", 4),
	NewLiteral("generic-null-byte", Generic, "%00", false).
		withInfo("encoded null byte", 2),
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalogue
)

// Default returns the built-in catalogue. The result is shared and read-only.
func Default() *Catalogue {
	defaultOnce.Do(func() {
		defaultCat = MustNew(defaultRules...)
	})
	return defaultCat
}

// Challenge target rules. Each one has a deliberate blind spot.
var (
	// ChallengeScriptLowercase only sees the exact lowercase tag.
	ChallengeScriptLowercase = NewLiteral("challenge-script-lowercase", XSS, "<script>", true).withInfo("lowercase <script> tag, case-sensitive", 5)

	// ChallengeDotDotSlash only sees the literal sequence.
	ChallengeDotDotSlash = NewLiteral("challenge-dotdot-slash", PathTraversal, "../", true).withInfo("literal ../ sequence", 4)

	// ChallengeUnionSelect needs UNION and SELECT separated by whitespace.
	ChallengeUnionSelect = NewRegex("challenge-union-select", SQLi, `union\s+select`, false).withInfo("UNION followed by whitespace and SELECT", 5)

	// ChallengeScriptTag only looks for script elements.
	ChallengeScriptTag = NewLiteral("challenge-script-tag", XSS, "<script", false).withInfo("any <script element", 5)

	// ChallengeQuoteTautology needs a raw quote before the OR.
	ChallengeQuoteTautology = NewRegex("challenge-quote-tautology", SQLi, `'\s*or\s+1\s*=\s*1`, false).withInfo("quote followed by OR 1=1", 5)
)
