package rules

// Category groups rules by the attack family they detect.
// Values are lowercase identifiers so they can be used in rule files
// and as metric labels unchanged.
type Category string

const (
	// SQLi covers SQL injection: tautologies, UNION queries, comments.
	SQLi Category = "sqli"

	// XSS covers cross-site scripting: script tags, event handlers.
	XSS Category = "xss"

	// PathTraversal covers directory traversal and sensitive file access.
	PathTraversal Category = "path_traversal"

	// CommandInjection covers shell metacharacters followed by commands.
	CommandInjection Category = "command_injection"

	// SSRF covers requests aimed at internal or metadata endpoints.
	SSRF Category = "ssrf"

	// Generic covers everything that does not fit a specific family.
	Generic Category = "generic"
)

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{SQLi, XSS, PathTraversal, CommandInjection, SSRF, Generic}
}

// IsValid reports whether c is a recognized category.
func (c Category) IsValid() bool {
	switch c {
	case SQLi, XSS, PathTraversal, CommandInjection, SSRF, Generic:
		return true
	}
	return false
}

// Label returns the short human-readable name of the category.
func (c Category) Label() string {
	switch c {
	case SQLi:
		return "SQL injection"
	case XSS:
		return "cross-site scripting"
	case PathTraversal:
		return "path traversal"
	case CommandInjection:
		return "command injection"
	case SSRF:
		return "server-side request forgery"
	case Generic:
		return "generic"
	default:
		return string(c)
	}
}

// String returns the category identifier.
func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts the identifier or a common alias.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "sqli", "sql", "SQLi":
		return SQLi, true
	case "xss", "XSS":
		return XSS, true
	case "path_traversal", "traversal", "lfi", "PathTraversal":
		return PathTraversal, true
	case "command_injection", "cmdi", "rce", "CommandInjection":
		return CommandInjection, true
	case "ssrf", "SSRF":
		return SSRF, true
	case "generic", "Generic":
		return Generic, true
	}
	return "", false
}
