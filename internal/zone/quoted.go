package zone

import (
	"regexp"
	"strings"
)

// quotedStringSequenceRE matches one or more RFC-1035-style quoted strings
// separated by whitespace. Each quoted string allows escaping via backslash
// (e.g., \" for a literal quote).
var quotedStringSequenceRE = regexp.MustCompile(`^\s*"([^"\\]|\\.)*"(?:\s+"([^"\\]|\\.)*")*\s*$`)

// isQuotedStringSequence returns true if s consists of one or more
// RFC-1035-style quoted strings separated by whitespace: "..." "..."
// It supports escaping of \" inside a quoted string. Simplified check.
func isQuotedStringSequence(s string) bool { return quotedStringSequenceRE.MatchString(s) }

// EnsureQuotedContent ensures that record content is correctly wrapped in
// double quotes for RR types that require it (TXT, SPF). If the content is
// already a valid sequence of quoted strings, it's returned unchanged. If
// not, embedded quotes are escaped and the whole content is wrapped in
// quotes. For other RR types, content is returned unchanged.
func EnsureQuotedContent(t RRType, content string) string {
	if content == "" || !t.Quoted() {
		return content
	}

	s := strings.TrimSpace(content)
	if s == "" {
		return `""`
	}

	if isQuotedStringSequence(s) {
		return s
	}

	// Escape embedded quotes and wrap
	s = strings.ReplaceAll(s, `"`, `\"`)

	return `"` + s + `"`
}
