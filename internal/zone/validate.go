package zone

import (
	"strconv"
	"strings"
)

// ErrorKind identifies one way record content can fail its type-specific
// shape check. Validation failures are accumulated and returned, never
// raised as errors: only structurally unparsable input is a hard failure,
// and that is the codecs' concern.
type ErrorKind string

const (
	// ErrKindBadIPv4 marks A content that is not four decimal octets 0-255.
	ErrKindBadIPv4 ErrorKind = "bad-ipv4"

	// ErrKindBadIPv6 marks AAAA content without a colon/hex-digit shape.
	ErrKindBadIPv6 ErrorKind = "bad-ipv6"

	// ErrKindTargetNotFQDN marks a CNAME/NS/MX target without a trailing dot.
	ErrKindTargetNotFQDN ErrorKind = "target-not-fqdn"

	// ErrKindMissingTarget marks MX content with a priority but no target.
	ErrKindMissingTarget ErrorKind = "missing-target"

	// ErrKindBadPriority marks MX content whose priority token is not numeric.
	ErrKindBadPriority ErrorKind = "bad-priority"

	// ErrKindTXTTooLong marks TXT content above 255 unquoted characters.
	ErrKindTXTTooLong ErrorKind = "txt-too-long"

	// ErrKindEmptyContent marks records without content.
	ErrKindEmptyContent ErrorKind = "empty-content"

	// ErrKindUnknownType marks an RRSet whose type is outside the managed
	// enumeration; such records get no shape check, so they may never be
	// committed.
	ErrKindUnknownType ErrorKind = "unknown-type"
)

const (
	maxTXTLength = 255
	ipv4Octets   = 4
	maxOctet     = 255
)

// Issue ties an ErrorKind (or zone-level condition) to the record it was
// found on, for import previews.
type Issue struct {
	Name    string    `json:"name,omitempty"`
	Type    RRType    `json:"type,omitempty"`
	Content string    `json:"content,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Message string    `json:"message"`
}

// Result aggregates the outcome of validating a whole zone. Errors block a
// commit, warnings do not.
type Result struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// HasErrors reports whether the zone must not be committed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// Validate checks record content against its declared type and returns the
// accumulated failures. An empty result means the content is valid.
func Validate(t RRType, content string) []ErrorKind {
	var kinds []ErrorKind

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return append(kinds, ErrKindEmptyContent)
	}

	switch t {
	case TypeA:
		if !validIPv4(trimmed) {
			kinds = append(kinds, ErrKindBadIPv4)
		}

	case TypeAAAA:
		if !validIPv6(trimmed) {
			kinds = append(kinds, ErrKindBadIPv6)
		}

	case TypeCNAME, TypeNS, TypePTR:
		if !strings.HasSuffix(trimmed, ".") {
			kinds = append(kinds, ErrKindTargetNotFQDN)
		}

	case TypeMX:
		kinds = append(kinds, validateMX(trimmed)...)

	case TypeTXT, TypeSPF:
		if len(unquoteTXT(trimmed)) > maxTXTLength {
			kinds = append(kinds, ErrKindTXTTooLong)
		}

	case TypeSOA:
		if _, err := ParseSOA(trimmed); err != nil {
			kinds = append(kinds, ErrKindEmptyContent)
		}

	case TypeSRV, TypeCAA:
		// No shape check beyond non-empty content.
	}

	return kinds
}

// validateMX checks the "priority target" content convention: the second
// token, not the whole string, carries the FQDN requirement.
func validateMX(content string) []ErrorKind {
	var kinds []ErrorKind

	fields := strings.Fields(content)

	if len(fields) > 0 {
		if _, err := strconv.ParseUint(fields[0], 10, 16); err != nil {
			kinds = append(kinds, ErrKindBadPriority)
		}
	}

	if len(fields) < 2 {
		return append(kinds, ErrKindMissingTarget)
	}

	if !strings.HasSuffix(fields[1], ".") {
		kinds = append(kinds, ErrKindTargetNotFQDN)
	}

	return kinds
}

// validIPv4 accepts exactly four dot-separated decimal octets, each 0-255.
func validIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != ipv4Octets {
		return false
	}

	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return false
		}

		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > maxOctet {
			return false
		}
	}

	return true
}

// validIPv6 accepts a colon/hex-digit shape; the loopback literal ::1 is a
// special case of the general rule.
func validIPv6(s string) bool {
	if s == "::1" || s == "::" {
		return true
	}

	if !strings.Contains(s, ":") {
		return false
	}

	for _, r := range s {
		switch {
		case r == ':':
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}

	return true
}

// unquoteTXT strips a single level of surrounding quotes for the length cap.
func unquoteTXT(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}

	return s
}

// ValidateZone runs per-record checks over every RRSet and adds the
// zone-level checks: presence of an SOA and of at least one NS. The
// zone-level conditions are warnings, they do not block a commit.
func ValidateZone(z *Zone) Result {
	var result Result

	var hasSOA, hasNS bool

	for i := range z.RRSets {
		rrset := &z.RRSets[i]

		if _, known := rrTypes[rrset.Type]; !known {
			result.Errors = append(result.Errors, Issue{
				Name:    rrset.Name,
				Type:    rrset.Type,
				Kind:    ErrKindUnknownType,
				Message: issueMessage(ErrKindUnknownType, rrset.Type),
			})

			continue
		}

		switch rrset.Type {
		case TypeSOA:
			hasSOA = true
		case TypeNS:
			hasNS = true
		}

		if !strings.HasSuffix(rrset.Name, ".") {
			result.Warnings = append(result.Warnings, Issue{
				Name:    rrset.Name,
				Type:    rrset.Type,
				Message: "record name is not a fully-qualified domain name",
			})
		}

		for _, record := range rrset.Records {
			for _, kind := range Validate(rrset.Type, record.Content) {
				result.Errors = append(result.Errors, Issue{
					Name:    rrset.Name,
					Type:    rrset.Type,
					Content: record.Content,
					Kind:    kind,
					Message: issueMessage(kind, rrset.Type),
				})
			}
		}
	}

	if !hasSOA {
		result.Warnings = append(result.Warnings, Issue{
			Name:    z.Name,
			Message: "zone has no SOA record",
		})
	}

	if !hasNS {
		result.Warnings = append(result.Warnings, Issue{
			Name:    z.Name,
			Message: "zone has no NS record",
		})
	}

	return result
}

// issueMessage renders an ErrorKind for humans.
func issueMessage(kind ErrorKind, t RRType) string {
	switch kind {
	case ErrKindBadIPv4:
		return "content is not a valid IPv4 address"
	case ErrKindBadIPv6:
		return "content is not a valid IPv6 address"
	case ErrKindTargetNotFQDN:
		return string(t) + " target must end with a trailing dot"
	case ErrKindMissingTarget:
		return "missing fully-qualified target"
	case ErrKindBadPriority:
		return "priority is not an unsigned 16-bit integer"
	case ErrKindTXTTooLong:
		return "TXT value exceeds 255 characters"
	case ErrKindEmptyContent:
		return "record content is empty or malformed"
	case ErrKindUnknownType:
		return "record type " + string(t) + " is not supported"
	}

	return string(kind)
}
