package zone

import "strings"

// Canonical ensures the name has a trailing dot.
func Canonical(name string) string {
	if name == "" || !strings.HasSuffix(name, ".") {
		return name + "."
	}

	return name
}

// DisplayName returns a user-friendly name for a record by stripping the
// zone suffix. The zone apex itself is rendered as "@".
func DisplayName(fullName, zoneName string) string {
	if fullName == zoneName || fullName == strings.TrimSuffix(zoneName, ".") {
		return "@"
	}

	zoneWithoutDot := strings.TrimSuffix(zoneName, ".")
	if strings.HasSuffix(fullName, "."+zoneWithoutDot+".") {
		return strings.TrimSuffix(fullName, "."+zoneWithoutDot+".")
	} else if strings.HasSuffix(fullName, "."+zoneWithoutDot) {
		return strings.TrimSuffix(fullName, "."+zoneWithoutDot)
	}

	return fullName
}

// IsReverse checks if the given zone name is a reverse DNS zone.
func IsReverse(zoneName string) (reverse bool) {
	switch {
	case strings.HasSuffix(zoneName, "ip6.arpa."):
		reverse = true

	case strings.HasSuffix(zoneName, "in-addr.arpa."):
		reverse = true
	}

	return
}
