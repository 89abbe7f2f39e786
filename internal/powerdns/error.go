package powerdns

import (
	"errors"
)

var (
	// ErrClientNotInitialized is returned when the PowerDNS client is not initialized.
	ErrClientNotInitialized = errors.New("PowerDNS client not initialized")

	// ErrNoServerURL is returned when mirroring is enabled without a server URL.
	ErrNoServerURL = errors.New("PowerDNS mirroring enabled but no server URL configured")
)
