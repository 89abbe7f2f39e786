package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// APIPath is the prefix of the JSON API consumed by the frontend.
	APIPath = RootPath + "api"

	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = RootPath + "checkalive"

	// ErrNilACSFatalLogMsg is used if the app, cfg or store pointer is nil.
	ErrNilACSFatalLogMsg = "app, cfg or store is nil"
)
