package config

// Database driver names accepted in DB.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DB implements database connection settings. Driver selects the gorm
// backend; Path is only used by sqlite, the remaining fields only by the
// server-based drivers.
type DB struct {
	Driver   string // sqlite (default), mysql or postgres
	Path     string // sqlite database file
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Extras   string // extra DSN parameters
}
