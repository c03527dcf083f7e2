package schemacheck

import (
	"net"
	"net/url"
)

// ConnOptions identifies the database to inspect.
type ConnOptions struct {
	Database string
	User     string
	Password string
	Host     string
	Port     string
}

// ConnFromEnv reads the libpq environment variables, falling back to a
// local postgres/postgres superuser.
func ConnFromEnv(getenv func(string) string) ConnOptions {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	return ConnOptions{
		Database: get("PGDATABASE", "postgres"),
		User:     get("PGUSER", "postgres"),
		Password: get("PGPASSWORD", "postgres"),
		Host:     get("PGHOST", "localhost"),
		Port:     get("PGPORT", "5432"),
	}
}

// DSN renders the options as a postgres:// URL understood by pgx.
func (o ConnOptions) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(o.User, o.Password),
		Host:   net.JoinHostPort(o.Host, o.Port),
		Path:   "/" + o.Database,
	}
	return u.String()
}
