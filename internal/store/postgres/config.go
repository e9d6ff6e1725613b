package postgres

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// ConnConfig holds the parameters for a single PostgreSQL connection.
type ConnConfig struct {
	Host     string
	Port     uint16
	Database string
	User     string
	Password string

	// SSLMode is passed through as the sslmode connection parameter.
	// Default: require
	SSLMode string

	// SearchPath, when set, is sent as the search_path runtime option so
	// unqualified names resolve inside that schema.
	SearchPath string

	// ConnectTimeout bounds the initial connection.
	// Default: 10s
	ConnectTimeout time.Duration
}

var validSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// ApplyDefaults applies default values to unset configuration fields.
func (c *ConnConfig) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.Database == "" {
		c.Database = "postgres"
	}
	if c.SSLMode == "" {
		c.SSLMode = "require"
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10 * time.Second
	}
}

// Validate checks that the configuration is valid.
func (c *ConnConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}
	if c.User == "" {
		return errors.New("user is required")
	}
	if c.Database == "" {
		return errors.New("database is required")
	}
	if !validSSLModes[c.SSLMode] {
		return fmt.Errorf("invalid sslmode %q", c.SSLMode)
	}
	return nil
}

// WithDatabase returns a copy of the config targeting another database.
func (c ConnConfig) WithDatabase(name string) ConnConfig {
	c.Database = name
	return c
}

// WithSearchPath returns a copy of the config with search_path set.
func (c ConnConfig) WithSearchPath(schema string) ConnConfig {
	c.SearchPath = schema
	return c
}

// ConnString renders the config as a postgresql:// URL, ready to paste into a
// DATABASE_URL setting.
func (c ConnConfig) ConnString() string {
	return c.url().String()
}

// Redacted is ConnString with the password masked, safe for logs.
func (c ConnConfig) Redacted() string {
	return c.url().Redacted()
}

func (c ConnConfig) url() *url.URL {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port))),
		Path:   "/" + c.Database,
	}

	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else if c.User != "" {
		u.User = url.User(c.User)
	}

	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.SearchPath != "" {
		q.Set("options", "-csearch_path="+c.SearchPath)
	}
	u.RawQuery = q.Encode()

	return u
}
