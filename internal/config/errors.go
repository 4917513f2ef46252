package config

import "fmt"

// ConfigurationError marks missing or invalid configuration. It is fatal and
// surfaces before any network or database call is made.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// RequireToken validates that a Graph API token is present.
func (c *Config) RequireToken() error {
	if c.Graph.Token == "" {
		return &ConfigurationError{
			Field:  "graph.token",
			Reason: "access token is required (set LEADS_GRAPH_TOKEN or --token)",
		}
	}
	return nil
}

// RequireDatabaseURL validates that a store connection string is present.
func (c *Config) RequireDatabaseURL() error {
	if c.Store.DatabaseURL == "" {
		return &ConfigurationError{
			Field:  "store.database_url",
			Reason: "connection string is required (set LEADS_STORE_DATABASE_URL)",
		}
	}
	return nil
}
