package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 300, cfg.Store.MemoTTLSecs)
	assert.Equal(t, "https://graph.facebook.com/v23.0", cfg.Graph.BaseURL)
	assert.Equal(t, 100, cfg.Graph.PageSize)
	assert.Equal(t, 120, cfg.Graph.PageDelayMS)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	// The token has no default; it is supplied per session.
	assert.Empty(t, cfg.Graph.Token)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LEADS_STORE_DRIVER", "sqlite")
	t.Setenv("LEADS_GRAPH_TOKEN", "env-token")
	t.Setenv("LEADS_GRAPH_PAGE_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "env-token", cfg.Graph.Token)
	assert.Equal(t, 25, cfg.Graph.PageSize)
}

func TestRequireToken(t *testing.T) {
	cfg := &Config{}

	err := cfg.RequireToken()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "graph.token", cfgErr.Field)
	assert.Contains(t, err.Error(), "LEADS_GRAPH_TOKEN")

	cfg.Graph.Token = "present"
	assert.NoError(t, cfg.RequireToken())
}

func TestRequireDatabaseURL(t *testing.T) {
	cfg := &Config{}

	err := cfg.RequireDatabaseURL()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "store.database_url", cfgErr.Field)

	cfg.Store.DatabaseURL = "postgres://localhost/leads"
	assert.NoError(t, cfg.RequireDatabaseURL())
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
