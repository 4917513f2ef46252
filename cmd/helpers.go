package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leads-cli/internal/store"
	"github.com/sells-group/leads-cli/pkg/graph"
)

// initGraph constructs the Graph API client from config. Fails with a
// ConfigurationError before any network call when the token is missing.
func initGraph() (graph.Client, error) {
	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}

	var opts []graph.Option
	if cfg.Graph.BaseURL != "" {
		opts = append(opts, graph.WithBaseURL(cfg.Graph.BaseURL))
	}
	if cfg.Graph.PageDelayMS > 0 {
		opts = append(opts, graph.WithPageDelay(time.Duration(cfg.Graph.PageDelayMS)*time.Millisecond))
	}
	return graph.NewClient(cfg.Graph.Token, opts...), nil
}

// initStore constructs the configured lead store wrapped in the short-TTL
// query memo.
func initStore(ctx context.Context) (store.LeadStore, error) {
	if err := cfg.RequireDatabaseURL(); err != nil {
		return nil, err
	}

	var (
		inner store.LeadStore
		err   error
	)
	switch cfg.Store.Driver {
	case "postgres", "":
		inner, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite":
		inner, err = store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.Store.MemoTTLSecs) * time.Second
	return store.NewMemo(inner, ttl), nil
}
