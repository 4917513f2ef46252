package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leads-cli/internal/export"
	"github.com/sells-group/leads-cli/internal/report"
	"github.com/sells-group/leads-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve leads and aggregates over a read-only HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the read-only API surface over the lead store.
func newRouter(st store.LeadStore) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/api/leads", handleLeads(st))
	r.Get("/api/leads.csv", handleLeadsCSV(st))
	r.Get("/api/stats", handleStats(st))

	return r
}

// requestLogger tags each request with a UUID and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		start := time.Now()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
		zap.L().Debug("request served",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// filterFromQuery parses the common form_id/start/end query parameters.
func filterFromQuery(r *http.Request) (store.LeadFilter, error) {
	q := r.URL.Query()

	start, err := parseDate("start", q.Get("start"))
	if err != nil {
		return store.LeadFilter{}, err
	}
	end, err := parseDate("end", q.Get("end"))
	if err != nil {
		return store.LeadFilter{}, err
	}
	if err := validateDateRange(start, end); err != nil {
		return store.LeadFilter{}, err
	}

	return store.LeadFilter{
		FormID: q.Get("form_id"),
		Start:  start,
		End:    end,
	}, nil
}

func handleLeads(st store.LeadStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromQuery(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}

		table, err := st.QueryLeads(r.Context(), filter)
		if err != nil {
			httpError(w, http.StatusBadGateway, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(table)
	}
}

func handleLeadsCSV(st store.LeadStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromQuery(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}

		table, err := st.QueryLeads(r.Context(), filter)
		if err != nil {
			httpError(w, http.StatusBadGateway, err)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", export.CSVFilename(filter.FormID)))
		if err := export.WriteCSV(w, table); err != nil {
			zap.L().Error("csv export failed", zap.Error(err))
		}
	}
}

func handleStats(st store.LeadStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromQuery(r)
		if err != nil {
			httpError(w, http.StatusBadRequest, err)
			return
		}

		table, err := st.QueryLeads(r.Context(), filter)
		if err != nil {
			httpError(w, http.StatusBadGateway, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total":    len(table.Rows),
			"per_day":  report.LeadsPerDay(table),
			"per_form": report.LeadsByForm(table),
		})
	}
}

func httpError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
