package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mverot/arbscan/internal/oplog"
)

// recentLimit matches the read surface contract: most recent 100 records.
const recentLimit = 100

type opportunitiesResponse struct {
	Count         int      `json:"count"`
	Opportunities []string `json:"opportunities"`
}

type tradesResponse struct {
	Count  int           `json:"count"`
	Trades []oplog.Trade `json:"trades"`
}

// Serve runs the status HTTP server until ctx is cancelled. It exposes the
// opportunity and trade read surfaces plus /healthz and /metrics.
func Serve(ctx context.Context, addr string, store *oplog.Store, log *zap.Logger) {
	if addr == "" {
		log.Info("api disabled: empty addr")
		return
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<h1>Arbitrage Opportunities API</h1><p>GET /opportunities for results.</p>")
	})

	mux.Handle("/opportunities", OpportunitiesHandler(store, log))
	mux.Handle("/trades", TradesHandler(store, log))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("api server error", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// OpportunitiesHandler serves the last 100 opportunity records as a count
// plus ordered list.
func OpportunitiesHandler(store *oplog.Store, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		records, err := store.Recent(recentLimit)
		if err != nil {
			log.Error("recent opportunities query failed", zap.Error(err))
			http.Error(w, `{"error":"log store unavailable"}`, http.StatusInternalServerError)
			return
		}

		lines := make([]string, 0, len(records))
		for _, r := range records {
			lines = append(lines, fmt.Sprintf("[%s] %s", r.Timestamp, r.Message))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(opportunitiesResponse{
			Count:         len(lines),
			Opportunities: lines,
		})
	})
}

// TradesHandler serves the most recent submitted trades.
func TradesHandler(store *oplog.Store, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		trades, err := store.Trades(recentLimit)
		if err != nil {
			log.Error("trades query failed", zap.Error(err))
			http.Error(w, `{"error":"log store unavailable"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tradesResponse{
			Count:  len(trades),
			Trades: trades,
		})
	})
}
