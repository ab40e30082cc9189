package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type connectionChecker interface {
	IsConnected() bool
}

func newRouter(panel connectionChecker) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if !panel.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("disconnected\n"))
			return
		}
		w.Write([]byte("ok\n"))
	})
	return r
}

// serveMetrics serves the router on addr until ctx is done
func serveMetrics(ctx context.Context, addr string, panel connectionChecker) {
	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(panel),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Could not shut down metrics server: %v", err)
		}
	}()

	log.Infof("Serving metrics on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("Metrics server failed: %v", err)
	}
}
