package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ptengelmann/ProfilanIQ/internal"
	"github.com/ptengelmann/ProfilanIQ/internal/config"
)

// StartDebugServer runs the ops sidecar when enabled: pprof under
// /debug/pprof/ plus a bare liveness probe, on its own port so it never
// shares the public surface.
func StartDebugServer(cfg *config.Config, logger *internal.Logger) {
	if !cfg.Profiling.Enabled {
		return
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	log := logger.Tagged("Debug")

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Mount("/debug", middleware.Profiler())

	addr := ":" + cfg.Profiling.Port
	go func() {
		log.Info("pprof sidecar on %s", addr)
		if err := http.ListenAndServe(addr, r); err != nil {
			log.Error("sidecar stopped: %v", err)
		}
	}()
}
