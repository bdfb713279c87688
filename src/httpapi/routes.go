// Package httpapi serves the diagnostics as JSON under /api/McpDebug
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/newrelic/infra-integrations-sdk/v3/log"

	"github.com/coltonspears/McpServer/src/monitor"
	"github.com/coltonspears/McpServer/src/telemetry"
)

// BasePath prefixes every diagnostic endpoint
const BasePath = "/api/McpDebug"

const defaultTopN = 10

// Pinger reports whether the database can be reached
type Pinger interface {
	Ping(ctx context.Context) error
}

type api struct {
	monitor monitor.Monitor
	metrics *telemetry.Metrics
}

// RegisterRoutes mounts the diagnostic endpoints on mux. metrics may be nil.
func RegisterRoutes(mux *http.ServeMux, m monitor.Monitor, metrics *telemetry.Metrics) {
	a := &api{monitor: m, metrics: metrics}

	mux.HandleFunc("GET "+BasePath+"/sql-blocked-queries",
		handleList(a, "GetBlockedQueries", "An error occurred while fetching blocked queries.", m.GetBlockedQueries))
	mux.HandleFunc("GET "+BasePath+"/index-usage-stats",
		handleList(a, "GetIndexUsageStats", "An error occurred while fetching index usage stats.", m.GetIndexUsageStats))
	mux.HandleFunc("GET "+BasePath+"/wait-stats",
		handleList(a, "GetWaitStats", "An error occurred while fetching wait stats.", m.GetWaitStats))
	mux.HandleFunc("GET "+BasePath+"/missing-indexes",
		handleList(a, "GetMissingIndexes", "An error occurred while fetching missing indexes.", m.GetMissingIndexes))
	mux.HandleFunc("GET "+BasePath+"/deadlock-graph", a.deadlockGraph)
	mux.HandleFunc("GET "+BasePath+"/top-queries", a.topQueries)
}

// RegisterHealth mounts /healthz, answering 503 while the database cannot be pinged
func RegisterHealth(mux *http.ServeMux, pinger Pinger) {
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pinger.Ping(r.Context()); err != nil {
			log.Warn("Health check failed: %s", err.Error())
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
}

func handleList[T any](a *api, operation, failure string, fetch func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Endpoint '%s' was called.", r.URL.Path)
		start := time.Now()

		result, err := fetch(r.Context())
		a.metrics.ObserveRequest(telemetry.SurfaceHTTP, operation, start, err)
		if err != nil {
			log.Error("%s failed: %s", operation, err.Error())
			writeError(w, http.StatusInternalServerError, failure, err)
			return
		}

		a.metrics.AddRows(operation, len(result))
		writeJSON(w, http.StatusOK, result)
	}
}

func (a *api) deadlockGraph(w http.ResponseWriter, r *http.Request) {
	log.Info("Endpoint '%s' was called.", r.URL.Path)
	start := time.Now()

	graph, err := a.monitor.GetDeadlockGraph(r.Context())
	a.metrics.ObserveRequest(telemetry.SurfaceHTTP, "GetDeadlockGraph", start, err)
	if err != nil {
		log.Error("GetDeadlockGraph failed: %s", err.Error())
		writeError(w, http.StatusInternalServerError, "An error occurred while fetching the deadlock graph.", err)
		return
	}

	writeJSON(w, http.StatusOK, graph)
}

func (a *api) topQueries(w http.ResponseWriter, r *http.Request) {
	topN := defaultTopN
	if raw := r.URL.Query().Get("topN"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "The topN parameter must be an integer.", err)
			return
		}
		topN = n
	}
	log.Info("Endpoint '%s' was called with topN=%d.", r.URL.Path, topN)
	start := time.Now()

	count, started, err := streamJSONArray(w, a.monitor.GetTopQueries(r.Context(), topN))
	a.metrics.ObserveRequest(telemetry.SurfaceHTTP, "GetTopQueries", start, err)
	a.metrics.AddRows("GetTopQueries", count)
	if err == nil {
		return
	}

	// Once the status line is out the array can only be cut short
	if started {
		log.Error("GetTopQueries failed after %d rows were sent: %s", count, err.Error())
		return
	}
	log.Error("GetTopQueries failed: %s", err.Error())
	writeError(w, http.StatusInternalServerError, "An error occurred while fetching top queries.", err)
}
