package handler

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/asdf-project/user-service/internal/metrics"
)

var metricNameInvalid = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
	prefix      string
}

// NewMetricsHandler creates a new MetricsHandler.
// serviceName becomes the metric prefix, e.g. "user-service" -> "user_service_".
func NewMetricsHandler(snapshotter metrics.Snapshotter, serviceName string) *MetricsHandler {
	prefix := metricNameInvalid.ReplaceAllString(strings.ToLower(serviceName), "_")
	if prefix != "" {
		prefix += "_"
	}
	return &MetricsHandler{snapshotter: snapshotter, prefix: prefix}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	h.writeMetric(w, "user_lookups_total{result=\"found\"} %d\n", snap.UserLookupsFound)
	h.writeMetric(w, "user_lookups_total{result=\"not_found\"} %d\n", snap.UserLookupsNotFound)
	h.writeMetric(w, "users_updated_total %d\n", snap.UsersUpdated)
	h.writeMetric(w, "duplicate_email_rejections_total %d\n", snap.DuplicateEmails)

	h.writeMetric(w, "identity_rejections_total{reason=\"missing\"} %d\n", snap.IdentityMissing)
	h.writeMetric(w, "identity_rejections_total{reason=\"invalid\"} %d\n", snap.IdentityInvalid)
	h.writeMetric(w, "rate_limited_total %d\n", snap.RateLimited)

	h.writeMetric(w, "store_session_duration_seconds_count %d\n", snap.StoreDurationCount)
	h.writeMetric(w, "store_session_duration_seconds_sum %.6f\n", float64(snap.StoreDurationTotalNs)/1e9)
}

func (h *MetricsHandler) writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, h.prefix+format, args...)
}
