package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/propkeeper/internal/logging"
)

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	DB *sql.DB
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
		jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
