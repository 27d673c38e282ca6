// internal/app/features/health/handler.go

// Package health reports liveness and the state of the MongoDB
// connection for load balancers and uptime checks.
package health

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/mav910623/nunetwork/internal/app/system/timeouts"
	"github.com/mav910623/nunetwork/internal/app/system/webutil"
)

// Handler serves GET /health.
type Handler struct {
	Log    *zap.Logger
	Client *mongo.Client
}

// NewHandler builds the handler.
func NewHandler(logger *zap.Logger, client *mongo.Client) *Handler {
	return &Handler{Log: logger, Client: client}
}

// Check pings the database within the ping timeout and reports overall
// status. A failed ping degrades the status but still answers 200 so
// orchestrators can distinguish "up but unhealthy" from "down".
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	status := "ok"
	dbStatus := "ok"
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health ping failed", zap.Error(err))
		status, dbStatus = "degraded", "unreachable"
	}

	webutil.JSON(w, http.StatusOK, map[string]any{
		"status": status,
		"db":     dbStatus,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
