package main

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// healthcheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Healthcheck endpoint
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	storeStatus := "ok"
	if err := app.kv.Ping(r.Context()); err != nil {
		app.logger.Warnw("storage ping failed", "driver", app.config.storeDriver, "error", err)
		storeStatus = "error"
	}

	queueStatus := "ok"
	if err := app.broker.Ping(); err != nil {
		app.logger.Warnw("broker ping failed", "error", err)
		queueStatus = "error"
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Services: map[string]string{
			"database": storeStatus,
			"queue":    queueStatus,
		},
	}

	// if any service is down, mark as unhealthy
	if storeStatus != "ok" || queueStatus != "ok" {
		response.Status = "unhealthy"
		if err := writeJson(w, http.StatusServiceUnavailable, response); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := writeJson(w, http.StatusOK, response); err != nil {
		app.internalServerError(w, r, err)
	}
}
