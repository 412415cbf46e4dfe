package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/naraya/pool-http-service/common/utils"
	"github.com/naraya/pool-http-service/common/work"
)

type HealthHandler struct {
	pool   *work.Pool
	router *chi.Mux
}

func NewHealthHandler(pool *work.Pool) *HealthHandler {
	h := &HealthHandler{
		pool: pool,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleHealthCheck)

	h.router = r
	return h
}

func (h *HealthHandler) Router() *chi.Mux {
	return h.router
}

func (h *HealthHandler) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if h.pool.State() != work.StateRunning {
		status = "shutting_down"
		code = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    status,
		"pool":      h.pool.State().String(),
		"timestamp": time.Now().UTC(),
		"service":   "pool-http-service",
	}

	utils.WriteJSON(w, code, response)
}
