package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/naraya/pool-http-service/common/utils"
	"github.com/naraya/pool-http-service/common/work"
	"github.com/naraya/pool-http-service/jobs"
)

type PoolHandler struct {
	pool   *work.Pool
	router *chi.Mux
}

func NewPoolHandler(pool *work.Pool) *PoolHandler {
	h := &PoolHandler{
		pool: pool,
	}

	r := chi.NewRouter()
	r.Get("/stats", h.handleStats)
	r.Get("/kinds", h.handleKinds)

	h.router = r
	return h
}

func (h *PoolHandler) Router() *chi.Mux {
	return h.router
}

func (h *PoolHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.pool.Stats())
}

func (h *PoolHandler) handleKinds(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, jobs.Kinds())
}
