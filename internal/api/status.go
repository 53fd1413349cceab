package api

import (
	"context"
	"net/http"
	"time"
)

type statusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type statsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

const pingTimeout = 2 * time.Second

func (h *handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Redis: alive(r.Context(), h.redis),
		DB:    alive(r.Context(), h.database),
	})
}

func (h *handlers) getStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.counter.CountUsers(r.Context())
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	filesCount, err := h.counter.CountFiles(r.Context())
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Users: users, Files: filesCount})
}

func alive(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.Ping(ctx) == nil
}
