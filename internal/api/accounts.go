package api

import (
	"encoding/json"
	"net/http"

	"github.com/Abdorithm/alx-files-manager/pkg/auth"
)

type userRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *handlers) postUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	p, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handlers) getConnect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		writeFailure(w, h.logger, auth.ErrInvalidCredentials)
		return
	}

	token, err := h.accounts.Connect(r.Context(), email, password)
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *handlers) getDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Disconnect(r.Context(), credential(r).Token); err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) getMe(w http.ResponseWriter, r *http.Request) {
	p, err := h.resolver.Resolve(r.Context(), credential(r))
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	if p == nil {
		writeFailure(w, h.logger, auth.ErrInvalidCredentials)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
