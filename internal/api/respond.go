package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdorithm/alx-files-manager/pkg/auth"
	"github.com/Abdorithm/alx-files-manager/pkg/files"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeFailure maps a service error onto a status. Anything unrecognised is
// logged and reported as an internal error without details.
func writeFailure(w http.ResponseWriter, logger log.LoggerService, err error) {
	var fe *files.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case files.CodeUnauthorized:
			writeError(w, http.StatusUnauthorized, fe.Message)
		case files.CodeNotFound:
			writeError(w, http.StatusNotFound, fe.Message)
		default:
			writeError(w, http.StatusBadRequest, fe.Message)
		}
		return
	}

	switch {
	case errors.Is(err, auth.ErrMissingEmail):
		writeError(w, http.StatusBadRequest, "Missing email")
	case errors.Is(err, auth.ErrMissingPassword):
		writeError(w, http.StatusBadRequest, "Missing password")
	case errors.Is(err, auth.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "Already exist")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	default:
		logger.Error("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

const bearerPrefix = "bearer "

// credential collects what the caller presented. Absent headers leave the
// fields empty.
func credential(r *http.Request) auth.Credential {
	cred := auth.Credential{Token: strings.TrimSpace(r.Header.Get("X-Token"))}

	header := r.Header.Get("Authorization")
	if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		cred.Bearer = strings.TrimSpace(header[len(bearerPrefix):])
	}
	return cred
}
