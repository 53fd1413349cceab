package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Abdorithm/alx-files-manager/pkg/files"
	"github.com/go-chi/chi/v5"
)

// looseID accepts a JSON number or string and keeps its text.
type looseID string

func (id *looseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = looseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = looseID(n.String())
	return nil
}

type uploadRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Kind     string  `json:"kind"`
	ParentID looseID `json:"parentId"`
	IsPublic bool    `json:"isPublic"`
	Data     string  `json:"data"`
}

func (h *handlers) postUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectLargeBody(w, r, tooLarge.Limit)
			return
		}
		// A malformed body reads as empty so the manager reports the first
		// failing check, with authentication first.
		req = uploadRequest{}
	}

	kind := req.Kind
	if kind == "" {
		kind = req.Type
	}

	p, err := h.files.Upload(r.Context(), credential(r), files.UploadInput{
		Name:     req.Name,
		Kind:     kind,
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// rejectLargeBody answers an oversized upload. Anonymous callers still get
// Unauthorized.
func (h *handlers) rejectLargeBody(w http.ResponseWriter, r *http.Request, limit int64) {
	principal, err := h.resolver.Resolve(r.Context(), credential(r))
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	if principal == nil {
		writeFailure(w, h.logger, files.ErrUnauthorized)
		return
	}

	h.logger.Debug("Rejected upload from user %d above %d bytes", principal.ID, limit)
	writeError(w, http.StatusRequestEntityTooLarge, "Payload too large")
}

func (h *handlers) getShow(w http.ResponseWriter, r *http.Request) {
	p, err := h.files.Show(r.Context(), credential(r), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) getIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.files.List(r.Context(), credential(r), q.Get("parentId"), q.Get("page"))
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *handlers) putPublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, true)
}

func (h *handlers) putUnpublish(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, false)
}

func (h *handlers) setPublic(w http.ResponseWriter, r *http.Request, public bool) {
	p, err := h.files.SetPublic(r.Context(), credential(r), chi.URLParam(r, "id"), public)
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) getFile(w http.ResponseWriter, r *http.Request) {
	size := strings.TrimSpace(r.URL.Query().Get("size"))

	content, err := h.files.Content(r.Context(), credential(r), chi.URLParam(r, "id"), size)
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", content.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content); err != nil {
		h.logger.Warn("Streaming %q was interrupted: %v", content.Name, err)
	}
}
