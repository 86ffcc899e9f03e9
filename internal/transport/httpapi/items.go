package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Bre77/wip/internal/bootstrap/logging"
	domainworklist "github.com/Bre77/wip/internal/domain/worklist"
	"github.com/Bre77/wip/internal/errs"
	"github.com/Bre77/wip/internal/usecase/worklist"
)

type itemsResponse struct {
	Items []domainworklist.Item `json:"items"`
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.worklist.List(r.Context(), worklist.ListInput{
		Token:   session.AccessToken,
		UserKey: session.UserKey,
	})
	if err != nil {
		logging.Error(r.Context(), "list items failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusInternalServerError, "failed to load work items")
		return
	}
	if items == nil {
		items = []domainworklist.Item{}
	}

	writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func (h *Handler) refreshItems(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.worklist.Refresh(r.Context(), session.UserKey); err != nil {
		logging.Error(r.Context(), "refresh failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusInternalServerError, "failed to refresh")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// updateItemRequest keeps notes as raw JSON so an explicit null (clear the
// note) stays distinguishable from the field being absent.
type updateItemRequest struct {
	Priority *int            `json:"priority"`
	Notes    json.RawMessage `json:"notes"`
	Hidden   *bool           `json:"hidden"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := worklist.UpdateItemInput{
		UserKey:  session.UserKey,
		ID:       id,
		Priority: req.Priority,
		Hidden:   req.Hidden,
	}
	if len(req.Notes) > 0 {
		in.SetNotes = true
		if string(req.Notes) != "null" {
			var notes string
			if err := json.Unmarshal(req.Notes, &notes); err != nil {
				writeError(w, http.StatusBadRequest, "notes must be a string or null")
				return
			}
			in.Notes = &notes
		}
	}

	if err := h.worklist.UpdateItem(r.Context(), in); err != nil {
		h.writeWorklistError(w, r, err, "failed to update item")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) hideItem(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.worklist.HideItem(r.Context(), session.UserKey, id); err != nil {
		h.writeWorklistError(w, r, err, "failed to hide item")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

type batchPriorityRequest struct {
	Items []batchPriorityEntry `json:"items"`
}

type batchPriorityEntry struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
}

func (h *Handler) batchPriority(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req batchPriorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entries := make([]worklist.ReorderEntry, 0, len(req.Items))
	for _, item := range req.Items {
		entries = append(entries, worklist.ReorderEntry{ID: item.ID, Priority: item.Priority})
	}

	if err := h.worklist.BatchReorder(r.Context(), session.UserKey, entries); err != nil {
		h.writeWorklistError(w, r, err, "failed to reorder items")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// writeWorklistError maps usecase validation errors to 400s and everything
// else to a 500.
func (h *Handler) writeWorklistError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, worklist.ErrItemIDRequired),
		errors.Is(err, worklist.ErrNoFields),
		errors.Is(err, worklist.ErrInvalidPriority),
		errors.Is(err, worklist.ErrEmptyBatch):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Error(r.Context(), fallback, slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
