package handler

import (
	"errors"
	"net/http"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

func (h *Handler) SelectNotifications(w http.ResponseWriter, r *http.Request) {
	sub, _ := callerID(r)
	q := queryFrom(r)
	q.Eq("user_id", sub)

	notifications, err := h.store.SelectNotifications(r.Context(), q)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	writeRows(h, w, r, http.StatusOK, "notifications loaded", notifications)
}

// UpdateNotifications only changes the read flag. Setting it to the value it
// already has succeeds and returns the row unchanged.
func (h *Handler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Read *bool `json:"read"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Read == nil {
		h.badRequest(w, r, errors.New("read is required"))
		return
	}

	sub, _ := callerID(r)
	q := queryFrom(r)
	q.Eq("user_id", sub)

	notifications, err := h.store.SetNotificationsRead(r.Context(), q, *req.Read)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}

	writeRows(h, w, r, http.StatusOK, "notifications updated", notifications)
}
