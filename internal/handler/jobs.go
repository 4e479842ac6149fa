package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

func (h *Handler) SelectJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.store.SelectJobs(r.Context(), queryFrom(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	writeRows(h, w, r, http.StatusOK, "jobs loaded", jobs)
}

func (h *Handler) InsertJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string    `json:"title" validate:"required,max=200"`
		Description string    `json:"description" validate:"required,max=5000"`
		Category    string    `json:"category" validate:"required,oneof=moving catering cleaning gardening other"`
		Location    string    `json:"location" validate:"required,max=200"`
		Payment     float64   `json:"payment" validate:"gte=0"`
		Duration    int32     `json:"duration" validate:"gte=1"`
		Date        time.Time `json:"date" validate:"required"`
		Status      string    `json:"status" validate:"omitempty,oneof=open assigned completed"`
		EmployerID  uuid.UUID `json:"employer_id"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	me := myProfileFrom(r)
	if !me.Identity().IsEmployer() {
		h.forbidden(w, r, "only employers can post jobs")
		return
	}
	if req.EmployerID != uuid.Nil && req.EmployerID != me.ID {
		h.forbidden(w, r, "jobs can only be posted for yourself")
		return
	}

	status := domain.JobStatus(req.Status)
	if status == "" {
		status = domain.JobStatusOpen
	}

	job := &domain.Job{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Location:    strings.TrimSpace(req.Location),
		Payment:     req.Payment,
		Duration:    req.Duration,
		Date:        req.Date,
		Status:      status,
		EmployerID:  me.ID,
	}

	if err := h.store.InsertJob(r.Context(), job); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	job.Employer = &domain.Employer{FullName: me.FullName}

	h.successResponse(w, r, http.StatusCreated, "job created", job)
}

func (h *Handler) UpdateJobs(w http.ResponseWriter, r *http.Request) {
	var patch domain.JobPatch

	if err := h.readJSON(r, &patch); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if patch.Status == nil && patch.WorkerID == nil {
		h.badRequest(w, r, errors.New("nothing to update"))
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		h.badRequest(w, r, errors.New("status must be one of open, assigned, completed"))
		return
	}

	// only the rows the caller posted are visible to the update
	sub, _ := callerID(r)
	q := queryFrom(r)
	q.Eq("employer_id", sub)

	jobs, err := h.store.UpdateJobs(r.Context(), q, &patch)
	if err != nil {
		var constraintErr *repository.ConstraintError
		switch {
		case errors.As(err, &constraintErr):
			h.errorResponse(w, r, http.StatusConflict, domain.CodeConflict, "worker does not exist")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	writeRows(h, w, r, http.StatusOK, "jobs updated", jobs)
}
