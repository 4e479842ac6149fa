package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

func (h *Handler) SelectApplications(w http.ResponseWriter, r *http.Request) {
	sub, _ := callerID(r)
	q := queryFrom(r)
	q.Viewer = sub

	applications, err := h.store.SelectApplications(r.Context(), q)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	writeRows(h, w, r, http.StatusOK, "applications loaded", applications)
}

func (h *Handler) InsertApplication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobID    uuid.UUID  `json:"job_id" validate:"required"`
		WorkerID *uuid.UUID `json:"worker_id"`
		Message  string     `json:"message" validate:"max=1000"`
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
	if req.WorkerID != nil && *req.WorkerID != me.ID {
		h.forbidden(w, r, "applications can only be made for yourself")
		return
	}

	job, err := h.store.GetJob(r.Context(), req.JobID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "job not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if job.EmployerID == me.ID {
		h.forbidden(w, r, "you cannot apply for your own job")
		return
	}
	if job.Status != domain.JobStatusOpen {
		h.errorResponse(w, r, http.StatusConflict, domain.CodeConflict, "job is no longer open")
		return
	}

	employer, err := h.store.GetProfile(r.Context(), job.EmployerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	application := &domain.Application{
		ID:              uuid.New(),
		JobID:           job.ID,
		WorkerID:        me.ID,
		Status:          domain.ApplicationStatusPending,
		Message:         strings.TrimSpace(req.Message),
		ProfileSnapshot: me,
	}
	notice := &domain.Notification{
		ID:      uuid.New(),
		UserID:  employer.ID,
		Type:    domain.NotificationNewApplication,
		Message: fmt.Sprintf("%s applied for your job %q", me.FullName, job.Title),
	}

	if err := h.store.InsertApplication(r.Context(), application, notice); err != nil {
		var constraintErr *repository.ConstraintError
		switch {
		case errors.As(err, &constraintErr) && constraintErr.Constraint == domain.ApplicationUniqueConstraint:
			h.errorResponse(w, r, http.StatusConflict, domain.CodeDuplicateApplication, domain.ErrDuplicateApplication.Error())
		case errors.As(err, &constraintErr):
			h.notFound(w, r, "job not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.publish(r, domain.Event{
		Type: domain.EventNewApplication,
		To:   employer.Email,
		Data: domain.NewApplicationEventData{
			EmployerName:  employer.FullName,
			ApplicantName: me.FullName,
			JobTitle:      job.Title,
			Message:       application.Message,
		},
	})

	h.successResponse(w, r, http.StatusCreated, "application submitted", application)
}

// UpdateApplications lets the owner of the job accept or reject one application.
func (h *Handler) UpdateApplications(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.ApplicationStatus `json:"status" validate:"required,oneof=pending accepted rejected"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	q := queryFrom(r)
	value, ok := filterValue(q, "id")
	if !ok || len(q.Filters) != 1 {
		h.badRequest(w, r, errors.New("applications are updated one at a time, filtered by id"))
		return
	}
	id := value.(uuid.UUID)

	application, err := h.store.GetApplication(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeRows(h, w, r, http.StatusOK, "no application updated", []*domain.Application{})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	job, err := h.store.GetJob(r.Context(), application.JobID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	sub, _ := callerID(r)
	if job.EmployerID != sub {
		h.forbidden(w, r, "only the employer who posted the job can review its applications")
		return
	}

	worker, err := h.store.GetProfile(r.Context(), application.WorkerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var notice *domain.Notification
	if req.Status != application.Status && req.Status != domain.ApplicationStatusPending {
		notice = &domain.Notification{
			ID:      uuid.New(),
			UserID:  worker.ID,
			Type:    domain.NotificationApplicationStatus,
			Message: fmt.Sprintf("Your application for %q was %s", job.Title, req.Status),
		}
	}

	updated, err := h.store.UpdateApplicationStatus(r.Context(), id, req.Status, notice)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if notice != nil {
		h.publish(r, domain.Event{
			Type: domain.EventApplicationStatus,
			To:   worker.Email,
			Data: domain.ApplicationStatusEventData{
				WorkerName: worker.FullName,
				JobTitle:   job.Title,
				Status:     string(req.Status),
			},
		})
	}

	writeRows(h, w, r, http.StatusOK, "application updated", []*domain.Application{updated})
}
