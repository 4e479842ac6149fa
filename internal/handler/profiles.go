package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

func (h *Handler) SelectProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.SelectProfiles(r.Context(), queryFrom(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// contact details are only visible to their owner; employers see applicants
	// through the snapshot on the application
	sub, _ := callerID(r)
	for _, p := range profiles {
		if p.ID != sub {
			p.Email = ""
			p.Phone = ""
		}
	}

	writeRows(h, w, r, http.StatusOK, "profiles loaded", profiles)
}

func (h *Handler) InsertProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        uuid.UUID `json:"id" validate:"required"`
		Email     string    `json:"email" validate:"omitempty,email"`
		FullName  string    `json:"full_name" validate:"required,max=100"`
		Phone     string    `json:"phone" validate:"max=30"`
		Role      string    `json:"role" validate:"required,oneof=worker employer"`
		AvatarURL string    `json:"avatar_url" validate:"omitempty,url"`
		Bio       string    `json:"bio" validate:"max=2000"`
		Location  string    `json:"location" validate:"max=200"`
		Skills    []string  `json:"skills" validate:"max=50,dive,max=50"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	sub, _ := callerID(r)
	if req.ID != sub {
		h.forbidden(w, r, "a profile can only be created for yourself")
		return
	}

	claims := r.Context().Value(ClaimsCtxKey).(*AuthClaims)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		email = claims.Email
	}
	if email != claims.Email {
		h.badRequest(w, r, errors.New("profile email must match the account email"))
		return
	}

	profile := &domain.Profile{
		ID:        sub,
		Email:     email,
		FullName:  strings.TrimSpace(req.FullName),
		Phone:     req.Phone,
		Role:      domain.Role(req.Role),
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
		Location:  req.Location,
		Skills:    cleanSkills(req.Skills),
	}

	if err := h.store.InsertProfile(r.Context(), profile); err != nil {
		var constraintErr *repository.ConstraintError
		switch {
		case errors.As(err, &constraintErr):
			h.errorResponse(w, r, http.StatusConflict, domain.CodeConflict, "profile already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, http.StatusCreated, "profile created", profile)
}

func (h *Handler) UpdateProfiles(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch

	if err := h.readJSON(r, &patch); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if patch.Empty() {
		h.badRequest(w, r, errors.New("nothing to update"))
		return
	}
	if patch.FullName != nil {
		name := strings.TrimSpace(*patch.FullName)
		if name == "" {
			h.badRequest(w, r, errors.New("full_name must not be empty"))
			return
		}
		patch.FullName = &name
	}
	if patch.Skills != nil {
		skills := cleanSkills(*patch.Skills)
		patch.Skills = &skills
	}

	sub, _ := callerID(r)
	q := queryFrom(r)
	if id, ok := filterValue(q, "id"); !ok || id != sub || len(q.Filters) != 1 {
		h.forbidden(w, r, "profiles can only be updated by their owner, filtered by id")
		return
	}

	profile, err := h.store.UpdateProfile(r.Context(), sub, &patch)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeRows(h, w, r, http.StatusOK, "no profile updated", []*domain.Profile{})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	writeRows(h, w, r, http.StatusOK, "profile updated", []*domain.Profile{profile})
}

// cleanSkills trims entries and drops the empty ones a trailing comma leaves behind.
func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
