package view

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

// MaxAvatarSize matches the default upload limit of the backend.
const MaxAvatarSize = 5 << 20

type ProfileForm struct {
	FullName string
	Phone    string
	Bio      string
	Location string
	Skills   string // comma separated
}

// ParseSkills splits a comma separated list and drops empty entries.
func ParseSkills(s string) []string {
	skills := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}

type ProfileView struct {
	env *Env

	mu      sync.Mutex
	loading bool
	profile *domain.Profile
}

func NewProfileView(env *Env) *ProfileView {
	return &ProfileView{env: env, loading: true}
}

func (v *ProfileView) Mount(ctx context.Context) error {
	me := v.env.Session.Snapshot().Identity()
	if me == nil {
		return domain.ErrNotAuthenticated
	}

	profile, err := v.env.Profiles.Get(ctx, me.ID)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	v.mu.Lock()
	v.loading = false
	if err == nil {
		v.profile = profile
	}
	v.mu.Unlock()

	if err != nil {
		v.env.Toasts.Error("Failed to load profile")
		return err
	}
	return nil
}

func (v *ProfileView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

func (v *ProfileView) Profile() *domain.Profile {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.profile
}

// Form returns the edit form filled with the loaded profile.
func (v *ProfileView) Form() ProfileForm {
	p := v.Profile()
	if p == nil {
		return ProfileForm{}
	}
	return ProfileForm{
		FullName: p.FullName,
		Phone:    p.Phone,
		Bio:      p.Bio,
		Location: p.Location,
		Skills:   strings.Join(p.Skills, ", "),
	}
}

// changes returns a patch with the fields of form that differ from p.
func changes(p *domain.Profile, form ProfileForm) domain.ProfilePatch {
	var patch domain.ProfilePatch
	set := func(dst **string, old, value string) {
		value = strings.TrimSpace(value)
		if value != old {
			*dst = &value
		}
	}
	set(&patch.FullName, p.FullName, form.FullName)
	set(&patch.Phone, p.Phone, form.Phone)
	set(&patch.Bio, p.Bio, form.Bio)
	set(&patch.Location, p.Location, form.Location)

	if skills := ParseSkills(form.Skills); !slices.Equal(skills, p.Skills) {
		patch.Skills = &skills
	}
	return patch
}

// Save sends only the fields that changed and keeps the profile the backend returns.
func (v *ProfileView) Save(ctx context.Context, form ProfileForm) error {
	current := v.Profile()
	if current == nil {
		return domain.ErrNotFound
	}

	patch := changes(current, form)
	if patch.Empty() {
		v.env.Toasts.Info("Nothing to update")
		return nil
	}
	return v.update(ctx, patch, "Profile updated successfully", "Failed to update profile")
}

func (v *ProfileView) update(ctx context.Context, patch domain.ProfilePatch, success, failure string) error {
	current := v.Profile()

	updated, err := v.env.Profiles.Update(ctx, current.ID, patch)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		v.env.Toasts.Error(failure)
		return err
	}

	v.mu.Lock()
	v.profile = updated
	v.mu.Unlock()

	v.env.Session.SetProfile(updated)
	v.env.Toasts.Success(success)
	return nil
}

// UploadAvatar stores the image and points the profile at it.
func (v *ProfileView) UploadAvatar(ctx context.Context, filename string, r io.Reader) error {
	current := v.Profile()
	if current == nil {
		return domain.ErrNotFound
	}

	data, err := readAll(r, MaxAvatarSize+1)
	if err != nil {
		v.env.Toasts.Error("Failed to update profile picture")
		return err
	}
	if len(data) > MaxAvatarSize {
		v.env.Toasts.Error("Profile picture must be 5 MB or less")
		return errAvatarTooLarge
	}

	url, err := v.env.Storage.UploadAvatar(ctx, current.ID, filename, data)
	if err != nil {
		v.env.Toasts.Error("Failed to update profile picture")
		return err
	}

	return v.update(ctx, domain.ProfilePatch{AvatarURL: &url}, "Profile picture updated", "Failed to update profile picture")
}
