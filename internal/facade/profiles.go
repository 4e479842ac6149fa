package facade

import (
	"context"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
	"github.com/gigboard-dev/gigboard/internal/repository"
)

type Profiles struct {
	c Client
}

// Get fails with domain.ErrNotFound when the user has no profile row.
func (p *Profiles) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	err := p.c.From(repository.TableProfiles).
		Eq("id", userID).
		Single().
		Execute(ctx, &profile)
	if err != nil {
		return nil, translate("get profile", err)
	}
	return &profile, nil
}

// Create inserts the profile row of the signed-in user.
func (p *Profiles) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if _, err := caller(p.c); err != nil {
		return nil, err
	}

	row := struct {
		ID        uuid.UUID   `json:"id"`
		Email     string      `json:"email,omitempty"`
		FullName  string      `json:"full_name"`
		Phone     string      `json:"phone,omitempty"`
		Role      domain.Role `json:"role"`
		AvatarURL string      `json:"avatar_url,omitempty"`
		Bio       string      `json:"bio,omitempty"`
		Location  string      `json:"location,omitempty"`
		Skills    []string    `json:"skills,omitempty"`
	}{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Phone:     profile.Phone,
		Role:      profile.Role,
		AvatarURL: profile.AvatarURL,
		Bio:       profile.Bio,
		Location:  profile.Location,
		Skills:    profile.Skills,
	}

	var created domain.Profile
	if err := p.c.From(repository.TableProfiles).Insert(ctx, row, &created); err != nil {
		return nil, translate("create profile", err)
	}
	return &created, nil
}

// Update writes the set fields of patch and returns the merged profile. There is
// no concurrency check, the last write wins.
func (p *Profiles) Update(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (*domain.Profile, error) {
	if _, err := caller(p.c); err != nil {
		return nil, err
	}

	var profile domain.Profile
	err := p.c.From(repository.TableProfiles).
		Eq("id", userID).
		Single().
		Update(ctx, patch, &profile)
	if err != nil {
		return nil, translate("update profile", err)
	}
	return &profile, nil
}
