package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleWorker   Role = "worker"
	RoleEmployer Role = "employer"
)

func (r Role) Valid() bool {
	return r == RoleWorker || r == RoleEmployer
}

// Identity is the signed-in caller as the client sees it.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
	Phone    string    `json:"phone"`
	Role     Role      `json:"role"`
}

func (i *Identity) IsEmployer() bool {
	return i != nil && i.Role == RoleEmployer
}

type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      Role      `json:"role"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location"`
	Skills    []string  `json:"skills"`
	Rating    *float64  `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Profile) Identity() *Identity {
	return &Identity{
		ID:       p.ID,
		Email:    p.Email,
		FullName: p.FullName,
		Phone:    p.Phone,
		Role:     p.Role,
	}
}

// ProfilePatch carries the owner-writable fields; nil means unchanged.
type ProfilePatch struct {
	FullName  *string   `json:"full_name,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Location  *string   `json:"location,omitempty"`
	Skills    *[]string `json:"skills,omitempty"`
}

func (p *ProfilePatch) Empty() bool {
	return p.FullName == nil && p.Phone == nil && p.AvatarURL == nil && p.Bio == nil && p.Location == nil && p.Skills == nil
}

func (p *ProfilePatch) Apply(profile *Profile) {
	if p.FullName != nil {
		profile.FullName = *p.FullName
	}
	if p.Phone != nil {
		profile.Phone = *p.Phone
	}
	if p.AvatarURL != nil {
		profile.AvatarURL = *p.AvatarURL
	}
	if p.Bio != nil {
		profile.Bio = *p.Bio
	}
	if p.Location != nil {
		profile.Location = *p.Location
	}
	if p.Skills != nil {
		profile.Skills = append([]string(nil), (*p.Skills)...)
	}
}
