package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

const profileColumns = `
	id, email, full_name, COALESCE(phone, ''), role, COALESCE(avatar_url, ''), COALESCE(bio, ''),
	COALESCE(location, ''), skills, rating::float8, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	profile := &domain.Profile{}
	var skills []byte

	dst := []any{&profile.ID, &profile.Email, &profile.FullName, &profile.Phone, &profile.Role, &profile.AvatarURL, &profile.Bio, &profile.Location, &skills, &profile.Rating, &profile.CreatedAt}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	profile.Skills = make([]string, 0)
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &profile.Skills); err != nil {
			return nil, fmt.Errorf("decode skills of profile %s: %w", profile.ID, err)
		}
	}

	return profile, nil
}

func (r *Repository) SelectProfiles(ctx context.Context, q *Query) ([]*domain.Profile, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	where, args := whereClause(q, "", 1)
	query := "SELECT " + profileColumns + " FROM profiles" + where + orderClause(q, "", "created_at") + limitClause(q)

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := "SELECT " + profileColumns + " FROM profiles WHERE id = $1"

	return scanProfile(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) InsertProfile(ctx context.Context, profile *domain.Profile) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if profile.Skills == nil {
		profile.Skills = make([]string, 0)
	}
	skills, err := json.Marshal(profile.Skills)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (id, email, full_name, phone, role, avatar_url, bio, location, skills)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9::jsonb)
		RETURNING rating::float8, created_at
	`

	args := []any{profile.ID, profile.Email, profile.FullName, profile.Phone, profile.Role, profile.AvatarURL, profile.Bio, profile.Location, string(skills)}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&profile.Rating, &profile.CreatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

// UpdateProfile applies patch to the profile with the given id and returns the
// stored result. It returns sql.ErrNoRows when the profile does not exist.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, patch *domain.ProfilePatch) (*domain.Profile, error) {
	if patch.Empty() {
		return r.GetProfile(ctx, id)
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.FullName != nil {
		set("full_name", *patch.FullName)
	}
	if patch.Phone != nil {
		set("phone", sql.NullString{String: *patch.Phone, Valid: *patch.Phone != ""})
	}
	if patch.AvatarURL != nil {
		set("avatar_url", sql.NullString{String: *patch.AvatarURL, Valid: *patch.AvatarURL != ""})
	}
	if patch.Bio != nil {
		set("bio", sql.NullString{String: *patch.Bio, Valid: *patch.Bio != ""})
	}
	if patch.Location != nil {
		set("location", sql.NullString{String: *patch.Location, Valid: *patch.Location != ""})
	}
	if patch.Skills != nil {
		skills := *patch.Skills
		if skills == nil {
			skills = make([]string, 0)
		}
		b, err := json.Marshal(skills)
		if err != nil {
			return nil, err
		}
		args = append(args, string(b))
		sets = append(sets, fmt.Sprintf("skills = $%d::jsonb", len(args)))
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE profiles SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), profileColumns)

	return scanProfile(r.dbpool.QueryRowContext(ctx, query, args...))
}
