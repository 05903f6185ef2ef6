package repository

import (
	"context"
	"database/sql"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"

	"github.com/lib/pq"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// AllIDs returns every profile id.
func (r *ProfileRepository) AllIDs(ctx context.Context) ([]string, error) {
	return r.queryIDs(ctx, "select all profile ids", `SELECT id FROM profiles`)
}

// IDsIn returns the subset of ids that exist. Unknown or malformed ids are dropped.
func (r *ProfileRepository) IDsIn(ctx context.Context, ids []string) ([]string, error) {
	return r.queryIDs(ctx, "select profile ids by id",
		`SELECT id FROM profiles WHERE id::text = ANY($1)`, pq.Array(ids))
}

// IDsWithCityMatching returns profiles whose city matches any ILIKE pattern.
func (r *ProfileRepository) IDsWithCityMatching(ctx context.Context, patterns []string) ([]string, error) {
	return r.queryIDs(ctx, "select profile ids by city",
		`SELECT id FROM profiles WHERE city ILIKE ANY($1)`, pq.Array(patterns))
}

func (r *ProfileRepository) queryIDs(ctx context.Context, op, query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError(op, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewStorageError(op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(op, err)
	}
	return ids, nil
}

// Search matches term against name, email and phone number, case-insensitively.
func (r *ProfileRepository) Search(ctx context.Context, term string, limit int) ([]models.UserSummary, error) {
	const op = "search profiles"

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, email, city, state, avatar_url
		FROM profiles
		WHERE full_name ILIKE $1 OR email ILIKE $1 OR phone_number ILIKE $1
		LIMIT $2`, ContainsPattern(term), limit)
	if err != nil {
		return nil, apperrors.NewStorageError(op, err)
	}
	defer rows.Close()

	users := make([]models.UserSummary, 0)
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.City, &u.State, &u.AvatarURL); err != nil {
			return nil, apperrors.NewStorageError(op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(op, err)
	}
	return users, nil
}

// LoadIdentity reads the profile role and admin membership for userID.
// A user without a profile row still gets an identity with an empty role.
func (r *ProfileRepository) LoadIdentity(ctx context.Context, userID, email string) (*models.Identity, error) {
	var role sql.NullString
	var isAdmin bool

	err := r.db.QueryRowContext(ctx, `
		SELECT (SELECT role FROM profiles WHERE id = $1),
		       EXISTS (SELECT 1 FROM admin_users WHERE id = $1)`, userID).Scan(&role, &isAdmin)
	if err != nil {
		return nil, apperrors.NewStorageError("load identity", err)
	}

	return &models.Identity{
		UserID:  userID,
		Email:   email,
		Role:    models.Role(role.String),
		IsAdmin: isAdmin,
	}, nil
}
