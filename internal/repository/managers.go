package repository

import (
	"context"
	"database/sql"
	"errors"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/models"
)

type ManagerRepository struct {
	db *sql.DB
}

func NewManagerRepository(db *sql.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

const managerColumns = `id, COALESCE(full_name, ''), COALESCE(phone_number, ''), station_id,
	COALESCE(verification_status, ''), verification_photo_url, created_at`

func scanManager(row interface{ Scan(...interface{}) error }, m *models.ManagerProfile) error {
	var status string
	var stationID sql.NullInt64
	if err := row.Scan(&m.ID, &m.FullName, &m.PhoneNumber, &stationID, &status, &m.VerificationPhotoURL, &m.CreatedAt); err != nil {
		return err
	}
	parsed, err := models.ParseVerificationStatus(status)
	if err != nil {
		return err
	}
	m.StationID = stationID.Int64
	m.VerificationStatus = parsed
	return nil
}

// Get returns NOT_FOUND when the user has no manager profile.
func (r *ManagerRepository) Get(ctx context.Context, id string) (*models.ManagerProfile, error) {
	var m models.ManagerProfile
	row := r.db.QueryRowContext(ctx, `SELECT `+managerColumns+` FROM manager_profiles WHERE id = $1`, id)
	if err := scanManager(row, &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("manager profile", id)
		}
		return nil, apperrors.NewStorageError("get manager profile", err)
	}
	return &m, nil
}

// Register creates the profile with status none, or updates the contact details of an
// existing unverified profile without touching its status. It reports false when the
// profile exists and is already verified.
func (r *ManagerRepository) Register(ctx context.Context, m *models.ManagerProfile) (*models.ManagerProfile, bool, error) {
	var out models.ManagerProfile
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO manager_profiles (id, full_name, phone_number, station_id, verification_status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    phone_number = EXCLUDED.phone_number,
		    station_id = EXCLUDED.station_id
		WHERE manager_profiles.verification_status IS DISTINCT FROM 'verified'
		RETURNING `+managerColumns,
		m.ID, m.FullName, m.PhoneNumber, m.StationID, string(models.VerificationNone))
	if err := scanManager(row, &out); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, apperrors.NewStorageError("register manager profile", err)
	}
	return &out, true, nil
}

// SubmitPhoto records a new evidence photo and moves the profile to pending.
// It reports false when the profile is missing or already verified.
func (r *ManagerRepository) SubmitPhoto(ctx context.Context, id, photoURL string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE manager_profiles
		SET verification_photo_url = $2, verification_status = 'pending'
		WHERE id = $1 AND verification_status IS DISTINCT FROM 'verified'`, id, photoURL)
	if err != nil {
		return false, apperrors.NewStorageError("submit verification photo", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.NewStorageError("submit verification photo", err)
	}
	return n == 1, nil
}

// TransitionStatus moves a profile from one status to another. It reports false when the
// stored status was not from.
func (r *ManagerRepository) TransitionStatus(ctx context.Context, id string, from, to models.VerificationStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE manager_profiles SET verification_status = $3
		WHERE id = $1 AND verification_status = $2`, id, string(from), string(to))
	if err != nil {
		return false, apperrors.NewStorageError("update verification status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.NewStorageError("update verification status", err)
	}
	return n == 1, nil
}

// ListPending returns managers awaiting review, oldest first.
func (r *ManagerRepository) ListPending(ctx context.Context) ([]models.PendingVerification, error) {
	const op = "list pending verifications"

	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, COALESCE(m.full_name, ''), COALESCE(m.phone_number, ''), m.station_id,
		       COALESCE(m.verification_status, ''), m.verification_photo_url, m.created_at,
		       s.name, s.address, s.state
		FROM manager_profiles m
		LEFT JOIN stations s ON s.id = m.station_id
		WHERE m.verification_status = 'pending'
		ORDER BY m.created_at ASC`)
	if err != nil {
		return nil, apperrors.NewStorageError(op, err)
	}
	defer rows.Close()

	out := make([]models.PendingVerification, 0)
	for rows.Next() {
		var p models.PendingVerification
		var status string
		var stationID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.FullName, &p.PhoneNumber, &stationID, &status,
			&p.VerificationPhotoURL, &p.CreatedAt, &p.StationName, &p.StationAddress, &p.StationState); err != nil {
			return nil, apperrors.NewStorageError(op, err)
		}
		p.StationID = stationID.Int64
		p.VerificationStatus = models.VerificationStatus(status)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(op, err)
	}
	return out, nil
}
