package models

import (
	"fmt"
	"time"
)

type VerificationStatus string

const (
	VerificationNone     VerificationStatus = "none"
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// ParseVerificationStatus treats an empty or NULL column as none.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch VerificationStatus(s) {
	case "", VerificationNone:
		return VerificationNone, nil
	case VerificationPending, VerificationVerified, VerificationRejected:
		return VerificationStatus(s), nil
	default:
		return "", fmt.Errorf("unknown verification status %q", s)
	}
}

type ManagerProfile struct {
	ID                   string             `json:"id" db:"id"`
	FullName             string             `json:"full_name" db:"full_name"`
	PhoneNumber          string             `json:"phone_number" db:"phone_number"`
	StationID            int64              `json:"station_id" db:"station_id"`
	VerificationStatus   VerificationStatus `json:"verification_status" db:"verification_status"`
	VerificationPhotoURL *string            `json:"verification_photo_url,omitempty" db:"verification_photo_url"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`
}

// PendingVerification is a manager awaiting review together with their station.
type PendingVerification struct {
	ManagerProfile
	StationName    *string `json:"station_name,omitempty"`
	StationAddress *string `json:"station_address,omitempty"`
	StationState   *string `json:"station_state,omitempty"`
}
