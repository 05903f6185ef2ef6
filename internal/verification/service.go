package verification

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/metrics"
	"station-dashboard/internal/models"
)

type ManagerStore interface {
	Get(ctx context.Context, id string) (*models.ManagerProfile, error)
	SubmitPhoto(ctx context.Context, id, photoURL string) (bool, error)
	TransitionStatus(ctx context.Context, id string, from, to models.VerificationStatus) (bool, error)
	ListPending(ctx context.Context) ([]models.PendingVerification, error)
}

type PhotoStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type Auditor interface {
	Record(ctx context.Context, entry models.AuditEntry)
}

// Photo is an uploaded evidence image.
type Photo struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StatusView is what the client polls while waiting for review.
type StatusView struct {
	Status              models.VerificationStatus `json:"status"`
	PhotoURL            *string                   `json:"photoUrl"`
	DashboardAccess     bool                      `json:"dashboardAccess"`
	PollIntervalSeconds int                       `json:"pollIntervalSeconds"`
}

type Config struct {
	ObjectPrefix        string
	PollIntervalSeconds int
}

type Service struct {
	managers ManagerStore
	photos   PhotoStore
	auditor  Auditor
	config   Config
	logger   logger.Logger
	newID    func() string
}

func NewService(managers ManagerStore, photos PhotoStore, auditor Auditor, cfg Config, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cfg.ObjectPrefix == "" {
		cfg.ObjectPrefix = "verifications"
	}
	return &Service{
		managers: managers,
		photos:   photos,
		auditor:  auditor,
		config:   cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "verification"}),
		newID:    func() string { return uuid.New().String() },
	}
}

func (s *Service) view(m *models.ManagerProfile) *StatusView {
	return &StatusView{
		Status:              m.VerificationStatus,
		PhotoURL:            m.VerificationPhotoURL,
		DashboardAccess:     AllowsDashboard(m.VerificationStatus),
		PollIntervalSeconds: s.config.PollIntervalSeconds,
	}
}

func (s *Service) Status(ctx context.Context, managerID string) (*StatusView, error) {
	m, err := s.managers.Get(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return s.view(m), nil
}

// RequireVerified returns VERIFICATION_REQUIRED with the current status unless the manager is verified.
func (s *Service) RequireVerified(ctx context.Context, managerID string) (*models.ManagerProfile, error) {
	m, err := s.managers.Get(ctx, managerID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			return nil, apperrors.NewVerificationRequiredError(string(models.VerificationNone))
		}
		return nil, err
	}
	if !AllowsDashboard(m.VerificationStatus) {
		return nil, apperrors.NewVerificationRequiredError(string(m.VerificationStatus))
	}
	return m, nil
}

// ObjectKey is <prefix>/<managerID>-<random>.<ext>.
func (s *Service) ObjectKey(managerID string, photo Photo) string {
	return path.Join(s.config.ObjectPrefix, fmt.Sprintf("%s-%s.%s", managerID, s.newID(), Extension(photo.ContentType, photo.Filename)))
}

// UploadPhoto stores the image and moves the manager to pending. On any failure the
// stored status is left as it was.
func (s *Service) UploadPhoto(ctx context.Context, managerID string, photo Photo) (*StatusView, error) {
	m, err := s.managers.Get(ctx, managerID)
	if err != nil {
		return nil, err
	}

	from := m.VerificationStatus
	to, err := Next(from, EventUpload)
	if err != nil {
		return nil, err
	}

	key := s.ObjectKey(managerID, photo)
	url, err := s.photos.Put(ctx, key, photo.ContentType, photo.Body, photo.Size)
	if err != nil {
		s.logger.Error("Verification photo upload failed", map[string]interface{}{
			"managerId": managerID,
			"key":       key,
			"error":     err.Error(),
		})
		return nil, apperrors.NewExternalServiceError("object storage", err)
	}

	ok, err := s.managers.SubmitPhoto(ctx, managerID, url)
	if err != nil {
		return nil, err
	}
	if !ok {
		// the profile was verified between the read and the write
		return nil, apperrors.NewTransitionNotAllowedError(string(models.VerificationVerified), string(EventUpload))
	}

	metrics.VerificationTransitions.WithLabelValues(string(from), string(to)).Inc()
	s.logger.Info("Verification photo submitted", map[string]interface{}{
		"managerId": managerID,
		"from":      from,
		"to":        to,
	})

	m.VerificationStatus = to
	m.VerificationPhotoURL = &url
	return s.view(m), nil
}

// Review applies an admin decision to a pending manager and records it in the audit log.
func (s *Service) Review(ctx context.Context, adminID, managerID string, event Event) (*StatusView, error) {
	if event != EventApprove && event != EventReject {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Unknown decision %q", event))
	}

	m, err := s.managers.Get(ctx, managerID)
	if err != nil {
		return nil, err
	}

	from := m.VerificationStatus
	to, err := Next(from, event)
	if err != nil {
		return nil, err
	}

	ok, err := s.managers.TransitionStatus(ctx, managerID, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, getErr := s.managers.Get(ctx, managerID)
		if getErr != nil {
			return nil, getErr
		}
		return nil, apperrors.NewTransitionNotAllowedError(string(current.VerificationStatus), string(event))
	}

	metrics.VerificationTransitions.WithLabelValues(string(from), string(to)).Inc()
	s.logger.Info("Verification reviewed", map[string]interface{}{
		"managerId": managerID,
		"adminId":   adminID,
		"from":      from,
		"to":        to,
	})

	action := models.AuditApproveManager
	if event == EventReject {
		action = models.AuditRejectManager
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, models.AuditEntry{
			AdminID:     adminID,
			ActionType:  action,
			TargetTable: "manager_profiles",
			TargetID:    managerID,
			Details:     map[string]interface{}{"from": string(from), "to": string(to)},
		})
	}

	m.VerificationStatus = to
	return s.view(m), nil
}

func (s *Service) ListPending(ctx context.Context) ([]models.PendingVerification, error) {
	return s.managers.ListPending(ctx)
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/heic": "heic",
}

// Extension picks the object extension from the content type, then the filename.
func Extension(contentType, filename string) string {
	if ext, ok := extensions[strings.ToLower(contentType)]; ok {
		return ext
	}
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."); ext != "" {
		return ext
	}
	return "bin"
}
