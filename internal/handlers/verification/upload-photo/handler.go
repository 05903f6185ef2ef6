// internal/handlers/verification/upload-photo/handler.go
package uploadphoto

import (
	"errors"
	"fmt"
	"net/http"

	"station-dashboard/internal/common/auth"
	"station-dashboard/internal/common/config"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
)

const Endpoint = "verification.photo"

type Handler struct {
	config   *Config
	uploader Uploader
	logger   logger.Logger
	errs     *apperrors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Uploader     Uploader
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for upload-photo: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config:   cfg,
		uploader: opts.Uploader,
		logger:   log,
		errs:     apperrors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if identity == nil {
		h.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("no session"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxPhotoBytes+h.config.FormOverhead)
	if err := r.ParseMultipartForm(h.config.MemoryLimit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errs.HandleHTTPError(w, r, apperrors.NewValidationError(
				fmt.Sprintf("Photo must be at most %d bytes", h.config.MaxPhotoBytes)))
			return
		}
		h.errs.HandleHTTPError(w, r, apperrors.NewValidationError("Request must be multipart/form-data"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(h.config.FieldName)
	if err != nil {
		h.errs.HandleHTTPError(w, r, apperrors.NewValidationError(
			fmt.Sprintf("Missing %q file field", h.config.FieldName)))
		return
	}
	defer file.Close()

	photo, err := photoFromPart(h.config, file, header)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	view, err := h.uploader.UploadPhoto(r.Context(), identity.UserID, photo)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	h.logger.Info("Verification photo accepted", map[string]interface{}{
		"managerId":   identity.UserID,
		"contentType": photo.ContentType,
		"size":        photo.Size,
	})
	httpx.WriteJSON(w, http.StatusOK, view)
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	cfg := DefaultConfig()
	if appConfig != nil && appConfig.Verification.MaxPhotoBytes > 0 {
		cfg.MaxPhotoBytes = appConfig.Verification.MaxPhotoBytes
	}
	return cfg
}
