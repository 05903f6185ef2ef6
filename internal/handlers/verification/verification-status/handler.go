// internal/handlers/verification/verification-status/handler.go
package verificationstatus

import (
	"fmt"
	"net/http"
	"strconv"

	"station-dashboard/internal/common/auth"
	"station-dashboard/internal/common/config"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/models"
)

const Endpoint = "verification.status"

type Handler struct {
	config *Config
	reader StatusReader
	logger logger.Logger
	errs   *apperrors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Reader       StatusReader
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for verification-status: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config: cfg,
		reader: opts.Reader,
		logger: log,
		errs:   apperrors.NewErrorHandler(log),
	}, nil
}

// ServeHTTP answers the client's poll. A manager without a profile yet reports none.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if identity == nil {
		h.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("no session"))
		return
	}

	view, err := h.reader.Status(r.Context(), identity.UserID)
	if err != nil {
		if !apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			h.errs.HandleHTTPError(w, r, err)
			return
		}
		view = &Output{
			Status:              models.VerificationNone,
			PollIntervalSeconds: h.config.PollIntervalSeconds,
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	if view.PollIntervalSeconds > 0 && !view.DashboardAccess {
		w.Header().Set("Retry-After", strconv.Itoa(view.PollIntervalSeconds))
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	cfg := DefaultConfig()
	if appConfig != nil && appConfig.Verification.PollIntervalSeconds > 0 {
		cfg.PollIntervalSeconds = appConfig.Verification.PollIntervalSeconds
	}
	return cfg
}
