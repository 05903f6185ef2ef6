// internal/handlers/managers/register-station/handler.go
package registerstation

import (
	"fmt"
	"net/http"

	"station-dashboard/internal/common/auth"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/validation"
	"station-dashboard/internal/models"
)

const Endpoint = "managers.register"

type Handler struct {
	config    *Config
	managers  ManagerStore
	stations  StationStore
	validator *validation.Validator
	logger    logger.Logger
	errs      *apperrors.ErrorHandler
}

type HandlerOptions struct {
	Managers     ManagerStore
	Stations     StationStore
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for register-station: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config:    cfg,
		managers:  opts.Managers,
		stations:  opts.Stations,
		validator: validation.MustCompile(GetInputSchema()),
		logger:    log,
		errs:      apperrors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if identity == nil {
		h.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("no session"))
		return
	}

	body, err := httpx.ReadBody(r, h.config.MaxBodyBytes)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	var input Input
	if err := h.validator.Decode(body, &input); err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}
	input.normalize()
	if err := input.validate(h.config); err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	station, err := h.stations.Get(r.Context(), input.StationID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			err = apperrors.NewValidationError("Unknown station")
		}
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	profile, ok, err := h.managers.Register(r.Context(), &models.ManagerProfile{
		ID:          identity.UserID,
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		StationID:   station.ID,
	})
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}
	if !ok {
		h.errs.HandleHTTPError(w, r,
			apperrors.NewTransitionNotAllowedError(string(models.VerificationVerified), "register station"))
		return
	}

	h.logger.Info("Manager registered", map[string]interface{}{
		"managerId": profile.ID,
		"stationId": station.ID,
		"status":    profile.VerificationStatus,
	})
	httpx.WriteJSON(w, http.StatusOK, Output{Profile: profile, Station: station})
}
