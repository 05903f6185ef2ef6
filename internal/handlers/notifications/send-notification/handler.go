// internal/handlers/notifications/send-notification/handler.go
package sendnotification

import (
	"context"
	"fmt"
	"net/http"

	"station-dashboard/internal/common/auth"
	"station-dashboard/internal/common/config"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/observability"
	"station-dashboard/internal/common/validation"
)

const Endpoint = "notifications.send"

type Handler struct {
	config    *Config
	logger    logger.Logger
	errs      *apperrors.ErrorHandler
	validator *validation.Validator
	obs       *observability.Observability
	service   *Service
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Resolver      Resolver
	Dispatcher    Dispatcher
	Auditor       Auditor
	Observability *observability.Observability
	CustomConfig  *Config
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for send-notification: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	obs := opts.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}

	return &Handler{
		config:    cfg,
		logger:    log,
		errs:      apperrors.NewErrorHandler(log),
		validator: validation.MustCompile(GetInputSchema()),
		obs:       obs,
		service: NewService(ServiceDependencies{
			Resolver:   opts.Resolver,
			Dispatcher: opts.Dispatcher,
			Auditor:    opts.Auditor,
			Logger:     log,
		}),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.config.Enabled {
		h.errs.HandleHTTPError(w, r, apperrors.NewNotFoundError("endpoint", Endpoint))
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

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	adminID := ""
	if id := auth.IdentityFrom(ctx); id != nil {
		adminID = id.UserID
	}

	output, err := h.service.Execute(ctx, adminID, &input)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeStorage) {
			h.obs.RecordDeliveries(ctx, "notification", 0, 1)
		}
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	h.obs.RecordDeliveries(ctx, "notification", output.Count, 0)
	h.logger.Info("Send notification completed", map[string]interface{}{
		"adminId": adminID,
		"count":   output.Count,
	})
	httpx.WriteJSON(w, http.StatusOK, output)
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	cfg := DefaultConfig()
	if appConfig != nil && appConfig.Server.WriteTimeout > 0 {
		cfg.Timeout = config.GetDuration(appConfig.Server.WriteTimeout)
	}
	return cfg
}
