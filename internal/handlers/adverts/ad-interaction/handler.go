// internal/handlers/adverts/ad-interaction/handler.go
package adinteraction

import (
	"fmt"
	"net/http"

	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
)

const Endpoint = "adverts.interaction"

type Handler struct {
	config *Config
	store  Store
	logger logger.Logger
	errs   *apperrors.ErrorHandler
}

type HandlerOptions struct {
	Store        Store
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for ad-interaction: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config: cfg,
		store:  opts.Store,
		logger: log,
		errs:   apperrors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadBody(r, h.config.MaxBodyBytes)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	input, err := parseInput(body, h.config.MaxEventTypeLen)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	if err := h.store.Insert(r.Context(), input.toEvent()); err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, Output{Success: true})
}
