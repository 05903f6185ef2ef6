// internal/handlers/users/search-users/handler.go
package searchusers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/validation"
)

const Endpoint = "users.search"

type Handler struct {
	config    *Config
	directory Directory
	logger    logger.Logger
	errs      *apperrors.ErrorHandler
	schema    validation.JSONSchema
}

type HandlerOptions struct {
	Directory    Directory
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for search-users: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config:    cfg,
		directory: opts.Directory,
		logger:    log,
		errs:      apperrors.NewErrorHandler(log),
		schema:    GetInputSchema(cfg),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	input := Input{Query: strings.TrimSpace(r.URL.Query().Get("q"))}

	if input.Query == "" {
		httpx.WriteJSON(w, http.StatusOK, Output{})
		return
	}

	if res := validation.ValidateInput(map[string]interface{}{"q": input.Query}, h.schema); !res.Valid {
		h.errs.HandleHTTPError(w, r, apperrors.NewValidationError(res.Summary()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	users, err := h.directory.Search(ctx, input.Query, h.config.Limit)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	h.logger.Debug("User search", map[string]interface{}{
		"term":    input.Query,
		"matches": len(users),
	})
	httpx.WriteJSON(w, http.StatusOK, Output(users))
}
