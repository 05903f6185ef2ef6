// internal/handlers/communication/broadcast-email/handler.go
package broadcastemail

import (
	"context"
	"fmt"
	"net/http"

	"station-dashboard/internal/broadcast"
	"station-dashboard/internal/common/auth"
	"station-dashboard/internal/common/config"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/common/observability"
	"station-dashboard/internal/common/validation"
	"station-dashboard/internal/models"
)

const Endpoint = "broadcast.email"

type Handler struct {
	config      *Config
	logger      logger.Logger
	errs        *apperrors.ErrorHandler
	validator   *validation.Validator
	obs         *observability.Observability
	broadcaster Broadcaster
	auditor     Auditor
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Broadcaster   Broadcaster
	Auditor       Auditor
	Observability *observability.Observability
	CustomConfig  *Config
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for broadcast-email: %w", err)
	}
	if opts.Broadcaster == nil {
		return nil, fmt.Errorf("broadcast-email requires a broadcaster")
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
		config:      cfg,
		logger:      log,
		errs:        apperrors.NewErrorHandler(log),
		validator:   validation.MustCompile(GetInputSchema()),
		obs:         obs,
		broadcaster: opts.Broadcaster,
		auditor:     opts.Auditor,
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

	input, err := h.decode(body)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	// Sends already issued must finish even if the admin closes the page.
	ctx := context.WithoutCancel(r.Context())

	result, err := h.broadcaster.Broadcast(ctx, input.Recipients, input.Subject, input.Message)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	h.obs.RecordDeliveries(ctx, "email", result.Sent, result.Failed)

	adminID := ""
	if id := auth.IdentityFrom(ctx); id != nil {
		adminID = id.UserID
	}
	if h.auditor != nil {
		h.auditor.Record(ctx, models.AuditEntry{
			AdminID:     adminID,
			ActionType:  models.AuditBroadcastEmail,
			TargetTable: "email",
			Details: map[string]interface{}{
				"subject":    input.Subject,
				"recipients": len(input.Recipients),
				"sent":       result.Sent,
				"failed":     result.Failed,
				"dropped":    result.Dropped,
			},
		})
	}

	httpx.WriteJSON(w, http.StatusOK, Output{
		Success: true,
		Sent:    result.Sent,
		Failed:  result.Failed,
		Message: result.Message,
	})
}

// decode keeps every recipient entry. A non-string email becomes "" and is counted failed by
// the dispatcher; a non-string name is treated as absent by the greeting.
func (h *Handler) decode(body []byte) (*Input, error) {
	var raw struct {
		Recipients []interface{} `json:"recipients"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := h.validator.Decode(body, &raw); err != nil {
		return nil, err
	}

	input := &Input{
		Recipients: make([]broadcast.Recipient, 0, len(raw.Recipients)),
		Subject:    raw.Subject,
		Message:    raw.Message,
	}
	for _, item := range raw.Recipients {
		rc, _ := item.(map[string]interface{})
		email, _ := rc["email"].(string)
		name, _ := rc["name"].(string)
		input.Recipients = append(input.Recipients, broadcast.Recipient{Email: email, Name: name})
	}
	return input, nil
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	return DefaultConfig()
}
