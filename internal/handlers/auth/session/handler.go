// internal/handlers/auth/session/handler.go
package session

import (
	"fmt"
	"net/http"

	"station-dashboard/internal/common/auth"
	"station-dashboard/internal/common/config"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
)

const Endpoint = "auth.session"

// Handler exposes the session lifecycle: Init after sign-in, Refresh on token
// rotation, SignOut on logout. Each reads the bearer token or the auth cookie.
type Handler struct {
	config    *Config
	lifecycle Lifecycle
	logger    logger.Logger
	errs      *apperrors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Lifecycle    Lifecycle
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for session: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config:    cfg,
		lifecycle: opts.Lifecycle,
		logger:    log,
		errs:      apperrors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := auth.TokenFromRequest(r, h.config.CookieName)
	if raw == "" {
		h.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("missing access token"))
		return "", false
	}
	return raw, true
}

func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.token(w, r)
	if !ok {
		return
	}
	sess, err := h.lifecycle.Init(r.Context(), raw)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}
	h.logger.Info("Session initialised", map[string]interface{}{
		"userId":  sess.Identity.UserID,
		"isAdmin": sess.Identity.IsAdmin,
		"role":    sess.Identity.Role,
	})
	httpx.WriteJSON(w, http.StatusOK, toOutput(sess))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.token(w, r)
	if !ok {
		return
	}
	sess, err := h.lifecycle.Refresh(r.Context(), raw)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOutput(sess))
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.token(w, r)
	if !ok {
		return
	}
	if err := h.lifecycle.SignOut(r.Context(), raw); err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	httpx.WriteJSON(w, http.StatusOK, SignOutOutput{Success: true})
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	cfg := DefaultConfig()
	if appConfig != nil && appConfig.Auth.CookieName != "" {
		cfg.CookieName = appConfig.Auth.CookieName
	}
	return cfg
}
