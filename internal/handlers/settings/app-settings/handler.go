// internal/handlers/settings/app-settings/handler.go
package appsettings

import (
	"fmt"
	"net/http"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"station-dashboard/internal/common/auth"
	"station-dashboard/internal/common/config"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/models"
)

const Endpoint = "settings"

const listCacheKey = "\x00all"

type Handler struct {
	config  *Config
	store   Store
	auditor Auditor
	cache   *gocache.Cache
	logger  logger.Logger
	errs    *apperrors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Store        Store
	Auditor      Auditor
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for app-settings: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config:  cfg,
		store:   opts.Store,
		auditor: opts.Auditor,
		cache:   gocache.New(cfg.CacheTTL, cfg.CleanupPeriod),
		logger:  log,
		errs:    apperrors.NewErrorHandler(log),
	}, nil
}

// Get returns one setting when ?key= is given, otherwise every setting ordered by key.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		h.list(w, r)
		return
	}

	if err := ValidateKey(key, h.config.MaxKeyLength); err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	if cached, ok := h.cache.Get(key); ok {
		httpx.WriteJSON(w, http.StatusOK, cached)
		return
	}

	setting, err := h.store.Get(r.Context(), key)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, NotFoundOutput{Key: key, Value: nil})
			return
		}
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	h.cache.SetDefault(key, setting)
	httpx.WriteJSON(w, http.StatusOK, setting)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(listCacheKey); ok {
		httpx.WriteJSON(w, http.StatusOK, cached)
		return
	}

	settings, err := h.store.List(r.Context())
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	h.cache.SetDefault(listCacheKey, settings)
	httpx.WriteJSON(w, http.StatusOK, settings)
}

// Post upserts a setting and returns the stored row.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadBody(r, h.config.MaxBodyBytes)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	input, err := ParseInput(body, h.config.MaxKeyLength)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	setting, err := h.store.Upsert(r.Context(), input.Key, input.Value)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	h.cache.Delete(input.Key)
	h.cache.Delete(listCacheKey)

	adminID := ""
	if id := auth.IdentityFrom(r.Context()); id != nil {
		adminID = id.UserID
	}
	if h.auditor != nil {
		h.auditor.Record(r.Context(), models.AuditEntry{
			AdminID:     adminID,
			ActionType:  models.AuditUpdateSetting,
			TargetTable: "app_settings",
			TargetID:    input.Key,
			Details:     map[string]interface{}{"value": string(input.Value)},
		})
	}

	h.logger.Info("Setting updated", map[string]interface{}{
		"key":     input.Key,
		"adminId": adminID,
	})
	httpx.WriteJSON(w, http.StatusOK, setting)
}

func createConfigFromAppConfig(appConfig *config.Config, custom *Config) *Config {
	if custom != nil {
		return custom
	}
	cfg := DefaultConfig()
	if appConfig != nil && appConfig.Settings.CacheTTL > 0 {
		cfg.CacheTTL = config.GetDuration(appConfig.Settings.CacheTTL)
	}
	return cfg
}
