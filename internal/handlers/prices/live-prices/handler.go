// internal/handlers/prices/live-prices/handler.go
package liveprices

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "station-dashboard/internal/common/errors"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/realtime"
)

const Endpoint = "prices.live"

// Handler streams official price changes as server-sent events. An optional
// ?state= filter keeps only events for that state, case-insensitively.
type Handler struct {
	config *Config
	hub    Broadcaster
	logger logger.Logger
	errs   *apperrors.ErrorHandler
}

type HandlerOptions struct {
	Hub          Broadcaster
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for live-prices: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		config: cfg,
		hub:    opts.Hub,
		logger: log,
		errs:   apperrors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.errs.HandleHTTPError(w, r, apperrors.NewInternalError(fmt.Errorf("streaming unsupported")))
		return
	}

	state := strings.TrimSpace(r.URL.Query().Get("state"))

	// the stream outlives the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	events, unregister := h.hub.Register()
	defer unregister()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: %d\n\n", h.config.RetryAfter.Milliseconds())
	flusher.Flush()

	heartbeat := time.NewTicker(h.config.Heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case change, open := <-events:
			if !open {
				return
			}
			if state != "" && !strings.EqualFold(change.Record.State, state) {
				continue
			}
			if err := writeEvent(w, change); err != nil {
				h.logger.Debug("Live price client gone", map[string]interface{}{"error": err.Error()})
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, change realtime.PriceChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", strings.ToLower(change.Type), data)
	return err
}
