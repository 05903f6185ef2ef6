package managerstation

import (
	"net/http"

	"station-dashboard/internal/common/auth"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
)

const Endpoint = "manager.station"

type Handler struct {
	managers ManagerStore
	stations StationStore
	errs     *apperrors.ErrorHandler
}

func NewHandler(managers ManagerStore, stations StationStore, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})
	return &Handler{
		managers: managers,
		stations: stations,
		errs:     apperrors.NewErrorHandler(log),
	}
}

// ServeHTTP expects the verified-manager gate to have run.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if identity == nil {
		h.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("no session"))
		return
	}

	manager, err := h.managers.Get(r.Context(), identity.UserID)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	station, err := h.stations.Get(r.Context(), manager.StationID)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toOutput(manager, station))
}
