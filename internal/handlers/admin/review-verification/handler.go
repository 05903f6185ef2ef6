// internal/handlers/admin/review-verification/handler.go
package reviewverification

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"station-dashboard/internal/common/auth"
	apperrors "station-dashboard/internal/common/errors"
	httpx "station-dashboard/internal/common/http"
	"station-dashboard/internal/common/logger"
	"station-dashboard/internal/verification"
)

const Endpoint = "admin.verifications"

type Handler struct {
	reviewer Reviewer
	logger   logger.Logger
	errs     *apperrors.ErrorHandler
}

type HandlerOptions struct {
	Reviewer Reviewer
	Logger   logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Reviewer == nil {
		return nil, fmt.Errorf("review-verification requires a reviewer")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"endpoint": Endpoint})

	return &Handler{
		reviewer: opts.Reviewer,
		logger:   log,
		errs:     apperrors.NewErrorHandler(log),
	}, nil
}

// List returns managers awaiting review, oldest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pending, err := h.reviewer.ListPending(r.Context())
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ListOutput{Pending: pending, Count: len(pending)})
}

// Decide handles POST /admin/verifications/{managerID}/{decision}.
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	managerID := strings.TrimSpace(chi.URLParam(r, ParamManagerID))
	if managerID == "" {
		h.errs.HandleHTTPError(w, r, apperrors.NewValidationError("Manager id is required"))
		return
	}

	decision := chi.URLParam(r, ParamDecision)
	event, ok := verification.DecisionEvent(decision)
	if !ok {
		h.errs.HandleHTTPError(w, r, apperrors.NewValidationError(
			fmt.Sprintf("Unknown decision %q, expected approve or reject", decision)))
		return
	}

	adminID := ""
	if id := auth.IdentityFrom(r.Context()); id != nil {
		adminID = id.UserID
	}

	view, err := h.reviewer.Review(r.Context(), adminID, managerID, event)
	if err != nil {
		h.errs.HandleHTTPError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, DecisionOutput{ManagerID: managerID, StatusView: *view})
}
