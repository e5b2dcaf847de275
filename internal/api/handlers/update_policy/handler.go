package update_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DeskBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-DeskBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-DeskBookingService/internal/service/policy"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPolicy      = "некорректные параметры политики"
	msgUnauthorized       = "пользователь не определён"
	msgForbidden          = "операция доступна только администратору"
	msgNoActivePolicy     = "политика бронирования не настроена"

	codeNoActivePolicy = "NO_ACTIVE_POLICY"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /admin/policy - Invalid policy: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPolicy+": "+err.Error())

		case errors.Is(err, policy.ErrAccessDenied):
			h.logger.Warn("PUT /admin/policy - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, policy.ErrNoActivePolicy):
			h.logger.Error("PUT /admin/policy - No active policy: %v", err)
			handlers.RespondErrorCode(w, http.StatusInternalServerError, codeNoActivePolicy, msgNoActivePolicy)

		default:
			h.logger.Error("PUT /admin/policy - Failed to update policy: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/policy - Policy updated: policy_id=%d, by user_id=%d", result.ID, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
