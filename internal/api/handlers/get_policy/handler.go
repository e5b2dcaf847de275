package get_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DeskBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-DeskBookingService/internal/service/policy"
)

const (
	msgNoActivePolicy  = "политика бронирования не настроена"
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

// Handle GET /api/v1/policy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetActive(r.Context())
	if err != nil {
		if errors.Is(err, policy.ErrNoActivePolicy) {
			h.logger.Error("GET /policy - No active policy: %v", err)
			handlers.RespondErrorCode(w, http.StatusInternalServerError, codeNoActivePolicy, msgNoActivePolicy)
			return
		}
		h.logger.Error("GET /policy - Failed to get policy: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
