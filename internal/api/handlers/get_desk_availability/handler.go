package get_desk_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DeskBookingService/internal/api/handlers"
	getDeskAvailability "github.com/m04kA/SMC-DeskBookingService/internal/usecase/get_desk_availability"
)

const (
	msgInvalidDeskID  = "некорректный ID стола"
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDeskNotFound   = "стол не найден"
	msgNoActivePolicy = "политика бронирования не настроена"

	codeNoActivePolicy = "NO_ACTIVE_POLICY"
)

type Handler struct {
	useCase GetDeskAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetDeskAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/desks/{deskId}/availability
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	deskID, err := handlers.PathInt64(r, "deskId")
	if err != nil {
		h.logger.Warn("GET /desks/{id}/availability - Invalid desk ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDeskID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /desks/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(deskID, dateStr)
	if err != nil {
		h.logger.Warn("GET /desks/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getDeskAvailability.ErrDeskNotFound):
			h.logger.Warn("GET /desks/{id}/availability - Desk not found: desk_id=%d", deskID)
			handlers.RespondNotFound(w, msgDeskNotFound)

		case errors.Is(err, getDeskAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getDeskAvailability.ErrNoActivePolicy):
			h.logger.Error("GET /desks/{id}/availability - No active policy: %v", err)
			handlers.RespondErrorCode(w, http.StatusInternalServerError, codeNoActivePolicy, msgNoActivePolicy)

		default:
			h.logger.Error("GET /desks/{id}/availability - Failed to get availability: desk_id=%d, error=%v",
				deskID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
