package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DeskBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-DeskBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-DeskBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса, ожидаются deskId, startTime и endTime в RFC3339"
	msgUnauthorized       = "пользователь не определён"
	msgDeskNotFound       = "стол не найден"
	msgNoActivePolicy     = "политика бронирования не настроена"

	codeNoActivePolicy = "NO_ACTIVE_POLICY"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor.UserID))
	if err != nil {
		var rejection *createBooking.Rejection

		switch {
		case errors.As(err, &rejection):
			status := http.StatusBadRequest
			if rejection.Code == createBooking.CodeDeskNotAvailable {
				status = http.StatusConflict
			}
			h.logger.Warn("POST /bookings - Rejected: user_id=%d, desk_id=%d, code=%s",
				actor.UserID, req.DeskID, rejection.Code)
			handlers.RespondErrorCode(w, status, string(rejection.Code), rejection.Message)

		case errors.Is(err, createBooking.ErrDeskNotFound):
			h.logger.Warn("POST /bookings - Desk not found: desk_id=%d", req.DeskID)
			handlers.RespondNotFound(w, msgDeskNotFound)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createBooking.ErrNoActivePolicy):
			h.logger.Error("POST /bookings - No active policy: %v", err)
			handlers.RespondErrorCode(w, http.StatusInternalServerError, codeNoActivePolicy, msgNoActivePolicy)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, desk_id=%d, error=%v",
				actor.UserID, req.DeskID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, desk_id=%d",
		result.ID, actor.UserID, req.DeskID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
