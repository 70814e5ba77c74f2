package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgDuplicate          = "активное бронирование на это время уже существует"
	msgPaymentFailed      = "не удалось инициировать платёж, бронирование не создано"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var validationErrs types.ValidationErrors

		switch {
		case errors.As(err, &validationErrs):
			h.logger.Warn("POST /reservations - Validation failed: %v", validationErrs)
			handlers.RespondValidationErrors(w, validationErrs)

		case errors.Is(err, createReservation.ErrDuplicateReservation):
			h.logger.Warn("POST /reservations - Duplicate reservation: email=%q, reserved_at=%q",
				req.Email, req.ReservedAt)
			handlers.RespondConflict(w, msgDuplicate)

		case errors.Is(err, createReservation.ErrPaymentInitFailed):
			h.logger.Error("POST /reservations - Payment initiation failed: %v", err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentFailed)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, status=%s",
		result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
