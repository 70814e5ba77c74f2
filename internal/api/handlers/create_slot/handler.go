package create_slot

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots"
	"github.com/m04kA/SMC-ReservationService/internal/service/slots/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные слота"
	msgInvalidWeekday     = "день недели должен быть от 0 (воскресенье) до 6 (суббота)"
	msgInvalidTimeRange   = "время начала должно быть раньше времени окончания"
	msgInvalidStep        = "некорректный шаг слота"
	msgSlotOverlap        = "слот пересекается с существующим слотом этого дня недели"
	msgDuplicateName      = "слот с таким названием уже существует для этого дня недели"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidWeekday):
			h.logger.Warn("POST /slots - Invalid weekday: %d", req.Weekday)
			handlers.RespondBadRequest(w, msgInvalidWeekday)

		case errors.Is(err, slots.ErrInvalidTimeRange):
			h.logger.Warn("POST /slots - Invalid time range: %s-%s", req.StartsAt, req.EndsAt)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, slots.ErrInvalidStep):
			h.logger.Warn("POST /slots - Invalid step: %d", req.StepMinutes)
			handlers.RespondBadRequest(w, msgInvalidStep)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, slots.ErrSlotOverlap):
			h.logger.Warn("POST /slots - Slot overlap: name=%q weekday=%d", req.Name, req.Weekday)
			handlers.RespondConflict(w, msgSlotOverlap)

		case errors.Is(err, slots.ErrDuplicateName):
			h.logger.Warn("POST /slots - Duplicate name: name=%q weekday=%d", req.Name, req.Weekday)
			handlers.RespondConflict(w, msgDuplicateName)

		default:
			h.logger.Error("POST /slots - Failed to create slot: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /slots - Slot created successfully: slot_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
