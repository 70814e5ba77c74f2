package assign_gate_date

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/gates"
	"github.com/m04kA/SMC-ReservationService/internal/service/gates/models"
)

const (
	msgInvalidGateID      = "некорректный ID платёжной группы"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректная дата, ожидается YYYY-MM-DD"
	msgGateNotFound       = "платёжная группа не найдена"
	msgSlotNotFound       = "слот не найден"
	msgDateAssigned       = "эта дата слота уже привязана к платёжной группе"
	msgConflict           = "слот имеет привязку уровня слота, привязка уровня даты невозможна"
	msgWeekdayMismatch    = "день недели даты не совпадает с днём недели слота"
)

type Handler struct {
	service GateService
	logger  Logger
}

func NewHandler(service GateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/gates/{gateId}/dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	gateID, err := strconv.ParseInt(vars["gateId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /gates/{id}/dates - Invalid gate ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGateID)
		return
	}

	var req models.AssignDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /gates/{id}/dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AssignDate(r.Context(), gateID, &req)
	if err != nil {
		switch {
		case errors.Is(err, gates.ErrGateNotFound):
			h.logger.Warn("POST /gates/{id}/dates - Gate not found: gate_id=%d", gateID)
			handlers.RespondNotFound(w, msgGateNotFound)

		case errors.Is(err, gates.ErrSlotNotFound):
			h.logger.Warn("POST /gates/{id}/dates - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, gates.ErrWeekdayMismatch):
			h.logger.Warn("POST /gates/{id}/dates - Weekday mismatch: slot_id=%d, date=%s", req.SlotID, req.Date)
			handlers.RespondBadRequest(w, msgWeekdayMismatch)

		case errors.Is(err, gates.ErrInvalidInput):
			h.logger.Warn("POST /gates/{id}/dates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, gates.ErrDateAlreadyAssigned):
			h.logger.Warn("POST /gates/{id}/dates - Date already assigned: slot_id=%d, date=%s", req.SlotID, req.Date)
			handlers.RespondConflict(w, msgDateAssigned)

		case errors.Is(err, gates.ErrAssignmentConflict):
			h.logger.Warn("POST /gates/{id}/dates - Assignment conflict: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /gates/{id}/dates - Failed to assign date: gate_id=%d, slot_id=%d, error=%v",
				gateID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /gates/{id}/dates - Date assigned successfully: gate_id=%d, slot_id=%d, date=%s",
		gateID, req.SlotID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
