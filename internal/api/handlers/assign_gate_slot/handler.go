package assign_gate_slot

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
	msgGateNotFound       = "платёжная группа не найдена"
	msgSlotNotFound       = "слот не найден"
	msgSlotAssigned       = "слот уже привязан к платёжной группе"
	msgConflict           = "слот имеет привязки уровня даты, привязка уровня слота невозможна"
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

// Handle POST /api/v1/gates/{gateId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	gateID, err := strconv.ParseInt(vars["gateId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /gates/{id}/slots - Invalid gate ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGateID)
		return
	}

	var req models.AssignSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /gates/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AssignSlot(r.Context(), gateID, &req)
	if err != nil {
		switch {
		case errors.Is(err, gates.ErrGateNotFound):
			h.logger.Warn("POST /gates/{id}/slots - Gate not found: gate_id=%d", gateID)
			handlers.RespondNotFound(w, msgGateNotFound)

		case errors.Is(err, gates.ErrSlotNotFound):
			h.logger.Warn("POST /gates/{id}/slots - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, gates.ErrSlotAlreadyAssigned):
			h.logger.Warn("POST /gates/{id}/slots - Slot already assigned: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotAssigned)

		case errors.Is(err, gates.ErrAssignmentConflict):
			h.logger.Warn("POST /gates/{id}/slots - Assignment conflict: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /gates/{id}/slots - Failed to assign slot: gate_id=%d, slot_id=%d, error=%v",
				gateID, req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /gates/{id}/slots - Slot assigned successfully: gate_id=%d, slot_id=%d", gateID, req.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
