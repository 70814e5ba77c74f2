package unassign_gate_date

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/gates"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgInvalidDate   = "некорректная дата, ожидается YYYY-MM-DD"
	msgNotFound      = "привязка не найдена"
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

// Handle DELETE /api/v1/slots/{slotId}/gate-dates/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	slotID, err := strconv.ParseInt(vars["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /slots/{id}/gate-dates/{date} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	date := vars["date"]

	if err := h.service.UnassignDate(r.Context(), slotID, date); err != nil {
		switch {
		case errors.Is(err, gates.ErrInvalidInput):
			h.logger.Warn("DELETE /slots/{id}/gate-dates/{date} - Invalid date %q: %v", date, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, gates.ErrAssignmentNotFound):
			h.logger.Warn("DELETE /slots/{id}/gate-dates/{date} - Assignment not found: slot_id=%d, date=%s", slotID, date)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /slots/{id}/gate-dates/{date} - Failed to unassign: slot_id=%d, date=%s, error=%v",
				slotID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /slots/{id}/gate-dates/{date} - Assignment removed successfully: slot_id=%d, date=%s", slotID, date)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
