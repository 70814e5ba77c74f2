package create_gate

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/gates"
	"github.com/m04kA/SMC-ReservationService/internal/service/gates/models"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "некорректные данные платёжной группы"
	msgPaymentValueRequired = "для этого типа группы требуется положительная сумма предоплаты"
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

// Handle POST /api/v1/gates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /gates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateGate(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, gates.ErrPaymentValueRequired):
			h.logger.Warn("POST /gates - Payment value required: title=%q type=%q", req.Title, req.GateType)
			handlers.RespondBadRequest(w, msgPaymentValueRequired)

		case errors.Is(err, gates.ErrInvalidInput):
			h.logger.Warn("POST /gates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /gates - Failed to create gate: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /gates - Gate created successfully: gate_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
