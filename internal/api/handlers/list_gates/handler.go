package list_gates

import (
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/service/gates/models"
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

// Handle GET /api/v1/gates?active=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var (
		result *models.GateListResponse
		err    error
	)

	if r.URL.Query().Get("active") == "true" {
		result, err = h.service.ActiveGatesNow(r.Context())
	} else {
		result, err = h.service.ListGates(r.Context())
	}

	if err != nil {
		h.logger.Error("GET /gates - Failed to list gates: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
