package closure_status

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/closures/models"
)

type Handler struct {
	service ClosureService
	logger  Logger
}

func NewHandler(service ClosureService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/closures/status?at=YYYY-MM-DD HH:MM
// Без параметра at проверяется текущий момент. Неразборчивое значение at
// не считается ошибкой запроса: заведение просто считается открытым.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	at := time.Now()

	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := parseAt(raw)
		if err != nil {
			h.logger.Warn("GET /closures/status - Unparsable at=%q: %v", raw, err)
			handlers.RespondJSON(w, http.StatusOK, models.StatusResponse{Closed: false})
			return
		}
		at = parsed
	}

	closed, message, err := h.service.IsAnyActiveAt(r.Context(), at)
	if err != nil {
		h.logger.Error("GET /closures/status - Failed to check closures: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := models.StatusResponse{Closed: closed}
	if closed {
		resp.Message = message
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func parseAt(raw string) (time.Time, error) {
	if ts, err := time.Parse(domain.DatetimeFormat, raw); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, raw)
}
