package preview_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	previewPayment "github.com/m04kA/SMC-ReservationService/internal/usecase/preview_payment"
)

const (
	msgMissingDatetime = "не указан параметр reserved_at"
	msgInvalidDatetime = "некорректная дата и время, ожидается YYYY-MM-DD HH:MM или RFC3339"
)

type Handler struct {
	useCase PreviewPaymentUseCase
	logger  Logger
}

func NewHandler(useCase PreviewPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/payment-preview?reserved_at=YYYY-MM-DD HH:MM
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservedAt := r.URL.Query().Get("reserved_at")
	if reservedAt == "" {
		h.logger.Warn("GET /reservations/payment-preview - Missing reserved_at")
		handlers.RespondBadRequest(w, msgMissingDatetime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &previewPayment.Request{ReservedAt: reservedAt})
	if err != nil {
		switch {
		case errors.Is(err, previewPayment.ErrInvalidDatetime):
			h.logger.Warn("GET /reservations/payment-preview - Invalid datetime %q: %v", reservedAt, err)
			handlers.RespondBadRequest(w, msgInvalidDatetime)

		default:
			h.logger.Error("GET /reservations/payment-preview - Failed to preview: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
