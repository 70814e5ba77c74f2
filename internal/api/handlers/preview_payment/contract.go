package preview_payment

import (
	"context"

	previewPayment "github.com/m04kA/SMC-ReservationService/internal/usecase/preview_payment"
)

type PreviewPaymentUseCase interface {
	Execute(ctx context.Context, req *previewPayment.Request) (*previewPayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
