package paymentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с платёжным сервисом.
// Детали платёжного протокола скрыты за этим сервисом - ядру бронирований
// нужна только синхронная инициация платежа.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платёжного сервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// InitiatePayment инициирует платёж на указанную сумму.
// externalReference - идемпотентный ключ, выданный вызывающей стороной.
// Любая ошибка здесь означает, что бронирование не должно быть сохранено.
func (c *Client) InitiatePayment(ctx context.Context, amount float64, externalReference string) (*Payment, error) {
	url := fmt.Sprintf("%s/internal/payments", c.baseURL)

	payload, err := json.Marshal(InitiatePaymentRequest{
		Amount:            amount,
		ExternalReference: externalReference,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusUnprocessableEntity:
		return nil, ErrPaymentRejected
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if payment.PaymentReference == "" {
		return nil, fmt.Errorf("%w: empty payment reference", ErrInvalidResponse)
	}

	c.log.Info("InitiatePayment: payment created, reference=%s, amount=%.2f", payment.PaymentReference, amount)
	return &payment, nil
}
