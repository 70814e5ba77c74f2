package create_reservation

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	ReservedAt  string // Дата и время брони ("YYYY-MM-DD HH:MM" или RFC3339)
	PeopleCount int    // Количество гостей
	FirstName   string // Имя
	LastName    string // Фамилия
	Phone       string // Телефон
	Email       string // Email
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64     // ID созданного бронирования
	ReservedAt  time.Time // Дата и время брони
	PeopleCount int       // Количество гостей
	FirstName   string    // Имя (нормализованное)
	LastName    string    // Фамилия (нормализованная)
	Phone       string    // Телефон (нормализованный)
	Email       string    // Email
	Status      string    // Статус бронирования

	// Данные платёжного шага, если применилась платёжная группа
	RequiresPayment  bool     // Требуется ли предоплата
	PaymentReference *string  // Референс платежа
	PaymentURL       *string  // Ссылка на оплату
	PaymentAmount    *float64 // Сумма предоплаты

	CreatedAt time.Time // Время создания
}
