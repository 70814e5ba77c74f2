package types

import "strings"

// FieldError ошибка валидации, привязанная к конкретному полю запроса
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors накопленный список ошибок валидации. Валидация не
// останавливается на первой ошибке - вызывающая сторона видит сразу все
// нарушенные правила.
type ValidationErrors []FieldError

// Error реализует интерфейс error
func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add добавляет ошибку поля в список
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}
