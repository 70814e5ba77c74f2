package create_reservation

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

var validate = validator.New()

// Форматы даты и времени брони: "YYYY-MM-DD HH:MM" либо полный RFC3339
// с дробными секундами
var (
	plainDatetimeShape   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)
	rfc3339DatetimeShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	phoneShape      = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// parseReservedAt разбирает дату и время брони.
// Строка неожиданной формы дает ошибку формата, строка правильной формы
// с несуществующей датой - семантическую ошибку. Секунды и их доли
// отбрасываются: сетка слотов и правило дубликата работают с точностью
// до минуты.
func parseReservedAt(raw string) (time.Time, *types.FieldError) {
	raw = strings.TrimSpace(raw)

	var layout string
	switch {
	case plainDatetimeShape.MatchString(raw):
		layout = domain.DatetimeFormat
	case rfc3339DatetimeShape.MatchString(raw):
		layout = time.RFC3339Nano
	default:
		return time.Time{}, &types.FieldError{
			Field:   "reserved_at",
			Message: "must be \"YYYY-MM-DD HH:MM\" or an RFC3339 timestamp",
		}
	}

	ts, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}, &types.FieldError{
			Field:   "reserved_at",
			Message: "not a real date",
		}
	}

	return ts.Truncate(time.Minute), nil
}

// validateStep проверяет, что время брони попадает на сетку слота:
// смещение от начала слота в минутах кратно шагу слота
func validateStep(slot *domain.Slot, reservedAt time.Time) bool {
	start, err := slot.StartsAt.MinutesSinceMidnight()
	if err != nil {
		return false
	}
	if slot.StepMinutes <= 0 {
		return false
	}
	tod := reservedAt.Hour()*60 + reservedAt.Minute()
	offset := tod - start
	return offset >= 0 && offset%slot.StepMinutes == 0
}

// normalizeName приводит часть имени к каноническому виду: обрезает пробелы
// и капитализирует каждое слово. Возвращает false, если после нормализации
// имя короче минимума или содержит недопустимые символы.
func normalizeName(raw string) (string, bool) {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return "", false
	}

	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		for _, r := range runes {
			if !unicode.IsLetter(r) && r != '\'' {
				return "", false
			}
		}
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	normalized := strings.Join(words, " ")
	if len([]rune(normalized)) < domain.MinNameLength {
		return "", false
	}

	return normalized, true
}

// normalizePhone убирает разделители и проверяет свободный международный
// формат: не менее 7 цифр, опциональный ведущий плюс
func normalizePhone(raw string) (string, bool) {
	stripped := phoneSeparators.Replace(strings.TrimSpace(raw))
	if !phoneShape.MatchString(stripped) {
		return "", false
	}
	return stripped, true
}

// validateEmail проверяет адрес по стандартной грамматике
func validateEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", false
	}
	return email, true
}
