package middleware

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
)

const msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"

// Auth проверяет, что административный запрос несёт заголовок X-User-ID
// с числовым идентификатором. Разбор прав доступа выполняется выше по
// инфраструктуре, здесь только отсечение анонимных запросов.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawUserID := r.Header.Get("X-User-ID")
		if rawUserID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		if _, err := strconv.ParseInt(rawUserID, 10, 64); err != nil {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		next.ServeHTTP(w, r)
	})
}
