package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// HeaderRequestID заголовок с идентификатором запроса
const HeaderRequestID = "X-Request-ID"

const requestIDKey contextKey = "requestID"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RequestLogger присваивает запросу X-Request-ID и логирует результат
// Идентификатор из входящего заголовка сохраняется
func RequestLogger(logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, requestID)

			start := time.Now()
			wrapped := newResponseWriter(w)
			ctx := context.WithValue(r.Context(), requestIDKey, requestID)

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			duration := time.Since(start)
			switch {
			case wrapped.status >= http.StatusInternalServerError:
				logger.Error("%s %s %d %s request_id=%s", r.Method, r.URL.Path, wrapped.status, duration, requestID)
			case wrapped.status >= http.StatusBadRequest:
				logger.Warn("%s %s %d %s request_id=%s", r.Method, r.URL.Path, wrapped.status, duration, requestID)
			default:
				logger.Info("%s %s %d %s request_id=%s", r.Method, r.URL.Path, wrapped.status, duration, requestID)
			}
		})
	}
}

// RequestIDFromContext возвращает идентификатор текущего запроса
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}
