package log

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// EchoMiddleware tags each request with an X-Request-ID, stores a child logger
// in the request context and logs the completed request.
func EchoMiddleware(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = uuid.New().String()
			}

			child := logger.With().
				Str(FieldRequestID, reqID).
				Str(FieldMethod, req.Method).
				Str(FieldPath, req.URL.Path).
				Str(FieldClientIP, c.RealIP()).
				Logger()

			c.Response().Header().Set(HeaderRequestID, reqID)
			c.SetRequest(req.WithContext(WithLogger(req.Context(), child)))

			err := next(c)
			if err != nil {
				// let the error handler write the response so the status below is final
				c.Error(err)
			}

			evt := child.Info().
				Int(FieldStatus, c.Response().Status).
				Float64(FieldLatency, float64(time.Since(start).Milliseconds()))
			if userID, ok := c.Get(FieldUserID).(string); ok && userID != "" {
				evt = evt.Str(FieldUserID, userID)
			}
			evt.Msg("request completed")

			return nil
		}
	}
}
