package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cartonization-service/internal/domain/dto"
	"github.com/guttosm/cartonization-service/internal/i18n"
	"github.com/guttosm/cartonization-service/internal/packing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrorHandler logs errors attached to the gin context and writes a 500 when
// the handler failed without responding. Client errors are logged at warn.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID := GetRequestID(c)

		level := zerolog.ErrorLevel
		if status := c.Writer.Status(); c.Writer.Written() && status < http.StatusInternalServerError {
			level = zerolog.WarnLevel
		}
		event := log.WithLevel(level).
			Str("request_id", requestID).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Err(err.Err)
		if code := packing.CodeOf(err.Err); code != "" {
			event = event.Str("error_code", string(code))
		}
		event.Msg("Request error")

		if !c.Writer.Written() {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.JSON(http.StatusInternalServerError, dto.NewError(dto.ErrCodeInternal, message).WithRequestID(requestID))
		}
	}
}
