// server/internal/api/middleware/errors.go
package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"farm-catalog-server/internal/apperror"
	"farm-catalog-server/internal/store"

	"github.com/gin-gonic/gin"
)

const defaultErrorMessage = "Something went wrong"

// ClassifyErrors turns the last error a handler recorded into an AppError
// when the store reported a validation failure or a query that could not run.
// Other errors pass through unchanged. It must sit inside RespondErrors.
func ClassifyErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		kind := store.KindOf(last.Err)
		LoggerFrom(c).Info().Str("error_kind", kind.String()).Msg(last.Err.Error())
		last.Err = classify(kind, last.Err)
	}
}

func classify(kind store.Kind, err error) error {
	switch kind {
	case store.KindValidation:
		return apperror.New("Validation failed..."+err.Error(), http.StatusBadRequest)
	case store.KindMalformedQuery:
		return apperror.New("Query failed..."+err.Error(), http.StatusNotFound)
	case store.KindOther:
		return err
	}
	return err
}

// RespondErrors writes the last recorded error as a plain-text response:
// status from an AppError (500 otherwise) and the error message
// ("Something went wrong" when empty). Nothing is written when the handler
// already started a response.
func RespondErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		status, message := http.StatusInternalServerError, last.Err.Error()
		var appErr *apperror.AppError
		if errors.As(last.Err, &appErr) && appErr.Status != 0 {
			status = appErr.Status
		}
		if message == "" {
			message = defaultErrorMessage
		}

		if status >= http.StatusInternalServerError {
			LoggerFrom(c).Error().Err(last.Err).Int("status", status).Msg("request failed")
		}
		c.String(status, message)
	}
}

// Recovery converts a panic into an error on the request so it is answered by
// RespondErrors like any other failure.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				_ = c.Error(apperror.New(defaultErrorMessage, http.StatusInternalServerError))
				c.Abort()
			}
		}()
		c.Next()
	}
}
