package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/salespulse/internal/apperror"
	"github.com/guttosm/salespulse/internal/logger"
)

// RecoveryMiddleware recovers from panics in later handlers, logs the stack
// trace with the request id and answers 500 with a dto.ErrorResponse of
// kind Internal.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			rid, _ := c.Get(RequestIDKey)
			logger.L().Error().
				Str("request_id", toString(rid)).
				Str("panic", fmt.Sprintf("%v", r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			AbortWithError(c, http.StatusInternalServerError, "Internal server error",
				apperror.New(apperror.Internal, fmt.Sprintf("%v", r)))
		}()

		c.Next()
	}
}
