package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/salespulse/internal/apperror"
	"github.com/guttosm/salespulse/internal/domain/dto"
)

const defaultErrorMessage = "request failed"

// StatusFor maps an error to its HTTP status through its apperror.Kind.
//
//   - InvalidFilter       -> 400
//   - UpstreamFetchFailed -> 502
//   - StorageUnavailable  -> 500
//   - anything else       -> 500
func StatusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.InvalidFilter:
		return http.StatusBadRequest
	case apperror.UpstreamFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the last error attached with c.Error as a
// dto.ErrorResponse, unless a handler already wrote a response.
//
// A string set with (*gin.Error).SetMeta becomes the "error" message; the
// cause becomes "details" and its apperror.Kind becomes "kind".
//
// Usage:
//
//	router.Use(middleware.ErrorHandler)
//	...
//	_ = c.Error(err).SetMeta("failed to fetch combined data")
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	ginErr := c.Errors.Last()
	msg := defaultErrorMessage
	if m, ok := ginErr.Meta.(string); ok && m != "" {
		msg = m
	}

	err := ginErr.Err
	status := StatusFor(err)
	resp := dto.NewErrorResponse(msg, errors.New(apperror.DetailOf(err))).WithKind(string(apperror.KindOf(err)))
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithError stops the chain and writes a dto.ErrorResponse with the
// given status. The kind is taken from err when it carries one.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	resp := dto.NewErrorResponse(message, err)
	if err != nil {
		resp = resp.WithKind(string(apperror.KindOf(err)))
	}
	c.AbortWithStatusJSON(status, resp)
}
