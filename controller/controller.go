// Package controller holds the helpers shared by the route registrars in its
// sub-packages.
package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/apperrors"
	"taskboard/dto"
)

// HealthController registers the liveness route.
func HealthController(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})
}

// RespondError writes err in the {"error": {...}} shape. Errors outside the
// taxonomy are logged and hidden behind a generic 500.
func RespondError(c *gin.Context, log *slog.Logger, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: dto.ErrorBody{
			Kind:    apperrors.KindUnknown,
			Message: "internal server error",
		}})
		return
	}
	c.JSON(appErr.Kind.HTTPStatus(), dto.ErrorResponse{Error: ErrorBody(appErr)})
}

// ErrorBody renders a domain error for the wire.
func ErrorBody(err *apperrors.Error) dto.ErrorBody {
	return dto.ErrorBody{Kind: err.Kind, Message: err.Message, Fields: err.Fields}
}

// BindJSON decodes the request body, writing an InvalidField response on
// malformed input.
func BindJSON(c *gin.Context, log *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondError(c, log, apperrors.Invalid("request", "invalid input"))
		return false
	}
	return true
}

// ParamID parses a numeric path parameter.
func ParamID(c *gin.Context, log *slog.Logger, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, log, apperrors.Invalid(name, name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
