package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/storage"
)

// apiError is the JSON body of every error response.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, apiError{Code: code, Message: message})
}

func badRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, "INVALID_REQUEST", message)
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		abort(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, common.ErrInvalidTransition):
		abort(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, common.ErrDuplicateEntry):
		abort(c, http.StatusConflict, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, common.ErrInvalidRequest),
		errors.Is(err, storage.ErrInvalidItem),
		errors.Is(err, storage.ErrInvalidRequest),
		errors.Is(err, storage.ErrInvalidDateRange):
		badRequest(c, err.Error())
	default:
		common.LogError(s.logger, err, "request failed", common.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
