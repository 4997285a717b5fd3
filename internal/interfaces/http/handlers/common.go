// Package handlers implements the HTTP API endpoints: jurisdiction
// detection, analysis runs and queries, document upload and retrieval,
// search, and health probes. Handlers translate between transport and
// the application services; no legal reasoning happens here.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/turtacn/LexBridge-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// respond writes a success envelope.
func respond[T any](c *gin.Context, status int, data T) {
	c.JSON(status, common.APIResponse[T]{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetRequestID(c),
		Timestamp: common.NewTimestamp(),
	})
}

// respondPage writes a success envelope with pagination.
func respondPage[T any](c *gin.Context, data T, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, common.APIResponse[T]{
		Success: true,
		Data:    data,
		Pagination: &common.Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
		RequestID: middleware.GetRequestID(c),
		Timestamp: common.NewTimestamp(),
	})
}

// fail maps an application error onto the error envelope via its code.
func fail(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		// Internal detail stays in the logs.
		message = "internal server error"
	}
	c.JSON(status, common.APIResponse[struct{}]{
		Success: false,
		Error: &common.ErrorDetail{
			Code:    string(code),
			Message: message,
		},
		RequestID: middleware.GetRequestID(c),
		Timestamp: common.NewTimestamp(),
	})
}

// failBinding reports a malformed request body.
func failBinding(c *gin.Context, err error) {
	fail(c, errors.Wrap(err, errors.ErrCodeInvalidInput, "malformed request body"))
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
