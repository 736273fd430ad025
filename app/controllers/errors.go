package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/address-resolver/app/responses"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/helpers/utils"
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/parser"
)

// RequestIDHeader header mang ID của request
const RequestIDHeader = "X-Request-ID"

// RequestID gắn ID cho mỗi request, giữ nguyên ID do client gửi lên
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = utils.GenerateID()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, responses.ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: c.GetString("request_id"),
	})
}

// abortWithServiceError ánh xạ lỗi của service sang mã HTTP
func abortWithServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, parser.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, services.ErrInvalidAlias):
		abortWithError(c, http.StatusBadRequest, "INVALID_ALIAS", err.Error())
	case errors.Is(err, services.ErrNotReady):
		abortWithError(c, http.StatusServiceUnavailable, "NOT_READY", err.Error())
	case errors.Is(err, services.ErrCacheDisabled):
		abortWithError(c, http.StatusServiceUnavailable, "NOT_CONFIGURED", err.Error())
	case errors.Is(err, services.ErrJobNotFound):
		abortWithError(c, http.StatusNotFound, "JOB_NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrJobRunning):
		abortWithError(c, http.StatusConflict, "JOB_NOT_READY", err.Error())
	case errors.Is(err, gazetteer.ErrEmptyDataset):
		abortWithError(c, http.StatusUnprocessableEntity, "EMPTY_DATASET", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		abortWithError(c, http.StatusGatewayTimeout, "TIMEOUT", err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
