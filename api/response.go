package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the uniform JSON envelope for all API endpoints.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Details []string    `json:"details,omitempty"`
}

// Success writes a 200 success envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage writes a 200 success envelope with a message.
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Error writes an error envelope with the given status code.
func Error(c *gin.Context, code int, errMsg string) {
	c.JSON(code, Response{
		Success: false,
		Error:   errMsg,
	})
}

// ValidationFailed writes a 400 envelope carrying per-field errors.
func ValidationFailed(c *gin.Context, details []string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error:   "Validation failed",
		Details: details,
	})
}

// BadRequest writes a 400 error envelope.
func BadRequest(c *gin.Context, errMsg string) {
	Error(c, http.StatusBadRequest, errMsg)
}

// Unauthorized writes a 401 error envelope.
func Unauthorized(c *gin.Context, errMsg string) {
	Error(c, http.StatusUnauthorized, errMsg)
}

// NotFound writes a 404 error envelope.
func NotFound(c *gin.Context, errMsg string) {
	Error(c, http.StatusNotFound, errMsg)
}

// ServiceUnavailable writes a 503 error envelope.
func ServiceUnavailable(c *gin.Context, errMsg string) {
	Error(c, http.StatusServiceUnavailable, errMsg)
}

// InternalError writes a 500 error envelope.
func InternalError(c *gin.Context, errMsg string) {
	Error(c, http.StatusInternalServerError, errMsg)
}
