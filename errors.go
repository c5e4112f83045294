package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// apiError carries the HTTP status and machine-readable code for a business
// failure so one place can render it into the response envelope.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

func errBadRequest(msg string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: msg}
}

func errUnauthorized(msg string) *apiError {
	return &apiError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: msg}
}

func errForbidden(msg string) *apiError {
	return &apiError{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: msg}
}

func errNotFound(msg string) *apiError {
	return &apiError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: msg}
}

func errConflict(msg string) *apiError {
	return &apiError{Status: http.StatusConflict, Code: "CONFLICT", Message: msg}
}

func errFileTooLarge() *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "FILE_TOO_LARGE", Message: "File size exceeds limit"}
}

// respondOK / respondCreated wrap data in the success envelope.
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// fail renders any error into the envelope. Unknown errors become 500; in
// production the raw message is suppressed.
func (a *API) fail(c *gin.Context, err error) {
	var ae *apiError
	if errors.As(err, &ae) {
		c.JSON(ae.Status, gin.H{"success": false, "error": ae.Message, "code": ae.Code})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Resource not found", "code": "NOT_FOUND"})
		return
	}

	log.Println("internal error:", err)
	msg := err.Error()
	if a.cfg.isProduction() {
		msg = "Internal server error"
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg, "code": "INTERNAL_ERROR"})
}

// failValidation is for gin binding failures: 400 with the binding message
// as details.
func failValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Validation failed",
		"code":    "VALIDATION_ERROR",
		"details": []string{err.Error()},
	})
}
