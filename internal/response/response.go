// Package response writes the JSON envelope every API response shares.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope codes that have no HTTP status of their own
const (
	CodeSessionSuperseded = 4011
	CodeIdentityNotFound  = 4012
)

// Envelope is the body of every JSON response
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Code    int    `json:"code"`
}

// OK writes a 200 envelope
func OK(c *gin.Context, data any) {
	OKMessage(c, "success", data)
}

// OKMessage writes a 200 envelope with a custom message
func OKMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data, Code: http.StatusOK})
}

// Fail writes an error envelope. Codes above 999 travel in the body with the status of their class.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(StatusFor(code), Envelope{Success: false, Message: message, Code: code})
}

// Abort writes an error envelope and stops the handler chain
func Abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(StatusFor(code), Envelope{Success: false, Message: message, Code: code})
}

// StatusFor maps an envelope code to the HTTP status line
func StatusFor(code int) int {
	switch {
	case code == CodeSessionSuperseded || code == CodeIdentityNotFound:
		return http.StatusUnauthorized
	case code >= 100 && code <= 599:
		return code
	}
	return http.StatusInternalServerError
}
