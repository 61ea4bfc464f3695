package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The mobile clients read flat bodies: {"success": bool, "message": string, ...fields}.
// Business-rule failures keep HTTP 200 with success=false; only server faults use 5xx.

// Success writes {success: true, message, ...fields} with the given status.
func Success(c *gin.Context, status int, message string, fields gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := gin.H{}
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

// Error writes {success: false, message[, errors]} with the given status.
func Error(c *gin.Context, status int, message string, details any) {
	if status == 0 {
		status = http.StatusOK
	}
	body := gin.H{
		"success": false,
		"message": message,
	}
	if m, ok := details.(map[string]string); ok && len(m) == 0 {
		details = nil
	}
	if details != nil {
		body["errors"] = details
	}
	c.JSON(status, body)
}

// Abort is Error followed by aborting the handler chain; used by middleware.
func Abort(c *gin.Context, status int, message string) {
	Error(c, status, message, nil)
	c.Abort()
}
