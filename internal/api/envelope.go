// Package api defines the JSON envelope every endpoint responds with:
//
//	{"success": bool, "message": string (optional), ...payload}
package api

import (
	"github.com/gin-gonic/gin"
)

// MsgInternal is the only message returned to clients for unexpected failures.
// The underlying error is logged server-side.
const MsgInternal = "internal server error"

// Envelope builds a response body. Payload keys are merged at the top level;
// "success" and "message" cannot be overridden by the payload.
func Envelope(success bool, message string, payload gin.H) gin.H {
	body := make(gin.H, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = success
	if message != "" {
		body["message"] = message
	} else {
		delete(body, "message")
	}
	return body
}

// OK writes a successful envelope with the given status.
func OK(c *gin.Context, status int, message string, payload gin.H) {
	c.JSON(status, Envelope(true, message, payload))
}

// Fail writes a failed envelope with the given status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope(false, message, nil))
}

// AbortFail writes a failed envelope and stops the handler chain.
func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope(false, message, nil))
}
