package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/health-referral-api/internal/application"
	"github.com/oksasatya/health-referral-api/pkg/response"
	"github.com/oksasatya/health-referral-api/pkg/validation"
)

// User-facing messages for the auth/admin group. The mobile screens show them verbatim.
const (
	msgDuplicateUser   = "User with this email or CNIC already exists"
	msgUserNotFound    = "User not found"
	msgInvalidCreds    = "Invalid credentials"
	msgPendingApproval = "Your account is pending admin approval. Please wait for approval before logging in."
	msgWorkerNotFound  = "Worker not found"
	msgServerError     = "Server error"
	msgInvalidPayload  = "Invalid request body"
)

// writeFlatError maps a service error onto the flat {success:false} body.
// Business failures stay on HTTP 200; only storage and upstream faults are 5xx.
func writeFlatError(c *gin.Context, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusOK, verr.Message, verr.Fields)
	case errors.Is(err, application.ErrDuplicateUser):
		response.Error(c, http.StatusOK, msgDuplicateUser, nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusOK, msgUserNotFound, nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusOK, msgInvalidCreds, nil)
	case errors.Is(err, application.ErrPendingApproval):
		response.Error(c, http.StatusOK, msgPendingApproval, nil)
	case errors.Is(err, application.ErrNotFound):
		response.Error(c, http.StatusOK, msgWorkerNotFound, nil)
	default:
		response.Error(c, http.StatusInternalServerError, msgServerError, nil)
	}
}

// writeBindError reports a body that could not be decoded at all.
func writeBindError(c *gin.Context, err error) {
	response.Error(c, http.StatusOK, msgInvalidPayload, validation.ToDetails(err))
}
