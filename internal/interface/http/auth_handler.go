package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/health-referral-api/internal/application"
	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	"github.com/oksasatya/health-referral-api/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req application.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.Svc.Register(c.Request.Context(), req)
	if err != nil {
		writeFlatError(c, err)
		return
	}

	msg := "Registration successful!"
	if res.User.Role == entity.RoleWorker {
		msg = "Registration successful! Your account is pending admin approval."
	}
	response.Success(c, http.StatusOK, msg, authFields(res))
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		writeFlatError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful!", authFields(res))
}

func authFields(res *application.AuthResult) gin.H {
	return gin.H{
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User,
	}
}
