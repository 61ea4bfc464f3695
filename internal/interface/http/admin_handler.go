package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/health-referral-api/internal/application"
	"github.com/oksasatya/health-referral-api/pkg/response"
)

type AdminHandler struct {
	Svc    *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

// PendingWorkers GET /api/admin/pending-workers
func (h *AdminHandler) PendingWorkers(c *gin.Context) {
	workers, err := h.Svc.ListPendingWorkers(c.Request.Context())
	if err != nil {
		writeFlatError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", gin.H{"workers": workers})
}

// ApproveWorker POST /api/admin/approve-worker {workerId, approve}
func (h *AdminHandler) ApproveWorker(c *gin.Context) {
	var req application.SetApprovalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.Svc.SetApproval(c.Request.Context(), req)
	if err != nil {
		writeFlatError(c, err)
		return
	}

	msg := "Worker rejected"
	if res.Approved {
		msg = "Worker approved"
	}
	response.Success(c, http.StatusOK, msg, gin.H{"workerId": res.WorkerID, "isApproved": res.Approved})
}
