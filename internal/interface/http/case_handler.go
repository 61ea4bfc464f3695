package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/health-referral-api/internal/application"
)

// Case routes keep conventional status codes and a {message, error} failure body.
type CaseHandler struct {
	Svc            *application.CaseService
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewCaseHandler(svc *application.CaseService, logger *logrus.Logger, maxUploadBytes int64) *CaseHandler {
	return &CaseHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

type createCaseForm struct {
	PatientID      string                `form:"patientId"`
	PatientHistory string                `form:"patientHistory"`
	Image          *multipart.FileHeader `form:"image"`
}

func caseError(c *gin.Context, status int, message string, err error) {
	body := gin.H{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

func writeCaseServiceError(c *gin.Context, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		body := gin.H{"message": verr.Message, "error": application.ErrValidation.Error()}
		if len(verr.Fields) > 0 {
			body["errors"] = verr.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	default:
		caseError(c, http.StatusInternalServerError, msgServerError, err)
	}
}

// Create POST /api/cases (multipart: patientId, patientHistory, image)
func (h *CaseHandler) Create(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	var form createCaseForm
	if err := c.ShouldBind(&form); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			caseError(c, http.StatusBadRequest, "Image too large", err)
			return
		}
		caseError(c, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	in := application.CreateCaseInput{
		PatientID:      form.PatientID,
		PatientHistory: form.PatientHistory,
	}
	if form.Image != nil {
		f, err := form.Image.Open()
		if err != nil {
			caseError(c, http.StatusBadRequest, "Could not read image", err)
			return
		}
		defer f.Close()
		in.Image = f
		in.ImageName = form.Image.Filename
		in.ImageContentType = form.Image.Header.Get("Content-Type")
	}

	v, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeCaseServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Case created successfully", "case": v})
}

// List GET /api/cases?patientId=
func (h *CaseHandler) List(c *gin.Context) {
	cases, err := h.Svc.ListByPatient(c.Request.Context(), c.Query("patientId"))
	if err != nil {
		writeCaseServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

// Search GET /api/cases/search?q=&patientId=&size=
func (h *CaseHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	cases, err := h.Svc.SearchHistory(c.Request.Context(), c.Query("q"), c.Query("patientId"), size)
	if err != nil {
		writeCaseServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases})
}
