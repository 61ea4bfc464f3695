package event

import (
	"time"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
)

// CaseCreatedType is the event type carried in CaseCreated.Type.
const CaseCreatedType = "case.created"

// CaseCreated is the JSON payload put on the case queue after a case is stored.
type CaseCreated struct {
	Type           string    `json:"type"`
	CaseID         string    `json:"case_id"`
	PatientID      string    `json:"patient_id"`
	PatientHistory string    `json:"patient_history"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewCaseCreated(c *entity.Case) CaseCreated {
	return CaseCreated{
		Type:           CaseCreatedType,
		CaseID:         c.ID,
		PatientID:      c.PatientID,
		PatientHistory: c.PatientHistory,
		ImageURL:       c.ImageURL,
		CreatedAt:      c.CreatedAt,
	}
}

// Case rebuilds the stored case from the event.
func (e CaseCreated) Case() *entity.Case {
	return &entity.Case{
		ID:             e.CaseID,
		PatientID:      e.PatientID,
		PatientHistory: e.PatientHistory,
		ImageURL:       e.ImageURL,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.CreatedAt,
	}
}
