package repository

import (
	"context"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
)

// CaseRepository stores case metadata. Images live in object storage.
type CaseRepository interface {
	Create(ctx context.Context, c *entity.Case) error
	ListByPatient(ctx context.Context, patientID string) ([]*entity.Case, error)
}
