package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	"github.com/oksasatya/health-referral-api/internal/domain/repository"
)

type CaseRepository struct {
	mu    sync.RWMutex
	cases []*entity.Case
}

func NewCaseRepository() *CaseRepository {
	return &CaseRepository{}
}

func (r *CaseRepository) Create(_ context.Context, c *entity.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	stored := *c
	r.cases = append(r.cases, &stored)
	return nil
}

func (r *CaseRepository) ListByPatient(_ context.Context, patientID string) ([]*entity.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Case, 0)
	for _, c := range r.cases {
		if c.PatientID == patientID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ repository.CaseRepository = (*CaseRepository)(nil)
