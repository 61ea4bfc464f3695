package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	"github.com/oksasatya/health-referral-api/internal/domain/repository"
)

type CaseRepository struct {
	pool *pgxpool.Pool
}

func NewCaseRepository(pool *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{pool: pool}
}

func (r *CaseRepository) Create(ctx context.Context, c *entity.Case) error {
	if _, err := uuid.Parse(c.PatientID); err != nil {
		return repository.ErrInvalidID
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO cases (patient_id, patient_history, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.PatientID, c.PatientHistory, c.ImageURL)
	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CaseRepository) ListByPatient(ctx context.Context, patientID string) ([]*entity.Case, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return []*entity.Case{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, patient_history, image_url, created_at, updated_at
		FROM cases
		WHERE patient_id = $1
		ORDER BY created_at
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Case, 0)
	for rows.Next() {
		c := &entity.Case{}
		if err := rows.Scan(&c.ID, &c.PatientID, &c.PatientHistory, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.CaseRepository = (*CaseRepository)(nil)
