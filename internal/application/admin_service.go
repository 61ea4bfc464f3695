package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	repo "github.com/oksasatya/health-referral-api/internal/domain/repository"
	"github.com/oksasatya/health-referral-api/pkg/helpers"
)

// AdminService lists workers awaiting approval and sets their approval flag.
type AdminService struct {
	Users  repo.UserRepository
	Logger *logrus.Logger
}

func NewAdminService(users repo.UserRepository, logger *logrus.Logger) *AdminService {
	return &AdminService{Users: users, Logger: logger}
}

// WorkerProfile is a user without the password hash, as listed to admins.
// The _id key matches what the mobile admin screens already read.
type WorkerProfile struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Age         int           `json:"age"`
	Gender      entity.Gender `json:"gender"`
	PhoneNumber string        `json:"phoneNumber"`
	CNIC        string        `json:"cnic"`
	Email       string        `json:"email"`
	Role        entity.Role   `json:"role"`
	IsApproved  bool          `json:"isApproved"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func NewWorkerProfile(u *entity.User) WorkerProfile {
	return WorkerProfile{
		ID:          u.ID,
		Name:        u.Name,
		Age:         u.Age,
		Gender:      u.Gender,
		PhoneNumber: u.PhoneNumber,
		CNIC:        u.CNIC,
		Email:       u.Email,
		Role:        u.Role,
		IsApproved:  u.IsApproved,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type SetApprovalInput struct {
	WorkerID string `json:"workerId"`
	Approve  *bool  `json:"approve"`
}

type ApprovalResult struct {
	WorkerID string
	Approved bool
}

// ListPendingWorkers returns every worker with isApproved=false in store order.
func (s *AdminService) ListPendingWorkers(ctx context.Context) ([]WorkerProfile, error) {
	users, err := s.Users.ListPendingWorkers(ctx)
	if err != nil {
		helpers.LogError(s.Logger, "list pending workers failed", err, nil)
		return nil, storageErr(err)
	}
	out := make([]WorkerProfile, 0, len(users))
	for _, u := range users {
		out = append(out, NewWorkerProfile(u))
	}
	return out, nil
}

// SetApproval unconditionally sets the approval flag on the record with the given id.
// Repeating a call is harmless. A missing record is ErrNotFound.
func (s *AdminService) SetApproval(ctx context.Context, in SetApprovalInput) (*ApprovalResult, error) {
	in.WorkerID = strings.TrimSpace(in.WorkerID)
	fields := map[string]string{}
	if in.WorkerID == "" {
		fields["workerId"] = "is required"
	}
	if in.Approve == nil {
		fields["approve"] = "is required"
	}
	if len(fields) > 0 {
		return nil, newValidationError("workerId and approve are required", fields)
	}

	if err := s.Users.SetApproval(ctx, in.WorkerID, *in.Approve); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		helpers.LogError(s.Logger, "set approval failed", err, logrus.Fields{"worker_id": in.WorkerID})
		return nil, storageErr(err)
	}
	metrics.Add(metricApprovalChanges, 1)

	return &ApprovalResult{WorkerID: in.WorkerID, Approved: *in.Approve}, nil
}
