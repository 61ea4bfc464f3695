package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInvalidID is returned when an id is not in the store's id format.
	ErrInvalidID = errors.New("invalid id")
)

// UserRepository defines the interface for user-related database operations.
// Implementations must enforce uniqueness of Email and CNIC at the storage level
// and report violations from Create as ErrDuplicate.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmailOrCNIC(ctx context.Context, email, cnic string) (bool, error)
	ListPendingWorkers(ctx context.Context) ([]*entity.User, error)
	SetApproval(ctx context.Context, id string, approved bool) error
}
