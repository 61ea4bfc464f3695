package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	"github.com/oksasatya/health-referral-api/internal/domain/repository"
)

// UserRepository keeps users in process memory. Email and CNIC uniqueness is
// checked under the write lock, so concurrent Create calls cannot both win.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	order   []string
	byEmail map[string]string
	byCNIC  map[string]string
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    map[string]*entity.User{},
		byEmail: map[string]string{},
		byCNIC:  map[string]string{},
		now:     time.Now,
	}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := r.byCNIC[u.CNIC]; ok {
		return repository.ErrDuplicate
	}

	now := r.now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	stored := *u
	r.byID[u.ID] = &stored
	r.order = append(r.order, u.ID)
	r.byEmail[u.Email] = u.ID
	r.byCNIC[u.CNIC] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) ExistsByEmailOrCNIC(_ context.Context, email, cnic string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, byEmail := r.byEmail[email]
	_, byCNIC := r.byCNIC[cnic]
	return byEmail || byCNIC, nil
}

func (r *UserRepository) ListPendingWorkers(_ context.Context) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.User, 0)
	for _, id := range r.order {
		u := r.byID[id]
		if u.Role == entity.RoleWorker && !u.IsApproved {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *UserRepository) SetApproval(_ context.Context, id string, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsApproved = approved
	u.UpdatedAt = r.now().UTC()
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
