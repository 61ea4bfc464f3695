package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	"github.com/oksasatya/health-referral-api/internal/domain/repository"
)

func newUser(email, cnic string, role entity.Role) *entity.User {
	return &entity.User{
		Name: "N", Age: 30, Gender: entity.GenderOther, PhoneNumber: "1",
		CNIC: cnic, Email: email, PasswordHash: "h", Role: role,
		IsApproved: entity.InitialApproval(role),
	}
}

func TestUserRepository_CreateAssignsIdentity(t *testing.T) {
	r := NewUserRepository()
	u := newUser("a@x.com", "1", entity.RolePatient)

	require.NoError(t, r.Create(context.Background(), u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)

	got, err := r.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUserRepository_UniqueEmailAndCNIC(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, newUser("a@x.com", "1", entity.RolePatient)))

	assert.ErrorIs(t, r.Create(ctx, newUser("a@x.com", "2", entity.RolePatient)), repository.ErrDuplicate)
	assert.ErrorIs(t, r.Create(ctx, newUser("b@x.com", "1", entity.RolePatient)), repository.ErrDuplicate)

	exists, err := r.ExistsByEmailOrCNIC(ctx, "zzz@x.com", "1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_ConcurrentDuplicateRegistration(t *testing.T) {
	r := NewUserRepository()
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := r.Create(context.Background(), newUser("same@x.com", fmt.Sprint(i), entity.RoleWorker)); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestUserRepository_PendingWorkersAndApproval(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	p := newUser("p@x.com", "1", entity.RolePatient)
	w1 := newUser("w1@x.com", "2", entity.RoleWorker)
	w2 := newUser("w2@x.com", "3", entity.RoleWorker)
	for _, u := range []*entity.User{p, w1, w2} {
		require.NoError(t, r.Create(ctx, u))
	}

	pending, err := r.ListPendingWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, w1.ID, pending[0].ID)
	assert.Equal(t, w2.ID, pending[1].ID)

	require.NoError(t, r.SetApproval(ctx, w1.ID, true))
	pending, err = r.ListPendingWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, w2.ID, pending[0].ID)

	assert.ErrorIs(t, r.SetApproval(ctx, "missing", true), repository.ErrNotFound)
	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCaseRepository_ListByPatient(t *testing.T) {
	r := NewCaseRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &entity.Case{PatientID: "p1", PatientHistory: "cough", ImageURL: "u1"}))
	require.NoError(t, r.Create(ctx, &entity.Case{PatientID: "p2", PatientHistory: "fever", ImageURL: "u2"}))
	require.NoError(t, r.Create(ctx, &entity.Case{PatientID: "p1", PatientHistory: "follow-up", ImageURL: "u3"}))

	got, err := r.ListByPatient(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "cough", got[0].PatientHistory)
	assert.Equal(t, "follow-up", got[1].PatientHistory)

	none, err := r.ListByPatient(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
