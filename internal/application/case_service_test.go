package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	repo "github.com/oksasatya/health-referral-api/internal/domain/repository"
	"github.com/oksasatya/health-referral-api/internal/infrastructure/memory"
)

type fakeUploader struct {
	mu      sync.Mutex
	paths   []string
	types   []string
	bodies  []string
	err     error
	baseURL string
}

func (f *fakeUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, objectPath)
	f.types = append(f.types, contentType)
	f.bodies = append(f.bodies, string(b))
	return f.baseURL + objectPath, nil
}

type fakeEvents struct {
	published []*entity.Case
	err       error
}

func (f *fakeEvents) CaseCreated(_ context.Context, c *entity.Case) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, c)
	return nil
}

type fakeSearch struct {
	gotQ, gotPatient string
	gotSize          int
	hits             []*entity.Case
	err              error
}

func (f *fakeSearch) SearchCases(_ context.Context, q, patientID string, size int) ([]*entity.Case, error) {
	f.gotQ, f.gotPatient, f.gotSize = q, patientID, size
	return f.hits, f.err
}

type failingCases struct {
	*memory.CaseRepository
	err error
}

func (f *failingCases) Create(context.Context, *entity.Case) error { return f.err }

type caseFixture struct {
	svc      *CaseService
	uploader *fakeUploader
	events   *fakeEvents
	cases    *memory.CaseRepository
	hook     *test.Hook
	patient  string
	worker   string
}

func newCaseFixture(t *testing.T) *caseFixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	users := memory.NewUserRepository()
	patient := &entity.User{Name: "A", Email: "a@x.com", CNIC: "1111111111111", Role: entity.RolePatient, IsApproved: true}
	require.NoError(t, users.Create(context.Background(), patient))
	worker := &entity.User{Name: "W", Email: "w@x.com", CNIC: "2222222222222", Role: entity.RoleWorker, IsApproved: true}
	require.NoError(t, users.Create(context.Background(), worker))

	f := &caseFixture{
		uploader: &fakeUploader{baseURL: "https://storage.googleapis.com/bucket/"},
		events:   &fakeEvents{},
		cases:    memory.NewCaseRepository(),
		hook:     hook,
		patient:  patient.ID,
		worker:   worker.ID,
	}
	f.svc = NewCaseService(f.cases, users, f.uploader, f.events, nil, logger, "cases")
	return f
}

func (f *caseFixture) input() CreateCaseInput {
	return CreateCaseInput{
		PatientID:        f.patient,
		PatientHistory:   "fever for 3 days",
		Image:            strings.NewReader("jpeg-bytes"),
		ImageName:        "Scan.JPG",
		ImageContentType: "image/jpeg",
	}
}

func TestCreateCase_UploadsThenStores(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, f.input())
	require.NoError(t, err)

	require.Len(t, f.uploader.paths, 1)
	objectPath := f.uploader.paths[0]
	assert.True(t, strings.HasPrefix(objectPath, "cases/"+f.patient+"/"))
	assert.True(t, strings.HasSuffix(objectPath, ".jpg"))
	assert.Equal(t, "image/jpeg", f.uploader.types[0])
	assert.Equal(t, "jpeg-bytes", f.uploader.bodies[0])

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, f.patient, v.PatientID)
	assert.Equal(t, "fever for 3 days", v.PatientHistory)
	assert.Equal(t, "https://storage.googleapis.com/bucket/"+objectPath, v.ImageURL)
	assert.False(t, v.CreatedAt.IsZero())

	stored, err := f.cases.ListByPatient(ctx, f.patient)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, v.ImageURL, stored[0].ImageURL)

	require.Len(t, f.events.published, 1)
	assert.Equal(t, v.ID, f.events.published[0].ID)
}

func TestCreateCase_DefaultContentType(t *testing.T) {
	f := newCaseFixture(t)
	in := f.input()
	in.ImageContentType = ""
	in.ImageName = "noext"

	_, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", f.uploader.types[0])
	assert.NotContains(t, f.uploader.paths[0], ".")
}

func TestCreateCase_MissingFields(t *testing.T) {
	f := newCaseFixture(t)

	cases := map[string]func(in *CreateCaseInput){
		"no patient": func(in *CreateCaseInput) { in.PatientID = "" },
		"no history": func(in *CreateCaseInput) { in.PatientHistory = "  " },
		"no image":   func(in *CreateCaseInput) { in.Image = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := f.input()
			mutate(&in)
			_, err := f.svc.Create(context.Background(), in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "All fields are required.", verr.Message)
		})
	}
	assert.Empty(t, f.uploader.paths)
}

func TestCreateCase_UnknownPatientUploadsNothing(t *testing.T) {
	f := newCaseFixture(t)
	in := f.input()
	in.PatientID = "someone-else"

	_, err := f.svc.Create(context.Background(), in)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Patient not found.", err.Error())
	assert.Empty(t, f.uploader.paths)
}

func TestCreateCase_WorkerIDIsNotAPatient(t *testing.T) {
	f := newCaseFixture(t)
	in := f.input()
	in.PatientID = f.worker

	_, err := f.svc.Create(context.Background(), in)
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Patient not found.", verr.Message)
	assert.Equal(t, "is not a patient", verr.Fields["patientId"])
	assert.Empty(t, f.uploader.paths)

	stored, err := f.cases.ListByPatient(context.Background(), f.worker)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCreateCase_UploadFailureStoresNothing(t *testing.T) {
	f := newCaseFixture(t)
	f.uploader.err = errors.New("bucket unreachable")

	_, err := f.svc.Create(context.Background(), f.input())
	assert.ErrorIs(t, err, ErrUpstream)

	stored, _ := f.cases.ListByPatient(context.Background(), f.patient)
	assert.Empty(t, stored)
	assert.Empty(t, f.events.published)
}

func TestCreateCase_StoreFailures(t *testing.T) {
	f := newCaseFixture(t)

	f.svc.Cases = &failingCases{CaseRepository: f.cases, err: repo.ErrInvalidID}
	_, err := f.svc.Create(context.Background(), f.input())
	assert.ErrorIs(t, err, ErrValidation)

	f.svc.Cases = &failingCases{CaseRepository: f.cases, err: errors.New("write conflict")}
	_, err = f.svc.Create(context.Background(), f.input())
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, f.events.published)
}

func TestCreateCase_EventFailureIsNotFatal(t *testing.T) {
	f := newCaseFixture(t)
	f.events.err = errors.New("channel closed")

	v, err := f.svc.Create(context.Background(), f.input())
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)

	require.NotNil(t, f.hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, f.hook.LastEntry().Level)
	assert.Equal(t, v.ID, f.hook.LastEntry().Data["case_id"])
}

func TestCreateCase_WithoutEvents(t *testing.T) {
	f := newCaseFixture(t)
	f.svc.Events = nil

	_, err := f.svc.Create(context.Background(), f.input())
	assert.NoError(t, err)
}

func TestListByPatient(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListByPatient(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	views, err := f.svc.ListByPatient(ctx, f.patient)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)

	first, err := f.svc.Create(ctx, f.input())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.input())
	require.NoError(t, err)

	views, err = f.svc.ListByPatient(ctx, f.patient)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, first.ID, views[0].ID)
	assert.Equal(t, second.ID, views[1].ID)
}

func TestSearchHistory(t *testing.T) {
	f := newCaseFixture(t)
	ctx := context.Background()

	_, err := f.svc.SearchHistory(ctx, " ", "", 5)
	assert.ErrorIs(t, err, ErrValidation)

	hits, err := f.svc.SearchHistory(ctx, "fever", "", 5)
	require.NoError(t, err)
	assert.Empty(t, hits, "no search backend configured")

	search := &fakeSearch{hits: []*entity.Case{{ID: "c1", PatientID: f.patient, PatientHistory: "fever"}}}
	f.svc.Search = search

	hits, err = f.svc.SearchHistory(ctx, " fever ", f.patient, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c1", hits[0].ID)
	assert.Equal(t, "fever", search.gotQ)
	assert.Equal(t, f.patient, search.gotPatient)
	assert.Equal(t, 10, search.gotSize)

	_, err = f.svc.SearchHistory(ctx, "fever", "", 500)
	require.NoError(t, err)
	assert.Equal(t, 10, search.gotSize)

	search.err = errors.New("es down")
	_, err = f.svc.SearchHistory(ctx, "fever", "", 20)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Equal(t, 20, search.gotSize)
}
