package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	"github.com/oksasatya/health-referral-api/internal/domain/event"
)

type recordingIndexer struct {
	got []*entity.Case
	err error
}

func (r *recordingIndexer) IndexCase(_ context.Context, c *entity.Case) error {
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, c)
	return nil
}

func caseCreatedBody(t *testing.T) []byte {
	t.Helper()
	b, err := json.Marshal(event.NewCaseCreated(&entity.Case{
		ID: "c1", PatientID: "p1", PatientHistory: "cough", ImageURL: "https://img/1.jpg",
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}))
	require.NoError(t, err)
	return b
}

func TestHandle_IndexesCase(t *testing.T) {
	idx := &recordingIndexer{}
	assert.Equal(t, ack, handle(context.Background(), idx, caseCreatedBody(t)))

	require.Len(t, idx.got, 1)
	assert.Equal(t, "c1", idx.got[0].ID)
	assert.Equal(t, "p1", idx.got[0].PatientID)
	assert.Equal(t, "cough", idx.got[0].PatientHistory)
}

func TestHandle_DropsBadMessages(t *testing.T) {
	idx := &recordingIndexer{}
	assert.Equal(t, drop, handle(context.Background(), idx, []byte("{")))
	assert.Equal(t, drop, handle(context.Background(), idx, []byte(`{"type":"case.deleted","case_id":"c1"}`)))
	assert.Equal(t, drop, handle(context.Background(), idx, []byte(`{"type":"case.created"}`)))
	assert.Empty(t, idx.got)
}

func TestHandle_RequeuesOnIndexFailure(t *testing.T) {
	idx := &recordingIndexer{err: errors.New("es unavailable")}
	assert.Equal(t, retry, handle(context.Background(), idx, caseCreatedBody(t)))
}
