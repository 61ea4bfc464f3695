package application

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	repo "github.com/oksasatya/health-referral-api/internal/domain/repository"
	"github.com/oksasatya/health-referral-api/pkg/helpers"
)

// ImageUploader stores an image and returns its URL. *helpers.GCSUploader implements it.
type ImageUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// CaseEventPublisher announces stored cases to downstream consumers.
type CaseEventPublisher interface {
	CaseCreated(ctx context.Context, c *entity.Case) error
}

// CaseSearcher runs full-text queries over case histories.
type CaseSearcher interface {
	SearchCases(ctx context.Context, q, patientID string, size int) ([]*entity.Case, error)
}

// CaseService accepts case submissions. Events and Search are optional.
type CaseService struct {
	Cases       repo.CaseRepository
	Users       repo.UserRepository
	Images      ImageUploader
	Events      CaseEventPublisher
	Search      CaseSearcher
	Logger      *logrus.Logger
	ImagePrefix string
}

func NewCaseService(cases repo.CaseRepository, users repo.UserRepository, images ImageUploader, events CaseEventPublisher, search CaseSearcher, logger *logrus.Logger, imagePrefix string) *CaseService {
	return &CaseService{
		Cases:       cases,
		Users:       users,
		Images:      images,
		Events:      events,
		Search:      search,
		Logger:      logger,
		ImagePrefix: imagePrefix,
	}
}

type CreateCaseInput struct {
	PatientID        string
	PatientHistory   string
	Image            io.Reader
	ImageName        string
	ImageContentType string
}

// CaseView is the JSON shape of a stored case.
type CaseView struct {
	ID             string    `json:"_id"`
	PatientID      string    `json:"patientId"`
	PatientHistory string    `json:"patientHistory"`
	ImageURL       string    `json:"imageUrl"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewCaseView(c *entity.Case) CaseView {
	return CaseView{
		ID:             c.ID,
		PatientID:      c.PatientID,
		PatientHistory: c.PatientHistory,
		ImageURL:       c.ImageURL,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func caseViews(cases []*entity.Case) []CaseView {
	out := make([]CaseView, 0, len(cases))
	for _, c := range cases {
		out = append(out, NewCaseView(c))
	}
	return out
}

// Create uploads the image, then stores the case metadata with the returned URL.
func (s *CaseService) Create(ctx context.Context, in CreateCaseInput) (*CaseView, error) {
	in.PatientID = strings.TrimSpace(in.PatientID)
	if in.PatientID == "" || strings.TrimSpace(in.PatientHistory) == "" || in.Image == nil {
		return nil, newValidationError("All fields are required.", nil)
	}

	// Resolve the patient first so a bad id never leaves an orphan image behind.
	u, err := s.Users.GetByID(ctx, in.PatientID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, newValidationError("Patient not found.", map[string]string{"patientId": "does not match a registered user"})
		}
		helpers.LogError(s.Logger, "lookup patient failed", err, logrus.Fields{"patient_id": in.PatientID})
		return nil, storageErr(err)
	}
	if u.Role != entity.RolePatient {
		return nil, newValidationError("Patient not found.", map[string]string{"patientId": "is not a patient"})
	}

	contentType := in.ImageContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := s.Images.Upload(ctx, s.objectPath(in.PatientID, in.ImageName), contentType, in.Image)
	if err != nil {
		helpers.LogError(s.Logger, "image upload failed", err, logrus.Fields{"patient_id": in.PatientID})
		return nil, upstreamErr(err)
	}

	c := &entity.Case{PatientID: in.PatientID, PatientHistory: in.PatientHistory, ImageURL: url}
	if err := s.Cases.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrInvalidID) {
			return nil, newValidationError("Patient not found.", map[string]string{"patientId": "is not a valid id"})
		}
		helpers.LogError(s.Logger, "create case failed", err, logrus.Fields{"patient_id": in.PatientID, "image_url": url})
		return nil, storageErr(err)
	}
	metrics.Add(metricCasesCreated, 1)

	if s.Events != nil {
		if err := s.Events.CaseCreated(ctx, c); err != nil {
			helpers.LogWarn(s.Logger, "publish case.created failed", err, logrus.Fields{"case_id": c.ID})
		}
	}

	v := NewCaseView(c)
	return &v, nil
}

func (s *CaseService) objectPath(patientID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	prefix := s.ImagePrefix
	if prefix == "" {
		prefix = "cases"
	}
	return path.Join(prefix, patientID, uuid.NewString()+ext)
}

// ListByPatient returns the patient's cases oldest first.
func (s *CaseService) ListByPatient(ctx context.Context, patientID string) ([]CaseView, error) {
	patientID = strings.TrimSpace(patientID)
	if patientID == "" {
		return nil, newValidationError("patientId is required.", map[string]string{"patientId": "is required"})
	}
	cases, err := s.Cases.ListByPatient(ctx, patientID)
	if err != nil {
		helpers.LogError(s.Logger, "list cases failed", err, logrus.Fields{"patient_id": patientID})
		return nil, storageErr(err)
	}
	return caseViews(cases), nil
}

// SearchHistory searches case histories. Without a configured search backend it returns no hits.
func (s *CaseService) SearchHistory(ctx context.Context, q, patientID string, size int) ([]CaseView, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, newValidationError("q is required.", map[string]string{"q": "is required"})
	}
	if s.Search == nil {
		return []CaseView{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	cases, err := s.Search.SearchCases(ctx, q, strings.TrimSpace(patientID), size)
	if err != nil {
		helpers.LogError(s.Logger, "case search failed", err, logrus.Fields{"q": q})
		return nil, upstreamErr(err)
	}
	return caseViews(cases), nil
}
