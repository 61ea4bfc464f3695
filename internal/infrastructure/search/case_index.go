package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// CaseIndex stores case documents in Elasticsearch for full-text search over patient history.
type CaseIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewCaseIndex(es *elasticsearch.Client, index string) *CaseIndex {
	return &CaseIndex{ES: es, Index: index}
}

type caseDoc struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	PatientHistory string    `json:"patient_history"`
	ImageURL       string    `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// IndexCase upserts c under its id.
func (x *CaseIndex) IndexCase(ctx context.Context, c *entity.Case) error {
	b, err := json.Marshal(caseDoc{
		ID:             c.ID,
		PatientID:      c.PatientID,
		PatientHistory: c.PatientHistory,
		ImageURL:       c.ImageURL,
		CreatedAt:      c.CreatedAt,
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: c.ID, Body: bytes.NewReader(b), Refresh: "false"}

	cctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(cctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", c.ID, res.Status())
	}
	return nil
}

// caseMapping keeps ids as keyword so patient filters compare whole ids
// instead of analyzed tokens (a UUID splits into five).
var caseMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":              map[string]any{"type": "keyword"},
			"patient_id":      map[string]any{"type": "keyword"},
			"patient_history": map[string]any{"type": "text"},
			"image_url":       map[string]any{"type": "keyword", "index": false},
			"created_at":      map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with caseMapping unless it already exists.
func (x *CaseIndex) EnsureIndex(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(cctx, x.ES)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	b, err := json.Marshal(caseMapping)
	if err != nil {
		return err
	}
	res, err := esapi.IndicesCreateRequest{Index: x.Index, Body: bytes.NewReader(b)}.Do(cctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		// another replica may have created it between the two calls
		body, _ := io.ReadAll(res.Body)
		if bytes.Contains(body, []byte("resource_already_exists_exception")) {
			return nil
		}
		return fmt.Errorf("es create index %s: %s", x.Index, res.Status())
	}
	return nil
}

// BuildQuery returns the search body: a match on patient_history, optionally
// filtered to one patient. patient_id must be a keyword field (see caseMapping).
func BuildQuery(q, patientID string, size int) map[string]any {
	boolQuery := map[string]any{
		"must": []any{
			map[string]any{"match": map[string]any{"patient_history": q}},
		},
	}
	if patientID != "" {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{"patient_id": patientID}},
		}
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"size":  size,
	}
}

// SearchCases runs BuildQuery against the index and returns the matching cases.
func (x *CaseIndex) SearchCases(ctx context.Context, q, patientID string, size int) ([]*entity.Case, error) {
	b, err := json.Marshal(BuildQuery(q, patientID, size))
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(cctx),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source caseDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]*entity.Case, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, &entity.Case{
			ID:             h.Source.ID,
			PatientID:      h.Source.PatientID,
			PatientHistory: h.Source.PatientHistory,
			ImageURL:       h.Source.ImageURL,
			CreatedAt:      h.Source.CreatedAt,
			UpdatedAt:      h.Source.CreatedAt,
		})
	}
	return out, nil
}
