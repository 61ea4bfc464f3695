package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	"github.com/oksasatya/health-referral-api/internal/domain/repository"
)

const caseCollection = "cases"

type caseDocument struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	PatientID      bson.ObjectID `bson:"patientId"`
	PatientHistory string        `bson:"patientHistory"`
	ImageURL       string        `bson:"imageUrl"`
	CreatedAt      time.Time     `bson:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt"`
}

func (d *caseDocument) toEntity() *entity.Case {
	return &entity.Case{
		ID:             d.ID.Hex(),
		PatientID:      d.PatientID.Hex(),
		PatientHistory: d.PatientHistory,
		ImageURL:       d.ImageURL,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type CaseRepository struct {
	coll *mongo.Collection
}

func NewCaseRepository(ctx context.Context, db *mongo.Database) (*CaseRepository, error) {
	coll := db.Collection(caseCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "patientId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	return &CaseRepository{coll: coll}, nil
}

func (r *CaseRepository) Create(ctx context.Context, c *entity.Case) error {
	pid, err := bson.ObjectIDFromHex(c.PatientID)
	if err != nil {
		return repository.ErrInvalidID
	}
	now := time.Now().UTC()
	doc := caseDocument{
		PatientID:      pid,
		PatientHistory: c.PatientHistory,
		ImageURL:       c.ImageURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return errors.New("failed to convert inserted ID to ObjectID")
	}
	c.ID = oid.Hex()
	c.CreatedAt = now
	c.UpdatedAt = now
	return nil
}

func (r *CaseRepository) ListByPatient(ctx context.Context, patientID string) ([]*entity.Case, error) {
	pid, err := bson.ObjectIDFromHex(patientID)
	if err != nil {
		return []*entity.Case{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"patientId": pid}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []caseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*entity.Case, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

var _ repository.CaseRepository = (*CaseRepository)(nil)
