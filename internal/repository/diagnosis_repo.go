package repository

import (
	"context"
	"time"

	"descontamina/internal/model"

	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DiagnosesCollection is the collection (or Firestore collection) holding submissions
const DiagnosesCollection = "diagnoses"

// DiagnosisRepo stores submissions under the identifier derived from the email.
// Upsert merges: fields present in s overwrite, absent fields are kept, and
// created_at is set only when the record does not exist yet.
// Get returns nil, nil when no record exists.
type DiagnosisRepo interface {
	Get(ctx context.Context, id string) (*model.Submission, error)
	Upsert(ctx context.Context, id string, s *model.Submission) error
	Close(ctx context.Context) error
}

type diagnosisRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewDiagnosisRepo creates the MongoDB backed repository
func NewDiagnosisRepo(client *mongo.Client, database string) DiagnosisRepo {
	return &diagnosisRepo{
		client:     client,
		collection: client.Database(database).Collection(DiagnosesCollection),
	}
}

func (r *diagnosisRepo) Get(ctx context.Context, id string) (*model.Submission, error) {
	var s model.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get diagnosis", goerr.V("id", id))
	}
	return &s, nil
}

func (r *diagnosisRepo) Upsert(ctx context.Context, id string, s *model.Submission) error {
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	update := bson.M{
		"$setOnInsert": bson.M{model.FieldCreatedAt: createdAt},
	}
	if set := s.Fields(); len(set) > 0 {
		update["$set"] = set
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update, opts); err != nil {
		return goerr.Wrap(err, "failed to upsert diagnosis", goerr.V("id", id))
	}
	return nil
}

func (r *diagnosisRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
