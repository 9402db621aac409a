package repository

import (
	"context"
	"time"

	"descontamina/internal/model"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreDiagnosisRepo struct {
	client *firestore.Client
}

// NewFirestoreDiagnosisRepo connects to the named Firestore database
func NewFirestoreDiagnosisRepo(ctx context.Context, projectID, databaseID string) (DiagnosisRepo, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}
	return &firestoreDiagnosisRepo{client: client}, nil
}

func (r *firestoreDiagnosisRepo) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(DiagnosesCollection).Doc(id)
}

func (r *firestoreDiagnosisRepo) Get(ctx context.Context, id string) (*model.Submission, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get diagnosis", goerr.V("id", id))
	}

	var s model.Submission
	if err := snap.DataTo(&s); err != nil {
		return nil, goerr.Wrap(err, "failed to decode diagnosis", goerr.V("id", id))
	}
	return &s, nil
}

func (r *firestoreDiagnosisRepo) Upsert(ctx context.Context, id string, s *model.Submission) error {
	ref := r.doc(id)
	data := s.Fields()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) != codes.NotFound {
				return err
			}
			createdAt := s.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			data[model.FieldCreatedAt] = createdAt
		}
		if len(data) == 0 {
			return nil
		}
		return tx.Set(ref, data, firestore.MergeAll)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to upsert diagnosis", goerr.V("id", id))
	}
	return nil
}

func (r *firestoreDiagnosisRepo) Close(_ context.Context) error {
	return r.client.Close()
}
