package repository

import (
	"context"
	"time"

	"descontamina/internal/config"

	"github.com/m-mizutani/goerr/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Open connects the configured backend. It returns nil, nil for the "none"
// backend; callers run without persistence in that case.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (DiagnosisRepo, error) {
	switch cfg.Backend {
	case config.StoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to connect to MongoDB")
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			_ = client.Disconnect(ctx)
			return nil, goerr.Wrap(err, "failed to ping MongoDB")
		}
		logger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))
		return NewDiagnosisRepo(client, cfg.MongoDatabase), nil

	case config.StoreFirestore:
		repo, err := NewFirestoreDiagnosisRepo(ctx, cfg.FirestoreProjectID, cfg.FirestoreDatabaseID)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to Firestore",
			zap.String("project", cfg.FirestoreProjectID),
			zap.String("database", cfg.FirestoreDatabaseID))
		return repo, nil

	case config.StoreMemory:
		logger.Warn("using in-memory store; submissions are lost on restart")
		return NewMemoryDiagnosisRepo(), nil

	case config.StoreNone, "":
		logger.Warn("no document store configured; submissions will not be persisted")
		return nil, nil
	}
	return nil, goerr.New("unknown store backend", goerr.V("backend", cfg.Backend))
}
