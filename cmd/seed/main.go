package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"descontamina/internal/catalog"
	"descontamina/internal/config"
	"descontamina/internal/logging"
	"descontamina/internal/model"
	"descontamina/internal/repository"
	"descontamina/internal/service"

	"go.uber.org/zap"
)

// seed writes a demo diagnosis into the configured store and prints its
// report path, so the report page can be checked without the survey form.
func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, true)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	if repo == nil {
		logger.Fatal("no document store configured; set MONGO_URI or FIRESTORE_PROJECT_ID")
	}
	defer repo.Close(context.Background())

	cat := catalog.MustLoad()
	payload := map[string]any{
		model.FieldName:          "Marta Demo",
		model.FieldCompany:       "Demo Lda",
		model.FieldEmail:         "demo@descontamina.example",
		model.FieldStrengths:     "Equipa experiente e leal",
		model.FieldWeaknesses:    "Reuniões longas e pouco objetivas",
		model.FieldOpportunities: "Expansão para novos mercados",
		model.FieldThreats:       "Concorrência com salários mais altos",
	}
	scores := map[model.DimensionID]int{
		model.DimensionMotivation:     8,
		model.DimensionCommunication:  3,
		model.DimensionRetention:      6,
		model.DimensionInnovation:     5,
		model.DimensionClimate:        7,
		model.DimensionProductivity:   6,
		model.DimensionSustainability: 4,
	}
	for i, q := range cat.Questions() {
		payload[catalog.FieldName(q)] = scores[q.Dimension] + i%2
	}

	submissions := service.NewSubmissionService(cat, repo, nil, service.NewReferenceCodec(cfg.ReportSigningSecret), logger)
	ref, err := submissions.Submit(ctx, payload)
	if err != nil {
		logger.Fatal("failed to seed diagnosis", zap.Error(err))
	}

	fmt.Fprintf(os.Stdout, "Seeded diagnosis: /relatorio/%s\n", ref)
}
