package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"descontamina/internal/catalog"
	"descontamina/internal/model"
	"descontamina/internal/repository"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

const crmPushTimeout = 15 * time.Second

// SubmissionService turns a survey payload into a stored diagnosis
type SubmissionService struct {
	catalog *catalog.Catalog
	repo    repository.DiagnosisRepo
	crm     CRM
	refs    ReferenceCodec
	logger  *zap.Logger
	now     func() time.Time

	pushes sync.WaitGroup
}

// NewSubmissionService creates the service. repo and crm may be nil; the
// submission then runs without persistence or without the CRM push.
func NewSubmissionService(cat *catalog.Catalog, repo repository.DiagnosisRepo, crm CRM, refs ReferenceCodec, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		catalog: cat,
		repo:    repo,
		crm:     crm,
		refs:    refs,
		logger:  logger,
		now:     time.Now,
	}
}

// Build validates the payload and computes answers and averages
func (s *SubmissionService) Build(payload map[string]any) (*model.Submission, error) {
	if payload == nil {
		return nil, goerr.Wrap(ErrValidation, "empty payload")
	}
	email := stringField(payload, model.FieldEmail)
	if email == "" {
		return nil, goerr.Wrap(ErrValidation, "email is required")
	}
	// the record id is a single path segment of the report URL
	if strings.Contains(email, "/") {
		return nil, goerr.Wrap(ErrValidation, "email contains a path separator", goerr.V("email", email))
	}

	answers := ParseScores(s.catalog, payload)
	return &model.Submission{
		Name:          stringField(payload, model.FieldName),
		Company:       stringField(payload, model.FieldCompany),
		Email:         email,
		Phone:         stringField(payload, model.FieldPhone),
		Strengths:     stringField(payload, model.FieldStrengths),
		Weaknesses:    stringField(payload, model.FieldWeaknesses),
		Opportunities: stringField(payload, model.FieldOpportunities),
		Threats:       stringField(payload, model.FieldThreats),
		AllAnswers:    answers,
		Averages:      Averages(s.catalog, answers),
		UpdatedAt:     s.now().UTC(),
		Present:       presentFields(payload),
	}, nil
}

var textFields = []string{
	model.FieldName, model.FieldCompany, model.FieldEmail, model.FieldPhone,
	model.FieldStrengths, model.FieldWeaknesses, model.FieldOpportunities, model.FieldThreats,
}

// presentFields marks the text fields sent in the payload, empty or not
func presentFields(payload map[string]any) map[string]bool {
	present := make(map[string]bool, len(textFields))
	for _, f := range textFields {
		if _, ok := payload[f]; ok {
			present[f] = true
		}
	}
	return present
}

// Submit stores the submission and returns its report reference
func (s *SubmissionService) Submit(ctx context.Context, payload map[string]any) (string, error) {
	sub, err := s.Build(payload)
	if err != nil {
		return "", err
	}
	id := model.DocumentID(sub.Email)

	if s.repo == nil {
		s.logger.Warn("document store unavailable, skipping persistence", zap.String("id", id))
	} else if err := s.repo.Upsert(ctx, id, sub); err != nil {
		s.logger.Error("failed to save submission", zap.String("id", id), zap.Error(err))
		return "", goerr.Wrap(ErrStoreWrite, "upsert failed", goerr.V("id", id), goerr.V("cause", err.Error()))
	}

	s.pushToCRM(sub.Clone())

	ref, err := s.refs.Encode(id)
	if err != nil {
		return "", err
	}
	return ref, nil
}

// pushToCRM runs the CRM call in the background; its outcome is only logged
func (s *SubmissionService) pushToCRM(sub *model.Submission) {
	if s.crm == nil {
		return
	}
	s.pushes.Add(1)
	go func() {
		defer s.pushes.Done()
		ctx, cancel := context.WithTimeout(context.Background(), crmPushTimeout)
		defer cancel()

		ok, err := s.crm.UpsertDeal(ctx, sub)
		if err != nil {
			s.logger.Warn("CRM push failed", zap.String("email", sub.Email), zap.Error(err))
			return
		}
		s.logger.Debug("CRM push finished", zap.Bool("pushed", ok))
	}()
}

// Wait blocks until background CRM pushes have finished
func (s *SubmissionService) Wait() {
	s.pushes.Wait()
}

func stringField(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	case json.Number:
		return v.String()
	case float64, bool:
		return fmt.Sprint(v)
	}
	return ""
}
