package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"descontamina/internal/catalog"
	"descontamina/internal/model"

	"go.uber.org/zap"
)

const unknownDimensionQuery = "cultura organizacional"

// CaseStudyService finds a published case study about the weakest dimension
type CaseStudyService struct {
	catalog  *catalog.Catalog
	searcher Searcher
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCaseStudyService creates the service; searcher may be nil
func NewCaseStudyService(cat *catalog.Catalog, searcher Searcher, timeout time.Duration, logger *zap.Logger) *CaseStudyService {
	return &CaseStudyService{
		catalog:  cat,
		searcher: searcher,
		timeout:  timeout,
		logger:   logger,
	}
}

// Query builds the search query for a dimension
func (s *CaseStudyService) Query(dim model.DimensionID) string {
	name := unknownDimensionQuery
	if s.catalog.Has(dim) {
		name = s.catalog.DisplayName(dim)
	}
	return fmt.Sprintf(`estudo de caso PME melhorou "%s"`, strings.ToLower(name))
}

// Find returns the first complete search hit or the default case study
func (s *CaseStudyService) Find(ctx context.Context, dim model.DimensionID) model.CaseStudy {
	if s.searcher == nil {
		return s.catalog.DefaultCaseStudy()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := s.Query(dim)
	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn("case study search failed, using default", zap.String("query", query), zap.Error(err))
		return s.catalog.DefaultCaseStudy()
	}

	for _, r := range results {
		if r.Title == "" || r.Snippet == "" || r.URL == "" {
			continue
		}
		source := r.Source
		if source == "" {
			source = hostOf(r.URL)
		}
		return model.CaseStudy{Title: r.Title, Snippet: r.Snippet, URL: r.URL, Source: source}
	}

	s.logger.Info("no usable case study found, using default", zap.String("query", query))
	return s.catalog.DefaultCaseStudy()
}
