package service

import (
	"context"
	"time"

	"descontamina/internal/catalog"
	"descontamina/internal/chart"
	"descontamina/internal/model"
	"descontamina/internal/repository"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

const (
	reportTimezone   = "America/Sao_Paulo"
	reportDateLayout = "02/01/2006"
)

// ReportOptions are the static parts of every report page
type ReportOptions struct {
	CalLink       string
	ConsultantB64 string
}

// ReportService builds the view model of the report page
type ReportService struct {
	catalog  *catalog.Catalog
	repo     repository.DiagnosisRepo
	composer *Composer
	refs     ReferenceCodec
	opts     ReportOptions
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates the service; repo may be nil
func NewReportService(cat *catalog.Catalog, repo repository.DiagnosisRepo, composer *Composer, refs ReferenceCodec, opts ReportOptions, logger *zap.Logger) *ReportService {
	loc, err := time.LoadLocation(reportTimezone)
	if err != nil {
		logger.Warn("timezone data unavailable, using fixed UTC-3", zap.Error(err))
		loc = time.FixedZone("BRT", -3*60*60)
	}
	return &ReportService{
		catalog:  cat,
		repo:     repo,
		composer: composer,
		refs:     refs,
		opts:     opts,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// View loads the submission behind ref and composes its report
func (s *ReportService) View(ctx context.Context, ref string) (*model.ReportView, error) {
	if s.repo == nil {
		return nil, goerr.Wrap(ErrStoreUnavailable, "cannot load report")
	}

	id, err := s.refs.Decode(ref)
	if err != nil {
		return nil, goerr.Wrap(ErrReportNotFound, "undecodable reference", goerr.V("cause", err.Error()))
	}

	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Error("failed to read report", zap.String("id", id), zap.Error(err))
		return nil, goerr.Wrap(ErrReportRead, "store get failed", goerr.V("id", id), goerr.V("cause", err.Error()))
	}
	if sub == nil {
		return nil, goerr.Wrap(ErrReportNotFound, "no record", goerr.V("id", id))
	}

	scores := s.LabeledScores(sub.Averages)
	radar, err := chart.RadarBase64(scores)
	if err != nil {
		s.logger.Warn("failed to render radar chart", zap.String("id", id), zap.Error(err))
		radar = ""
	}

	return &model.ReportView{
		Reference:          ref,
		UserInfo:           sub.UserInfo(),
		Scores:             scores,
		SWOT:               sub.SWOT(),
		RadarChartB64:      radar,
		ConsultantB64:      s.opts.ConsultantB64,
		GenerationDate:     s.now().In(s.location).Format(reportDateLayout),
		Availability:       []string{},
		IntelligentContent: s.composer.Compose(ctx, sub),
		CalLink:            s.opts.CalLink,
	}, nil
}

// LabeledScores keys the stored averages by display name, in catalog order
func (s *ReportService) LabeledScores(averages map[string]float64) []model.LabeledScore {
	ids := make([]model.DimensionID, 0, len(averages))
	for id := range averages {
		ids = append(ids, model.DimensionID(id))
	}
	s.catalog.SortDimensions(ids)

	out := make([]model.LabeledScore, len(ids))
	for i, id := range ids {
		out[i] = model.LabeledScore{Label: s.catalog.DisplayName(id), Value: averages[string(id)]}
	}
	return out
}
