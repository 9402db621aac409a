package service

import (
	"context"
	"fmt"

	"descontamina/internal/catalog"
	"descontamina/internal/model"
)

const (
	DefaultStrongestLabel = "Ponto Forte"
	DefaultWeakestLabel   = "Oportunidade"
	DefaultCTA            = "Quero minha devolutiva gratuita com Breno"

	ctaFmt = "Quero desbloquear a %s na minha equipa"
)

// Composer assembles the intelligent content of one report
type Composer struct {
	catalog   *catalog.Catalog
	narrative *NarrativeService
	caseStudy *CaseStudyService
}

func NewComposer(cat *catalog.Catalog, narrative *NarrativeService, caseStudy *CaseStudyService) *Composer {
	return &Composer{
		catalog:   cat,
		narrative: narrative,
		caseStudy: caseStudy,
	}
}

// Default is the content shown when a submission has no averages
func (c *Composer) Default() model.IntelligentContent {
	def := c.catalog.Knowledge(model.DimensionDefault)
	strong := def.Advice(model.PolarityStrength)
	weak := def.Advice(model.PolarityWeakness)
	return model.IntelligentContent{
		ActionPlan: model.ActionPlan{
			Strongest: model.ActionItem{Dimension: DefaultStrongestLabel, Analysis: strong.Analysis, Action: strong.Action},
			Weakest:   model.ActionItem{Dimension: DefaultWeakestLabel, Analysis: weak.Analysis, Action: weak.Action},
		},
		AINarrative: ProcessingNarrative,
		CaseStudy:   c.catalog.DefaultCaseStudy(),
		CTAText:     DefaultCTA,
		Testimonial: c.catalog.Testimonial(model.DimensionDefault),
	}
}

// Compose runs ranking, knowledge lookup, narrative and case study for one submission
func (c *Composer) Compose(ctx context.Context, s *model.Submission) model.IntelligentContent {
	ranking, ok := Rank(c.catalog, s.Averages)
	if !ok {
		return c.Default()
	}

	weakest := ranking.Weakest.Dimension
	strongest := ranking.Strongest.Dimension
	strong := c.catalog.Advice(strongest, model.PolarityStrength)
	weak := c.catalog.Advice(weakest, model.PolarityWeakness)

	narrative := c.narrative.Narrate(ctx, weakest, s.AllAnswers, s.SWOT())

	return model.IntelligentContent{
		ActionPlan: model.ActionPlan{
			Strongest: model.ActionItem{Dimension: c.catalog.DisplayName(strongest), Analysis: strong.Analysis, Action: strong.Action},
			Weakest:   model.ActionItem{Dimension: c.catalog.DisplayName(weakest), Analysis: weak.Analysis, Action: weak.Action},
		},
		AINarrative: narrative.Text,
		CaseStudy:   c.caseStudy.Find(ctx, weakest),
		CTAText:     fmt.Sprintf(ctaFmt, c.catalog.SentenceName(weakest)),
		Testimonial: c.catalog.Testimonial(weakest),
	}
}
