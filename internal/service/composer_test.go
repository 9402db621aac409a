package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"descontamina/internal/catalog"
	"descontamina/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestComposer(gen Generator, searcher Searcher) *Composer {
	cat := catalog.MustLoad()
	return NewComposer(cat,
		NewNarrativeService(cat, gen, time.Second, zap.NewNop()),
		NewCaseStudyService(cat, searcher, time.Second, zap.NewNop()),
	)
}

func TestComposeEmptyAverages(t *testing.T) {
	cat := catalog.MustLoad()
	gen := &fakeGenerator{text: "never"}
	s := &fakeSearcher{}
	c := newTestComposer(gen, s)

	got := c.Compose(context.Background(), &model.Submission{Email: "a@b.com"})
	def := cat.Knowledge(model.DimensionDefault)

	assert.Equal(t, "Ponto Forte", got.ActionPlan.Strongest.Dimension)
	assert.Equal(t, "Oportunidade", got.ActionPlan.Weakest.Dimension)
	assert.Equal(t, def.StrengthAnalysis, got.ActionPlan.Strongest.Analysis)
	assert.Equal(t, def.WeaknessAction, got.ActionPlan.Weakest.Action)
	assert.Equal(t, "A análise do seu diagnóstico está a ser processada.", got.AINarrative)
	assert.Equal(t, cat.DefaultCaseStudy(), got.CaseStudy)
	assert.Equal(t, "Quero minha devolutiva gratuita com Breno", got.CTAText)
	assert.Equal(t, "Veloce Logística", got.Testimonial.Company)

	assert.Empty(t, gen.prompts)
	assert.Empty(t, s.queries)
}

func TestComposeAllFives(t *testing.T) {
	cat := catalog.MustLoad()
	c := newTestComposer(nil, nil)
	answers := ParseScores(cat, payloadWithAll(5))

	got := c.Compose(context.Background(), &model.Submission{
		AllAnswers: answers,
		Averages:   Averages(cat, answers),
	})

	mot := cat.Knowledge(model.DimensionMotivation)
	assert.Equal(t, "Motivação", got.ActionPlan.Strongest.Dimension)
	assert.Equal(t, "Motivação", got.ActionPlan.Weakest.Dimension)
	assert.Equal(t, mot.StrengthAnalysis, got.ActionPlan.Strongest.Analysis)
	assert.Equal(t, mot.WeaknessAnalysis, got.ActionPlan.Weakest.Analysis)
	assert.Equal(t, fallbackMotivation, got.AINarrative)
	assert.Equal(t, "Quero desbloquear a Motivação na minha equipa", got.CTAText)
	assert.Equal(t, "Construtora Aliança", got.Testimonial.Company)
}

func TestComposeCommunicationWeakest(t *testing.T) {
	cat := catalog.MustLoad()
	gen := &fakeGenerator{text: "Narrativa gerada."}
	s := &fakeSearcher{results: []SearchResult{{Title: "T", Snippet: "S", URL: "https://x.example/a"}}}
	c := newTestComposer(gen, s)

	got := c.Compose(context.Background(), &model.Submission{
		AllAnswers: map[string]int{"communication-0": 1, "communication-1": 2, "retention-0": 9},
		Averages: map[string]float64{
			"motivation": 6, "communication": 1.5, "retention": 9, "innovation": 7,
			"climate": 6, "productivity": 5, "sustainability": 6,
		},
	})

	assert.Equal(t, "Retenção", got.ActionPlan.Strongest.Dimension)
	assert.Equal(t, cat.Knowledge(model.DimensionDefault).StrengthAnalysis, got.ActionPlan.Strongest.Analysis)
	assert.Equal(t, "Comunicação", got.ActionPlan.Weakest.Dimension)
	assert.Contains(t, got.ActionPlan.Weakest.Action, "Office Hours")
	assert.Equal(t, "Narrativa gerada.", got.AINarrative)
	assert.Equal(t, "x.example", got.CaseStudy.Source)
	assert.Equal(t, "Quero desbloquear a Comunicação na minha equipa", got.CTAText)
	assert.Equal(t, "InovaTech", got.Testimonial.Company)
	assert.Equal(t, []string{`estudo de caso PME melhorou "comunicação"`}, s.queries)
}

func TestComposeUnknownWeakest(t *testing.T) {
	c := newTestComposer(nil, nil)
	got := c.Compose(context.Background(), &model.Submission{
		Averages: map[string]float64{"leadership": 1, "motivation": 8},
	})
	assert.Equal(t, "leadership", got.ActionPlan.Weakest.Dimension)
	assert.Equal(t, "Quero desbloquear a Cultura na minha equipa", got.CTAText)
	assert.Equal(t, "Veloce Logística", got.Testimonial.Company)
}

func TestComposeMotivationZeroOthersTen(t *testing.T) {
	cat := catalog.MustLoad()
	payload := payloadWithAll(10)
	for i := 0; i < 3; i++ {
		payload[fmt.Sprintf("q-motivation-%d", i)] = 0
	}
	answers := ParseScores(cat, payload)
	averages := Averages(cat, answers)
	require.Equal(t, 0.0, averages["motivation"])

	ranking, ok := Rank(cat, averages)
	require.True(t, ok)
	assert.Equal(t, model.DimensionMotivation, ranking.Weakest.Dimension)
	assert.Equal(t, 0.0, ranking.Weakest.Value)
	assert.Equal(t, model.DimensionCommunication, ranking.Strongest.Dimension)

	got := newTestComposer(nil, nil).Compose(context.Background(), &model.Submission{
		AllAnswers: answers,
		Averages:   averages,
	})
	mot := cat.Knowledge(model.DimensionMotivation)
	assert.Equal(t, "Motivação", got.ActionPlan.Weakest.Dimension)
	assert.Equal(t, mot.WeaknessAnalysis, got.ActionPlan.Weakest.Analysis)
	assert.Equal(t, mot.WeaknessAction, got.ActionPlan.Weakest.Action)
	assert.Equal(t, "Comunicação", got.ActionPlan.Strongest.Dimension)
	assert.Equal(t, fallbackMotivation, got.AINarrative)
}
