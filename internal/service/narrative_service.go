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

// NarrativeKind tells whether a narrative came from the generator or the fallback template
type NarrativeKind string

const (
	NarrativeGenerated NarrativeKind = "generated"
	NarrativeFallback  NarrativeKind = "fallback"
)

// NarrativeResult is the paragraph shown under the report introduction
type NarrativeResult struct {
	Kind NarrativeKind
	Text string
}

const (
	ProcessingNarrative = "A análise do seu diagnóstico está a ser processada."

	narrativeOpener      = "A nossa análise aprofundada sugere que o desafio central da sua equipa pode não ser apenas uma área, mas uma combinação de fatores específicos."
	fallbackNarrativeFmt = "A nossa análise aprofundada sugere que a baixa pontuação em '%s' pode ser o principal obstáculo ao crescimento da sua equipa. Focar em resolver a causa raiz deste desafio é o primeiro passo para uma solução eficaz."

	lowestAnswerCount = 2
)

// NarrativeService writes the tailored analysis paragraph
type NarrativeService struct {
	catalog   *catalog.Catalog
	generator Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewNarrativeService creates the service. generator may be nil, in which
// case every narrative is the fallback sentence.
func NewNarrativeService(cat *catalog.Catalog, generator Generator, timeout time.Duration, logger *zap.Logger) *NarrativeService {
	return &NarrativeService{
		catalog:   cat,
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Fallback returns the templated sentence for the weakest dimension
func (s *NarrativeService) Fallback(weakest model.DimensionID) NarrativeResult {
	return NarrativeResult{
		Kind: NarrativeFallback,
		Text: fmt.Sprintf(fallbackNarrativeFmt, s.catalog.SentenceName(weakest)),
	}
}

// Narrate never fails: every generator problem turns into the fallback sentence
func (s *NarrativeService) Narrate(ctx context.Context, weakest model.DimensionID, answers map[string]int, swot model.SWOT) NarrativeResult {
	fallback := s.Fallback(weakest)
	if s.generator == nil {
		s.logger.Warn("text generation not configured, using fallback narrative")
		return fallback
	}

	lowest := LowestAnswers(s.catalog, answers, lowestAnswerCount)
	if len(lowest) < lowestAnswerCount {
		s.logger.Warn("not enough answers for narrative prompt", zap.Int("answers", len(lowest)))
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.Generate(ctx, s.BuildPrompt(lowest, swot))
	if err != nil {
		s.logger.Warn("narrative generation failed, using fallback", zap.Error(err))
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn("narrative generation returned empty text, using fallback")
		return fallback
	}
	return NarrativeResult{Kind: NarrativeGenerated, Text: text}
}

// BuildPrompt composes the consultant prompt from the lowest answers and the SWOT text
func (s *NarrativeService) BuildPrompt(lowest []model.Answer, swot model.SWOT) string {
	texts := make([]string, len(lowest))
	for i, a := range lowest {
		texts[i] = fmt.Sprintf("%d. '%s'", i+1, s.catalog.QuestionText(a.QuestionID))
	}

	var swotLines []string
	for _, f := range []struct{ label, value string }{
		{"Forças", swot.Strengths},
		{"Fraquezas", swot.Weaknesses},
		{"Oportunidades", swot.Opportunities},
		{"Ameaças", swot.Threats},
	} {
		if v := strings.TrimSpace(f.value); v != "" {
			swotLines = append(swotLines, fmt.Sprintf("- %s: %s", f.label, v))
		}
	}

	parts := []string{
		"Você é um consultor de negócios sênior, especialista em estratégia e cultura organizacional. Sua tarefa é analisar os dados de um diagnóstico de forma crítica e gerencial.",
		fmt.Sprintf("Os dados quantitativos indicam que os %d pontos mais críticos da equipe são: %s.", len(lowest), strings.Join(texts, " e ")),
		"Além disso, o próprio gestor forneceu a seguinte análise SWOT qualitativa:",
		strings.Join(swotLines, "\n"),
		"\nCom base em TODOS esses dados (quantitativos e qualitativos), sua missão é:",
		fmt.Sprintf("1. Gerar um parágrafo de análise (máximo 3-4 frases) que conecte os pontos. Comece obrigatoriamente com '%s'.", narrativeOpener),
		"2. Identifique possíveis CONTRADIÇÕES ou sinergias entre as forças e fraquezas declaradas.",
		"3. Forneça um insight estratégico conciso para as oportunidades e ameaças.",
		"Seja direto, analítico e provocador. O objetivo não é dar a solução completa, mas gerar um insight valioso que justifique uma conversa de aprofundamento.",
	}
	return strings.Join(parts, " ")
}
