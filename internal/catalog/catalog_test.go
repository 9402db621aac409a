package catalog

import (
	"testing"

	"descontamina/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	dims := c.Dimensions()
	require.Len(t, dims, 7)
	assert.Equal(t, model.DimensionMotivation, dims[0].ID)
	assert.Equal(t, model.DimensionSustainability, dims[6].ID)

	qs := c.Questions()
	require.Len(t, qs, 21)
	assert.Equal(t, "motivation-0", qs[0].ID)
	assert.Equal(t, "sustainability-2", qs[20].ID)
	assert.Equal(t, "q-climate-1", FieldName(qs[13]))
}

func TestDisplayName(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, "Motivação", c.DisplayName(model.DimensionMotivation))
	assert.Equal(t, "Clima Organizacional", c.DisplayName(model.DimensionClimate))
	assert.Equal(t, "leadership", c.DisplayName("leadership"))
	assert.Equal(t, GenericName, c.SentenceName("leadership"))
	assert.Equal(t, "Comunicação", c.SentenceName(model.DimensionCommunication))
}

func TestKnowledgeFallsBackToDefault(t *testing.T) {
	c := MustLoad()

	def := c.Knowledge(model.DimensionDefault)
	assert.Equal(t, def, c.Knowledge(model.DimensionRetention))
	assert.Equal(t, def, c.Knowledge("not-a-dimension"))
	assert.NotEqual(t, def, c.Knowledge(model.DimensionMotivation))

	adv := c.Advice(model.DimensionCommunication, model.PolarityWeakness)
	assert.Contains(t, adv.Analysis, "Falhas na comunicação")
	assert.Contains(t, adv.Action, "Office Hours")

	adv = c.Advice(model.DimensionMotivation, model.PolarityStrength)
	assert.Contains(t, adv.Action, "mentoria interna")
}

func TestTestimonialFallsBackToDefault(t *testing.T) {
	c := MustLoad()

	assert.Equal(t, "Construtora Aliança", c.Testimonial(model.DimensionMotivation).Company)
	assert.Equal(t, "InovaTech", c.Testimonial(model.DimensionCommunication).Company)
	assert.Equal(t, "Veloce Logística", c.Testimonial(model.DimensionInnovation).Company)
	assert.Equal(t, "Veloce Logística", c.Testimonial("").Company)
}

func TestDefaultCaseStudy(t *testing.T) {
	cs := MustLoad().DefaultCaseStudy()
	assert.Equal(t, "A Importância da Melhoria Contínua", cs.Title)
	assert.Equal(t, "Harvard Business Review", cs.Source)
	assert.Equal(t, "https://hbr.org/", cs.URL)
	assert.NotEmpty(t, cs.Snippet)
}

func TestSortDimensions(t *testing.T) {
	c := MustLoad()
	ids := []model.DimensionID{"zeta", model.DimensionSustainability, "alpha", model.DimensionMotivation, model.DimensionClimate}
	c.SortDimensions(ids)
	assert.Equal(t, []model.DimensionID{
		model.DimensionMotivation, model.DimensionClimate, model.DimensionSustainability, "alpha", "zeta",
	}, ids)
}

func TestQuestionOrder(t *testing.T) {
	c := MustLoad()
	assert.Equal(t, 0, c.QuestionOrder("motivation-0"))
	assert.Equal(t, 5, c.QuestionOrder("communication-2"))
	assert.Equal(t, 21, c.QuestionOrder("unknown-9"))
	assert.Equal(t, "Temos tempo e recursos para explorar novas ideias.", c.QuestionText("innovation-1"))
}

func TestParseRejectsInvalidCatalog(t *testing.T) {
	knowledge := []byte("default: {strength_analysis: a, strength_action: b, weakness_analysis: c, weakness_action: d}\n")
	testimonials := []byte("testimonials:\n  default: {author: x, company: y, text: z}\ncase_study: {title: t, snippet: s, url: 'https://example.com', source: e}\n")

	cases := map[string]struct {
		questions    string
		knowledge    []byte
		testimonials []byte
	}{
		"unknown dimension": {
			questions: "dimensions: [{id: a, name: A}]\nquestions: [{id: b-0, dimension: b, text: x}]\n",
		},
		"too few questions": {
			questions: "dimensions: [{id: a, name: A}]\nquestions: [{id: a-0, dimension: a, text: x}]\n",
		},
		"out of sequence": {
			questions: "dimensions: [{id: a, name: A}]\nquestions: [{id: a-0, dimension: a, text: x}, {id: a-2, dimension: a, text: y}, {id: a-1, dimension: a, text: z}]\n",
		},
		"no default knowledge": {
			questions: "dimensions: [{id: a, name: A}]\nquestions: [{id: a-0, dimension: a, text: x}, {id: a-1, dimension: a, text: y}, {id: a-2, dimension: a, text: z}]\n",
			knowledge: []byte("a: {strength_analysis: a}\n"),
		},
		"no dimensions": {
			questions: "dimensions: []\nquestions: []\n",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			k := tc.knowledge
			if k == nil {
				k = knowledge
			}
			tm := tc.testimonials
			if tm == nil {
				tm = testimonials
			}
			_, err := Parse([]byte(tc.questions), k, tm)
			assert.Error(t, err)
		})
	}

	valid := "dimensions: [{id: a, name: A}]\nquestions: [{id: a-0, dimension: a, text: x}, {id: a-1, dimension: a, text: y}, {id: a-2, dimension: a, text: z}]\n"
	c, err := Parse([]byte(valid), knowledge, testimonials)
	require.NoError(t, err)
	assert.Equal(t, "A", c.DisplayName("a"))
}
