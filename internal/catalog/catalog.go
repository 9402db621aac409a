package catalog

import (
	"embed"
	"fmt"
	"sort"

	"descontamina/internal/model"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// GenericName is used in generated sentences for a dimension outside the catalog
const GenericName = "Cultura"

// QuestionsPerDimension is the fixed size of each dimension block
const QuestionsPerDimension = 3

type questionsFile struct {
	Dimensions []model.Dimension `yaml:"dimensions"`
	Questions  []model.Question  `yaml:"questions"`
}

type testimonialsFile struct {
	Testimonials map[model.DimensionID]model.Testimonial `yaml:"testimonials"`
	CaseStudy    model.CaseStudy                         `yaml:"case_study"`
}

// Catalog is the read-only survey definition plus the canned report content.
// It is loaded once and shared; none of its methods mutate it.
type Catalog struct {
	dimensions   []model.Dimension
	questions    []model.Question
	order        map[model.DimensionID]int
	names        map[model.DimensionID]string
	texts        map[string]string
	questionPos  map[string]int
	knowledge    map[model.DimensionID]model.KnowledgeEntry
	testimonials map[model.DimensionID]model.Testimonial
	caseStudy    model.CaseStudy
}

// Load parses the embedded catalog data
func Load() (*Catalog, error) {
	q, err := dataFS.ReadFile("data/questions.yaml")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read questions")
	}
	k, err := dataFS.ReadFile("data/knowledge.yaml")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read knowledge base")
	}
	t, err := dataFS.ReadFile("data/testimonials.yaml")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read testimonials")
	}
	return Parse(q, k, t)
}

// MustLoad is Load for package-level initialisation and tests
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from raw YAML documents and validates it
func Parse(questionsYAML, knowledgeYAML, testimonialsYAML []byte) (*Catalog, error) {
	var qf questionsFile
	if err := yaml.Unmarshal(questionsYAML, &qf); err != nil {
		return nil, goerr.Wrap(err, "failed to parse questions")
	}
	knowledge := map[model.DimensionID]model.KnowledgeEntry{}
	if err := yaml.Unmarshal(knowledgeYAML, &knowledge); err != nil {
		return nil, goerr.Wrap(err, "failed to parse knowledge base")
	}
	var tf testimonialsFile
	if err := yaml.Unmarshal(testimonialsYAML, &tf); err != nil {
		return nil, goerr.Wrap(err, "failed to parse testimonials")
	}

	c := &Catalog{
		dimensions:   qf.Dimensions,
		questions:    qf.Questions,
		order:        make(map[model.DimensionID]int, len(qf.Dimensions)),
		names:        make(map[model.DimensionID]string, len(qf.Dimensions)),
		texts:        make(map[string]string, len(qf.Questions)),
		questionPos:  make(map[string]int, len(qf.Questions)),
		knowledge:    knowledge,
		testimonials: tf.Testimonials,
		caseStudy:    tf.CaseStudy,
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	if len(c.dimensions) == 0 {
		return goerr.New("catalog has no dimensions")
	}
	for i, d := range c.dimensions {
		if _, dup := c.order[d.ID]; dup {
			return goerr.New("duplicate dimension", goerr.V("dimension", d.ID))
		}
		c.order[d.ID] = i
		c.names[d.ID] = d.Name
	}

	perDim := map[model.DimensionID]int{}
	for i, q := range c.questions {
		if _, ok := c.order[q.Dimension]; !ok {
			return goerr.New("question references unknown dimension",
				goerr.V("question", q.ID), goerr.V("dimension", q.Dimension))
		}
		if _, dup := c.texts[q.ID]; dup {
			return goerr.New("duplicate question", goerr.V("question", q.ID))
		}
		want := fmt.Sprintf("%s-%d", q.Dimension, perDim[q.Dimension])
		if q.ID != want {
			return goerr.New("question id out of sequence", goerr.V("question", q.ID), goerr.V("expected", want))
		}
		perDim[q.Dimension]++
		c.texts[q.ID] = q.Text
		c.questionPos[q.ID] = i
	}
	for _, d := range c.dimensions {
		if perDim[d.ID] != QuestionsPerDimension {
			return goerr.New("dimension must have exactly three questions",
				goerr.V("dimension", d.ID), goerr.V("count", perDim[d.ID]))
		}
	}

	if _, ok := c.knowledge[model.DimensionDefault]; !ok {
		return goerr.New("knowledge base has no default entry")
	}
	if _, ok := c.testimonials[model.DimensionDefault]; !ok {
		return goerr.New("testimonials have no default entry")
	}
	if c.caseStudy.Title == "" || c.caseStudy.URL == "" {
		return goerr.New("default case study is incomplete")
	}
	return nil
}

// Dimensions returns the dimensions in catalog order
func (c *Catalog) Dimensions() []model.Dimension {
	out := make([]model.Dimension, len(c.dimensions))
	copy(out, c.dimensions)
	return out
}

// Questions returns the questions in catalog order
func (c *Catalog) Questions() []model.Question {
	out := make([]model.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// FieldName is the form field carrying the score of a question, "q-<dimension>-<index>"
func FieldName(q model.Question) string {
	return "q-" + q.ID
}

// Has reports whether id is a catalog dimension
func (c *Catalog) Has(id model.DimensionID) bool {
	_, ok := c.order[id]
	return ok
}

// DisplayName returns the pt-BR label of a dimension, or the raw id when unknown
func (c *Catalog) DisplayName(id model.DimensionID) string {
	if name, ok := c.names[id]; ok {
		return name
	}
	return string(id)
}

// SentenceName is DisplayName but yields GenericName for unknown dimensions
func (c *Catalog) SentenceName(id model.DimensionID) string {
	if name, ok := c.names[id]; ok {
		return name
	}
	return GenericName
}

// Order returns the catalog position of a dimension
func (c *Catalog) Order(id model.DimensionID) (int, bool) {
	i, ok := c.order[id]
	return i, ok
}

// QuestionText returns the statement of a question, "" when unknown
func (c *Catalog) QuestionText(id string) string {
	return c.texts[id]
}

// QuestionOrder returns the catalog position of a question; unknown ids sort last
func (c *Catalog) QuestionOrder(id string) int {
	if i, ok := c.questionPos[id]; ok {
		return i
	}
	return len(c.questions)
}

// Knowledge returns the entry for a dimension, falling back to the default entry
func (c *Catalog) Knowledge(id model.DimensionID) model.KnowledgeEntry {
	if e, ok := c.knowledge[id]; ok {
		return e
	}
	return c.knowledge[model.DimensionDefault]
}

// Advice is Knowledge narrowed to one polarity
func (c *Catalog) Advice(id model.DimensionID, p model.Polarity) model.Advice {
	return c.Knowledge(id).Advice(p)
}

// Testimonial returns the testimonial for a dimension, falling back to the default one
func (c *Catalog) Testimonial(id model.DimensionID) model.Testimonial {
	if t, ok := c.testimonials[id]; ok {
		return t
	}
	return c.testimonials[model.DimensionDefault]
}

// DefaultCaseStudy is shown whenever no search result is usable
func (c *Catalog) DefaultCaseStudy() model.CaseStudy {
	return c.caseStudy
}

// SortDimensions orders ids by catalog position; unknown ids follow, by id
func (c *Catalog) SortDimensions(ids []model.DimensionID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return c.lessDimension(ids[i], ids[j])
	})
}

func (c *Catalog) lessDimension(a, b model.DimensionID) bool {
	ia, oka := c.order[a]
	ib, okb := c.order[b]
	switch {
	case oka && okb:
		return ia < ib
	case oka:
		return true
	case okb:
		return false
	default:
		return a < b
	}
}
