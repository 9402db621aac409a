package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"descontamina/internal/catalog"
	"descontamina/internal/model"

	"github.com/m-mizutani/goerr/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names
const (
	PageLanding  = "landing.html"
	PageSurvey   = "diagnostico.html"
	PageReport   = "relatorio.html"
	PageSchedule = "schedule.html"
	PageError    = "error.html"
)

var pages = []string{PageLanding, PageSurvey, PageReport, PageSchedule, PageError}

// QuestionField is one slider of the survey form
type QuestionField struct {
	Field string
	Text  string
}

// DimensionBlock groups the survey questions of one dimension
type DimensionBlock struct {
	ID        model.DimensionID
	Name      string
	Questions []QuestionField
}

// SurveyPage is the data of the survey form
type SurveyPage struct {
	Dimensions []DimensionBlock
	SubmitURL  string
}

// SchedulePage is the data of the booking page
type SchedulePage struct {
	CalLink string
}

// ErrorPage is the data of the error page
type ErrorPage struct {
	Status  int
	Message string
}

var funcs = template.FuncMap{
	// percent maps a 0-10 score to a CSS width
	"percent": func(v float64) string {
		if v < 0 {
			v = 0
		}
		if v > 10 {
			v = 10
		}
		return fmt.Sprintf("%.0f%%", v*10)
	},
	"score": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	// imageURI marks a base64 payload as a safe data URI for src attributes
	"imageURI": func(mime, b64 string) template.URL {
		return template.URL("data:" + mime + ";base64," + b64)
	},
}

// Renderer executes the embedded page templates
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse template", goerr.V("page", page))
		}
		r.templates[page] = t
	}
	return r, nil
}

// Render writes a page. The output is buffered so a failing template never
// leaves a half-written response behind.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.templates[page]
	if !ok {
		return goerr.New("unknown page", goerr.V("page", page))
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return goerr.Wrap(err, "failed to render page", goerr.V("page", page))
	}
	_, err := buf.WriteTo(w)
	return err
}

// NewSurveyPage lays out the catalog questions by dimension
func NewSurveyPage(cat *catalog.Catalog, submitURL string) SurveyPage {
	blocks := make([]DimensionBlock, 0, len(cat.Dimensions()))
	index := map[model.DimensionID]int{}
	for _, d := range cat.Dimensions() {
		index[d.ID] = len(blocks)
		blocks = append(blocks, DimensionBlock{ID: d.ID, Name: d.Name})
	}
	for _, q := range cat.Questions() {
		b := &blocks[index[q.Dimension]]
		b.Questions = append(b.Questions, QuestionField{Field: catalog.FieldName(q), Text: q.Text})
	}
	return SurveyPage{Dimensions: blocks, SubmitURL: submitURL}
}
