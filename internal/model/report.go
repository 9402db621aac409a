package model

// KnowledgeEntry holds the canned analysis and action text of one dimension
type KnowledgeEntry struct {
	StrengthAnalysis string `json:"strength_analysis" yaml:"strength_analysis"`
	StrengthAction   string `json:"strength_action" yaml:"strength_action"`
	WeaknessAnalysis string `json:"weakness_analysis" yaml:"weakness_analysis"`
	WeaknessAction   string `json:"weakness_action" yaml:"weakness_action"`
}

// Advice is one polarity of a knowledge entry
type Advice struct {
	Analysis string `json:"analysis"`
	Action   string `json:"action"`
}

// Advice returns the analysis and action for the requested polarity
func (k KnowledgeEntry) Advice(p Polarity) Advice {
	if p == PolarityStrength {
		return Advice{Analysis: k.StrengthAnalysis, Action: k.StrengthAction}
	}
	return Advice{Analysis: k.WeaknessAnalysis, Action: k.WeaknessAction}
}

type Testimonial struct {
	Author  string `json:"author" yaml:"author"`
	Company string `json:"company" yaml:"company"`
	Text    string `json:"text" yaml:"text"`
}

type CaseStudy struct {
	Title   string `json:"title" yaml:"title"`
	Snippet string `json:"snippet" yaml:"snippet"`
	URL     string `json:"url" yaml:"url"`
	Source  string `json:"source" yaml:"source"`
}

// ActionItem is one slot of the action plan
type ActionItem struct {
	Dimension string `json:"dimension"` // display name or generic label
	Analysis  string `json:"analysis"`
	Action    string `json:"action"`
}

type ActionPlan struct {
	Strongest ActionItem `json:"strongest"`
	Weakest   ActionItem `json:"weakest"`
}

// IntelligentContent is the composed, never persisted, report enrichment
type IntelligentContent struct {
	ActionPlan  ActionPlan  `json:"action_plan"`
	AINarrative string      `json:"ai_narrative"`
	CaseStudy   CaseStudy   `json:"case_study"`
	CTAText     string      `json:"cta_text"`
	Testimonial Testimonial `json:"testimonial"`
}

// DimensionScore is a dimension paired with its average
type DimensionScore struct {
	Dimension DimensionID `json:"dimension"`
	Value     float64     `json:"value"`
}

// LabeledScore is an average keyed by display name, in catalog order
type LabeledScore struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ReportView is everything the report template needs
type ReportView struct {
	Reference          string             `json:"reference"`
	UserInfo           UserInfo           `json:"user_info"`
	Scores             []LabeledScore     `json:"scores"`
	SWOT               SWOT               `json:"swot"`
	RadarChartB64      string             `json:"radar_chart_b64,omitempty"`
	ConsultantB64      string             `json:"consultant_b64,omitempty"`
	GenerationDate     string             `json:"generation_date"`
	Availability       []string           `json:"availability"`
	IntelligentContent IntelligentContent `json:"intelligent_content"`
	CalLink            string             `json:"cal_link_ext"`
}
