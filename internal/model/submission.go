package model

import (
	"strings"
	"time"
)

// Stored field names. They double as the keys of the inbound JSON payload.
const (
	FieldName          = "name"
	FieldCompany       = "company"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldStrengths     = "swot-strengths"
	FieldWeaknesses    = "swot-weaknesses"
	FieldOpportunities = "swot-opportunities"
	FieldThreats       = "swot-threats"
	FieldAllAnswers    = "all_answers"
	FieldAverages      = "averages"
	FieldCreatedAt     = "created_at"
	FieldUpdatedAt     = "updated_at"
)

// Submission is one respondent's completed diagnosis
type Submission struct {
	Name    string `json:"name" bson:"name,omitempty" firestore:"name,omitempty"`
	Company string `json:"company" bson:"company,omitempty" firestore:"company,omitempty"`
	Email   string `json:"email" bson:"email,omitempty" firestore:"email,omitempty"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty" firestore:"phone,omitempty"`

	Strengths     string `json:"swot-strengths,omitempty" bson:"swot-strengths,omitempty" firestore:"swot-strengths,omitempty"`
	Weaknesses    string `json:"swot-weaknesses,omitempty" bson:"swot-weaknesses,omitempty" firestore:"swot-weaknesses,omitempty"`
	Opportunities string `json:"swot-opportunities,omitempty" bson:"swot-opportunities,omitempty" firestore:"swot-opportunities,omitempty"`
	Threats       string `json:"swot-threats,omitempty" bson:"swot-threats,omitempty" firestore:"swot-threats,omitempty"`

	AllAnswers map[string]int     `json:"all_answers" bson:"all_answers,omitempty" firestore:"all_answers,omitempty"`
	Averages   map[string]float64 `json:"averages" bson:"averages,omitempty" firestore:"averages,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at,omitempty" firestore:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at,omitempty" firestore:"updated_at,omitempty"`

	// Present lists the text fields the submitter sent. A present field is
	// written even when empty, so clearing a box clears the stored value.
	Present map[string]bool `json:"-" bson:"-" firestore:"-"`
}

// SWOT is the free-text self assessment attached to a submission
type SWOT struct {
	Strengths     string `json:"swot-strengths"`
	Weaknesses    string `json:"swot-weaknesses"`
	Opportunities string `json:"swot-opportunities"`
	Threats       string `json:"swot-threats"`
}

// UserInfo is the submitter identity shown on the report
type UserInfo struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
}

func (s *Submission) SWOT() SWOT {
	return SWOT{
		Strengths:     s.Strengths,
		Weaknesses:    s.Weaknesses,
		Opportunities: s.Opportunities,
		Threats:       s.Threats,
	}
}

func (s *Submission) UserInfo() UserInfo {
	return UserInfo{Name: s.Name, Company: s.Company, Email: s.Email}
}

// DocumentID derives the storage identifier from an email address
func DocumentID(email string) string {
	id := strings.TrimSpace(email)
	id = strings.ReplaceAll(id, "@", "_")
	id = strings.ReplaceAll(id, ".", "_")
	return id
}

// Fields returns the fields a merge-upsert writes. Text fields are written when
// non-empty or marked present; nil maps are left out, so a later partial write
// keeps what was stored before.
// created_at is not included; stores set it only when the record is created.
func (s *Submission) Fields() map[string]any {
	fields := map[string]any{}
	str := map[string]string{
		FieldName:          s.Name,
		FieldCompany:       s.Company,
		FieldEmail:         s.Email,
		FieldPhone:         s.Phone,
		FieldStrengths:     s.Strengths,
		FieldWeaknesses:    s.Weaknesses,
		FieldOpportunities: s.Opportunities,
		FieldThreats:       s.Threats,
	}
	for k, v := range str {
		if s.writes(k, v) {
			fields[k] = v
		}
	}
	if s.AllAnswers != nil {
		fields[FieldAllAnswers] = s.AllAnswers
	}
	if s.Averages != nil {
		fields[FieldAverages] = s.Averages
	}
	if !s.UpdatedAt.IsZero() {
		fields[FieldUpdatedAt] = s.UpdatedAt
	}
	return fields
}

// Merge applies the fields of next onto s with the same rules as Fields.
func (s *Submission) Merge(next *Submission) {
	next.mergeString(&s.Name, FieldName, next.Name)
	next.mergeString(&s.Company, FieldCompany, next.Company)
	next.mergeString(&s.Email, FieldEmail, next.Email)
	next.mergeString(&s.Phone, FieldPhone, next.Phone)
	next.mergeString(&s.Strengths, FieldStrengths, next.Strengths)
	next.mergeString(&s.Weaknesses, FieldWeaknesses, next.Weaknesses)
	next.mergeString(&s.Opportunities, FieldOpportunities, next.Opportunities)
	next.mergeString(&s.Threats, FieldThreats, next.Threats)
	if next.AllAnswers != nil {
		s.AllAnswers = copyInts(next.AllAnswers)
	}
	if next.Averages != nil {
		s.Averages = copyFloats(next.Averages)
	}
	if !next.UpdatedAt.IsZero() {
		s.UpdatedAt = next.UpdatedAt
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = next.CreatedAt
	}
}

// Clone returns a deep copy
func (s *Submission) Clone() *Submission {
	c := *s
	c.AllAnswers = copyInts(s.AllAnswers)
	c.Averages = copyFloats(s.Averages)
	if s.Present != nil {
		c.Present = make(map[string]bool, len(s.Present))
		for k, v := range s.Present {
			c.Present[k] = v
		}
	}
	return &c
}

func (s *Submission) writes(field, v string) bool {
	return v != "" || s.Present[field]
}

func (s *Submission) mergeString(dst *string, field, v string) {
	if s.writes(field, v) {
		*dst = v
	}
}

func copyInts(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFloats(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
