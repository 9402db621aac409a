package model

// DimensionID identifies one of the culture dimensions measured by the survey
type DimensionID string

const (
	DimensionMotivation     DimensionID = "motivation"
	DimensionCommunication  DimensionID = "communication"
	DimensionRetention      DimensionID = "retention"
	DimensionInnovation     DimensionID = "innovation"
	DimensionClimate        DimensionID = "climate"
	DimensionProductivity   DimensionID = "productivity"
	DimensionSustainability DimensionID = "sustainability"

	// DimensionDefault keys the fallback entries of the knowledge base and testimonials
	DimensionDefault DimensionID = "default"
)

// Dimension is a catalog dimension with its display name
type Dimension struct {
	ID   DimensionID `json:"id" yaml:"id"`
	Name string      `json:"name" yaml:"name"`
}

// Question is a fixed survey statement scored 0-10
type Question struct {
	ID        string      `json:"id" yaml:"id"` // e.g. "motivation-0"
	Dimension DimensionID `json:"dimension" yaml:"dimension"`
	Text      string      `json:"text" yaml:"text"`
}

// Polarity selects the strength or weakness side of a knowledge entry
type Polarity string

const (
	PolarityStrength Polarity = "strength"
	PolarityWeakness Polarity = "weakness"
)
