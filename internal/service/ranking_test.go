package service

import (
	"testing"

	"descontamina/internal/catalog"
	"descontamina/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	cat := catalog.MustLoad()

	cases := map[string]struct {
		averages  map[string]float64
		weakest   model.DimensionID
		strongest model.DimensionID
	}{
		"distinct values": {
			averages: map[string]float64{
				"motivation": 8, "communication": 3.33, "retention": 6,
				"innovation": 9.67, "climate": 5, "productivity": 4, "sustainability": 7,
			},
			weakest:   model.DimensionCommunication,
			strongest: model.DimensionInnovation,
		},
		"all equal": {
			averages: map[string]float64{
				"motivation": 5, "communication": 5, "retention": 5,
				"innovation": 5, "climate": 5, "productivity": 5, "sustainability": 5,
			},
			weakest:   model.DimensionMotivation,
			strongest: model.DimensionMotivation,
		},
		"ties resolve in catalog order": {
			averages: map[string]float64{
				"sustainability": 2, "climate": 2, "retention": 9, "productivity": 9, "motivation": 5,
			},
			weakest:   model.DimensionClimate,
			strongest: model.DimensionRetention,
		},
		"unknown dimension ranks after catalog": {
			averages:  map[string]float64{"leadership": 1, "alpha": 1, "motivation": 1},
			weakest:   model.DimensionMotivation,
			strongest: model.DimensionMotivation,
		},
		"only unknown dimensions": {
			averages:  map[string]float64{"zeta": 3, "alpha": 3},
			weakest:   "alpha",
			strongest: "alpha",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r, ok := Rank(cat, tc.averages)
			assert.True(t, ok)
			assert.Equal(t, tc.weakest, r.Weakest.Dimension)
			assert.Equal(t, tc.strongest, r.Strongest.Dimension)
			assert.Equal(t, tc.averages[string(tc.weakest)], r.Weakest.Value)
		})
	}

	_, ok := Rank(cat, map[string]float64{})
	assert.False(t, ok)
	_, ok = Rank(cat, nil)
	assert.False(t, ok)
}
