package service

import (
	"descontamina/internal/catalog"
	"descontamina/internal/model"
)

// Ranking is the weakest and strongest dimension of one set of averages
type Ranking struct {
	Weakest   model.DimensionScore
	Strongest model.DimensionScore
}

// Rank picks the weakest and strongest dimension. Ties go to the dimension
// that comes first in catalog order, for both ends; dimensions outside the
// catalog rank after it. ok is false for empty averages.
func Rank(cat *catalog.Catalog, averages map[string]float64) (Ranking, bool) {
	if len(averages) == 0 {
		return Ranking{}, false
	}

	ids := make([]model.DimensionID, 0, len(averages))
	for id := range averages {
		ids = append(ids, model.DimensionID(id))
	}
	cat.SortDimensions(ids)

	first := model.DimensionScore{Dimension: ids[0], Value: averages[string(ids[0])]}
	r := Ranking{Weakest: first, Strongest: first}
	for _, id := range ids[1:] {
		v := averages[string(id)]
		if v < r.Weakest.Value {
			r.Weakest = model.DimensionScore{Dimension: id, Value: v}
		}
		if v > r.Strongest.Value {
			r.Strongest = model.DimensionScore{Dimension: id, Value: v}
		}
	}
	return r, true
}
