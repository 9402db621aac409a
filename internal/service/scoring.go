package service

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"descontamina/internal/catalog"
	"descontamina/internal/model"
)

// ParseScores reads every catalog question from the payload field
// "q-<dimension>-<index>". Missing or unparsable values count as 0 and
// every score is clamped to the survey scale.
func ParseScores(cat *catalog.Catalog, payload map[string]any) map[string]int {
	answers := make(map[string]int, len(cat.Questions()))
	for _, q := range cat.Questions() {
		answers[q.ID] = model.ClampScore(parseScore(payload[catalog.FieldName(q)]))
	}
	return answers
}

func parseScore(v any) int {
	switch n := v.(type) {
	case float64:
		return truncate(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return truncate(f)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return truncate(f)
	}
	return 0
}

func truncate(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > model.ScoreMax {
		return model.ScoreMax
	}
	if f < model.ScoreMin {
		return model.ScoreMin
	}
	return int(f)
}

// Averages computes the mean score of every catalog dimension, rounded to two
// decimals. A dimension without answers averages 0.
func Averages(cat *catalog.Catalog, answers map[string]int) map[string]float64 {
	sums := map[model.DimensionID]int{}
	counts := map[model.DimensionID]int{}
	for _, q := range cat.Questions() {
		score, ok := answers[q.ID]
		if !ok {
			continue
		}
		sums[q.Dimension] += model.ClampScore(score)
		counts[q.Dimension]++
	}

	averages := make(map[string]float64, len(cat.Dimensions()))
	for _, d := range cat.Dimensions() {
		if counts[d.ID] == 0 {
			averages[string(d.ID)] = 0
			continue
		}
		averages[string(d.ID)] = round2(float64(sums[d.ID]) / float64(counts[d.ID]))
	}
	return averages
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LowestAnswers returns up to n answers with the lowest scores. Equal scores
// keep catalog question order; unknown questions come last, by id.
func LowestAnswers(cat *catalog.Catalog, answers map[string]int, n int) []model.Answer {
	list := make([]model.Answer, 0, len(answers))
	for id, score := range answers {
		list = append(list, model.Answer{QuestionID: id, Score: score})
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		oa, ob := cat.QuestionOrder(a.QuestionID), cat.QuestionOrder(b.QuestionID)
		if oa != ob {
			return oa < ob
		}
		return a.QuestionID < b.QuestionID
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
