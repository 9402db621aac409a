package model

const (
	ScoreMin = 0
	ScoreMax = 10
)

// Answer pairs a question with the score given to it
type Answer struct {
	QuestionID string `json:"questionId" bson:"questionId"`
	Score      int    `json:"score" bson:"score"`
}

// ClampScore keeps a raw score inside the survey scale
func ClampScore(score int) int {
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}
