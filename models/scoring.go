package models

// ScoringConfig holds the five weights of the linear point formula.
type ScoringConfig struct {
	Goal      float64 `json:"goal"`
	Assist    float64 `json:"assist"`
	GoalieWin float64 `json:"goalie_win"`
	GoalieOTL float64 `json:"goalie_otl"`
	Shutout   float64 `json:"shutout"`
}

func DefaultScoring() ScoringConfig {
	return ScoringConfig{Goal: 1, Assist: 1, GoalieWin: 2, GoalieOTL: 1, Shutout: 3}
}
