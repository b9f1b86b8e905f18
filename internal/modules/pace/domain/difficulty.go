package domain

import "strings"

// difficultyRule maps category keywords to a reading difficulty factor.
// Rules are evaluated in order and the first keyword hit wins, so the more
// specific genres sit above the broad ones.
type difficultyRule struct {
	keywords []string
	factor   float64
}

var difficultyRules = []difficultyRule{
	{keywords: []string{"comic", "만화"}, factor: 1.3},
	{keywords: []string{"poetry", "시집", "시"}, factor: 1.1},
	{keywords: []string{"essay", "에세이"}, factor: 0.95},
	{keywords: []string{"humanities", "economy", "business", "인문", "경제", "경영"}, factor: 0.9},
	{keywords: []string{"academic", "textbook", "학술", "전문서", "교재"}, factor: 0.8},
	{keywords: []string{"fiction", "소설"}, factor: 1.0},
}

// DifficultyFactor scores the book's categories. Unknown or empty
// categories read at the neutral 1.0.
func DifficultyFactor(categories []string) float64 {
	for _, rule := range difficultyRules {
		for _, category := range categories {
			lowered := strings.ToLower(category)
			for _, keyword := range rule.keywords {
				if strings.Contains(lowered, keyword) {
					return rule.factor
				}
			}
		}
	}
	return 1.0
}
