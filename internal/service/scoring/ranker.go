package scoring

import (
	"bytes"
	"sort"
)

// RankedPoster - постер с присвоенным местом в рейтинге
type RankedPoster struct {
	PosterScore
	Rank int `json:"rank"`
}

// AssignRanks сортирует постеры по итоговому баллу по убыванию, при равенстве
// по взвешенному баллу по убыванию, затем по ID постера по возрастанию,
// и присваивает места начиная с 1. Входной срез не изменяется.
func AssignRanks(scores []PosterScore) []RankedPoster {
	ranked := make([]RankedPoster, len(scores))
	for i, s := range scores {
		ranked[i] = RankedPoster{PosterScore: s}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		if a.WeightedScore != b.WeightedScore {
			return a.WeightedScore > b.WeightedScore
		}
		return bytes.Compare(a.PosterID[:], b.PosterID[:]) < 0
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
