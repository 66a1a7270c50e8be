package trend

import (
	"sort"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

// NoLimit disables top-N bucketing.
const NoLimit = -1

// Rank orders categories by their total across all periods, descending.
// Equal totals keep the order in which the labels were first seen.
func Rank(periods []entity.NormalizedPeriod) entity.CategoryRanking {
	totals := newAccumulator(0)
	for _, p := range periods {
		for _, c := range p.Categories {
			totals.add(c.Label, c.Value)
		}
	}

	items := totals.values()
	ranking := make(entity.CategoryRanking, len(items))
	for i, c := range items {
		ranking[i] = entity.RankedCategory{Label: c.Label, Total: c.Value}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Total > ranking[j].Total
	})
	return ranking
}

// Bucket keeps the first topN ranked labels and folds every other category of
// each period into OthersLabel. topN < 0, or topN >= len(ranking), keeps all
// labels; topN == 0 folds everything into OthersLabel.
func Bucket(periods []entity.NormalizedPeriod, ranking entity.CategoryRanking, topN int) []entity.NormalizedPeriod {
	keepAll := topN < 0 || topN >= len(ranking)

	top := make(map[string]bool)
	if !keepAll {
		for _, c := range ranking[:topN] {
			top[c.Label] = true
		}
	}

	out := make([]entity.NormalizedPeriod, 0, len(periods))
	for _, p := range periods {
		merged := newAccumulator(len(p.Categories))
		for _, c := range p.Categories {
			label := c.Label
			if !keepAll && !top[label] {
				label = entity.OthersLabel
			}
			merged.add(label, c.Value)
		}

		bucketed := p
		bucketed.Categories = merged.values()
		out = append(out, bucketed)
	}
	return out
}
