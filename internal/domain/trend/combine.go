package trend

import (
	"sort"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

// Combine turns bucketed periods into a stacked series. In aggregated mode
// every frame i holds the running totals of periods 0..i. Frames are ordered
// by ranking position; labels outside the ranking come last.
func Combine(periods []entity.NormalizedPeriod, mode entity.Mode, ranking entity.CategoryRanking) entity.StackedSeries {
	frames := periods
	if mode == entity.ModeAggregated {
		frames = cumulate(periods)
	}

	position := make(map[string]int, len(ranking))
	for i, c := range ranking {
		position[c.Label] = i
	}

	series := entity.StackedSeries{
		Labels: make([]string, len(frames)),
		Data:   make([][]entity.CategoryValue, len(frames)),
		Totals: make([]float64, len(frames)),
		Flags:  make([]bool, len(frames)),
	}
	for i, f := range frames {
		series.Labels[i] = f.Label
		series.Data[i] = stackOrder(f.Categories, position)
		series.Totals[i] = finite(f.Total)
		series.Flags[i] = f.Incomplete
	}
	return series
}

// cumulate folds periods left to right into prefix sums. Each step builds a
// new period; a label missing from a period contributes 0.
func cumulate(periods []entity.NormalizedPeriod) []entity.NormalizedPeriod {
	labels := newAccumulator(0)
	for _, p := range periods {
		for _, c := range p.Categories {
			labels.add(c.Label, 0)
		}
	}
	order := labels.values()

	out := make([]entity.NormalizedPeriod, 0, len(periods))
	var prev entity.NormalizedPeriod
	for i, p := range periods {
		next := entity.NormalizedPeriod{
			Label:      p.Label,
			Period:     p.Period,
			Total:      finite(p.Total),
			Incomplete: p.Incomplete,
			Categories: make([]entity.CategoryValue, len(order)),
		}
		if i > 0 {
			next.Total += prev.Total
			next.Incomplete = next.Incomplete || prev.Incomplete
		}
		for j, l := range order {
			value := finite(p.Value(l.Label))
			if i > 0 {
				value += prev.Categories[j].Value
			}
			next.Categories[j] = entity.CategoryValue{Label: l.Label, Value: value}
		}
		out = append(out, next)
		prev = next
	}
	return out
}

func stackOrder(categories []entity.CategoryValue, position map[string]int) []entity.CategoryValue {
	ordered := make([]entity.CategoryValue, len(categories))
	for i, c := range categories {
		ordered[i] = entity.CategoryValue{Label: c.Label, Value: finite(c.Value)}
	}

	rankOf := func(label string) int {
		if p, ok := position[label]; ok {
			return p
		}
		return len(position)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return rankOf(ordered[i].Label) < rankOf(ordered[j].Label)
	})
	return ordered
}
