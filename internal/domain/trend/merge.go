package trend

import "github.com/diillson/aws-finops-trends/internal/domain/entity"

// MergeRaw aligns several series by period and sums them: totals are added,
// breakdowns concatenated and completeness counters summed. Periods appear in
// first-seen order. A series missing a period that others report counts as
// not described for that period when counters are in use.
func MergeRaw(series ...[]entity.RawDatapoint) []entity.RawDatapoint {
	index := make(map[string]int)
	var merged []entity.RawDatapoint
	seenIn := make([]map[string]bool, len(series))

	for s, points := range series {
		seenIn[s] = make(map[string]bool, len(points))
		for _, dp := range points {
			seenIn[s][dp.Period] = true

			i, ok := index[dp.Period]
			if !ok {
				index[dp.Period] = len(merged)
				merged = append(merged, entity.RawDatapoint{Period: dp.Period})
				i = len(merged) - 1
			}

			m := &merged[i]
			m.Total += finite(dp.Total)
			m.Breakdown = append(m.Breakdown, dp.Breakdown...)
			m.DescribedCount = addCount(m.DescribedCount, dp.DescribedCount)
			m.ExpectedCount = addCount(m.ExpectedCount, dp.ExpectedCount)
		}
	}

	for i := range merged {
		if merged[i].ExpectedCount == nil {
			continue
		}
		for s := range series {
			if !seenIn[s][merged[i].Period] {
				missing := 1
				merged[i].ExpectedCount = addCount(merged[i].ExpectedCount, &missing)
			}
		}
	}
	return merged
}

func addCount(acc, v *int) *int {
	if v == nil {
		return acc
	}
	sum := *v
	if acc != nil {
		sum += *acc
	}
	return &sum
}
