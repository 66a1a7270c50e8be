package trend

import (
	"math"
	"reflect"
	"testing"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

func TestCombine_TrendingPassesThrough(t *testing.T) {
	periods := []entity.NormalizedPeriod{
		period("d1", 10, cv("B", 4), cv("A", 6)),
		period("d2", 7, cv("A", 7)),
	}
	ranking := entity.CategoryRanking{{Label: "A", Total: 13}, {Label: "B", Total: 4}}

	got := Combine(periods, entity.ModeTrending, ranking)

	if !reflect.DeepEqual(got.Labels, []string{"d1", "d2"}) {
		t.Errorf("labels = %v", got.Labels)
	}
	if !reflect.DeepEqual(got.Totals, []float64{10, 7}) {
		t.Errorf("totals = %v", got.Totals)
	}
	want := [][]entity.CategoryValue{{cv("A", 6), cv("B", 4)}, {cv("A", 7)}}
	if !reflect.DeepEqual(got.Data, want) {
		t.Errorf("data = %#v, want %#v", got.Data, want)
	}
}

func TestCombine_AggregatedPrefixSums(t *testing.T) {
	periods := []entity.NormalizedPeriod{
		period("d1", 3, cv("A", 1), cv("B", 2)),
		period("d2", 5, cv("C", 5)),
		period("d3", 4, cv("A", 4)),
	}
	ranking := Rank(periods)
	got := Combine(periods, entity.ModeAggregated, ranking)

	if !reflect.DeepEqual(got.Totals, []float64{3, 8, 12}) {
		t.Fatalf("totals = %v, want [3 8 12]", got.Totals)
	}

	for i := range periods {
		frame := got.Data[i]
		for _, label := range []string{"A", "B", "C"} {
			var want float64
			for k := 0; k <= i; k++ {
				want += periods[k].Value(label)
			}
			var value float64
			found := false
			for _, c := range frame {
				if c.Label == label {
					value, found = c.Value, true
				}
			}
			if !found {
				t.Errorf("frame %d: label %s missing, absent values must count as 0", i, label)
			}
			if value != want {
				t.Errorf("frame %d %s = %v, want %v", i, label, value, want)
			}
		}
	}
}

func TestCombine_OrdersByRankingWithOthersLast(t *testing.T) {
	periods := []entity.NormalizedPeriod{
		period("d1", 0, cv(entity.OthersLabel, 50), cv("B", 1), cv("A", 2)),
	}
	ranking := entity.CategoryRanking{{Label: "A", Total: 2}, {Label: "B", Total: 2}}

	got := Combine(periods, entity.ModeTrending, ranking).Data[0]
	want := []entity.CategoryValue{cv("A", 2), cv("B", 1), cv(entity.OthersLabel, 50)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %#v, want %#v", got, want)
	}
}

func TestCombine_IncompletePropagatesForward(t *testing.T) {
	periods := make([]entity.NormalizedPeriod, 5)
	for i := range periods {
		periods[i] = period("p", 1, cv("A", 1))
	}
	const k = 2
	periods[k].Incomplete = true

	trending := Combine(periods, entity.ModeTrending, nil)
	aggregated := Combine(periods, entity.ModeAggregated, nil)

	for i := range periods {
		if trending.Flags[i] != (i == k) {
			t.Errorf("trending flag[%d] = %v", i, trending.Flags[i])
		}
		if aggregated.Flags[i] != (i >= k) {
			t.Errorf("aggregated flag[%d] = %v, want %v", i, aggregated.Flags[i], i >= k)
		}
	}
}

func TestCombine_LengthsMatchPeriods(t *testing.T) {
	for _, mode := range []entity.Mode{entity.ModeTrending, entity.ModeAggregated, "unknown"} {
		for n := 0; n < 4; n++ {
			periods := make([]entity.NormalizedPeriod, n)
			got := Combine(periods, mode, nil)
			if len(got.Labels) != n || len(got.Data) != n || len(got.Totals) != n || len(got.Flags) != n {
				t.Errorf("mode %s n=%d: lengths %d/%d/%d/%d", mode, n, len(got.Labels), len(got.Data), len(got.Totals), len(got.Flags))
			}
		}
	}
}

func TestCombine_DoesNotMutateInput(t *testing.T) {
	periods := []entity.NormalizedPeriod{
		period("d1", 1, cv("A", 1)),
		period("d2", 1, cv("A", 1)),
	}
	_ = Combine(periods, entity.ModeAggregated, nil)
	if periods[1].Total != 1 || periods[1].Categories[0].Value != 1 {
		t.Fatalf("input was mutated: %#v", periods[1])
	}
}

func TestCombine_NonFiniteValuesBecomeZero(t *testing.T) {
	periods := []entity.NormalizedPeriod{
		period("d1", math.NaN(), cv("A", math.NaN()), cv("B", 2)),
		period("d2", math.Inf(1), cv("A", 3), cv("B", math.Inf(-1))),
	}

	for _, mode := range []entity.Mode{entity.ModeTrending, entity.ModeAggregated} {
		got := Combine(periods, mode, nil)
		for i, total := range got.Totals {
			if math.IsNaN(total) || math.IsInf(total, 0) {
				t.Errorf("%s: total[%d] = %v", mode, i, total)
			}
			for _, c := range got.Data[i] {
				if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
					t.Errorf("%s: frame %d %s = %v", mode, i, c.Label, c.Value)
				}
			}
		}
	}

	aggregated := Combine(periods, entity.ModeAggregated, nil)
	want := [][]entity.CategoryValue{{cv("A", 0), cv("B", 2)}, {cv("A", 3), cv("B", 2)}}
	if !reflect.DeepEqual(aggregated.Data, want) {
		t.Errorf("aggregated data = %#v, want %#v", aggregated.Data, want)
	}
	if !reflect.DeepEqual(aggregated.Totals, []float64{0, 0}) {
		t.Errorf("aggregated totals = %v, want [0 0]", aggregated.Totals)
	}
}
