package trend

import (
	"reflect"
	"testing"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

func scenario() []entity.RawDatapoint {
	return []entity.RawDatapoint{
		{Period: "d1", Total: 10, Breakdown: []entity.BreakdownEntry{{Label: "A", Value: 6}, {Label: "B", Value: 4}}},
		{Period: "d2", Total: 10, Breakdown: []entity.BreakdownEntry{{Label: "A", Value: 3}, {Label: "C", Value: 7}}},
	}
}

func TestBuild_TopOneScenario(t *testing.T) {
	trending := Build(scenario(), Options{Granularity: entity.GranularityDaily, Mode: entity.ModeTrending, TopN: 1})

	wantRanking := entity.CategoryRanking{{Label: "A", Total: 9}, {Label: "C", Total: 7}, {Label: "B", Total: 4}}
	if !reflect.DeepEqual(trending.Ranking, wantRanking) {
		t.Fatalf("ranking = %#v, want %#v", trending.Ranking, wantRanking)
	}

	wantTrending := [][]entity.CategoryValue{
		{cv("A", 6), cv(entity.OthersLabel, 4)},
		{cv("A", 3), cv(entity.OthersLabel, 7)},
	}
	if !reflect.DeepEqual(trending.Series.Data, wantTrending) {
		t.Errorf("trending data = %#v, want %#v", trending.Series.Data, wantTrending)
	}

	aggregated := Build(scenario(), Options{Granularity: entity.GranularityDaily, Mode: entity.ModeAggregated, TopN: 1})
	wantAggregated := [][]entity.CategoryValue{
		{cv("A", 6), cv(entity.OthersLabel, 4)},
		{cv("A", 9), cv(entity.OthersLabel, 11)},
	}
	if !reflect.DeepEqual(aggregated.Series.Data, wantAggregated) {
		t.Errorf("aggregated data = %#v, want %#v", aggregated.Series.Data, wantAggregated)
	}
	if !reflect.DeepEqual(aggregated.Series.Totals, []float64{10, 20}) {
		t.Errorf("aggregated totals = %v, want [10 20]", aggregated.Series.Totals)
	}
	if !reflect.DeepEqual(aggregated.Series.Labels, []string{"d1", "d2"}) {
		t.Errorf("labels = %v", aggregated.Series.Labels)
	}
}

func TestBuild_NoLimitHasNoOthers(t *testing.T) {
	got := Build(scenario(), Options{Mode: entity.ModeTrending, TopN: NoLimit})
	for i, frame := range got.Series.Data {
		for _, c := range frame {
			if c.Label == entity.OthersLabel {
				t.Fatalf("frame %d has an Others bucket", i)
			}
		}
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	got := Build(nil, Options{Mode: entity.ModeAggregated, TopN: 3})
	if got.Series.Len() != 0 || len(got.Ranking) != 0 {
		t.Fatalf("expected empty result, got %#v", got)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	raw := []entity.RawDatapoint{
		{Period: "2025-01-01", Breakdown: []entity.BreakdownEntry{{Label: "x", Value: 1}, {Label: "y", Value: 1}, {Label: "z", Value: 1}}},
		{Period: "2025-02-01", Breakdown: []entity.BreakdownEntry{{Label: "z", Value: 1}, {Label: "y", Value: 1}, {Label: "x", Value: 1}}},
	}
	opts := Options{Granularity: entity.GranularityMonthly, Mode: entity.ModeAggregated, TopN: 2}
	first := Build(raw, opts)
	for i := 0; i < 10; i++ {
		if !reflect.DeepEqual(Build(raw, opts), first) {
			t.Fatal("Build is not deterministic")
		}
	}
	if !reflect.DeepEqual(first.Ranking.Labels(), []string{"x", "y", "z"}) {
		t.Fatalf("ranking = %v", first.Ranking.Labels())
	}
}
