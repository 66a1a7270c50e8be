package trend

import (
	"math"
	"testing"
	"time"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

func intPtr(v int) *int { return &v }

func TestExtract_EmptyInput(t *testing.T) {
	got := Extract(nil, entity.GranularityMonthly)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestExtract_LabelsByGranularity(t *testing.T) {
	raw := []entity.RawDatapoint{{Period: "2025-03-01"}, {Period: "not-a-date"}}

	cases := []struct {
		granularity entity.Granularity
		want        []string
	}{
		{entity.GranularityDaily, []string{"Mar 1, 2025", "not-a-date"}},
		{entity.GranularityMonthly, []string{"Mar 1, 2025", "not-a-date"}},
		{entity.GranularityYearly, []string{"2025", "not-a-date"}},
	}
	for _, tc := range cases {
		got := Extract(raw, tc.granularity)
		for i, want := range tc.want {
			if got[i].Label != want {
				t.Errorf("%s: label[%d] = %q, want %q", tc.granularity, i, got[i].Label, want)
			}
		}
	}
}

type upperFormatter struct{}

func (upperFormatter) FormatDate(t time.Time) string { return t.Format("01/2006") }
func (upperFormatter) FormatYear(t time.Time) string { return "Y" + t.Format("2006") }

func TestExtract_CustomFormatter(t *testing.T) {
	raw := []entity.RawDatapoint{{Period: "2024-11-05T00:00:00Z"}, {Period: "2024-12"}}
	got := Extract(raw, entity.GranularityMonthly, WithFormatter(upperFormatter{}))
	if got[0].Label != "11/2024" || got[1].Label != "12/2024" {
		t.Fatalf("unexpected labels: %q, %q", got[0].Label, got[1].Label)
	}
	got = Extract(raw, entity.GranularityYearly, WithFormatter(upperFormatter{}))
	if got[0].Label != "Y2024" {
		t.Fatalf("unexpected yearly label: %q", got[0].Label)
	}
}

func TestExtract_MergesDuplicateLabels(t *testing.T) {
	raw := []entity.RawDatapoint{{
		Period: "2025-01-01",
		Total:  10,
		Breakdown: []entity.BreakdownEntry{
			{Key: "ec2", Label: "EC2", Value: 2},
			{Key: "s3", Label: "S3", Value: 3},
			{Key: "ec2-other", Label: "EC2", Value: 4},
			{Key: "lambda", Value: 1},
		},
	}}

	got := Extract(raw, entity.GranularityDaily)[0]
	want := []entity.CategoryValue{{Label: "EC2", Value: 6}, {Label: "S3", Value: 3}, {Label: "lambda", Value: 1}}
	if len(got.Categories) != len(want) {
		t.Fatalf("got %d categories, want %d: %#v", len(got.Categories), len(want), got.Categories)
	}
	for i := range want {
		if got.Categories[i] != want[i] {
			t.Errorf("category[%d] = %#v, want %#v", i, got.Categories[i], want[i])
		}
	}
	if got.Total != 10 {
		t.Errorf("total = %v, want 10", got.Total)
	}
}

func TestExtract_TotalFromBreakdown(t *testing.T) {
	raw := []entity.RawDatapoint{{
		Period:    "2025-01-01",
		Total:     99,
		Breakdown: []entity.BreakdownEntry{{Label: "A", Value: 1.5}, {Label: "B", Value: 2.5}},
	}}
	got := Extract(raw, entity.GranularityDaily, WithTotalFromBreakdown())
	if got[0].Total != 4 {
		t.Fatalf("total = %v, want 4", got[0].Total)
	}
}

func TestExtract_Incomplete(t *testing.T) {
	cases := []struct {
		name      string
		described *int
		expected  *int
		want      bool
	}{
		{"no counters", nil, nil, false},
		{"equal", intPtr(3), intPtr(3), false},
		{"fewer described", intPtr(2), intPtr(3), true},
		{"only expected", nil, intPtr(1), true},
		{"zero both", intPtr(0), intPtr(0), false},
	}
	for _, tc := range cases {
		raw := []entity.RawDatapoint{{Period: "2025-01-01", DescribedCount: tc.described, ExpectedCount: tc.expected}}
		if got := Extract(raw, entity.GranularityDaily)[0].Incomplete; got != tc.want {
			t.Errorf("%s: incomplete = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestExtract_NonFiniteValuesBecomeZero(t *testing.T) {
	raw := []entity.RawDatapoint{{
		Period:    "2025-01-01",
		Total:     math.NaN(),
		Breakdown: []entity.BreakdownEntry{{Label: "A", Value: math.Inf(1)}, {Label: "A", Value: 2}},
	}}
	got := Extract(raw, entity.GranularityDaily)[0]
	if got.Total != 0 {
		t.Errorf("total = %v, want 0", got.Total)
	}
	if got.Value("A") != 2 {
		t.Errorf("A = %v, want 2", got.Value("A"))
	}
}

func TestExtract_PreservesInputOrder(t *testing.T) {
	raw := []entity.RawDatapoint{{Period: "2025-03-01"}, {Period: "2025-01-01"}, {Period: "2025-02-01"}}
	got := Extract(raw, entity.GranularityMonthly)
	for i, dp := range raw {
		if got[i].Period != dp.Period {
			t.Fatalf("period[%d] = %q, want %q", i, got[i].Period, dp.Period)
		}
	}
}
