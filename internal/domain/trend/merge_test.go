package trend

import (
	"testing"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

func TestMergeRaw_AlignsByPeriod(t *testing.T) {
	a := []entity.RawDatapoint{
		{Period: "2025-01-01", Total: 1, Breakdown: []entity.BreakdownEntry{{Label: "EC2", Value: 1}}, DescribedCount: intPtr(1), ExpectedCount: intPtr(1)},
		{Period: "2025-02-01", Total: 2, Breakdown: []entity.BreakdownEntry{{Label: "EC2", Value: 2}}, DescribedCount: intPtr(1), ExpectedCount: intPtr(1)},
	}
	b := []entity.RawDatapoint{
		{Period: "2025-02-01", Total: 5, Breakdown: []entity.BreakdownEntry{{Label: "EC2", Value: 5}}, DescribedCount: intPtr(0), ExpectedCount: intPtr(1)},
	}

	got := MergeRaw(a, b)
	if len(got) != 2 {
		t.Fatalf("got %d periods, want 2", len(got))
	}
	if got[0].Period != "2025-01-01" || got[1].Period != "2025-02-01" {
		t.Fatalf("unexpected order: %q, %q", got[0].Period, got[1].Period)
	}
	if got[1].Total != 7 || len(got[1].Breakdown) != 2 {
		t.Errorf("period 2: total %v, breakdown %d", got[1].Total, len(got[1].Breakdown))
	}
	if *got[1].DescribedCount != 1 || *got[1].ExpectedCount != 2 {
		t.Errorf("period 2 counters = %d/%d, want 1/2", *got[1].DescribedCount, *got[1].ExpectedCount)
	}
	// b did not report January, so January is not fully described.
	if *got[0].DescribedCount != 1 || *got[0].ExpectedCount != 2 {
		t.Errorf("period 1 counters = %d/%d, want 1/2", *got[0].DescribedCount, *got[0].ExpectedCount)
	}

	periods := Extract(got, entity.GranularityMonthly)
	if periods[1].Value("EC2") != 7 {
		t.Errorf("merged EC2 = %v, want 7", periods[1].Value("EC2"))
	}
}

func TestMergeRaw_WithoutCounters(t *testing.T) {
	got := MergeRaw(
		[]entity.RawDatapoint{{Period: "p1", Total: 1}},
		[]entity.RawDatapoint{{Period: "p2", Total: 2}},
	)
	if len(got) != 2 {
		t.Fatalf("got %d periods", len(got))
	}
	for _, dp := range got {
		if dp.DescribedCount != nil || dp.ExpectedCount != nil {
			t.Errorf("period %s: counters should stay nil", dp.Period)
		}
	}
}

func TestMergeRaw_Empty(t *testing.T) {
	if got := MergeRaw(); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
