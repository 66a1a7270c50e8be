// Package trend turns time-series payloads into stacked chart series:
// extraction, top-N bucketing into "Others" and cumulative folding.
//
// Every function is pure. Inputs are never mutated and each stage returns
// fresh values, so independent calls can run concurrently.
package trend

import "github.com/diillson/aws-finops-trends/internal/domain/entity"

// Options controls a pipeline run.
type Options struct {
	Granularity entity.Granularity
	Mode        entity.Mode
	// TopN is the number of categories kept distinct; NoLimit keeps all.
	TopN               int
	TotalFromBreakdown bool
	Formatter          LabelFormatter
}

// Result is the output of Build.
type Result struct {
	Series  entity.StackedSeries
	Ranking entity.CategoryRanking
}

// Build runs Extract, Rank, Bucket and Combine in order.
func Build(raw []entity.RawDatapoint, opts Options) Result {
	extractOpts := []ExtractOption{WithFormatter(opts.Formatter)}
	if opts.TotalFromBreakdown {
		extractOpts = append(extractOpts, WithTotalFromBreakdown())
	}

	periods := Extract(raw, opts.Granularity, extractOpts...)
	ranking := Rank(periods)
	bucketed := Bucket(periods, ranking, opts.TopN)

	return Result{
		Series:  Combine(bucketed, opts.Mode, ranking),
		Ranking: ranking,
	}
}
