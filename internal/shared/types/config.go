package types

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/diillson/aws-finops-trends/internal/domain/entity"
)

// Config represents the application configuration that can be loaded from a file
// or from FINOPS_* environment variables.
type Config struct {
	Profiles           []string          `json:"profiles" yaml:"profiles" toml:"profiles"`
	Regions            []string          `json:"regions" yaml:"regions" toml:"regions"`
	Combine            bool              `json:"combine" yaml:"combine" toml:"combine"`
	MergeAll           bool              `json:"merge_all" yaml:"merge_all" toml:"merge_all"`
	ReportName         string            `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType         []string          `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir                string            `json:"dir" yaml:"dir" toml:"dir"`
	Tag                []string          `json:"tag" yaml:"tag" toml:"tag"`
	Granularity        string            `json:"granularity" yaml:"granularity" toml:"granularity"`
	Mode               string            `json:"mode" yaml:"mode" toml:"mode"`
	Top                *int              `json:"top,omitempty" yaml:"top,omitempty" toml:"top,omitempty"`
	GroupBy            string            `json:"group_by" yaml:"group_by" toml:"group_by"`
	Months             int               `json:"months" yaml:"months" toml:"months"`
	Days               int               `json:"days" yaml:"days" toml:"days"`
	TotalFromBreakdown bool              `json:"total_from_breakdown" yaml:"total_from_breakdown" toml:"total_from_breakdown"`
	History            string            `json:"history" yaml:"history" toml:"history"`
	Colors             map[string]string `json:"colors" yaml:"colors" toml:"colors"`
}

var (
	validGranularities = []string{string(entity.GranularityDaily), string(entity.GranularityMonthly), string(entity.GranularityYearly)}
	validModes         = []string{string(entity.ModeTrending), string(entity.ModeAggregated)}
	validReportTypes   = []string{"csv", "json", "pdf", "html"}
	hexColor           = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Granularity != "" && !lo.Contains(validGranularities, c.Granularity) {
		problems = append(problems, fmt.Sprintf("invalid granularity '%s': must be one of %v", c.Granularity, validGranularities))
	}
	if c.Mode != "" && !lo.Contains(validModes, c.Mode) {
		problems = append(problems, fmt.Sprintf("invalid mode '%s': must be one of %v", c.Mode, validModes))
	}
	for _, rt := range c.ReportType {
		if !lo.Contains(validReportTypes, rt) {
			problems = append(problems, fmt.Sprintf("invalid report type '%s': must be one of %v", rt, validReportTypes))
		}
	}
	if c.Top != nil && *c.Top < -1 {
		problems = append(problems, fmt.Sprintf("invalid top %d: must be -1 (no limit) or greater", *c.Top))
	}
	if c.Months < 0 {
		problems = append(problems, fmt.Sprintf("invalid months %d: must not be negative", c.Months))
	}
	if c.Days < 0 {
		problems = append(problems, fmt.Sprintf("invalid days %d: must not be negative", c.Days))
	}
	for label, color := range c.Colors {
		if !hexColor.MatchString(color) {
			problems = append(problems, fmt.Sprintf("invalid color '%s' for '%s': must be #RRGGBB", color, label))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
