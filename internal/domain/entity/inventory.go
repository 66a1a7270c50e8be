package entity

import "time"

// Resource kinds counted by an inventory snapshot.
const (
	ResourceEC2Instances  = "EC2 Instances"
	ResourceRDSInstances  = "RDS Instances"
	ResourceLambda        = "Lambda Functions"
	ResourceLoadBalancers = "Load Balancers"
	ResourceLogGroups     = "Log Groups"
	ResourceS3Buckets     = "S3 Buckets"
)

// ResourceCount is how many resources of a kind exist in one region.
type ResourceCount struct {
	Kind   string `json:"kind"`
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// ResourceSnapshot is a point-in-time inventory for one profile.
// DescribedRegions < ExpectedRegions means some regions could not be listed.
type ResourceSnapshot struct {
	Profile          string          `json:"profile"`
	AccountID        string          `json:"account_id"`
	Timestamp        time.Time       `json:"timestamp"`
	Counts           []ResourceCount `json:"counts"`
	ExpectedRegions  int             `json:"expected_regions"`
	DescribedRegions int             `json:"described_regions"`
}

// Total returns the number of resources in the snapshot.
func (s ResourceSnapshot) Total() int {
	var total int
	for _, c := range s.Counts {
		total += c.Count
	}
	return total
}
