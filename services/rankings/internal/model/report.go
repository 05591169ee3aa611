package model

import "fmt"

const (
	StatusError  = "error"
	StatusNoData = "no data"
)

// PlatformCategoryStatus is the outcome of one pair in an aggregate run.
type PlatformCategoryStatus struct {
	Available bool   `json:"available"`
	Count     int    `json:"count"`
	Status    string `json:"status"`
}

func SuccessStatus(n int) PlatformCategoryStatus {
	return PlatformCategoryStatus{Available: true, Count: n, Status: fmt.Sprintf("success(%d)", n)}
}

func ErrorStatus() PlatformCategoryStatus {
	return PlatformCategoryStatus{Status: StatusError}
}

func NoDataStatus() PlatformCategoryStatus {
	return PlatformCategoryStatus{Status: StatusNoData}
}

type AggregateSummary struct {
	Timestamp           string `json:"timestamp"`
	TotalPlatforms      int    `json:"total_platforms"`
	TotalPairs          int    `json:"total_pairs"`
	SuccessfulPlatforms int    `json:"successful_platforms"`
	TotalRequests       int    `json:"total_requests"`
	SuccessfulRequests  int    `json:"successful_requests"`
	CacheHitRate        string `json:"cache_hit_rate"`
	// Platforms is keyed by platform slug, then category slug.
	Platforms map[string]map[string]PlatformCategoryStatus `json:"platforms"`
}

// AggregateReport holds only pairs that produced at least one item. Data
// is keyed by response key ("amazon_prime" -> "tv_shows").
type AggregateReport struct {
	Summary AggregateSummary                   `json:"summary"`
	Data    map[string]map[string][]RankedItem `json:"data"`
}
