package cache

import "fmt"

type Prefix string

const (
	// AnalyticsSummary caches the aggregated rating summary for a
	// (participant, campaign) pair. Invalidated when a new response lands.
	AnalyticsSummary Prefix = "analytics_summary"

	// SentInstances caches send timestamps keyed by provider message id.
	SentInstances Prefix = "sent_instances"
)

func (p Prefix) Key(id string) string {
	return fmt.Sprintf("%s:%s", p, id)
}

// PairKey builds a cache key from two related ids.
func (p Prefix) PairKey(a, b string) string {
	return fmt.Sprintf("%s:%s:%s", p, a, b)
}
