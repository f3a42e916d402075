package domain

import "github.com/shopspring/decimal"

// Stats aggregates the deals matched by a predicate. The nullable fields are
// null when no rows match, mirroring SQL aggregate semantics.
type Stats struct {
	TotalDeals      int64               `json:"total_deals"`
	NewDeals        int64               `json:"new_deals"`
	InProgressDeals int64               `json:"in_progress_deals"`
	WonDeals        int64               `json:"won_deals"`
	LostDeals       int64               `json:"lost_deals"`
	TotalValue      decimal.Decimal     `json:"total_value"`
	AvgValue        decimal.NullDecimal `json:"avg_value"`
	MinValue        decimal.NullDecimal `json:"min_value"`
	MaxValue        decimal.NullDecimal `json:"max_value"`
}

// StageCountsConsistent reports whether the per-stage counts partition the total.
func (s Stats) StageCountsConsistent() bool {
	return s.NewDeals+s.InProgressDeals+s.WonDeals+s.LostDeals == s.TotalDeals
}
