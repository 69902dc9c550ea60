// Package stats aggregates search results and pipeline leads for the
// dashboard.
package stats

import (
	"sort"

	"prophunter_backend/internal/model"
)

// Market summarises a set of listings.
type Market struct {
	Total        int             `json:"total"`
	Owners       int             `json:"owners"`
	Brokers      int             `json:"brokers"`
	SalesCount   int             `json:"sales_count"`
	RentCount    int             `json:"rent_count"`
	AvgSalePrice float64         `json:"avg_sale_price"`
	AvgRentPrice float64         `json:"avg_rent_price"`
	AvgScore     float64         `json:"avg_confidence_score"`
	Platforms    []PlatformCount `json:"platforms"`
}

type PlatformCount struct {
	Platform model.Platform `json:"platform"`
	Count    int            `json:"count"`
}

type StatusCount struct {
	Status model.LeadStatus `json:"status"`
	Count  int              `json:"count"`
}

func Compute(listings []model.Listing) Market {
	m := Market{Total: len(listings), Platforms: []PlatformCount{}}

	var saleSum, rentSum, scoreSum float64
	platforms := map[model.Platform]int{}
	for _, l := range listings {
		switch l.SellerType {
		case model.SellerTypeOwner:
			m.Owners++
		case model.SellerTypeBroker:
			m.Brokers++
		}
		switch l.OperationType {
		case model.OperationTypeSale:
			m.SalesCount++
			saleSum += l.Price
		case model.OperationTypeRent:
			m.RentCount++
			rentSum += l.Price
		}
		scoreSum += l.ConfidenceScore
		platforms[l.Platform]++
	}

	if m.SalesCount > 0 {
		m.AvgSalePrice = saleSum / float64(m.SalesCount)
	}
	if m.RentCount > 0 {
		m.AvgRentPrice = rentSum / float64(m.RentCount)
	}
	if m.Total > 0 {
		m.AvgScore = scoreSum / float64(m.Total)
	}

	for p, n := range platforms {
		m.Platforms = append(m.Platforms, PlatformCount{Platform: p, Count: n})
	}
	sort.Slice(m.Platforms, func(i, j int) bool {
		return m.Platforms[i].Platform < m.Platforms[j].Platform
	})
	return m
}

// Funnel orders pipeline counts by board column.
func Funnel(counts map[model.LeadStatus]int) []StatusCount {
	out := make([]StatusCount, 0, len(model.LeadStatuses))
	for _, s := range model.LeadStatuses {
		out = append(out, StatusCount{Status: s, Count: counts[s]})
	}
	return out
}
