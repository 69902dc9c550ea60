package model

import (
	"time"
)

// Seller Types
type SellerType string

const (
	SellerTypeOwner  SellerType = "OWNER"
	SellerTypeBroker SellerType = "BROKER"
)

// Operation Types
type OperationType string

const (
	OperationTypeSale OperationType = "SALE"
	OperationTypeRent OperationType = "RENT"
)

// Platforms
type Platform string

const (
	PlatformOLX          Platform = "OLX"
	PlatformZap          Platform = "Zap"
	PlatformVivaReal     Platform = "VivaReal"
	PlatformMercadoLivre Platform = "MercadoLivre"
	PlatformOther        Platform = "Other"
)

const DefaultCurrency = "BRL"

// Listing is a real-estate ad found by a search. Content fields are fixed at
// creation; only Status changes once the listing is promoted to a lead.
type Listing struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Price           float64       `json:"price"`
	Currency        string        `json:"currency"`
	Location        string        `json:"location"`
	Neighborhood    string        `json:"neighborhood"`
	SellerType      SellerType    `json:"sellerType"`
	OperationType   OperationType `json:"operationType"`
	SellerName      string        `json:"sellerName,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	Platform        Platform      `json:"platform"`
	URL             string        `json:"url"`
	ConfidenceScore float64       `json:"confidenceScore"`
	Features        []string      `json:"features"`
	ScrapedAt       time.Time     `json:"scrapedAt"`
	Status          LeadStatus    `json:"status,omitempty"`
}

// InPipeline reports whether the listing has been promoted to a lead.
func (l Listing) InPipeline() bool {
	return l.Status.Assigned()
}

func (s SellerType) IsValid() bool {
	return s == SellerTypeOwner || s == SellerTypeBroker
}

func (o OperationType) IsValid() bool {
	return o == OperationTypeSale || o == OperationTypeRent
}

// ParsePlatform maps a provider-supplied platform name to a known platform.
// Anything unrecognised is Other.
func ParsePlatform(s string) Platform {
	switch Platform(s) {
	case PlatformOLX, PlatformZap, PlatformVivaReal, PlatformMercadoLivre:
		return Platform(s)
	default:
		return PlatformOther
	}
}
