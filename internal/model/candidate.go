package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidEnum   = errors.New("invalid enum value")
	ErrInvalidStatus = errors.New("invalid lead status")
)

// Candidate is a listing as decoded from the content-discovery provider.
// Pointer fields keep "absent" apart from zero values.
type Candidate struct {
	ID              *string  `json:"id"`
	Title           *string  `json:"title"`
	Price           *float64 `json:"price"`
	Currency        *string  `json:"currency"`
	Location        *string  `json:"location"`
	Neighborhood    *string  `json:"neighborhood"`
	Description     *string  `json:"description"`
	SellerType      *string  `json:"sellerType"`
	OperationType   *string  `json:"operationType"`
	SellerName      *string  `json:"sellerName"`
	Platform        *string  `json:"platform"`
	URL             *string  `json:"url"`
	Phone           *string  `json:"phone"`
	ConfidenceScore *float64 `json:"confidenceScore"`
	Features        []string `json:"features"`
}

// ValidateCandidate turns a provider candidate into a Listing. Candidates
// without one of the required fields are rejected; a confidence score outside
// [0,100] is clamped. ScrapedAt and Status are left for the caller.
func ValidateCandidate(c Candidate) (Listing, error) {
	required := []struct {
		name    string
		present bool
	}{
		{"id", nonBlank(c.ID)},
		{"title", nonBlank(c.Title)},
		{"price", c.Price != nil},
		{"location", nonBlank(c.Location)},
		{"sellerType", nonBlank(c.SellerType)},
		{"operationType", nonBlank(c.OperationType)},
		{"confidenceScore", c.ConfidenceScore != nil},
		{"platform", nonBlank(c.Platform)},
		{"url", nonBlank(c.URL)},
	}
	for _, f := range required {
		if !f.present {
			return Listing{}, fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}

	seller := SellerType(strings.ToUpper(strings.TrimSpace(*c.SellerType)))
	if !seller.IsValid() {
		return Listing{}, fmt.Errorf("%w: sellerType %q", ErrInvalidEnum, *c.SellerType)
	}
	operation := OperationType(strings.ToUpper(strings.TrimSpace(*c.OperationType)))
	if !operation.IsValid() {
		return Listing{}, fmt.Errorf("%w: operationType %q", ErrInvalidEnum, *c.OperationType)
	}

	currency := strings.TrimSpace(deref(c.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	features := make([]string, 0, len(c.Features))
	for _, f := range c.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}

	return Listing{
		ID:              strings.TrimSpace(*c.ID),
		Title:           *c.Title,
		Description:     deref(c.Description),
		Price:           *c.Price,
		Currency:        currency,
		Location:        *c.Location,
		Neighborhood:    deref(c.Neighborhood),
		SellerType:      seller,
		OperationType:   operation,
		SellerName:      deref(c.SellerName),
		Phone:           strings.TrimSpace(deref(c.Phone)),
		Platform:        ParsePlatform(strings.TrimSpace(*c.Platform)),
		URL:             strings.TrimSpace(*c.URL),
		ConfidenceScore: ClampConfidence(*c.ConfidenceScore),
		Features:        features,
	}, nil
}

func ClampConfidence(score float64) float64 {
	switch {
	case score != score: // NaN
		return 0
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

func nonBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
