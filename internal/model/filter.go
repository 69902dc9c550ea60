package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Property Types
type PropertyType string

const (
	PropertyTypeAny        PropertyType = "ANY"
	PropertyTypeApartment  PropertyType = "Apartment"
	PropertyTypeHouse      PropertyType = "House"
	PropertyTypeCommercial PropertyType = "Commercial"
	PropertyTypeLand       PropertyType = "Land"
)

// Operation filter: SALE, RENT or BOTH
type OperationFilter string

const (
	OperationFilterSale OperationFilter = "SALE"
	OperationFilterRent OperationFilter = "RENT"
	OperationFilterBoth OperationFilter = "BOTH"
)

var ErrInvalidFilter = errors.New("invalid filter")

// FilterState holds the search request parameters as submitted by the
// dashboard. Prices stay text until Validate parses them.
type FilterState struct {
	City          string          `json:"city"`
	Neighborhood  string          `json:"neighborhood"`
	MinPrice      string          `json:"minPrice"`
	MaxPrice      string          `json:"maxPrice"`
	PropertyType  PropertyType    `json:"propertyType"`
	OperationType OperationFilter `json:"operationType"`
	Keywords      string          `json:"keywords"`
}

// PriceRange is a parsed price filter. Nil bounds are open.
type PriceRange struct {
	Min *float64
	Max *float64
}

// Normalize fills defaults for optional enums.
func (f FilterState) Normalize() FilterState {
	f.City = strings.TrimSpace(f.City)
	f.Neighborhood = strings.TrimSpace(f.Neighborhood)
	if f.PropertyType == "" {
		f.PropertyType = PropertyTypeAny
	}
	if f.OperationType == "" {
		f.OperationType = OperationFilterBoth
	}
	return f
}

func (f FilterState) Validate() error {
	if strings.TrimSpace(f.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidFilter)
	}
	switch f.OperationType {
	case OperationFilterSale, OperationFilterRent, OperationFilterBoth:
	default:
		return fmt.Errorf("%w: operationType %q", ErrInvalidFilter, f.OperationType)
	}
	r, err := f.ParsedPriceRange()
	if err != nil {
		return err
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("%w: minPrice greater than maxPrice", ErrInvalidFilter)
	}
	return nil
}

func (f FilterState) ParsedPriceRange() (PriceRange, error) {
	var r PriceRange
	var err error
	if r.Min, err = parsePrice(f.MinPrice); err != nil {
		return PriceRange{}, fmt.Errorf("%w: minPrice: %v", ErrInvalidFilter, err)
	}
	if r.Max, err = parsePrice(f.MaxPrice); err != nil {
		return PriceRange{}, fmt.Errorf("%w: maxPrice: %v", ErrInvalidFilter, err)
	}
	return r, nil
}

// KeywordList splits the comma separated keywords.
func (f FilterState) KeywordList() []string {
	var out []string
	for _, k := range strings.Split(f.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// parsePrice accepts plain numbers and Brazilian formatting such as
// "1.200.000" or "2.500,50".
func parsePrice(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else if strings.Count(s, ".") > 1 {
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, fmt.Errorf("negative price %v", v)
	}
	return &v, nil
}
