package search

import "prophunter_backend/internal/model"

// searchTerms maps property types to the Portuguese words used on Brazilian
// portals.
var searchTerms = map[model.PropertyType]string{
	model.PropertyTypeApartment:  "Apartamento",
	model.PropertyTypeHouse:      "Casa",
	model.PropertyTypeCommercial: "Comercial",
	model.PropertyTypeLand:       "Terreno",
	model.PropertyTypeAny:        "Imóvel",
}

// SearchTerm returns the portal search word for a property type. Unknown
// types pass through unchanged.
func SearchTerm(t model.PropertyType) string {
	if term, ok := searchTerms[t]; ok {
		return term
	}
	return string(t)
}

func displayType(t model.PropertyType) string {
	if t == model.PropertyTypeAny {
		return "Any Property Type"
	}
	return string(t)
}

func displayOperation(o model.OperationFilter) string {
	if o == model.OperationFilterBoth {
		return "Sale or Rent"
	}
	return string(o)
}
