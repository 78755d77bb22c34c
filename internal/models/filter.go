package models

// ListingFilter is the structured search vocabulary shared by the filter
// endpoints and the natural-language fallback. Every field is optional;
// a nil pointer or empty string imposes no predicate.
type ListingFilter struct {
	Query         string   `json:"query,omitempty"`
	PropertyType  string   `json:"property_type,omitempty"`
	ListingType   string   `json:"listing_type,omitempty"`
	MinPrice      *float64 `json:"min_price,omitempty"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	City          string   `json:"city,omitempty"`
	Province      string   `json:"province,omitempty"`
	MinSqft       *int     `json:"min_sqft,omitempty"`
	MaxSqft       *int     `json:"max_sqft,omitempty"`
	ParkingSpaces *int     `json:"parking_spaces,omitempty"`
	PetFriendly   *bool    `json:"pet_friendly,omitempty"`
	Furnished     *bool    `json:"furnished,omitempty"`
	Features      []string `json:"features,omitempty"`
}

// IsEmpty reports whether no field of the filter is set.
func (f ListingFilter) IsEmpty() bool {
	return f.Query == "" &&
		f.PropertyType == "" &&
		f.ListingType == "" &&
		f.MinPrice == nil &&
		f.MaxPrice == nil &&
		f.Bedrooms == nil &&
		f.Bathrooms == nil &&
		f.City == "" &&
		f.Province == "" &&
		f.MinSqft == nil &&
		f.MaxSqft == nil &&
		f.ParkingSpaces == nil &&
		f.PetFriendly == nil &&
		f.Furnished == nil &&
		len(f.Features) == 0
}

// Sort field names accepted by the search endpoints.
const (
	SortByPrice     = "price"
	SortBySize      = "size"
	SortByBedrooms  = "bedrooms"
	SortByBathrooms = "bathrooms"
	SortByDate      = "date"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Sort selects the result order. An empty or unknown Field means newest
// first.
type Sort struct {
	Field     string `json:"sort_by,omitempty"`
	Direction string `json:"sort_order,omitempty"`
}
