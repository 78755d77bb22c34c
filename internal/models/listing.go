package models

import (
	"time"
)

// Listing is a single property record offered for sale or for rent.
// Optional scalars are pointers so NULL survives the round trip to JSON;
// optional relations are either fully populated or nil.
type Listing struct {
	ID          string  `json:"id"`
	MLSNumber   *string `json:"mls_number,omitempty"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`

	PropertyType PropertyType   `json:"property_type"`
	ListingType  ListingType    `json:"listing_type"`
	Status       PropertyStatus `json:"status"`

	StreetAddress string        `json:"street_address"`
	Unit          *string       `json:"unit,omitempty"`
	PostalCode    *string       `json:"postal_code,omitempty"`
	City          City          `json:"city"`
	Province      Province      `json:"province"`
	Neighborhood  *Neighborhood `json:"neighborhood,omitempty"`
	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`

	YearBuilt     *int     `json:"year_built,omitempty"`
	SquareFeet    *int     `json:"square_feet,omitempty"`
	LotSize       *float64 `json:"lot_size,omitempty"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     float64  `json:"bathrooms"`
	HalfBathrooms int      `json:"half_bathrooms"`
	Floors        int      `json:"floors"`

	ListPrice      *float64 `json:"list_price,omitempty"`
	MonthlyRent    *float64 `json:"monthly_rent,omitempty"`
	PricePerSqft   *float64 `json:"price_per_sqft,omitempty"`
	MaintenanceFee *float64 `json:"maintenance_fee,omitempty"`
	PropertyTax    *float64 `json:"property_tax,omitempty"`

	HeatingType       *string  `json:"heating_type,omitempty"`
	CoolingType       *string  `json:"cooling_type,omitempty"`
	UtilitiesIncluded []string `json:"utilities_included"`
	ParkingSpaces     int      `json:"parking_spaces"`
	ParkingType       *string  `json:"parking_type,omitempty"`
	PetFriendly       bool     `json:"pet_friendly"`
	Furnished         bool     `json:"furnished"`

	ListedDate    time.Time  `json:"listed_date"`
	AvailableDate *time.Time `json:"available_date,omitempty"`
	SoldDate      *time.Time `json:"sold_date,omitempty"`
	LastUpdated   time.Time  `json:"last_updated"`
	CreatedAt     time.Time  `json:"created_at"`

	Agent *Agent `json:"agent,omitempty"`

	// Populated on demand: list views carry the primary image only, the
	// detail view carries everything.
	Images   []Image        `json:"images"`
	Features []Feature      `json:"features,omitempty"`
	History  []HistoryEvent `json:"history,omitempty"`
}

// Price returns the list price for sale listings and the monthly rent for
// rentals, or nil when neither is set.
func (l *Listing) Price() *float64 {
	if l.ListPrice != nil {
		return l.ListPrice
	}
	return l.MonthlyRent
}

// PrimaryImage returns the image flagged primary, falling back to the
// first image in display order.
func (l *Listing) PrimaryImage() *Image {
	for i := range l.Images {
		if l.Images[i].IsPrimary {
			return &l.Images[i]
		}
	}
	if len(l.Images) > 0 {
		return &l.Images[0]
	}
	return nil
}

// Image is a photo attached to a listing.
type Image struct {
	ID           string  `json:"id"`
	ListingID    string  `json:"-"`
	URL          string  `json:"url"`
	ImageType    string  `json:"image_type"`
	Caption      *string `json:"caption,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsPrimary    bool    `json:"is_primary"`
}

// HistoryEvent records a change in a listing's life: listing, price or
// status changes.
type HistoryEvent struct {
	ID          string    `json:"id"`
	EventType   string    `json:"event_type"`
	OldValue    *string   `json:"old_value,omitempty"`
	NewValue    *string   `json:"new_value,omitempty"`
	PriceChange *float64  `json:"price_change,omitempty"`
	EventDate   time.Time `json:"event_date"`
	Notes       *string   `json:"notes,omitempty"`
}
