package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stwalsh4118/hearth/internal/models"
)

// listingRow holds one row of search.ListingColumns as scanned by pgx.
// Columns from LEFT JOINs are pointers; NUMERIC columns are scanned into
// pgtype.Numeric and converted by mapListing.
type listingRow struct {
	ID          string
	MLSNumber   *string
	Title       string
	Description *string

	TypeID       string
	TypeName     string
	TypeCategory string

	ListingTypeID   string
	ListingTypeName string

	StatusID        string
	StatusName      string
	StatusAvailable bool

	StreetAddress string
	Unit          *string
	PostalCode    *string

	CityID         string
	CityName       string
	CityProvinceID string
	CityPopulation *int
	CityLatitude   pgtype.Numeric
	CityLongitude  pgtype.Numeric

	ProvinceID      string
	ProvinceCode    string
	ProvinceName    string
	ProvinceCountry string

	NeighborhoodID     *string
	NeighborhoodName   *string
	NeighborhoodCityID *string
	MedianIncome       pgtype.Numeric
	WalkabilityScore   *int
	SafetyScore        *int

	Latitude  pgtype.Numeric
	Longitude pgtype.Numeric

	YearBuilt     *int
	SquareFeet    *int
	LotSize       pgtype.Numeric
	Bedrooms      int
	Bathrooms     pgtype.Numeric
	HalfBathrooms int
	Floors        int

	ListPrice      pgtype.Numeric
	MonthlyRent    pgtype.Numeric
	PricePerSqft   pgtype.Numeric
	MaintenanceFee pgtype.Numeric
	PropertyTax    pgtype.Numeric

	HeatingType       *string
	CoolingType       *string
	UtilitiesIncluded []string
	ParkingSpaces     int
	ParkingType       *string
	PetFriendly       bool
	Furnished         bool

	ListedDate    time.Time
	AvailableDate *time.Time
	SoldDate      *time.Time
	LastUpdated   time.Time
	CreatedAt     time.Time

	AgentID              *string
	AgentFirstName       *string
	AgentLastName        *string
	AgentEmail           *string
	AgentPhone           *string
	AgentLicense         *string
	AgentAgency          *string
	AgentYearsExperience *int
	AgentRating          pgtype.Numeric
}

// targets returns scan destinations in search.ListingColumns order.
func (r *listingRow) targets() []any {
	return []any{
		&r.ID, &r.MLSNumber, &r.Title, &r.Description,
		&r.TypeID, &r.TypeName, &r.TypeCategory,
		&r.ListingTypeID, &r.ListingTypeName,
		&r.StatusID, &r.StatusName, &r.StatusAvailable,
		&r.StreetAddress, &r.Unit, &r.PostalCode,
		&r.CityID, &r.CityName, &r.CityProvinceID, &r.CityPopulation, &r.CityLatitude, &r.CityLongitude,
		&r.ProvinceID, &r.ProvinceCode, &r.ProvinceName, &r.ProvinceCountry,
		&r.NeighborhoodID, &r.NeighborhoodName, &r.NeighborhoodCityID, &r.MedianIncome, &r.WalkabilityScore, &r.SafetyScore,
		&r.Latitude, &r.Longitude,
		&r.YearBuilt, &r.SquareFeet, &r.LotSize,
		&r.Bedrooms, &r.Bathrooms, &r.HalfBathrooms, &r.Floors,
		&r.ListPrice, &r.MonthlyRent, &r.PricePerSqft, &r.MaintenanceFee, &r.PropertyTax,
		&r.HeatingType, &r.CoolingType, &r.UtilitiesIncluded,
		&r.ParkingSpaces, &r.ParkingType, &r.PetFriendly, &r.Furnished,
		&r.ListedDate, &r.AvailableDate, &r.SoldDate, &r.LastUpdated, &r.CreatedAt,
		&r.AgentID, &r.AgentFirstName, &r.AgentLastName, &r.AgentEmail, &r.AgentPhone,
		&r.AgentLicense, &r.AgentAgency, &r.AgentYearsExperience, &r.AgentRating,
	}
}

// mapListing converts a scanned row into the API shape. Optional relations
// are built only when the joined row exists.
func mapListing(r *listingRow) models.Listing {
	listing := models.Listing{
		ID:          r.ID,
		MLSNumber:   r.MLSNumber,
		Title:       r.Title,
		Description: r.Description,
		PropertyType: models.PropertyType{
			ID:       r.TypeID,
			Name:     r.TypeName,
			Category: r.TypeCategory,
		},
		ListingType: models.ListingType{
			ID:   r.ListingTypeID,
			Name: r.ListingTypeName,
		},
		Status: models.PropertyStatus{
			ID:          r.StatusID,
			Name:        r.StatusName,
			IsAvailable: r.StatusAvailable,
		},
		StreetAddress: r.StreetAddress,
		Unit:          r.Unit,
		PostalCode:    r.PostalCode,
		City: models.City{
			ID:         r.CityID,
			Name:       r.CityName,
			ProvinceID: r.CityProvinceID,
			Population: r.CityPopulation,
			Latitude:   numericPtr(r.CityLatitude),
			Longitude:  numericPtr(r.CityLongitude),
		},
		Province: models.Province{
			ID:          r.ProvinceID,
			Code:        r.ProvinceCode,
			Name:        r.ProvinceName,
			CountryCode: r.ProvinceCountry,
		},
		Latitude:          numericPtr(r.Latitude),
		Longitude:         numericPtr(r.Longitude),
		YearBuilt:         r.YearBuilt,
		SquareFeet:        r.SquareFeet,
		LotSize:           numericPtr(r.LotSize),
		Bedrooms:          r.Bedrooms,
		Bathrooms:         numericValue(r.Bathrooms),
		HalfBathrooms:     r.HalfBathrooms,
		Floors:            r.Floors,
		ListPrice:         numericPtr(r.ListPrice),
		MonthlyRent:       numericPtr(r.MonthlyRent),
		PricePerSqft:      numericPtr(r.PricePerSqft),
		MaintenanceFee:    numericPtr(r.MaintenanceFee),
		PropertyTax:       numericPtr(r.PropertyTax),
		HeatingType:       r.HeatingType,
		CoolingType:       r.CoolingType,
		UtilitiesIncluded: r.UtilitiesIncluded,
		ParkingSpaces:     r.ParkingSpaces,
		ParkingType:       r.ParkingType,
		PetFriendly:       r.PetFriendly,
		Furnished:         r.Furnished,
		ListedDate:        r.ListedDate,
		AvailableDate:     r.AvailableDate,
		SoldDate:          r.SoldDate,
		LastUpdated:       r.LastUpdated,
		CreatedAt:         r.CreatedAt,
		Images:            []models.Image{},
	}

	if listing.UtilitiesIncluded == nil {
		listing.UtilitiesIncluded = []string{}
	}

	if r.NeighborhoodID != nil {
		listing.Neighborhood = &models.Neighborhood{
			ID:               *r.NeighborhoodID,
			Name:             deref(r.NeighborhoodName),
			CityID:           deref(r.NeighborhoodCityID),
			MedianIncome:     numericPtr(r.MedianIncome),
			WalkabilityScore: r.WalkabilityScore,
			SafetyScore:      r.SafetyScore,
		}
	}

	if r.AgentID != nil {
		listing.Agent = &models.Agent{
			ID:              *r.AgentID,
			FirstName:       deref(r.AgentFirstName),
			LastName:        deref(r.AgentLastName),
			Email:           deref(r.AgentEmail),
			Phone:           r.AgentPhone,
			LicenseNumber:   r.AgentLicense,
			Agency:          r.AgentAgency,
			YearsExperience: r.AgentYearsExperience,
			Rating:          numericPtr(r.AgentRating),
		}
	}

	return listing
}

// numericPtr converts a nullable NUMERIC to *float64.
func numericPtr(n pgtype.Numeric) *float64 {
	if !n.Valid {
		return nil
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// numericValue converts a NOT NULL NUMERIC, treating NULL as zero.
func numericValue(n pgtype.Numeric) float64 {
	if v := numericPtr(n); v != nil {
		return *v
	}
	return 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
