package models

// Province is a first-level administrative region.
type Province struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
}

// City belongs to exactly one province.
type City struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ProvinceID string   `json:"province_id"`
	Population *int     `json:"population,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// Neighborhood belongs to a city and carries livability scores.
type Neighborhood struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	CityID           string   `json:"city_id"`
	MedianIncome     *float64 `json:"median_income,omitempty"`
	WalkabilityScore *int     `json:"walkability_score,omitempty"`
	SafetyScore      *int     `json:"safety_score,omitempty"`
}

// PropertyType is e.g. "Detached House" in category "Residential".
type PropertyType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ListingType is for-sale, for-rent or lease.
type ListingType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PropertyStatus is active, pending, sold and so on.
type PropertyStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsAvailable bool   `json:"is_available"`
}

// Feature is a named amenity from the feature catalog.
type Feature struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
}

// Agent is the listing agent.
type Agent struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Phone           *string  `json:"phone,omitempty"`
	LicenseNumber   *string  `json:"license_number,omitempty"`
	Agency          *string  `json:"agency,omitempty"`
	YearsExperience *int     `json:"years_experience,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
}
