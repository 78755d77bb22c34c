// Package seed fills a development database with a deterministic set of
// listings.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is the reference data listings are generated from.
type Catalog struct {
	Provinces     []ProvinceSpec     `yaml:"provinces"`
	PropertyTypes []PropertyTypeSpec `yaml:"property_types"`
	ListingTypes  []WeightedName     `yaml:"listing_types"`
	Statuses      []StatusSpec       `yaml:"statuses"`
	Features      []FeatureSpec      `yaml:"features"`
	Agents        []AgentSpec        `yaml:"agents"`
	Streets       []string           `yaml:"streets"`
	Adjectives    []string           `yaml:"adjectives"`
	HeatingTypes  []string           `yaml:"heating_types"`
	CoolingTypes  []string           `yaml:"cooling_types"`
	ParkingTypes  []string           `yaml:"parking_types"`
	Utilities     []string           `yaml:"utilities"`
}

// ProvinceSpec is a province and the cities listings may be placed in.
type ProvinceSpec struct {
	Code   string     `yaml:"code"`
	Name   string     `yaml:"name"`
	Cities []CitySpec `yaml:"cities"`
}

// CitySpec describes a city. BasePrice is the typical sale price of a
// semi-detached home there and scales every generated price.
type CitySpec struct {
	Name          string   `yaml:"name"`
	Population    int      `yaml:"population"`
	Latitude      float64  `yaml:"latitude"`
	Longitude     float64  `yaml:"longitude"`
	BasePrice     float64  `yaml:"base_price"`
	Neighborhoods []string `yaml:"neighborhoods"`
}

type PropertyTypeSpec struct {
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	PriceFactor float64 `yaml:"price_factor"`
	MinBeds     int     `yaml:"min_beds"`
	MaxBeds     int     `yaml:"max_beds"`
}

type WeightedName struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

type StatusSpec struct {
	Name        string `yaml:"name"`
	IsAvailable bool   `yaml:"is_available"`
	Weight      int    `yaml:"weight"`
}

type FeatureSpec struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type AgentSpec struct {
	FirstName       string  `yaml:"first_name"`
	LastName        string  `yaml:"last_name"`
	Agency          string  `yaml:"agency"`
	YearsExperience int     `yaml:"years_experience"`
	Rating          float64 `yaml:"rating"`
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses and validates a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse seed catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed catalog: %w", err)
	}
	return &c, nil
}

// Validate checks that every pool the generator draws from is non-empty.
func (c *Catalog) Validate() error {
	var errs []error
	if len(c.Provinces) == 0 {
		errs = append(errs, errors.New("no provinces"))
	}
	for _, p := range c.Provinces {
		if strings.TrimSpace(p.Code) == "" || strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("province %q: code and name are required", p.Code))
		}
		if len(p.Cities) == 0 {
			errs = append(errs, fmt.Errorf("province %s: no cities", p.Code))
		}
		for _, city := range p.Cities {
			if city.BasePrice <= 0 {
				errs = append(errs, fmt.Errorf("city %s: base_price must be positive", city.Name))
			}
		}
	}
	for _, pt := range c.PropertyTypes {
		if pt.MaxBeds < pt.MinBeds {
			errs = append(errs, fmt.Errorf("property type %s: max_beds below min_beds", pt.Name))
		}
	}
	for name, n := range map[string]int{
		"property_types": len(c.PropertyTypes),
		"listing_types":  len(c.ListingTypes),
		"statuses":       len(c.Statuses),
		"features":       len(c.Features),
		"agents":         len(c.Agents),
		"streets":        len(c.Streets),
		"adjectives":     len(c.Adjectives),
	} {
		if n == 0 {
			errs = append(errs, fmt.Errorf("no %s", name))
		}
	}
	if !hasListingType(c.ListingTypes, ForSale) || !hasListingType(c.ListingTypes, ForRent) {
		errs = append(errs, fmt.Errorf("listing_types must include %q and %q", ForSale, ForRent))
	}
	return errors.Join(errs...)
}

func hasListingType(types []WeightedName, name string) bool {
	for _, t := range types {
		if t.Name == name {
			return true
		}
	}
	return false
}
