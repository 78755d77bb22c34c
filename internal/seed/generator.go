package seed

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Listing type names the generator prices differently.
const (
	ForSale = "For Sale"
	ForRent = "For Rent"
)

// namespace scopes the name-based ids of generated rows.
var namespace = uuid.MustParse("8f1d6c1e-5a0b-4f7e-9a43-3c2b8e6f0d51")

// ReferenceDate anchors every generated date so output does not depend on
// when the seeder runs.
var ReferenceDate = time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)

const postalLetters = "ABCEGHJKLMNPRSTVXY"

// Listing is one generated property with its child rows. Lookup values are
// names; the seeder resolves them to ids.
type Listing struct {
	ID           uuid.UUID
	MLSNumber    string
	Title        string
	Description  string
	PropertyType string
	ListingType  string
	Status       string
	Province     string
	City         string
	Neighborhood string
	Agent        int

	StreetAddress string
	Unit          string
	PostalCode    string
	Latitude      float64
	Longitude     float64

	YearBuilt     int
	SquareFeet    int
	LotSize       *float64
	Bedrooms      int
	Bathrooms     float64
	HalfBathrooms int
	Floors        int

	ListPrice      *float64
	MonthlyRent    *float64
	PricePerSqft   *float64
	MaintenanceFee *float64
	PropertyTax    *float64

	HeatingType   string
	CoolingType   string
	Utilities     []string
	ParkingSpaces int
	ParkingType   string
	PetFriendly   bool
	Furnished     bool

	ListedDate    time.Time
	AvailableDate *time.Time
	CreatedAt     time.Time

	Features []string
	Images   []Image
	History  []HistoryEvent
}

type Image struct {
	ID           uuid.UUID
	URL          string
	ImageType    string
	Caption      string
	DisplayOrder int
	IsPrimary    bool
}

type HistoryEvent struct {
	ID          uuid.UUID
	EventType   string
	NewValue    string
	PriceChange *float64
	EventDate   time.Time
}

// Generator derives listings from a catalog. Listing(i) depends only on
// the seed and i, so batches can be generated in any order.
type Generator struct {
	catalog *Catalog
	seed    int64
}

// NewGenerator creates a Generator for catalog and seed.
func NewGenerator(catalog *Catalog, seed int64) *Generator {
	return &Generator{catalog: catalog, seed: seed}
}

// ID returns the deterministic id for a named row of the given kind.
func ID(kind, name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(kind+"/"+name))
}

// Listing returns the i-th listing.
func (g *Generator) Listing(i int) Listing {
	rng := rand.New(rand.NewPCG(uint64(g.seed), uint64(i)))
	c := g.catalog

	province := c.Provinces[rng.IntN(len(c.Provinces))]
	city := province.Cities[rng.IntN(len(province.Cities))]
	ptype := c.PropertyTypes[rng.IntN(len(c.PropertyTypes))]
	ltype := pickWeighted(rng, c.ListingTypes)
	status := pickStatus(rng, c.Statuses)

	key := fmt.Sprintf("%d/%d", g.seed, i)
	l := Listing{
		ID:           ID("property", key),
		PropertyType: ptype.Name,
		ListingType:  ltype,
		Status:       status,
		Province:     province.Code,
		City:         city.Name,
		Agent:        rng.IntN(len(c.Agents)),
	}
	l.MLSNumber = "H" + strings.ToUpper(strings.ReplaceAll(l.ID.String(), "-", "")[:9])
	if len(city.Neighborhoods) > 0 && rng.IntN(5) > 0 {
		l.Neighborhood = city.Neighborhoods[rng.IntN(len(city.Neighborhoods))]
	}

	l.StreetAddress = fmt.Sprintf("%d %s", 10+rng.IntN(2990), c.Streets[rng.IntN(len(c.Streets))])
	if ptype.Name == "Condo" || ptype.Name == "Apartment" {
		l.Unit = fmt.Sprintf("%d", 100+rng.IntN(3400))
	}
	l.PostalCode = postalCode(rng)
	l.Latitude = round(city.Latitude+(rng.Float64()-0.5)*0.12, 6)
	l.Longitude = round(city.Longitude+(rng.Float64()-0.5)*0.16, 6)

	l.Bedrooms = ptype.MinBeds + rng.IntN(ptype.MaxBeds-ptype.MinBeds+1)
	l.Bathrooms = math.Max(1, float64(l.Bedrooms)-float64(rng.IntN(2))) - 0.5*float64(rng.IntN(2))
	if l.Bathrooms < 1 {
		l.Bathrooms = 1
	}
	l.HalfBathrooms = rng.IntN(2)
	l.Floors = 1
	if ptype.Name != "Condo" && ptype.Name != "Apartment" {
		l.Floors = 1 + rng.IntN(3)
		lot := round(2500+rng.Float64()*6000, 2)
		l.LotSize = &lot
	}
	l.SquareFeet = 450 + l.Bedrooms*380 + rng.IntN(600)
	l.YearBuilt = 1905 + rng.IntN(120)

	salePrice := roundTo(city.BasePrice*ptype.PriceFactor*math.Pow(float64(l.SquareFeet)/1500, 0.6)*(0.85+rng.Float64()*0.3), 1000)
	if ltype == ForRent {
		rent := roundTo(salePrice*0.0042, 25)
		l.MonthlyRent = &rent
	} else {
		l.ListPrice = &salePrice
		perSqft := round(salePrice/float64(l.SquareFeet), 2)
		l.PricePerSqft = &perSqft
		tax := roundTo(salePrice*0.0085, 10)
		l.PropertyTax = &tax
	}
	if ptype.Name == "Condo" || ptype.Name == "Townhouse" {
		fee := roundTo(float64(l.SquareFeet)*0.55, 5)
		l.MaintenanceFee = &fee
	}

	l.HeatingType = pick(rng, c.HeatingTypes)
	l.CoolingType = pick(rng, c.CoolingTypes)
	l.ParkingSpaces = rng.IntN(4)
	if l.ParkingSpaces > 0 {
		l.ParkingType = pick(rng, c.ParkingTypes)
	}
	l.PetFriendly = rng.IntN(2) == 0
	if ltype == ForRent {
		l.Furnished = rng.IntN(3) == 0
		l.Utilities = sample(rng, c.Utilities, rng.IntN(len(c.Utilities)+1))
	}
	if l.Utilities == nil {
		l.Utilities = []string{}
	}

	age := time.Duration(rng.IntN(180*24)) * time.Hour
	l.CreatedAt = ReferenceDate.Add(-age)
	l.ListedDate = time.Date(l.CreatedAt.Year(), l.CreatedAt.Month(), l.CreatedAt.Day(), 0, 0, 0, 0, time.UTC)
	if ltype == ForRent {
		available := l.ListedDate.AddDate(0, 0, 14+rng.IntN(45))
		l.AvailableDate = &available
	}

	names := make([]string, len(c.Features))
	for j, f := range c.Features {
		names[j] = f.Name
	}
	l.Features = sample(rng, names, rng.IntN(6))

	adjective := c.Adjectives[rng.IntN(len(c.Adjectives))]
	l.Title = fmt.Sprintf("%s %d Bed %s in %s", adjective, l.Bedrooms, ptype.Name, city.Name)
	l.Description = description(l, adjective)

	imageCount := 1 + rng.IntN(4)
	imageTypes := []string{"exterior", "living_room", "kitchen", "bedroom"}
	for j := 0; j < imageCount; j++ {
		l.Images = append(l.Images, Image{
			ID:           ID("image", fmt.Sprintf("%s/%d", key, j)),
			URL:          fmt.Sprintf("https://images.hearth.dev/listings/%s/%d.jpg", l.ID, j),
			ImageType:    imageTypes[j%len(imageTypes)],
			Caption:      fmt.Sprintf("%s %d", strings.ReplaceAll(imageTypes[j%len(imageTypes)], "_", " "), j+1),
			DisplayOrder: j,
			IsPrimary:    j == 0,
		})
	}

	l.History = []HistoryEvent{{
		ID:        ID("history", key+"/listed"),
		EventType: "listed",
		NewValue:  l.Status,
		EventDate: l.CreatedAt,
	}}
	if l.ListPrice != nil && rng.IntN(4) == 0 {
		change := -roundTo(*l.ListPrice*0.03, 1000)
		l.History = append(l.History, HistoryEvent{
			ID:          ID("history", key+"/price"),
			EventType:   "price_change",
			NewValue:    fmt.Sprintf("%.0f", *l.ListPrice),
			PriceChange: &change,
			EventDate:   l.CreatedAt.Add(time.Duration(1+rng.IntN(20)) * 24 * time.Hour),
		})
	}

	return l
}

func description(l Listing, adjective string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s with %d bedrooms and %.1f bathrooms", adjective, strings.ToLower(l.PropertyType), l.Bedrooms, l.Bathrooms)
	if l.Neighborhood != "" {
		fmt.Fprintf(&sb, " in the %s neighbourhood of %s", l.Neighborhood, l.City)
	} else {
		fmt.Fprintf(&sb, " in %s", l.City)
	}
	fmt.Fprintf(&sb, ". %d sq ft, built in %d.", l.SquareFeet, l.YearBuilt)
	if len(l.Features) > 0 {
		fmt.Fprintf(&sb, " Features include %s.", strings.ToLower(strings.Join(l.Features, ", ")))
	}
	if l.PetFriendly {
		sb.WriteString(" Pets welcome.")
	}
	return sb.String()
}

func pick(rng *rand.Rand, values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[rng.IntN(len(values))]
}

// sample returns n distinct values in catalog order.
func sample(rng *rand.Rand, values []string, n int) []string {
	if n <= 0 {
		return nil
	}
	idx := rng.Perm(len(values))[:min(n, len(values))]
	chosen := make([]bool, len(values))
	for _, j := range idx {
		chosen[j] = true
	}
	out := make([]string, 0, len(idx))
	for j, v := range values {
		if chosen[j] {
			out = append(out, v)
		}
	}
	return out
}

func pickWeighted(rng *rand.Rand, options []WeightedName) string {
	total := 0
	for _, o := range options {
		total += max(o.Weight, 1)
	}
	n := rng.IntN(total)
	for _, o := range options {
		n -= max(o.Weight, 1)
		if n < 0 {
			return o.Name
		}
	}
	return options[len(options)-1].Name
}

func pickStatus(rng *rand.Rand, statuses []StatusSpec) string {
	options := make([]WeightedName, len(statuses))
	for i, s := range statuses {
		options[i] = WeightedName{Name: s.Name, Weight: s.Weight}
	}
	return pickWeighted(rng, options)
}

func postalCode(rng *rand.Rand) string {
	letter := func() byte { return postalLetters[rng.IntN(len(postalLetters))] }
	return fmt.Sprintf("%c%d%c %d%c%d", letter(), rng.IntN(10), letter(), rng.IntN(10), letter(), rng.IntN(10))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func roundTo(v, step float64) float64 {
	return math.Round(v/step) * step
}
