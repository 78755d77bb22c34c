package search

import (
	"fmt"
	"strings"

	"github.com/stwalsh4118/hearth/internal/models"
)

// ListingColumns is the select list every listing query uses. The
// repository scans rows in exactly this order.
const ListingColumns = `
	p.id::text, p.mls_number, p.title, p.description,
	pt.id::text, pt.name, pt.category,
	lt.id::text, lt.name,
	ps.id::text, ps.name, ps.is_available,
	p.street_address, p.unit, p.postal_code,
	c.id::text, c.name, c.province_id::text, c.population, c.latitude, c.longitude,
	pr.id::text, pr.code, pr.name, pr.country_code,
	n.id::text, n.name, n.city_id::text, n.median_income, n.walkability_score, n.safety_score,
	p.latitude, p.longitude,
	p.year_built, p.square_feet, p.lot_size,
	p.bedrooms, p.bathrooms, p.half_bathrooms, p.floors,
	p.list_price, p.monthly_rent, p.price_per_sqft, p.maintenance_fee, p.property_tax,
	p.heating_type, p.cooling_type, p.utilities_included,
	p.parking_spaces, p.parking_type, p.pet_friendly, p.furnished,
	p.listed_date, p.available_date, p.sold_date, p.last_updated, p.created_at,
	a.id::text, a.first_name, a.last_name, a.email, a.phone,
	a.license_number, a.agency, a.years_experience, a.rating`

// ListingFrom joins a listing to its lookup tables.
const ListingFrom = `
	properties p
	JOIN property_types pt ON pt.id = p.property_type_id
	JOIN listing_types lt ON lt.id = p.listing_type_id
	JOIN property_statuses ps ON ps.id = p.status_id
	JOIN cities c ON c.id = p.city_id
	JOIN provinces pr ON pr.id = p.province_id
	LEFT JOIN neighborhoods n ON n.id = p.neighborhood_id
	LEFT JOIN agents a ON a.id = p.agent_id`

const defaultOrder = "p.created_at DESC, p.id ASC"

var sortColumns = map[string]string{
	models.SortByPrice:     "COALESCE(p.list_price, p.monthly_rent)",
	models.SortBySize:      "p.square_feet",
	models.SortByBedrooms:  "p.bedrooms",
	models.SortByBathrooms: "p.bathrooms",
	models.SortByDate:      "p.listed_date",
}

// Statement is SQL text with its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Query is the pair of statements one filter search runs. Both share the
// same WHERE clause.
type Query struct {
	Count Statement
	Page  Statement
}

// BuildQuery renders the count and page statements for a filter search.
// The filter is expected to have passed ValidateFilter.
func BuildQuery(f models.ListingFilter, page Pagination, sort models.Sort) Query {
	where := buildPredicates(f)

	whereSQL := ""
	if len(where.clauses) > 0 {
		whereSQL = "\nWHERE " + strings.Join(where.clauses, "\n\tAND ")
	}

	countArgs := append([]any(nil), where.args...)
	pageArgs := append(append([]any(nil), where.args...), page.Limit, page.Offset)

	return Query{
		Count: Statement{
			SQL:  "SELECT COUNT(*) FROM" + ListingFrom + whereSQL,
			Args: countArgs,
		},
		Page: Statement{
			SQL: fmt.Sprintf("SELECT%s\nFROM%s%s\nORDER BY %s\nLIMIT $%d OFFSET $%d",
				ListingColumns, ListingFrom, whereSQL, OrderBy(sort),
				len(where.args)+1, len(where.args)+2),
			Args: pageArgs,
		},
	}
}

// OrderBy maps a sort request onto an ORDER BY list. Unknown fields fall
// back to newest first. The trailing id keeps equal keys in a stable order.
func OrderBy(sort models.Sort) string {
	column, ok := sortColumns[strings.ToLower(strings.TrimSpace(sort.Field))]
	if !ok {
		return defaultOrder
	}
	return fmt.Sprintf("%s %s NULLS LAST, %s", column, direction(sort.Direction), defaultOrder)
}

// NormalizeSort returns the sort that OrderBy actually applies.
func NormalizeSort(sort models.Sort) models.Sort {
	field := strings.ToLower(strings.TrimSpace(sort.Field))
	if _, ok := sortColumns[field]; !ok {
		return models.Sort{Direction: models.SortDesc}
	}
	return models.Sort{Field: field, Direction: strings.ToLower(direction(sort.Direction))}
}

func direction(d string) string {
	if strings.EqualFold(strings.TrimSpace(d), models.SortAsc) {
		return "ASC"
	}
	return "DESC"
}

// predicateBuilder collects AND-ed predicates written with ? placeholders
// and numbers them as $1, $2, ... in the order they are added.
type predicateBuilder struct {
	clauses []string
	args    []any
}

func (b *predicateBuilder) add(clause string, args ...any) {
	if n := strings.Count(clause, "?"); n != len(args) {
		panic(fmt.Sprintf("search: predicate %q has %d placeholders but %d args", clause, n, len(args)))
	}

	var sb strings.Builder
	next := 0
	for i := 0; i < len(clause); i++ {
		if clause[i] != '?' {
			sb.WriteByte(clause[i])
			continue
		}
		b.args = append(b.args, args[next])
		next++
		fmt.Fprintf(&sb, "$%d", len(b.args))
	}
	b.clauses = append(b.clauses, sb.String())
}

func buildPredicates(f models.ListingFilter) *predicateBuilder {
	b := &predicateBuilder{}

	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := containsPattern(q)
		b.add("(p.title ILIKE ? OR p.description ILIKE ?)", pattern, pattern)
	}
	if pt := strings.TrimSpace(f.PropertyType); pt != "" {
		b.add("LOWER(pt.name) = LOWER(?)", pt)
	}
	if lt := strings.TrimSpace(f.ListingType); lt != "" {
		b.add("LOWER(lt.name) = LOWER(?)", lt)
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		clause, args := priceRange(f.MinPrice, f.MaxPrice)
		b.add(clause, args...)
	}

	if city := strings.TrimSpace(f.City); city != "" {
		b.add("c.name ILIKE ?", containsPattern(city))
	}
	if province := strings.TrimSpace(f.Province); province != "" {
		b.add("(UPPER(pr.code) = UPPER(?) OR pr.name ILIKE ?)", province, containsPattern(province))
	}

	if f.Bedrooms != nil {
		b.add("p.bedrooms >= ?", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		b.add("p.bathrooms >= ?", *f.Bathrooms)
	}
	if f.MinSqft != nil {
		b.add("p.square_feet >= ?", *f.MinSqft)
	}
	if f.MaxSqft != nil {
		b.add("p.square_feet <= ?", *f.MaxSqft)
	}
	if f.ParkingSpaces != nil {
		b.add("p.parking_spaces >= ?", *f.ParkingSpaces)
	}
	if f.PetFriendly != nil {
		b.add("p.pet_friendly = ?", *f.PetFriendly)
	}
	if f.Furnished != nil {
		b.add("p.furnished = ?", *f.Furnished)
	}

	if names := NormalizeFeatures(f.Features); len(names) > 0 {
		b.add(`p.id IN (
		SELECT pfa.property_id
		FROM property_feature_associations pfa
		JOIN property_features pf ON pf.id = pfa.feature_id
		WHERE LOWER(pf.name) = ANY(?)
		GROUP BY pfa.property_id
		HAVING COUNT(DISTINCT LOWER(pf.name)) = ?)`, names, len(names))
	}

	return b
}

// priceRange matches a listing when its list price or its monthly rent
// satisfies every supplied bound.
func priceRange(minPrice, maxPrice *float64) (string, []any) {
	var args []any
	bounds := func(column string) string {
		parts := make([]string, 0, 2)
		if minPrice != nil {
			parts = append(parts, column+" >= ?")
			args = append(args, *minPrice)
		}
		if maxPrice != nil {
			parts = append(parts, column+" <= ?")
			args = append(args, *maxPrice)
		}
		return "(" + strings.Join(parts, " AND ") + ")"
	}

	sale := bounds("p.list_price")
	rent := bounds("p.monthly_rent")
	return "(" + sale + " OR " + rent + ")", args
}

// NormalizeFeatures trims, lowercases and de-duplicates feature names so
// the HAVING count compares against distinct names.
func NormalizeFeatures(features []string) []string {
	seen := make(map[string]struct{}, len(features))
	out := make([]string, 0, len(features))
	for _, name := range features {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE substring pattern with the user's LIKE
// metacharacters escaped.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
