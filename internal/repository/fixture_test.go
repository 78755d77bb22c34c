package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/hearth/internal/database"
)

// fixture is a small, isolated data set. Names carry a random suffix so
// tests can share a database and filter down to their own rows.
type fixture struct {
	suffix       string
	provinceID   string
	provinceCode string
	cityName     string
	otherCity    string
	featureNames []string
	listingIDs   map[string]string
}

type fixtureListing struct {
	key       string
	title     string
	city      string
	bedrooms  int
	bathrooms float64
	listPrice *float64
	rent      *float64
	sqft      int
	features  []string
	images    int
	createdAt time.Time
}

func money(v float64) *float64 { return &v }

func newFixture(t *testing.T, db *database.Database) *fixture {
	t.Helper()

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	f := &fixture{
		suffix:       suffix,
		provinceCode: strings.ToUpper(suffix[:6]),
		cityName:     "Toronto " + suffix,
		otherCity:    "Ottawa " + suffix,
		featureNames: []string{"Pool " + suffix, "Gym " + suffix, "Garage " + suffix},
		listingIDs:   map[string]string{},
	}

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	listings := []fixtureListing{
		{key: "a", title: "Three bed detached", city: f.cityName, bedrooms: 3, bathrooms: 2, listPrice: money(450000), sqft: 1800,
			features: f.featureNames[:2], images: 2, createdAt: base.Add(1 * time.Hour)},
		{key: "b", title: "Four bed family home", city: f.cityName, bedrooms: 4, bathrooms: 3, listPrice: money(580000), sqft: 2400,
			features: f.featureNames[:1], images: 1, createdAt: base.Add(2 * time.Hour)},
		{key: "c", title: "Luxury five bed", city: f.cityName, bedrooms: 5, bathrooms: 4, listPrice: money(900000), sqft: 3600,
			features: f.featureNames, createdAt: base.Add(3 * time.Hour)},
		{key: "d", title: "Two bed condo for rent", city: f.cityName, bedrooms: 2, bathrooms: 1, rent: money(2500), sqft: 850,
			createdAt: base.Add(4 * time.Hour)},
		{key: "e", title: "Three bed in Ottawa", city: f.otherCity, bedrooms: 3, bathrooms: 2, listPrice: money(500000), sqft: 1700,
			features: f.featureNames[1:2], createdAt: base.Add(5 * time.Hour)},
	}

	ctx := context.Background()
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO provinces (code, name) VALUES ($1, $2) RETURNING id::text`,
			f.provinceCode, "Province "+suffix).Scan(&f.provinceID); err != nil {
			return fmt.Errorf("insert province: %w", err)
		}

		cityIDs := map[string]string{}
		for _, name := range []string{f.cityName, f.otherCity} {
			var id string
			if err := tx.QueryRow(ctx,
				`INSERT INTO cities (name, province_id) VALUES ($1, $2) RETURNING id::text`,
				name, f.provinceID).Scan(&id); err != nil {
				return fmt.Errorf("insert city: %w", err)
			}
			cityIDs[name] = id
		}

		lookup := func(table, name string, extra ...string) (string, error) {
			var id string
			cols, vals := "name", "$1"
			args := []any{name}
			if len(extra) > 0 {
				cols += ", category"
				vals += ", $2"
				args = append(args, extra[0])
			}
			err := tx.QueryRow(ctx, fmt.Sprintf(
				`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id::text`,
				table, cols, vals), args...).Scan(&id)
			return id, err
		}

		typeID, err := lookup("property_types", "Detached House", "Residential")
		if err != nil {
			return fmt.Errorf("insert property type: %w", err)
		}
		saleID, err := lookup("listing_types", "For Sale")
		if err != nil {
			return fmt.Errorf("insert listing type: %w", err)
		}
		rentID, err := lookup("listing_types", "For Rent")
		if err != nil {
			return fmt.Errorf("insert listing type: %w", err)
		}
		statusID, err := lookup("property_statuses", "Active")
		if err != nil {
			return fmt.Errorf("insert status: %w", err)
		}

		featureIDs := map[string]string{}
		for _, name := range f.featureNames {
			id, err := lookup("property_features", name, "Amenities")
			if err != nil {
				return fmt.Errorf("insert feature: %w", err)
			}
			featureIDs[name] = id
		}

		for _, l := range listings {
			listingType := saleID
			if l.rent != nil {
				listingType = rentID
			}

			var id string
			if err := tx.QueryRow(ctx, `
				INSERT INTO properties (
					title, description, property_type_id, listing_type_id, status_id,
					street_address, city_id, province_id, bedrooms, bathrooms,
					square_feet, list_price, monthly_rent, created_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				RETURNING id::text`,
				l.title, "Fixture listing "+suffix, typeID, listingType, statusID,
				"1 Test St", cityIDs[l.city], f.provinceID, l.bedrooms, l.bathrooms,
				l.sqft, l.listPrice, l.rent, l.createdAt).Scan(&id); err != nil {
				return fmt.Errorf("insert listing %s: %w", l.key, err)
			}
			f.listingIDs[l.key] = id

			for _, name := range l.features {
				if _, err := tx.Exec(ctx,
					`INSERT INTO property_feature_associations (property_id, feature_id) VALUES ($1, $2)`,
					id, featureIDs[name]); err != nil {
					return fmt.Errorf("insert feature association: %w", err)
				}
			}

			for i := 0; i < l.images; i++ {
				if _, err := tx.Exec(ctx, `
					INSERT INTO property_images (property_id, url, display_order, is_primary)
					VALUES ($1, $2, $3, $4)`,
					id, fmt.Sprintf("https://img.example.com/%s/%d.jpg", id, i), i, i == 1); err != nil {
					return fmt.Errorf("insert image: %w", err)
				}
			}

			if _, err := tx.Exec(ctx, `
				INSERT INTO property_history (property_id, event_type, new_value)
				VALUES ($1, 'listed', 'Active')`, id); err != nil {
				return fmt.Errorf("insert history: %w", err)
			}
		}
		return nil
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `DELETE FROM properties WHERE province_id = $1`, f.provinceID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM property_features WHERE name = ANY($1)`, f.featureNames); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, `DELETE FROM cities WHERE province_id = $1`, f.provinceID); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `DELETE FROM provinces WHERE id = $1`, f.provinceID)
			return err
		})
	})

	return f
}
