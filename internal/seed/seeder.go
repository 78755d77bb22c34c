package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stwalsh4118/hearth/internal/database"
	"github.com/stwalsh4118/hearth/internal/logger"
)

// Options controls how many listings are written and how.
type Options struct {
	Listings   int
	RandomSeed int64
	BatchSize  int
}

// Summary counts what a run wrote. Lookup counts include rows that already
// existed; Listings counts only new rows.
type Summary struct {
	Provinces     int
	Cities        int
	Neighborhoods int
	Features      int
	Agents        int
	Listings      int
	Skipped       int
}

// Seeder writes the catalog and generated listings. Re-running with the
// same seed writes nothing new.
type Seeder struct {
	db      *database.Database
	catalog *Catalog
	gen     *Generator
	opts    Options
	log     *logger.Logger
}

// New creates a Seeder.
func New(db *database.Database, catalog *Catalog, opts Options, log *logger.Logger) *Seeder {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &Seeder{
		db:      db,
		catalog: catalog,
		gen:     NewGenerator(catalog, opts.RandomSeed),
		opts:    opts,
		log:     log.WithComponent("seed"),
	}
}

// lookupIDs maps catalog names to row ids.
type lookupIDs struct {
	provinces     map[string]string
	cities        map[string]string
	neighborhoods map[string]string
	propertyTypes map[string]string
	listingTypes  map[string]string
	statuses      map[string]string
	features      map[string]string
	agents        []string
}

func cityKey(province, city string) string { return province + "/" + city }

func neighborhoodKey(province, city, name string) string {
	return province + "/" + city + "/" + name
}

// Run upserts the lookup tables and inserts listings in batches, one
// transaction per batch.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	ids, err := s.upsertLookups(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Provinces:     len(ids.provinces),
		Cities:        len(ids.cities),
		Neighborhoods: len(ids.neighborhoods),
		Features:      len(ids.features),
		Agents:        len(ids.agents),
	}

	for from := 0; from < s.opts.Listings; from += s.opts.BatchSize {
		to := min(from+s.opts.BatchSize, s.opts.Listings)

		inserted, err := s.insertBatch(ctx, ids, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to insert listings %d-%d: %w", from, to-1, err)
		}
		summary.Listings += inserted
		summary.Skipped += (to - from) - inserted

		s.log.Debug("Seeded listing batch", map[string]interface{}{
			"from":     from,
			"to":       to,
			"inserted": inserted,
		})
	}

	s.log.Info("Seeding complete", map[string]interface{}{
		"listings":    summary.Listings,
		"skipped":     summary.Skipped,
		"provinces":   summary.Provinces,
		"cities":      summary.Cities,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return summary, nil
}

func (s *Seeder) upsertLookups(ctx context.Context) (*lookupIDs, error) {
	ids := &lookupIDs{
		provinces:     map[string]string{},
		cities:        map[string]string{},
		neighborhoods: map[string]string{},
		propertyTypes: map[string]string{},
		listingTypes:  map[string]string{},
		statuses:      map[string]string{},
		features:      map[string]string{},
	}
	c := s.catalog

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		for _, p := range c.Provinces {
			provinceID, err := upsertID(ctx, tx,
				`INSERT INTO provinces (code, name) VALUES ($1, $2)
				ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
				RETURNING id::text`, p.Code, p.Name)
			if err != nil {
				return fmt.Errorf("province %s: %w", p.Code, err)
			}
			ids.provinces[p.Code] = provinceID

			for _, city := range p.Cities {
				cityID, err := upsertID(ctx, tx,
					`INSERT INTO cities (name, province_id, population, latitude, longitude)
					VALUES ($1, $2, $3, $4, $5)
					ON CONFLICT (name, province_id) DO UPDATE SET
						population = EXCLUDED.population,
						latitude = EXCLUDED.latitude,
						longitude = EXCLUDED.longitude
					RETURNING id::text`,
					city.Name, provinceID, city.Population, city.Latitude, city.Longitude)
				if err != nil {
					return fmt.Errorf("city %s: %w", city.Name, err)
				}
				ids.cities[cityKey(p.Code, city.Name)] = cityID

				for _, n := range city.Neighborhoods {
					nID, err := upsertID(ctx, tx,
						`INSERT INTO neighborhoods (name, city_id) VALUES ($1, $2)
						ON CONFLICT (name, city_id) DO UPDATE SET name = EXCLUDED.name
						RETURNING id::text`, n, cityID)
					if err != nil {
						return fmt.Errorf("neighborhood %s: %w", n, err)
					}
					ids.neighborhoods[neighborhoodKey(p.Code, city.Name, n)] = nID
				}
			}
		}

		for _, pt := range c.PropertyTypes {
			id, err := upsertID(ctx, tx,
				`INSERT INTO property_types (name, category) VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET category = EXCLUDED.category
				RETURNING id::text`, pt.Name, pt.Category)
			if err != nil {
				return fmt.Errorf("property type %s: %w", pt.Name, err)
			}
			ids.propertyTypes[pt.Name] = id
		}

		for _, lt := range c.ListingTypes {
			id, err := upsertID(ctx, tx,
				`INSERT INTO listing_types (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id::text`, lt.Name)
			if err != nil {
				return fmt.Errorf("listing type %s: %w", lt.Name, err)
			}
			ids.listingTypes[lt.Name] = id
		}

		for _, st := range c.Statuses {
			id, err := upsertID(ctx, tx,
				`INSERT INTO property_statuses (name, is_available) VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET is_available = EXCLUDED.is_available
				RETURNING id::text`, st.Name, st.IsAvailable)
			if err != nil {
				return fmt.Errorf("status %s: %w", st.Name, err)
			}
			ids.statuses[st.Name] = id
		}

		for _, f := range c.Features {
			id, err := upsertID(ctx, tx,
				`INSERT INTO property_features (name, category) VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET category = EXCLUDED.category
				RETURNING id::text`, f.Name, f.Category)
			if err != nil {
				return fmt.Errorf("feature %s: %w", f.Name, err)
			}
			ids.features[f.Name] = id
		}

		for _, a := range c.Agents {
			email := agentEmail(a)
			id, err := upsertID(ctx, tx,
				`INSERT INTO agents (id, first_name, last_name, email, phone, license_number,
					agency, years_experience, rating)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO UPDATE SET
					agency = EXCLUDED.agency,
					years_experience = EXCLUDED.years_experience,
					rating = EXCLUDED.rating
				RETURNING id::text`,
				ID("agent", email), a.FirstName, a.LastName, email,
				"+1-555-01"+fmt.Sprintf("%02d", len(ids.agents)),
				fmt.Sprintf("RE-%06d", 100000+len(ids.agents)*7919),
				a.Agency, a.YearsExperience, a.Rating)
			if err != nil {
				return fmt.Errorf("agent %s: %w", email, err)
			}
			ids.agents = append(ids.agents, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed lookup tables: %w", err)
	}
	return ids, nil
}

func upsertID(ctx context.Context, tx pgx.Tx, sql string, args ...any) (string, error) {
	var id string
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func agentEmail(a AgentSpec) string {
	domain := strings.ToLower(strings.Join(strings.Fields(a.Agency), ""))
	return strings.ToLower(a.FirstName+"."+a.LastName) + "@" + domain + ".ca"
}

// insertBatch writes listings [from, to) and their child rows through one
// pgx.Batch. Child inserts are idempotent so a skipped listing leaves its
// existing children alone.
func (s *Seeder) insertBatch(ctx context.Context, ids *lookupIDs, from, to int) (int, error) {
	inserted := 0
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := from; i < to; i++ {
			l := s.gen.Listing(i)
			if err := queueListing(batch, ids, l, &inserted); err != nil {
				return err
			}
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func queueListing(batch *pgx.Batch, ids *lookupIDs, l Listing, inserted *int) error {
	cityID, ok := ids.cities[cityKey(l.Province, l.City)]
	if !ok {
		return fmt.Errorf("unknown city %s/%s", l.Province, l.City)
	}
	var neighborhoodID *string
	if l.Neighborhood != "" {
		if id, ok := ids.neighborhoods[neighborhoodKey(l.Province, l.City, l.Neighborhood)]; ok {
			neighborhoodID = &id
		}
	}

	batch.Queue(`INSERT INTO properties (
			id, mls_number, title, description,
			property_type_id, listing_type_id, status_id, agent_id,
			street_address, unit, postal_code, city_id, province_id, neighborhood_id,
			latitude, longitude, year_built, square_feet, lot_size,
			bedrooms, bathrooms, half_bathrooms, floors,
			list_price, monthly_rent, price_per_sqft, maintenance_fee, property_tax,
			heating_type, cooling_type, utilities_included,
			parking_spaces, parking_type, pet_friendly, furnished,
			listed_date, available_date, last_updated, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, NULLIF($10, ''), $11, $12, $13, $14,
			$15, $16, $17, $18, $19,
			$20, $21, $22, $23,
			$24, $25, $26, $27, $28,
			$29, $30, $31,
			$32, NULLIF($33, ''), $34, $35,
			$36, $37, $38, $38
		) ON CONFLICT DO NOTHING`,
		l.ID, l.MLSNumber, l.Title, l.Description,
		ids.propertyTypes[l.PropertyType], ids.listingTypes[l.ListingType], ids.statuses[l.Status], ids.agents[l.Agent],
		l.StreetAddress, l.Unit, l.PostalCode, cityID, ids.provinces[l.Province], neighborhoodID,
		l.Latitude, l.Longitude, l.YearBuilt, l.SquareFeet, l.LotSize,
		l.Bedrooms, l.Bathrooms, l.HalfBathrooms, l.Floors,
		l.ListPrice, l.MonthlyRent, l.PricePerSqft, l.MaintenanceFee, l.PropertyTax,
		l.HeatingType, l.CoolingType, l.Utilities,
		l.ParkingSpaces, l.ParkingType, l.PetFriendly, l.Furnished,
		l.ListedDate, l.AvailableDate, l.CreatedAt,
	).Exec(func(ct pgconn.CommandTag) error {
		*inserted += int(ct.RowsAffected())
		return nil
	})

	for _, img := range l.Images {
		batch.Queue(`INSERT INTO property_images (id, property_id, url, image_type, caption, display_order, is_primary)
			VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
			img.ID, l.ID, img.URL, img.ImageType, img.Caption, img.DisplayOrder, img.IsPrimary)
	}

	for _, name := range l.Features {
		featureID, ok := ids.features[name]
		if !ok {
			return fmt.Errorf("unknown feature %q", name)
		}
		batch.Queue(`INSERT INTO property_feature_associations (property_id, feature_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`, l.ID, featureID)
	}

	for _, h := range l.History {
		batch.Queue(`INSERT INTO property_history (id, property_id, event_type, new_value, price_change, event_date)
			VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
			h.ID, l.ID, h.EventType, h.NewValue, h.PriceChange, h.EventDate)
	}
	return nil
}
