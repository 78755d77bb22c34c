package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stwalsh4118/hearth/internal/database"
	"github.com/stwalsh4118/hearth/internal/models"
)

// CatalogRepository reads the lookup tables that describe listings.
type CatalogRepository interface {
	ListProvinces(ctx context.Context) ([]models.Province, error)

	// FindProvince matches a province by code or name, case-insensitively.
	// Returns nil, nil if nothing matches.
	FindProvince(ctx context.Context, codeOrName string) (*models.Province, error)

	ListCitiesByProvince(ctx context.Context, provinceID string) ([]models.City, error)
	ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error)
	ListListingTypes(ctx context.Context) ([]models.ListingType, error)
	ListFeatures(ctx context.Context) ([]models.Feature, error)
}

type catalogRepository struct {
	db *database.Database
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *database.Database) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListProvinces(ctx context.Context) ([]models.Province, error) {
	return listStructs[models.Province](ctx, r.db, "provinces",
		`SELECT id::text, code, name, country_code FROM provinces ORDER BY name`)
}

func (r *catalogRepository) FindProvince(ctx context.Context, codeOrName string) (*models.Province, error) {
	codeOrName = strings.TrimSpace(codeOrName)
	if codeOrName == "" {
		return nil, nil
	}

	var p models.Province
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id::text, code, name, country_code
		FROM provinces
		WHERE UPPER(code) = UPPER($1) OR LOWER(name) = LOWER($1)
		ORDER BY (UPPER(code) = UPPER($1)) DESC
		LIMIT 1`, codeOrName).Scan(&p.ID, &p.Code, &p.Name, &p.CountryCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query province %q: %w", codeOrName, err)
	}
	return &p, nil
}

func (r *catalogRepository) ListCitiesByProvince(ctx context.Context, provinceID string) ([]models.City, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, name, province_id::text, population, latitude, longitude
		FROM cities
		WHERE province_id = $1
		ORDER BY name`, provinceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities for province %s: %w", provinceID, err)
	}

	cities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.City, error) {
		var (
			c        models.City
			lat, lng pgtype.Numeric
		)
		if err := row.Scan(&c.ID, &c.Name, &c.ProvinceID, &c.Population, &lat, &lng); err != nil {
			return c, err
		}
		c.Latitude = numericPtr(lat)
		c.Longitude = numericPtr(lng)
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan cities: %w", err)
	}
	if cities == nil {
		cities = []models.City{}
	}
	return cities, nil
}

func (r *catalogRepository) ListPropertyTypes(ctx context.Context) ([]models.PropertyType, error) {
	return listStructs[models.PropertyType](ctx, r.db, "property types",
		`SELECT id::text, name, category FROM property_types ORDER BY category, name`)
}

func (r *catalogRepository) ListListingTypes(ctx context.Context) ([]models.ListingType, error) {
	return listStructs[models.ListingType](ctx, r.db, "listing types",
		`SELECT id::text, name FROM listing_types ORDER BY name`)
}

func (r *catalogRepository) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	return listStructs[models.Feature](ctx, r.db, "features",
		`SELECT id::text, name, category, description FROM property_features ORDER BY category, name`)
}

// listStructs runs a catalog query whose columns match T's fields by
// position. The result is never nil.
func listStructs[T any](ctx context.Context, db *database.Database, what, query string) ([]T, error) {
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[T])
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", what, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
