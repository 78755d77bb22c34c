package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stwalsh4118/hearth/internal/database"
	"github.com/stwalsh4118/hearth/internal/models"
	"github.com/stwalsh4118/hearth/internal/search"
)

// ListingRepository defines the data access operations for listings.
type ListingRepository interface {
	// Search runs a filter search and returns one page of listings with
	// their primary image attached. The filter must already be valid.
	Search(ctx context.Context, filter models.ListingFilter, page search.Pagination, sort models.Sort) (*models.SearchResult, error)

	// FindByID returns a listing with all images, features and history.
	// Returns nil, nil if no listing has that id.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)

	// FindByIDs returns the listings for ids in the order given. Unknown
	// or malformed ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]models.Listing, error)

	// ExecuteIDQuery runs a guarded read-only statement and returns the
	// distinct listing ids it produced, in row order.
	ExecuteIDQuery(ctx context.Context, sql string) ([]string, error)
}

// querier is satisfied by a pooled connection and by a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type listingRepository struct {
	db               *database.Database
	statementTimeout time.Duration
}

// NewListingRepository creates a ListingRepository. statementTimeout bounds
// statements run by ExecuteIDQuery; zero leaves the server default.
func NewListingRepository(db *database.Database, statementTimeout time.Duration) ListingRepository {
	return &listingRepository{
		db:               db,
		statementTimeout: statementTimeout,
	}
}

// Search counts the matching listings and fetches the requested page on a
// single pooled connection, released on every path.
func (r *listingRepository) Search(ctx context.Context, filter models.ListingFilter, page search.Pagination, sort models.Sort) (*models.SearchResult, error) {
	q := search.BuildQuery(filter, page, sort)

	conn, err := r.db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	var total int
	if err := conn.QueryRow(ctx, q.Count.SQL, q.Count.Args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	listings := []models.Listing{}
	if total > 0 {
		rows, err := conn.Query(ctx, q.Page.SQL, q.Page.Args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query listings: %w", err)
		}
		listings, err = collectListings(rows)
		if err != nil {
			return nil, err
		}

		if err := attachPrimaryImages(ctx, conn, listings); err != nil {
			return nil, err
		}
	}

	return &models.SearchResult{
		Listings:   listings,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
		Filters:    filter,
		Sort:       search.NormalizeSort(sort),
	}, nil
}

// FindByID loads one listing and its images, features and history.
func (r *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	conn, err := r.db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	query := "SELECT" + search.ListingColumns + "\nFROM" + search.ListingFrom + "\nWHERE p.id = $1"

	var row listingRow
	if err := conn.QueryRow(ctx, query, id).Scan(row.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query listing %s: %w", id, err)
	}
	listing := mapListing(&row)

	if listing.Images, err = findImages(ctx, conn, id); err != nil {
		return nil, err
	}
	if listing.Features, err = findFeatures(ctx, conn, id); err != nil {
		return nil, err
	}
	if listing.History, err = findHistory(ctx, conn, id); err != nil {
		return nil, err
	}

	return &listing, nil
}

// FindByIDs batch-loads listings and returns them in the order of ids.
func (r *listingRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Listing, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if u, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
			parsed = append(parsed, u)
		}
	}
	if len(parsed) == 0 {
		return []models.Listing{}, nil
	}

	conn, err := r.db.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	query := "SELECT" + search.ListingColumns + "\nFROM" + search.ListingFrom + "\nWHERE p.id = ANY($1)"
	rows, err := conn.Query(ctx, query, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings by id: %w", err)
	}
	found, err := collectListings(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Listing, len(found))
	for _, l := range found {
		byID[l.ID] = l
	}

	ordered := make([]models.Listing, 0, len(found))
	seen := make(map[string]struct{}, len(parsed))
	for _, u := range parsed {
		key := u.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if l, ok := byID[key]; ok {
			ordered = append(ordered, l)
		}
	}

	if err := attachPrimaryImages(ctx, conn, ordered); err != nil {
		return nil, err
	}
	return ordered, nil
}

// ExecuteIDQuery runs sql in a read-only transaction and extracts the id
// column, or the first column when no column is named id.
func (r *listingRepository) ExecuteIDQuery(ctx context.Context, sql string) ([]string, error) {
	ids := []string{}

	err := r.db.WithTxOptions(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		if r.statementTimeout > 0 {
			setTimeout := fmt.Sprintf("SET LOCAL statement_timeout = %d", r.statementTimeout.Milliseconds())
			if _, err := tx.Exec(ctx, setTimeout); err != nil {
				return fmt.Errorf("failed to set statement timeout: %w", err)
			}
		}

		rows, err := tx.Query(ctx, sql)
		if err != nil {
			return fmt.Errorf("failed to execute translated query: %w", err)
		}
		defer rows.Close()

		col := idColumn(rows.FieldDescriptions())
		if col < 0 {
			return fmt.Errorf("translated query returned no columns")
		}

		seen := make(map[string]struct{})
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				return fmt.Errorf("failed to read translated query row: %w", err)
			}
			id := identifierString(values[col])
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating translated query rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ids, nil
}

// idColumn picks the column holding listing ids.
func idColumn(fields []pgconn.FieldDescription) int {
	if len(fields) == 0 {
		return -1
	}
	for i, f := range fields {
		if strings.EqualFold(f.Name, "id") {
			return i
		}
	}
	return 0
}

// identifierString renders an id value as text. pgx decodes uuid columns
// as [16]byte.
func identifierString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case [16]byte:
		return uuid.UUID(id).String()
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}

func collectListings(rows pgx.Rows) ([]models.Listing, error) {
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		var row listingRow
		if err := rows.Scan(row.targets()...); err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		listings = append(listings, mapListing(&row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listing rows: %w", err)
	}
	return listings, nil
}

const imageColumns = `id::text, property_id::text, url, image_type, caption, display_order, is_primary`

// attachPrimaryImages loads the primary image of every listing in one
// query. A listing without a flagged primary gets its first image.
func attachPrimaryImages(ctx context.Context, q querier, listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(listings))
	index := make(map[string]int, len(listings))
	for i, l := range listings {
		u, err := uuid.Parse(l.ID)
		if err != nil {
			continue
		}
		ids = append(ids, u)
		index[u.String()] = i
	}

	rows, err := q.Query(ctx, `
		SELECT DISTINCT ON (property_id) `+imageColumns+`
		FROM property_images
		WHERE property_id = ANY($1)
		ORDER BY property_id, is_primary DESC, display_order ASC, id ASC`, ids)
	if err != nil {
		return fmt.Errorf("failed to query primary images: %w", err)
	}

	images, err := pgx.CollectRows(rows, scanImage)
	if err != nil {
		return fmt.Errorf("failed to scan primary images: %w", err)
	}

	for _, img := range images {
		if i, ok := index[img.ListingID]; ok {
			listings[i].Images = []models.Image{img}
		}
	}
	return nil
}

func findImages(ctx context.Context, q querier, id uuid.UUID) ([]models.Image, error) {
	rows, err := q.Query(ctx, `
		SELECT `+imageColumns+`
		FROM property_images
		WHERE property_id = $1
		ORDER BY display_order ASC, id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query images for listing %s: %w", id, err)
	}

	images, err := pgx.CollectRows(rows, scanImage)
	if err != nil {
		return nil, fmt.Errorf("failed to scan images for listing %s: %w", id, err)
	}
	if images == nil {
		images = []models.Image{}
	}
	return images, nil
}

func scanImage(row pgx.CollectableRow) (models.Image, error) {
	var img models.Image
	err := row.Scan(&img.ID, &img.ListingID, &img.URL, &img.ImageType, &img.Caption, &img.DisplayOrder, &img.IsPrimary)
	return img, err
}

func findFeatures(ctx context.Context, q querier, id uuid.UUID) ([]models.Feature, error) {
	rows, err := q.Query(ctx, `
		SELECT pf.id::text, pf.name, pf.category, pf.description
		FROM property_features pf
		JOIN property_feature_associations pfa ON pfa.feature_id = pf.id
		WHERE pfa.property_id = $1
		ORDER BY pf.category, pf.name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query features for listing %s: %w", id, err)
	}

	features, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.Feature])
	if err != nil {
		return nil, fmt.Errorf("failed to scan features for listing %s: %w", id, err)
	}
	if features == nil {
		features = []models.Feature{}
	}
	return features, nil
}

func findHistory(ctx context.Context, q querier, id uuid.UUID) ([]models.HistoryEvent, error) {
	rows, err := q.Query(ctx, `
		SELECT id::text, event_type, old_value, new_value, price_change, event_date, notes
		FROM property_history
		WHERE property_id = $1
		ORDER BY event_date DESC, id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for listing %s: %w", id, err)
	}
	defer rows.Close()

	history := []models.HistoryEvent{}
	for rows.Next() {
		var (
			event       models.HistoryEvent
			priceChange pgtype.Numeric
		)
		if err := rows.Scan(&event.ID, &event.EventType, &event.OldValue, &event.NewValue,
			&priceChange, &event.EventDate, &event.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		event.PriceChange = numericPtr(priceChange)
		history = append(history, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return history, nil
}
