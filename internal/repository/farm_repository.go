package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cropgenius-api/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
)

var ErrNotFound = errors.New("record not found")

type FarmRepository struct {
	db *sqlx.DB
}

func NewFarmRepository(db *sqlx.DB) *FarmRepository {
	return &FarmRepository{db: db}
}

// farmRow carries the WKB-encoded boundary alongside the farm columns.
type farmRow struct {
	models.Farm
	BoundaryWKB []byte `db:"boundary_wkb"`
}

func encodeBoundary(boundary *models.Boundary) ([]byte, error) {
	polygon := boundary.ToPolygon()
	if polygon == nil {
		return nil, nil
	}
	raw, err := wkb.Marshal(polygon, wkb.NDR)
	if err != nil {
		return nil, fmt.Errorf("encode boundary wkb: %w", err)
	}
	return raw, nil
}

func decodeBoundary(raw []byte) *models.Boundary {
	if len(raw) == 0 {
		return nil
	}
	decoded, err := wkb.Unmarshal(raw)
	if err != nil {
		return nil
	}
	polygon, ok := decoded.(*geom.Polygon)
	if !ok {
		return nil
	}
	return models.BoundaryFromPolygon(polygon)
}

func (r *FarmRepository) Create(ctx context.Context, farm *models.Farm) error {
	if farm.ID == uuid.Nil {
		farm.ID = uuid.New()
	}
	farm.CreatedAt = time.Now()
	farm.UpdatedAt = farm.CreatedAt
	if farm.Status == "" {
		farm.Status = models.FarmActive
	}

	boundaryWKB, err := encodeBoundary(farm.Boundary)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO farms (
			id, owner_id, farm_name, crop_type, size_hectares,
			latitude, longitude, boundary_wkb, planting_date,
			soil_type, has_irrigation, region, status, created_at, updated_at
		) VALUES (
			:id, :owner_id, :farm_name, :crop_type, :size_hectares,
			:latitude, :longitude, :boundary_wkb, :planting_date,
			:soil_type, :has_irrigation, :region, :status, :created_at, :updated_at
		)`

	row := farmRow{Farm: *farm, BoundaryWKB: boundaryWKB}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to create farm: %w", err)
	}
	return nil
}

const farmColumns = `
	id, owner_id, farm_name, crop_type, size_hectares,
	latitude, longitude, boundary_wkb, planting_date,
	soil_type, has_irrigation, region, status, created_at, updated_at`

func (r *FarmRepository) GetByID(ctx context.Context, id uuid.UUID, ownerID string) (*models.Farm, error) {
	var row farmRow
	query := `SELECT ` + farmColumns + ` FROM farms WHERE id = $1 AND owner_id = $2`
	if err := r.db.GetContext(ctx, &row, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get farm %s: %w", id, err)
	}
	farm := row.Farm
	farm.Boundary = decodeBoundary(row.BoundaryWKB)
	return &farm, nil
}

func (r *FarmRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Farm, error) {
	rows := []farmRow{}
	query := `SELECT ` + farmColumns + ` FROM farms WHERE owner_id = $1 AND status = 'active' ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	farms := make([]models.Farm, 0, len(rows))
	for _, row := range rows {
		farm := row.Farm
		farm.Boundary = decodeBoundary(row.BoundaryWKB)
		farms = append(farms, farm)
	}
	return farms, nil
}

// ListActive returns every active farm regardless of owner, for background
// jobs like the weather prefetch.
func (r *FarmRepository) ListActive(ctx context.Context) ([]models.Farm, error) {
	rows := []farmRow{}
	query := `SELECT ` + farmColumns + ` FROM farms WHERE status = 'active'`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list active farms: %w", err)
	}
	farms := make([]models.Farm, 0, len(rows))
	for _, row := range rows {
		farm := row.Farm
		farm.Boundary = decodeBoundary(row.BoundaryWKB)
		farms = append(farms, farm)
	}
	return farms, nil
}

func (r *FarmRepository) Update(ctx context.Context, farm *models.Farm) error {
	farm.UpdatedAt = time.Now()

	boundaryWKB, err := encodeBoundary(farm.Boundary)
	if err != nil {
		return err
	}

	query := `
		UPDATE farms SET
			farm_name = :farm_name, crop_type = :crop_type,
			size_hectares = :size_hectares, latitude = :latitude,
			longitude = :longitude, boundary_wkb = :boundary_wkb,
			planting_date = :planting_date, soil_type = :soil_type,
			has_irrigation = :has_irrigation, region = :region,
			status = :status, updated_at = :updated_at
		WHERE id = :id AND owner_id = :owner_id`

	row := farmRow{Farm: *farm, BoundaryWKB: boundaryWKB}
	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to update farm: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete archives the farm rather than removing the row, so historical
// detections and predictions keep their foreign key target.
func (r *FarmRepository) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	query := `UPDATE farms SET status = 'archived', updated_at = $1 WHERE id = $2 AND owner_id = $3`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete farm: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
