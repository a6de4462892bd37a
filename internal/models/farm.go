package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/twpayne/go-geom"
)

// ============================================================================
// FARM MANAGEMENT
// ============================================================================

type Farm struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	OwnerID       string     `json:"owner_id" db:"owner_id"`
	FarmName      string     `json:"farm_name" db:"farm_name"`
	CropType      string     `json:"crop_type" db:"crop_type"`
	SizeHectares  float64    `json:"size_hectares" db:"size_hectares"`
	Latitude      *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64   `json:"longitude,omitempty" db:"longitude"`
	Boundary      *Boundary  `json:"boundary,omitempty" db:"-"`
	PlantingDate  *int64     `json:"planting_date,omitempty" db:"planting_date"`
	SoilType      *string    `json:"soil_type,omitempty" db:"soil_type"`
	HasIrrigation bool       `json:"has_irrigation" db:"has_irrigation"`
	Region        *string    `json:"region,omitempty" db:"region"`
	Status        FarmStatus `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Boundary is the farm outline as a ring of [lng, lat] coordinate pairs,
// stored in Postgres as WKB.
type Boundary struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

// ToPolygon converts the ring into a go-geom polygon for WKB encoding. The
// ring is closed automatically when the caller left it open.
func (b *Boundary) ToPolygon() *geom.Polygon {
	if b == nil || len(b.Coordinates) < 3 {
		return nil
	}
	coords := make([]geom.Coord, 0, len(b.Coordinates)+1)
	for _, c := range b.Coordinates {
		coords = append(coords, geom.Coord{c[0], c[1]})
	}
	first := b.Coordinates[0]
	last := b.Coordinates[len(b.Coordinates)-1]
	if first != last {
		coords = append(coords, geom.Coord{first[0], first[1]})
	}
	polygon := geom.NewPolygon(geom.XY)
	polygon.MustSetCoords([][]geom.Coord{coords})
	return polygon
}

// BoundaryFromPolygon rebuilds the JSON-facing ring from a decoded polygon.
func BoundaryFromPolygon(polygon *geom.Polygon) *Boundary {
	if polygon == nil || polygon.NumLinearRings() == 0 {
		return nil
	}
	ring := polygon.LinearRing(0).Coords()
	coords := make([][2]float64, 0, len(ring))
	for _, c := range ring {
		coords = append(coords, [2]float64{c.X(), c.Y()})
	}
	return &Boundary{Coordinates: coords}
}
