package geo

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// SRID is the spatial reference used for every geometry column (WGS84).
const SRID = 4326

// Point wraps a go-geom point for storage in a PostGIS geometry(Point,4326)
// column. It serializes to and from GeoJSON on the API surface and EWKB hex
// on the wire to Postgres.
type Point struct {
	*geom.Point
}

// NewPoint builds a Point from longitude/latitude degrees.
func NewPoint(lon, lat float64) *Point {
	return &Point{geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(SRID)}
}

func (p Point) Value() (driver.Value, error) {
	if p.Point == nil {
		return nil, nil
	}
	return ewkbhex.Encode(p.Point, ewkbhex.NDR)
}

func (p *Point) Scan(src interface{}) error {
	if src == nil {
		p.Point = nil
		return nil
	}
	g, err := scanGeometry(src)
	if err != nil {
		return err
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return fmt.Errorf("geo: expected point geometry, got %T", g)
	}
	p.Point = pt
	return nil
}

func (p Point) MarshalJSON() ([]byte, error) {
	if p.Point == nil {
		return []byte("null"), nil
	}
	return geojson.Marshal(p.Point)
}

func (p *Point) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		p.Point = nil
		return nil
	}
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return err
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return errors.New("geo: geometry is not a Point")
	}
	pt.SetSRID(SRID)
	p.Point = pt
	return nil
}

// Polygon wraps a go-geom polygon for geometry(Polygon,4326) columns.
type Polygon struct {
	*geom.Polygon
}

func (p Polygon) Value() (driver.Value, error) {
	if p.Polygon == nil {
		return nil, nil
	}
	return ewkbhex.Encode(p.Polygon, ewkbhex.NDR)
}

func (p *Polygon) Scan(src interface{}) error {
	if src == nil {
		p.Polygon = nil
		return nil
	}
	g, err := scanGeometry(src)
	if err != nil {
		return err
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return fmt.Errorf("geo: expected polygon geometry, got %T", g)
	}
	p.Polygon = poly
	return nil
}

func (p Polygon) MarshalJSON() ([]byte, error) {
	if p.Polygon == nil {
		return []byte("null"), nil
	}
	return geojson.Marshal(p.Polygon)
}

func (p *Polygon) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		p.Polygon = nil
		return nil
	}
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return err
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return errors.New("geo: geometry is not a Polygon")
	}
	poly.SetSRID(SRID)
	p.Polygon = poly
	return nil
}

// scanGeometry decodes a geometry value read from Postgres. The driver hands
// geometry columns back as hex-encoded EWKB text; raw EWKB is accepted as a
// fallback.
func scanGeometry(src interface{}) (geom.T, error) {
	switch v := src.(type) {
	case string:
		return ewkbhex.Decode(v)
	case []byte:
		if g, err := ewkbhex.Decode(string(v)); err == nil {
			return g, nil
		}
		return ewkb.Unmarshal(v)
	default:
		return nil, fmt.Errorf("geo: cannot scan %T into geometry", src)
	}
}
