package geo_test

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
	"github.com/vick25/ceedd-stream-backend/internal/geo"
)

func TestShapeToGeom_Point(t *testing.T) {
	g := geo.ShapeToGeom(&shp.Point{X: 15.31, Y: -4.32})

	pt, ok := g.(*geom.Point)
	if !ok {
		t.Fatalf("expected *geom.Point, got %T", g)
	}
	if pt.X() != 15.31 || pt.Y() != -4.32 {
		t.Errorf("wrong coordinates: (%v, %v)", pt.X(), pt.Y())
	}
	if pt.SRID() != geo.SRID {
		t.Errorf("expected SRID %d, got %d", geo.SRID, pt.SRID())
	}
}

func TestShapeToGeom_PointZ(t *testing.T) {
	g := geo.ShapeToGeom(&shp.PointZ{X: 15.0, Y: -4.0, Z: 280.0})

	pt, ok := g.(*geom.Point)
	if !ok {
		t.Fatalf("expected *geom.Point, got %T", g)
	}
	// The Z ordinate is dropped; only the plan position survives.
	if pt.X() != 15.0 || pt.Y() != -4.0 {
		t.Errorf("wrong coordinates: (%v, %v)", pt.X(), pt.Y())
	}
}

func TestShapeToGeom_PolyLine(t *testing.T) {
	pl := &shp.PolyLine{
		NumParts: 2,
		Parts:    []int32{0, 3},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2},
			{X: 10, Y: 10}, {X: 11, Y: 11},
		},
	}

	g := geo.ShapeToGeom(pl)
	mls, ok := g.(*geom.MultiLineString)
	if !ok {
		t.Fatalf("expected *geom.MultiLineString, got %T", g)
	}
	if mls.NumLineStrings() != 2 {
		t.Fatalf("expected 2 line strings, got %d", mls.NumLineStrings())
	}
	if mls.LineString(0).NumCoords() != 3 {
		t.Errorf("first part: expected 3 coords, got %d", mls.LineString(0).NumCoords())
	}
	if mls.LineString(1).NumCoords() != 2 {
		t.Errorf("second part: expected 2 coords, got %d", mls.LineString(1).NumCoords())
	}
}

func TestShapeToGeom_Polygon(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 1,
		Parts:    []int32{0},
		Points: []shp.Point{
			{X: 15.0, Y: -4.0},
			{X: 15.0, Y: -3.0},
			{X: 16.0, Y: -3.0},
			{X: 16.0, Y: -4.0},
			{X: 15.0, Y: -4.0},
		},
	}

	g := geo.ShapeToGeom(poly)
	mp, ok := g.(*geom.MultiPolygon)
	if !ok {
		t.Fatalf("expected *geom.MultiPolygon, got %T", g)
	}
	if mp.NumPolygons() != 1 {
		t.Fatalf("expected 1 polygon, got %d", mp.NumPolygons())
	}
	if mp.Polygon(0).LinearRing(0).NumCoords() != 5 {
		t.Errorf("expected 5 ring coords, got %d", mp.Polygon(0).LinearRing(0).NumCoords())
	}
}

func TestShapeToGeom_MultiPartPolygon(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 2,
		Parts:    []int32{0, 5},
		Points: []shp.Point{
			{X: -80.0, Y: 25.0},
			{X: -80.0, Y: 26.0},
			{X: -79.0, Y: 26.0},
			{X: -79.0, Y: 25.0},
			{X: -80.0, Y: 25.0},
			{X: -81.0, Y: 26.0},
			{X: -81.0, Y: 27.0},
			{X: -80.0, Y: 27.0},
			{X: -80.0, Y: 26.0},
			{X: -81.0, Y: 26.0},
		},
	}

	g := geo.ShapeToGeom(poly)
	mp, ok := g.(*geom.MultiPolygon)
	if !ok {
		t.Fatalf("expected *geom.MultiPolygon, got %T", g)
	}
	if mp.NumPolygons() != 2 {
		t.Errorf("expected 2 polygons, got %d", mp.NumPolygons())
	}
}

func TestShapeToGeom_Empty(t *testing.T) {
	if g := geo.ShapeToGeom(&shp.Polygon{}); g != nil {
		t.Errorf("empty polygon: expected nil, got %T", g)
	}
	if g := geo.ShapeToGeom(&shp.PolyLine{}); g != nil {
		t.Errorf("empty polyline: expected nil, got %T", g)
	}
	if g := geo.ShapeToGeom(&shp.Null{}); g != nil {
		t.Errorf("null shape: expected nil, got %T", g)
	}
}
