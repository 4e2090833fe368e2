package geo_test

import (
	"encoding/json"
	"strings"
	"testing"

	geomlib "github.com/twpayne/go-geom"
	"github.com/vick25/ceedd-stream-backend/internal/geo"
)

func TestPoint_ValueScanRoundTrip(t *testing.T) {
	p := geo.NewPoint(15.31, -4.32)

	val, err := p.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	hexStr, ok := val.(string)
	if !ok || hexStr == "" {
		t.Fatalf("expected non-empty hex string, got %T", val)
	}

	var back geo.Point
	if err := back.Scan(hexStr); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if back.X() != 15.31 || back.Y() != -4.32 {
		t.Errorf("round trip mismatch: (%v, %v)", back.X(), back.Y())
	}
	if back.SRID() != geo.SRID {
		t.Errorf("expected SRID %d, got %d", geo.SRID, back.SRID())
	}
}

func TestPoint_ScanBytes(t *testing.T) {
	p := geo.NewPoint(1, 2)
	val, err := p.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var back geo.Point
	if err := back.Scan([]byte(val.(string))); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if back.X() != 1 || back.Y() != 2 {
		t.Errorf("round trip mismatch: (%v, %v)", back.X(), back.Y())
	}
}

func TestPoint_NilValue(t *testing.T) {
	var p geo.Point
	val, err := p.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if val != nil {
		t.Errorf("expected nil driver value, got %v", val)
	}
}

func TestPoint_ScanNil(t *testing.T) {
	p := geo.NewPoint(1, 2)
	if err := p.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if p.Point != nil {
		t.Error("expected point cleared after scanning NULL")
	}
}

func TestPoint_JSON(t *testing.T) {
	p := geo.NewPoint(15.31, -4.32)

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"Point"`) {
		t.Errorf("expected GeoJSON Point, got %s", out)
	}

	var back geo.Point
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.X() != 15.31 || back.Y() != -4.32 {
		t.Errorf("round trip mismatch: (%v, %v)", back.X(), back.Y())
	}
	if back.SRID() != geo.SRID {
		t.Errorf("expected SRID %d after unmarshal, got %d", geo.SRID, back.SRID())
	}
}

func TestPoint_UnmarshalNull(t *testing.T) {
	var p geo.Point
	if err := json.Unmarshal([]byte("null"), &p); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if p.Point != nil {
		t.Error("expected nil point for null")
	}
}

func TestPoint_UnmarshalRejectsPolygon(t *testing.T) {
	polyJSON := `{"type":"Polygon","coordinates":[[[0,0],[0,1],[1,1],[0,0]]]}`
	var p geo.Point
	if err := json.Unmarshal([]byte(polyJSON), &p); err == nil {
		t.Error("expected error unmarshaling a polygon into a Point")
	}
}

func newTestPolygon() geo.Polygon {
	ring := []float64{15, -4, 15, -3, 16, -3, 16, -4, 15, -4}
	poly := geomlib.NewPolygonFlat(geomlib.XY, ring, []int{len(ring)}).SetSRID(geo.SRID)
	return geo.Polygon{Polygon: poly}
}

func TestPolygon_ValueScanRoundTrip(t *testing.T) {
	p := newTestPolygon()

	val, err := p.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var back geo.Polygon
	if err := back.Scan(val.(string)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if back.NumLinearRings() != 1 {
		t.Fatalf("expected 1 ring, got %d", back.NumLinearRings())
	}
	if back.LinearRing(0).NumCoords() != 5 {
		t.Errorf("expected 5 coords, got %d", back.LinearRing(0).NumCoords())
	}
}

func TestPolygon_JSON(t *testing.T) {
	p := newTestPolygon()

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"Polygon"`) {
		t.Errorf("expected GeoJSON Polygon, got %s", out)
	}

	var back geo.Polygon
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.NumLinearRings() != 1 {
		t.Errorf("expected 1 ring, got %d", back.NumLinearRings())
	}
}

func TestPolygon_ScanRejectsPoint(t *testing.T) {
	val, err := geo.NewPoint(1, 2).Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var p geo.Polygon
	if err := p.Scan(val.(string)); err == nil {
		t.Error("expected error scanning a point into a Polygon")
	}
}
