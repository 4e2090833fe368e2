package seeds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	fixture := `
types_infrastructure:
  - nom: Bassin de rétention
    description: Bassin de collecte des eaux pluviales
  - nom: Citerne
zones:
  - nom: Mont-Ngafula
    etat_ravin: actif
    superficie: 1250.5
`
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.InfrastructureTypes) != 2 {
		t.Fatalf("expected 2 infrastructure types, got %d", len(f.InfrastructureTypes))
	}
	if f.InfrastructureTypes[0].Nom != "Bassin de rétention" {
		t.Errorf("wrong first type: %q", f.InfrastructureTypes[0].Nom)
	}
	if f.InfrastructureTypes[1].Description != "" {
		t.Errorf("expected empty description, got %q", f.InfrastructureTypes[1].Description)
	}

	if len(f.Zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(f.Zones))
	}
	z := f.Zones[0]
	if z.Nom != "Mont-Ngafula" || z.EtatRavin != "actif" {
		t.Errorf("wrong zone: %+v", z)
	}
	if z.Superficie == nil || *z.Superficie != 1250.5 {
		t.Errorf("wrong superficie: %v", z.Superficie)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing fixture")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("zones: [nom: {"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
