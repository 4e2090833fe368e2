package seeds

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/vick25/ceedd-stream-backend/internal/db"
	"github.com/vick25/ceedd-stream-backend/internal/stream"
)

// Fixture is the YAML shape consumed by cmd/seed.
type Fixture struct {
	InfrastructureTypes []struct {
		Nom         string `yaml:"nom"`
		Description string `yaml:"description"`
	} `yaml:"types_infrastructure"`
	Zones []struct {
		Nom         string   `yaml:"nom"`
		EtatRavin   string   `yaml:"etat_ravin"`
		Superficie  *float64 `yaml:"superficie"`
		Description string   `yaml:"description"`
	} `yaml:"zones"`
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// SeedAll upserts fixture rows by name, so reruns are idempotent.
func SeedAll(f *Fixture) error {
	for _, t := range f.InfrastructureTypes {
		var existing stream.InfrastructureType
		err := db.DB.Where("nom = ?", t.Nom).First(&existing).Error
		if err == nil {
			existing.Description = t.Description
			if err := db.DB.Save(&existing).Error; err != nil {
				return fmt.Errorf("update infrastructure type %s: %w", t.Nom, err)
			}
			continue
		}
		record := stream.InfrastructureType{Nom: t.Nom, Description: t.Description}
		if err := db.DB.Create(&record).Error; err != nil {
			return fmt.Errorf("create infrastructure type %s: %w", t.Nom, err)
		}
	}

	for _, z := range f.Zones {
		var existing stream.ContributiveZone
		err := db.DB.Where("nom = ?", z.Nom).First(&existing).Error
		if err == nil {
			existing.EtatRavin = z.EtatRavin
			existing.Superficie = z.Superficie
			existing.Description = z.Description
			if err := db.DB.Save(&existing).Error; err != nil {
				return fmt.Errorf("update zone %s: %w", z.Nom, err)
			}
			continue
		}
		record := stream.ContributiveZone{
			Nom:         z.Nom,
			EtatRavin:   z.EtatRavin,
			Superficie:  z.Superficie,
			Description: z.Description,
		}
		if err := db.DB.Create(&record).Error; err != nil {
			return fmt.Errorf("create zone %s: %w", z.Nom, err)
		}
	}

	return nil
}
