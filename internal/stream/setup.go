package stream

import (
	"log"

	"github.com/vick25/ceedd-stream-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "stream"); err != nil {
		log.Fatal("Failed to ensure schema stream: ", err)
	}

	// Geometry columns need PostGIS before AutoMigrate can create them.
	if err := db.EnsurePostGIS(db.DB); err != nil {
		log.Fatal("Failed to enable postgis extension: ", err)
	}

	if err := db.DB.AutoMigrate(
		&ContributiveZone{},
		&Funder{},
		&InfrastructureType{},
		&Client{},
		&Infrastructure{},
		&Funding{},
		&Inspection{},
		&Photo{},
	); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
