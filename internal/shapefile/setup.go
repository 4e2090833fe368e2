package shapefile

import (
	"log"

	"github.com/vick25/ceedd-stream-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "stream"); err != nil {
		log.Fatal("Failed to ensure schema stream: ", err)
	}

	if err := db.DB.AutoMigrate(&ShapefileUpload{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	initCache()
}
