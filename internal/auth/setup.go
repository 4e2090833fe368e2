package auth

import (
	"log"

	"github.com/vick25/ceedd-stream-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&User{}, &Token{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
