package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/vick25/ceedd-stream-backend/internal/db"
	"github.com/vick25/ceedd-stream-backend/internal/seeds"
	"github.com/vick25/ceedd-stream-backend/internal/stream"
)

func main() {
	fixturePath := flag.String("fixture", "seeds/fixtures.yaml", "path to the YAML seed fixture")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	db.Connect()
	stream.Init()

	fixture, err := seeds.Load(*fixturePath)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	if err := seeds.SeedAll(fixture); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d infrastructure types, %d zones",
		len(fixture.InfrastructureTypes), len(fixture.Zones))
}
