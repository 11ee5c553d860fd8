// Command main runs the database seeder for vzsocial.
package main

import (
	"flag"
	"log"

	"vzsocial/internal/config"
	"vzsocial/internal/database"
	"vzsocial/internal/seed"
)

func main() {
	preset := flag.String("preset", "demo", "Built-in seeder preset (minimal, demo)")
	presetFile := flag.String("file", "", "YAML preset file; overrides -preset")
	customers := flag.Int("customers", 0, "Override the preset's customer count")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build data without writing it")
	maxDays := flag.Int("max-days", 90, "Spread created_at over this many days")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	var (
		p   seed.Preset
		err error
	)
	if *presetFile != "" {
		p, err = seed.LoadPreset(*presetFile)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
	} else {
		var ok bool
		if p, ok = seed.Presets[*preset]; !ok {
			log.Fatalf("❌ unknown preset %q", *preset)
		}
	}
	if *customers > 0 {
		p.Customers = *customers
	}
	log.Printf("Preset %q: %d customers, clean=%v, dry-run=%v", p.Name, p.Customers, *shouldClean, *dryRun)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{DryRun: *dryRun, MaxDays: *maxDays})

	if *shouldClean && !*dryRun {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	sum, err := s.Run(p)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! %s", sum)
	log.Printf("📧 All seeded accounts use the password: %s", seed.DefaultPassword)
}
