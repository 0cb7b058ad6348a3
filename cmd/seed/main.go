package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/importer"
	"github.com/ikkim/foodgram-backend/pkg/logger"
)

const usage = "Usage: go run cmd/seed/main.go <ingredients|tags> <csv_or_xlsx_file_path>"

func main() {
	if len(os.Args) < 3 {
		log.Fatal(usage)
	}

	var kind service.ImportKind
	switch os.Args[1] {
	case "ingredients":
		kind = service.ImportIngredients
	case "tags":
		kind = service.ImportTags
	default:
		log.Fatal(usage)
	}
	filePath := os.Args[2]

	format, err := importer.FormatFromPath(filePath)
	if err != nil {
		log.Fatal("Unsupported file:", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open file:", err)
	}
	defer file.Close()

	catalog := service.NewCatalogService(
		repository.NewIngredientRepository(db.GetDB()),
		repository.NewTagRepository(db.GetDB()),
	)

	fmt.Printf("Importing %s from %s\n", os.Args[1], filePath)
	result, err := catalog.Import(kind, file, format)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Printf("Created: %d, already present: %d, skipped: %d\n", result.Created, result.Existing, result.Skipped)
}
