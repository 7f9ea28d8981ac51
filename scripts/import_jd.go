package main

import (
	"context"
	"log"
	"os"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// Usage: go run scripts/import_jd.go <spreadsheet> [spreadsheet...]
func main() {
	paths := os.Args[1:]
	if len(paths) == 0 {
		log.Fatalf("❌ Usage: import_jd <spreadsheet.xlsx|.xls> [more files...]")
	}

	log.Println("🚀 Starting job description import...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	jdService := services.NewJDService(repositories.NewJobDescriptionRepository(db))
	ctx := context.Background()

	successCount := 0
	failCount := 0
	importedCount := 0

	for _, path := range paths {
		log.Printf("\n📄 Processing: %s", path)

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("   ❌ Failed to read file: %v", err)
			failCount++
			continue
		}

		jds, err := jdService.Import(ctx, data)
		if err != nil {
			log.Printf("   ❌ Failed to import: %v", err)
			failCount++
			continue
		}

		for _, jd := range jds {
			log.Printf("   ✅ %s  %s", jd.ID, jd.Title)
		}
		importedCount += len(jds)
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Import Summary:")
	log.Printf("   ✅ Successful: %d files (%d job descriptions)", successCount, importedCount)
	log.Printf("   ❌ Failed: %d files", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some files failed to import. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All job descriptions imported successfully!")
}
