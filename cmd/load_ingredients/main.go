// Command load_ingredients fills the ingredient catalogue from a CSV file of
// "name,measurement_unit" rows. Rows already present are skipped, so the
// command can be re-run safely.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logger"
	"foodgram/internal/modules/ingredient"
	"foodgram/internal/repository"
)

func main() {
	_ = godotenv.Load()

	file := flag.String("file", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	dsn := flag.String("dsn", "", "database DSN (defaults to DATABASE_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dsn == "" {
		*dsn = cfg.DatabaseURL
	}

	zl, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync(zl)

	db, err := database.Connect(*dsn, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}

	f, err := os.Open(*file)
	if err != nil {
		zl.Fatal("open csv", zap.String("file", *file), zap.Error(err))
	}
	defer f.Close()

	res, err := ingredient.Import(context.Background(), f, repository.NewIngredientRepository(db), zl)
	if err != nil {
		zl.Fatal("import failed", zap.Error(err))
	}
	log.Printf("ingredients loaded: created=%d skipped=%d", res.Created, res.Skipped)
}
