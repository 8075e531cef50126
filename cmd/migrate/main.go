package main

import (
	"flag"
	"log"

	"backend/internal/app/ds"
	"backend/internal/app/dsn"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// -drop: ДЕСТРУКТИВНО пересоздаёт схему (только для первичной настройки)
	drop := flag.Bool("drop", false, "drop all tables before migrating")
	flag.Parse()

	_ = godotenv.Load()

	dsnStr := dsn.FromEnv()
	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	if *drop {
		log.Println("Dropping existing tables...")
		err = db.Migrator().DropTable(
			&ds.IPOApplication{},
			&ds.IPO{},
			&ds.Candidate{},
			&ds.Company{},
		)
		if err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	// Миграция всех моделей
	err = db.AutoMigrate(
		&ds.Company{},
		&ds.Candidate{},
		&ds.IPO{},
		&ds.IPOApplication{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migration completed successfully")
}
