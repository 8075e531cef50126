package main

import (
	"fmt"
	"log"

	"backend/internal/app/dsn"
	"backend/internal/app/repository"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	ipos, err := repo.GetOpenIPOs()
	if err != nil {
		log.Fatal("Failed to get ipos:", err)
	}

	fmt.Println("IPOs in database:")
	for _, ipo := range ipos {
		fmt.Printf("ID: %d, Company: %s, TotalLots: %d, Approved: %d\n",
			ipo.ID, ipo.CompanyName, ipo.TotalLots, ipo.ApprovedLots)
	}
}
