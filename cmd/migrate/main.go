package main

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/wos-tracker/events-api/internal/database"
)

// Usage: migrate [up|down|status|version]
func main() {
	_ = godotenv.Load()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		log.Fatal("POSTGRES_URL is required")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := database.RunGoose(command, db); err != nil {
		log.Fatalf("migrate %s: %v", command, err)
	}
}
