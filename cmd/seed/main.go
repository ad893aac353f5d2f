package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/userdir/user-directory-api/config"
	"github.com/userdir/user-directory-api/pkg/helpers"
)

type seedUser struct {
	firstName string
	lastName  string
	email     string
	phone     string
	country   string
}

var seedUsers = []seedUser{
	{"Alice", "Johnson", "alice.johnson@example.com", "+14155550101", "United States"},
	{"Bruno", "Silva", "bruno.silva@example.com", "+5511955550102", "Brazil"},
	{"Chloe", "Martin", "chloe.martin@example.com", "+33655550103", "France"},
	{"Daniel", "Kim", "daniel.kim@example.com", "+821055550104", "South Korea"},
	{"Emma", "Weber", "emma.weber@example.com", "+4915155550105", "Germany"},
	{"Farida", "Hassan", "farida.hassan@example.com", "+201055550106", "Egypt"},
	{"Hiroshi", "Tanaka", "hiroshi.tanaka@example.com", "+818055550107", "Japan"},
	{"Isabella", "Rossi", "isabella.rossi@example.com", "+393355550108", "Italy"},
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	const q = `INSERT INTO users (first_name, last_name, email, phone, country)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`

	inserted := 0
	for _, u := range seedUsers {
		res, err := db.ExecContext(ctx, q, u.firstName, u.lastName, u.email, u.phone, u.country)
		if err != nil {
			logger.WithError(err).WithField("email", u.email).Fatal("seed insert failed")
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	logger.WithField("inserted", inserted).Info("seed complete")
}
