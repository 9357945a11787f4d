// Command seed creates the schema and loads placeholder data so the
// dashboard has something to show on a fresh database. Running it twice is
// safe: tables are created if missing and rows are upserted by primary key.
package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/iliyamo/barbershop-admin/internal/config"
	"github.com/iliyamo/barbershop-admin/internal/database"
	"github.com/iliyamo/barbershop-admin/internal/repository"
	"github.com/iliyamo/barbershop-admin/internal/utils"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id       CHAR(36) PRIMARY KEY,
		name     VARCHAR(255) NOT NULL,
		email    VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id        CHAR(36) PRIMARY KEY,
		name      VARCHAR(255) NOT NULL,
		email     VARCHAR(255) NOT NULL UNIQUE,
		image_url VARCHAR(255) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id          CHAR(36) PRIMARY KEY,
		customer_id CHAR(36) NOT NULL,
		amount      BIGINT NOT NULL,
		status      VARCHAR(16) NOT NULL,
		date        DATE NOT NULL,
		CONSTRAINT fk_reservations_customer FOREIGN KEY (customer_id)
			REFERENCES customers (id) ON DELETE RESTRICT
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id          CHAR(36) PRIMARY KEY,
		customer_id CHAR(36) NOT NULL,
		amount      BIGINT NOT NULL,
		status      VARCHAR(16) NOT NULL,
		date        DATE NOT NULL,
		CONSTRAINT fk_invoices_customer FOREIGN KEY (customer_id)
			REFERENCES customers (id) ON DELETE RESTRICT
	)`,
	`CREATE TABLE IF NOT EXISTS revenue (
		month   VARCHAR(4) PRIMARY KEY,
		revenue INT NOT NULL
	)`,
}

type seedCustomer struct {
	id, name, email, image string
}

var customers = []seedCustomer{
	{"d6e15727-9fe1-4961-8c5b-ea44a9bd81aa", "Sandi Kurniawan", "sandi@kurniawan.com", "/customers/sandi-kurniawan.png"},
	{"3958dc9e-712f-4377-85e9-fec4b6a6442a", "Lee Robinson", "lee@robinson.com", "/customers/lee-robinson.png"},
	{"3958dc9e-742f-4377-85e9-fec4b6a6442a", "Hector Simpson", "hector@simpson.com", "/customers/hector-simpson.png"},
	{"76d65c26-f784-44a2-ac19-586678f7c2f2", "Steven Tey", "steven@tey.com", "/customers/steven-tey.png"},
	{"cc27c14a-0acf-4f4a-a6c9-d45682c144b9", "Steph Dietz", "steph@dietz.com", "/customers/steph-dietz.png"},
	{"13d07535-c59e-4157-a011-f8d2ef4e0cbb", "Michael Novotny", "michael@novotny.com", "/customers/michael-novotny.png"},
	{"126eed9c-c90c-4ef6-a4a8-fcf7408d3c66", "Evil Rabbit", "evil@rabbit.com", "/customers/evil-rabbit.png"},
	{"f76a5e96-9e9c-4b80-9b63-b6f2f7c5b0a0", "Emil Kowalski", "emil@kowalski.com", "/customers/emil-kowalski.png"},
}

type seedBilling struct {
	customer string
	cents    int64
	status   string
	date     string
}

var invoices = []seedBilling{
	{customers[0].id, 15795, "pending", "2025-12-06"},
	{customers[1].id, 20348, "pending", "2025-11-14"},
	{customers[4].id, 3040, "paid", "2025-10-29"},
	{customers[3].id, 44800, "paid", "2025-09-10"},
	{customers[5].id, 34577, "pending", "2025-08-05"},
	{customers[2].id, 54246, "pending", "2025-07-16"},
	{customers[0].id, 66666, "pending", "2025-06-27"},
	{customers[3].id, 32545, "paid", "2025-06-09"},
	{customers[4].id, 1250, "paid", "2025-06-17"},
	{customers[5].id, 8546, "paid", "2025-06-07"},
	{customers[1].id, 500, "paid", "2025-08-19"},
	{customers[5].id, 8945, "paid", "2025-06-03"},
	{customers[2].id, 1000, "paid", "2025-06-05"},
}

var reservations = []seedBilling{
	{customers[0].id, 2500, "paid", "2025-12-01"},
	{customers[1].id, 4500, "pending", "2025-12-03"},
	{customers[6].id, 3500, "paid", "2025-11-21"},
	{customers[7].id, 2500, "pending", "2025-11-28"},
	{customers[2].id, 6000, "paid", "2025-10-30"},
	{customers[4].id, 2500, "paid", "2025-10-12"},
}

var revenue = map[string]int64{
	"Jan": 2000, "Feb": 1800, "Mar": 2200, "Apr": 2500,
	"May": 2300, "Jun": 3200, "Jul": 3500, "Aug": 3700,
	"Sep": 2500, "Oct": 2800, "Nov": 3000, "Dec": 4800,
}

func main() {
	_ = godotenv.Load()
	utils.InitLogger()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		utils.ErrorLogger.WithError(err).Fatal("database connection failed")
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			utils.ErrorLogger.WithError(err).Fatal("schema statement failed")
		}
	}

	seedUser(ctx, db, cfg.BcryptCost)
	seedCustomers(ctx, db)
	seedBillingTable(ctx, db, "invoices", invoices)
	seedBillingTable(ctx, db, "reservations", reservations)
	seedRevenue(ctx, db)

	utils.InfoLogger.Info("seed complete")
}

func seedUser(ctx context.Context, db *sql.DB, cost int) {
	users := repository.NewUserRepo(db)
	if _, err := users.GetByEmail(ctx, "user@nextmail.com"); err == nil {
		return // already seeded
	} else if err != sql.ErrNoRows {
		utils.ErrorLogger.WithError(err).Fatal("look up seed user")
	}
	if _, err := users.Create(ctx, "User", "user@nextmail.com", "123456", cost); err != nil {
		utils.ErrorLogger.WithError(err).Fatal("seed user")
	}
}

func seedCustomers(ctx context.Context, db *sql.DB) {
	for _, c := range customers {
		_, err := db.ExecContext(ctx,
			`INSERT INTO customers (id, name, email, image_url) VALUES (?, ?, ?, ?)
			 ON DUPLICATE KEY UPDATE name = VALUES(name), image_url = VALUES(image_url)`,
			c.id, c.name, c.email, c.image)
		if err != nil {
			utils.ErrorLogger.WithError(err).Fatalf("seed customer %s", c.name)
		}
	}
}

func seedBillingTable(ctx context.Context, db *sql.DB, table string, rows []seedBilling) {
	// Seed rows get fresh ids each run; skip when the table already has data
	// so reruns do not pile up duplicates.
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		utils.ErrorLogger.WithError(err).Fatalf("count %s", table)
	}
	if n > 0 {
		return
	}
	for _, r := range rows {
		_, err := db.ExecContext(ctx,
			"INSERT INTO "+table+" (id, customer_id, amount, status, date) VALUES (?, ?, ?, ?, ?)",
			uuid.NewString(), r.customer, r.cents, r.status, r.date)
		if err != nil {
			utils.ErrorLogger.WithError(err).Fatalf("seed %s row", table)
		}
	}
}

func seedRevenue(ctx context.Context, db *sql.DB) {
	for month, amount := range revenue {
		_, err := db.ExecContext(ctx,
			`INSERT INTO revenue (month, revenue) VALUES (?, ?)
			 ON DUPLICATE KEY UPDATE revenue = VALUES(revenue)`,
			month, amount)
		if err != nil {
			utils.ErrorLogger.WithError(err).Fatalf("seed revenue %s", month)
		}
	}
}
