package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"transactions", "account_permissions", "accounts", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email   string
			Name    string
			IsAdmin bool
		}{
			{"admin@mail.com", "Admin", true},
			{"alice@mail.com", "Alice", false},
			{"bob@mail.com", "Bob", false},
			{"carol@mail.com", "Carol", false},
		}

		userIDs := map[string]int64{}
		for _, u := range users {
			var id int64
			row := db.Raw("SELECT id FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&id); err == nil {
				fmt.Println("user already exists:", u.Email)
				userIDs[u.Email] = id
				continue
			}
			if err := db.Raw(
				"INSERT INTO users (email, name, password_hash, is_admin, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now()) RETURNING id",
				u.Email, u.Name, string(hash), u.IsAdmin,
			).Row().Scan(&id); err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			userIDs[u.Email] = id
			fmt.Println("Seeded user:", u.Email)
		}

		accounts := []string{"Retirement Fund", "Brokerage"}
		accountIDs := map[string]int64{}
		for _, name := range accounts {
			var id int64
			row := db.Raw("SELECT id FROM accounts WHERE name = ?", name).Row()
			if err := row.Scan(&id); err == nil {
				fmt.Println("account already exists:", name)
				accountIDs[name] = id
				continue
			}
			if err := db.Raw(
				"INSERT INTO accounts (name, created_at, updated_at) VALUES (?, now(), now()) RETURNING id",
				name,
			).Row().Scan(&id); err != nil {
				log.Fatalf("failed to insert account %s: %v", name, err)
			}
			accountIDs[name] = id
			fmt.Println("Seeded account:", name)
		}

		grants := []struct {
			Email   string
			Account string
			Role    string
		}{
			{"alice@mail.com", "Retirement Fund", "crud"},
			{"bob@mail.com", "Retirement Fund", "view"},
			{"carol@mail.com", "Retirement Fund", "post"},
			{"alice@mail.com", "Brokerage", "view"},
			{"bob@mail.com", "Brokerage", "crud"},
		}

		for _, g := range grants {
			if err := db.Exec(
				"INSERT INTO account_permissions (user_id, account_id, permission, created_at, updated_at) VALUES (?, ?, ?, now(), now()) ON CONFLICT (user_id, account_id) DO UPDATE SET permission = EXCLUDED.permission, updated_at = now()",
				userIDs[g.Email], accountIDs[g.Account], g.Role,
			).Error; err != nil {
				log.Fatalf("failed to insert grant for %s on %s: %v", g.Email, g.Account, err)
			}
		}
		fmt.Println("Seeded account permissions")

		var txnCount int64
		if err := db.Raw("SELECT COUNT(*) FROM transactions").Row().Scan(&txnCount); err != nil {
			log.Fatalf("failed to count transactions: %v", err)
		}
		if txnCount == 0 {
			samples := []struct {
				Email   string
				Account string
				Amount  string
			}{
				{"alice@mail.com", "Retirement Fund", "1500.00"},
				{"carol@mail.com", "Retirement Fund", "-250.50"},
				{"bob@mail.com", "Brokerage", "99.99"},
			}
			for _, t := range samples {
				if err := db.Exec(
					"INSERT INTO transactions (account_id, user_id, amount, timestamp) VALUES (?, ?, ?, now())",
					accountIDs[t.Account], userIDs[t.Email], t.Amount,
				).Error; err != nil {
					log.Fatalf("failed to insert transaction: %v", err)
				}
			}
			fmt.Println("Seeded sample transactions")
		}

		fmt.Println("Seeding complete. All users share the password:", password)
	},
}
