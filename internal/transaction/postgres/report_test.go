package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	accountDatamodel "github.com/frahmantamala/investment-manager/internal/core/datamodel/account"
	transactionDatamodel "github.com/frahmantamala/investment-manager/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/investment-manager/internal/core/datamodel/user"
	"github.com/frahmantamala/investment-manager/internal/transaction"
)

var _ = Describe("ReportRepository", func() {
	var (
		db   *gorm.DB
		repo transaction.ReportRepository
		ctx  context.Context
	)

	seedUser := func(email, name string) int64 {
		u := &userDatamodel.User{Email: email, Name: name, PasswordHash: "x", IsActive: true}
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
		return u.ID
	}

	seedAccount := func(name string) int64 {
		a := &accountDatamodel.Account{Name: name}
		Expect(db.Create(a).Error).NotTo(HaveOccurred())
		return a.ID
	}

	seedTransaction := func(accountID, userID int64, amount string, ts time.Time) {
		t := &transactionDatamodel.Transaction{
			AccountID: accountID,
			UserID:    userID,
			Amount:    decimal.RequireFromString(amount),
			Timestamp: ts,
		}
		Expect(db.Create(t).Error).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&userDatamodel.User{},
			&accountDatamodel.Account{},
			&transactionDatamodel.Transaction{},
		)
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		repo = NewReportRepository(sqlx.NewDb(sqlDB, "sqlite3"))
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("ByUserWithinRange", func() {
		It("should span every account the user touched, ignoring grants", func() {
			alice := seedUser("alice@mail.com", "Alice")
			bob := seedUser("bob@mail.com", "Bob")
			fundA := seedAccount("Fund A")
			fundB := seedAccount("Fund B")

			now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
			seedTransaction(fundA, alice, "1500.00", now)
			seedTransaction(fundB, alice, "-250.50", now.Add(time.Hour))
			seedTransaction(fundA, bob, "999.00", now)

			transactions, total, err := repo.ByUserWithinRange(ctx, alice, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(transactions).To(HaveLen(2))
			Expect(total.Equal(decimal.RequireFromString("1249.5"))).To(BeTrue())
		})

		It("should bound the range inclusively on both ends", func() {
			alice := seedUser("alice@mail.com", "Alice")
			fund := seedAccount("Fund")

			seedTransaction(fund, alice, "1.00", time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC))
			seedTransaction(fund, alice, "2.00", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
			seedTransaction(fund, alice, "4.00", time.Date(2026, 3, 31, 18, 30, 0, 0, time.UTC))
			seedTransaction(fund, alice, "8.00", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

			start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

			transactions, total, err := repo.ByUserWithinRange(ctx, alice, &start, &end)
			Expect(err).NotTo(HaveOccurred())
			Expect(transactions).To(HaveLen(2))
			Expect(total.Equal(decimal.RequireFromString("6"))).To(BeTrue())
		})

		It("should apply a start bound alone", func() {
			alice := seedUser("alice@mail.com", "Alice")
			fund := seedAccount("Fund")

			seedTransaction(fund, alice, "1.00", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
			seedTransaction(fund, alice, "2.00", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

			start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

			transactions, total, err := repo.ByUserWithinRange(ctx, alice, &start, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(transactions).To(HaveLen(1))
			Expect(total.Equal(decimal.RequireFromString("2"))).To(BeTrue())
		})

		It("should return a zero total when nothing matches", func() {
			alice := seedUser("alice@mail.com", "Alice")

			transactions, total, err := repo.ByUserWithinRange(ctx, alice, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(transactions).To(BeEmpty())
			Expect(total.IsZero()).To(BeTrue())
		})

		It("should keep the total identical to the sum of the returned rows", func() {
			alice := seedUser("alice@mail.com", "Alice")
			fundA := seedAccount("Fund A")
			fundB := seedAccount("Fund B")

			now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
			seedTransaction(fundA, alice, "10.10", now)
			seedTransaction(fundB, alice, "-3.35", now.Add(time.Minute))
			seedTransaction(fundA, alice, "0.25", now.Add(2*time.Minute))

			transactions, total, err := repo.ByUserWithinRange(ctx, alice, nil, nil)
			Expect(err).NotTo(HaveOccurred())

			expected := decimal.Zero
			for _, t := range transactions {
				expected = expected.Add(t.Amount)
			}
			Expect(total.Equal(expected)).To(BeTrue())
			Expect(total.Equal(decimal.RequireFromString("7"))).To(BeTrue())
		})

		It("should carry the creator's email on each row", func() {
			alice := seedUser("alice@mail.com", "Alice")
			fund := seedAccount("Fund")
			seedTransaction(fund, alice, "5.00", time.Now().UTC())

			transactions, _, err := repo.ByUserWithinRange(ctx, alice, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(transactions).To(HaveLen(1))
			Expect(transactions[0].UserEmail).To(Equal("alice@mail.com"))
		})
	})
})
