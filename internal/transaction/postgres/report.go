package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/investment-manager/internal/transaction"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ReportRepository runs the admin aggregation over raw SQL. It deliberately
// skips the grant join: the caller is an administrator and the report spans
// every account the target user touched.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) transaction.ReportRepository {
	return &ReportRepository{db: db}
}

// ByUserWithinRange returns the target user's transactions bounded by the
// optional inclusive dates, plus the sum of their amounts. The end bound
// covers the whole day, so timestamps anywhere on end_date are included.
// The total is summed over the fetched rows rather than in a second SQL
// statement, so it always agrees with the returned slice even when inserts
// land between queries.
func (r *ReportRepository) ByUserWithinRange(ctx context.Context, userID int64, start, end *time.Time) ([]*transaction.Transaction, decimal.Decimal, error) {
	where := ` FROM transactions t
	           JOIN users u ON u.id = t.user_id
	           WHERE t.user_id = ?`
	args := []interface{}{userID}

	if start != nil {
		where += ` AND t.timestamp >= ?`
		args = append(args, *start)
	}
	if end != nil {
		where += ` AND t.timestamp < ?`
		args = append(args, end.AddDate(0, 0, 1))
	}

	listQuery := r.db.Rebind(
		`SELECT t.id, t.account_id, t.user_id, t.amount, t.timestamp, u.email, u.name` +
			where + ` ORDER BY t.timestamp, t.id`)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	total := decimal.Zero
	for rows.Next() {
		var t transaction.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.UserID, &t.Amount, &t.Timestamp, &t.UserEmail, &t.UserName); err != nil {
			return nil, decimal.Zero, err
		}
		total = total.Add(t.Amount)
		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, decimal.Zero, err
	}

	return transactions, total, nil
}
