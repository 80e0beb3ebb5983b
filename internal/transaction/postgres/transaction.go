package postgres

import (
	"errors"

	"github.com/frahmantamala/investment-manager/internal"
	"github.com/frahmantamala/investment-manager/internal/transaction"
	transactionDatamodel "github.com/frahmantamala/investment-manager/internal/core/datamodel/transaction"
	"gorm.io/gorm"
)

// TransactionRepository implements the transaction.Repository interface
// using GORM
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(txn *transaction.Transaction) error {
	dm := transaction.ToDataModel(txn)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	txn.ID = dm.ID
	txn.Timestamp = dm.Timestamp
	return nil
}

func (r *TransactionRepository) GetByID(id int64) (*transaction.Transaction, error) {
	var dm transactionDatamodel.Transaction
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTransactionNotFound
		}
		return nil, err
	}
	txn := transaction.FromDataModel(&dm)
	if err := r.fillUserInfo(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// GetForUser is the grant join: a transaction is visible when its account
// carries a grant for the user, whatever the role.
func (r *TransactionRepository) GetForUser(userID int64) ([]*transaction.Transaction, error) {
	query := `SELECT t.id, t.account_id, t.user_id, t.amount, t.timestamp, u.email, u.name
	          FROM transactions t
	          JOIN account_permissions ap ON ap.account_id = t.account_id
	          JOIN users u ON u.id = t.user_id
	          WHERE ap.user_id = ?
	          ORDER BY t.timestamp DESC, t.id DESC`

	rows, err := r.db.Raw(query, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.UserID, &t.Amount, &t.Timestamp, &t.UserEmail, &t.UserName); err != nil {
			return nil, err
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) fillUserInfo(txn *transaction.Transaction) error {
	row := r.db.Raw(`SELECT email, name FROM users WHERE id = ?`, txn.UserID).Row()
	if err := row.Scan(&txn.UserEmail, &txn.UserName); err != nil {
		// The creator may have been deleted; the transaction still stands.
		txn.UserEmail = ""
		txn.UserName = ""
	}
	return nil
}
