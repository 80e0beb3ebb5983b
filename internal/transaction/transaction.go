package transaction

import (
	"time"

	transactionDatamodel "github.com/frahmantamala/investment-manager/internal/core/datamodel/transaction"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable signed monetary record attached to an account
// and its creating user. Rows are only ever inserted; there is no update or
// delete path through the API.
type Transaction struct {
	ID        int64           `json:"id"`
	AccountID int64           `json:"account"`
	UserID    int64           `json:"-"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`

	// Denormalized creator info for serialization, populated by list and
	// report queries.
	UserEmail string `json:"-"`
	UserName  string `json:"-"`
}

func NewTransaction(accountID, userID int64, amount decimal.Decimal) *Transaction {
	return &Transaction{
		AccountID: accountID,
		UserID:    userID,
		Amount:    amount,
		Timestamp: time.Now(),
	}
}

func ToDataModel(t *Transaction) *transactionDatamodel.Transaction {
	return &transactionDatamodel.Transaction{
		ID:        t.ID,
		AccountID: t.AccountID,
		UserID:    t.UserID,
		Amount:    t.Amount,
		Timestamp: t.Timestamp,
	}
}

func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	return &Transaction{
		ID:        t.ID,
		AccountID: t.AccountID,
		UserID:    t.UserID,
		Amount:    t.Amount,
		Timestamp: t.Timestamp,
	}
}

func FromDataModelSlice(transactions []*transactionDatamodel.Transaction) []*Transaction {
	result := make([]*Transaction, len(transactions))
	for i, t := range transactions {
		result[i] = FromDataModel(t)
	}
	return result
}
