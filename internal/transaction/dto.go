package transaction

import (
	"time"

	"github.com/frahmantamala/investment-manager/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateTransactionDTO struct {
	AccountID int64           `json:"account"`
	Amount    decimal.Decimal `json:"amount"`
}

func (d CreateTransactionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("account", d.AccountID).Required().Positive()
	// Amounts are signed decimals; zero is as valid as any other value,
	// so the amount field carries no checks.
	return v.Validate()
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TransactionResponse struct {
	ID        int64           `json:"id"`
	Account   int64           `json:"account"`
	User      UserResponse    `json:"user"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

type TransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

type AdminReportResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalBalance decimal.Decimal       `json:"total_balance"`
}

func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:      t.ID,
		Account: t.AccountID,
		User: UserResponse{
			ID:       t.UserID,
			Username: t.UserName,
			Email:    t.UserEmail,
		},
		Amount:    t.Amount,
		Timestamp: t.Timestamp,
	}
}

func ToResponseSlice(transactions []*Transaction) []TransactionResponse {
	result := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		result = append(result, t.ToResponse())
	}
	return result
}
