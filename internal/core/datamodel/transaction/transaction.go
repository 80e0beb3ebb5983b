package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID        int64           `gorm:"primaryKey"`
	AccountID int64           `gorm:"column:account_id;not null;index"`
	UserID    int64           `gorm:"column:user_id;not null;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Timestamp time.Time       `gorm:"column:timestamp;autoCreateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
