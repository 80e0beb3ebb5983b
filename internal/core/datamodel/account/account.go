package account

import "time"

type Account struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}

// AccountPermission is the role grant row tying one (user, account) pair to
// one role. The composite unique index enforces at most one grant per pair.
type AccountPermission struct {
	ID         int64     `gorm:"primaryKey"`
	UserID     int64     `gorm:"column:user_id;not null;uniqueIndex:idx_account_permissions_user_account"`
	AccountID  int64     `gorm:"column:account_id;not null;uniqueIndex:idx_account_permissions_user_account"`
	Permission string    `gorm:"column:permission;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AccountPermission) TableName() string {
	return "account_permissions"
}
