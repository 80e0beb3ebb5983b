package postgres

import (
	"errors"

	"github.com/frahmantamala/investment-manager/internal"
	"github.com/frahmantamala/investment-manager/internal/account"
	accountDatamodel "github.com/frahmantamala/investment-manager/internal/core/datamodel/account"
	transactionDatamodel "github.com/frahmantamala/investment-manager/internal/core/datamodel/transaction"
	"gorm.io/gorm"
)

// AccountRepository implements the account.Repository interface using GORM
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) account.Repository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(acct *account.Account) error {
	dm := account.ToDataModel(acct)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	acct.ID = dm.ID
	acct.CreatedAt = dm.CreatedAt
	acct.UpdatedAt = dm.UpdatedAt
	return nil
}

func (r *AccountRepository) GetByID(id int64) (*account.Account, error) {
	var dm accountDatamodel.Account
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrAccountNotFound
		}
		return nil, err
	}
	return account.FromDataModel(&dm), nil
}

// GetForUser returns accounts where the user holds a grant of any role.
func (r *AccountRepository) GetForUser(userID int64) ([]*account.Account, error) {
	var dms []*accountDatamodel.Account
	err := r.db.
		Joins("JOIN account_permissions ON account_permissions.account_id = accounts.id").
		Where("account_permissions.user_id = ?", userID).
		Order("accounts.id").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return account.FromDataModelSlice(dms), nil
}

func (r *AccountRepository) Update(acct *account.Account) error {
	dm := account.ToDataModel(acct)
	return r.db.Save(dm).Error
}

// Delete removes the account and cascades to its grants and transactions
// inside one database transaction, so no orphan rows survive even without
// foreign key support.
func (r *AccountRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&transactionDatamodel.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&accountDatamodel.AccountPermission{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&accountDatamodel.Account{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrAccountNotFound
		}
		return nil
	})
}

func (r *AccountRepository) GetGrant(userID, accountID int64) (*account.Grant, error) {
	var dm accountDatamodel.AccountPermission
	err := r.db.Where("user_id = ? AND account_id = ?", userID, accountID).First(&dm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrGrantNotFound
		}
		return nil, err
	}
	return account.GrantFromDataModel(&dm), nil
}

func (r *AccountRepository) GrantsForAccount(accountID int64) ([]*account.Grant, error) {
	query := `SELECT ap.id, ap.user_id, ap.account_id, ap.permission, u.email, u.name
	          FROM account_permissions ap
	          JOIN users u ON u.id = ap.user_id
	          WHERE ap.account_id = ?
	          ORDER BY ap.id`

	rows, err := r.db.Raw(query, accountID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []*account.Grant
	for rows.Next() {
		var g account.Grant
		var role string
		if err := rows.Scan(&g.ID, &g.UserID, &g.AccountID, &role, &g.UserEmail, &g.UserName); err != nil {
			return nil, err
		}
		g.Role = account.Role(role)
		grants = append(grants, &g)
	}
	return grants, rows.Err()
}
