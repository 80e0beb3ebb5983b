package account

import (
	"time"

	accountDatamodel "github.com/frahmantamala/investment-manager/internal/core/datamodel/account"
)

// Account is a shared investment account. Access is governed entirely by the
// role grants attached to it; the account itself has no owner.
type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Grants    []*Grant  `json:"permissions,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Grant ties one (user, account) pair to one role. At most one grant exists
// per pair; the storage layer enforces uniqueness.
type Grant struct {
	ID        int64     `json:"-"`
	UserID    int64     `json:"-"`
	AccountID int64     `json:"-"`
	Role      Role      `json:"permission"`
	UserEmail string    `json:"-"`
	UserName  string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

func NewAccount(name string) *Account {
	now := time.Now()
	return &Account{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (a *Account) Rename(name string) {
	a.Name = name
	a.UpdatedAt = time.Now()
}

func ToDataModel(a *Account) *accountDatamodel.Account {
	return &accountDatamodel.Account{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func FromDataModel(a *accountDatamodel.Account) *Account {
	return &Account{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func FromDataModelSlice(accounts []*accountDatamodel.Account) []*Account {
	result := make([]*Account, len(accounts))
	for i, a := range accounts {
		result[i] = FromDataModel(a)
	}
	return result
}

func GrantToDataModel(g *Grant) *accountDatamodel.AccountPermission {
	return &accountDatamodel.AccountPermission{
		ID:         g.ID,
		UserID:     g.UserID,
		AccountID:  g.AccountID,
		Permission: string(g.Role),
		CreatedAt:  g.CreatedAt,
	}
}

func GrantFromDataModel(p *accountDatamodel.AccountPermission) *Grant {
	return &Grant{
		ID:        p.ID,
		UserID:    p.UserID,
		AccountID: p.AccountID,
		Role:      Role(p.Permission),
		CreatedAt: p.CreatedAt,
	}
}
