package account

import (
	"github.com/frahmantamala/investment-manager/internal/core/common/validation"
)

type CreateAccountDTO struct {
	Name string `json:"name"`
}

func (d CreateAccountDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	return v.Validate()
}

type UpdateAccountDTO struct {
	Name string `json:"name"`
}

func (d UpdateAccountDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	return v.Validate()
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type GrantResponse struct {
	User       UserResponse `json:"user"`
	Permission string       `json:"permission"`
}

type AccountResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Permissions []GrantResponse `json:"permissions"`
}

type AccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

func (a *Account) ToResponse() AccountResponse {
	grants := make([]GrantResponse, 0, len(a.Grants))
	for _, g := range a.Grants {
		grants = append(grants, GrantResponse{
			User: UserResponse{
				ID:       g.UserID,
				Username: g.UserName,
				Email:    g.UserEmail,
			},
			Permission: string(g.Role),
		})
	}
	return AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Permissions: grants,
	}
}
