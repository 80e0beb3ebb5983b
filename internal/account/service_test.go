package account_test

import (
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/investment-manager/internal"
	"github.com/frahmantamala/investment-manager/internal/account"
)

// Mock repository for testing
type mockAccountRepository struct {
	accounts    map[int64]*account.Account
	grants      map[[2]int64]*account.Grant
	createError error
	getError    error
	updateError error
	deleteError error
	deletedIDs  []int64
	nextID      int64
}

func newMockAccountRepository() *mockAccountRepository {
	return &mockAccountRepository{
		accounts: make(map[int64]*account.Account),
		grants:   make(map[[2]int64]*account.Grant),
		nextID:   1,
	}
}

func (m *mockAccountRepository) addAccount(name string) *account.Account {
	acct := account.NewAccount(name)
	acct.ID = m.nextID
	m.nextID++
	m.accounts[acct.ID] = acct
	return acct
}

func (m *mockAccountRepository) addGrant(userID, accountID int64, role account.Role) {
	m.grants[[2]int64{userID, accountID}] = &account.Grant{
		UserID:    userID,
		AccountID: accountID,
		Role:      role,
	}
}

func (m *mockAccountRepository) Create(acct *account.Account) error {
	if m.createError != nil {
		return m.createError
	}
	acct.ID = m.nextID
	m.nextID++
	m.accounts[acct.ID] = acct
	return nil
}

func (m *mockAccountRepository) GetByID(id int64) (*account.Account, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	acct, ok := m.accounts[id]
	if !ok {
		return nil, errors.New("account not found")
	}
	return acct, nil
}

func (m *mockAccountRepository) GetForUser(userID int64) ([]*account.Account, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	result := make([]*account.Account, 0)
	for key, g := range m.grants {
		if g.UserID != userID {
			continue
		}
		if acct, ok := m.accounts[key[1]]; ok {
			result = append(result, acct)
		}
	}
	return result, nil
}

func (m *mockAccountRepository) Update(acct *account.Account) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.accounts[acct.ID] = acct
	return nil
}

func (m *mockAccountRepository) Delete(id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.accounts, id)
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockAccountRepository) GetGrant(userID, accountID int64) (*account.Grant, error) {
	g, ok := m.grants[[2]int64{userID, accountID}]
	if !ok {
		return nil, account.ErrGrantNotFound
	}
	return g, nil
}

func (m *mockAccountRepository) GrantsForAccount(accountID int64) ([]*account.Grant, error) {
	result := make([]*account.Grant, 0)
	for key, g := range m.grants {
		if key[1] == accountID {
			result = append(result, g)
		}
	}
	return result, nil
}

var _ = Describe("AccountService", func() {
	var (
		service  *account.Service
		mockRepo *mockAccountRepository
	)

	BeforeEach(func() {
		mockRepo = newMockAccountRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = account.NewService(mockRepo, logger)
	})

	Describe("CreateAccount", func() {
		Context("when the payload is valid", func() {
			It("should create the account without requiring any grant", func() {
				acct, err := service.CreateAccount(1, account.CreateAccountDTO{Name: "Retirement Fund"})
				Expect(err).NotTo(HaveOccurred())
				Expect(acct.ID).NotTo(BeZero())
				Expect(acct.Name).To(Equal("Retirement Fund"))
			})
		})

		Context("when validation fails", func() {
			It("should return validation error for empty name", func() {
				_, err := service.CreateAccount(1, account.CreateAccountDTO{Name: ""})
				Expect(err).To(HaveOccurred())

				var appErr *internal.AppError
				Expect(errors.As(err, &appErr)).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(400))
			})
		})
	})

	Describe("ListAccounts", func() {
		Context("when the user holds grants on some accounts", func() {
			It("should return only accounts the user has a grant on", func() {
				visible := mockRepo.addAccount("Visible")
				mockRepo.addAccount("Hidden")
				mockRepo.addGrant(1, visible.ID, account.RoleView)

				accounts, err := service.ListAccounts(1)
				Expect(err).NotTo(HaveOccurred())
				Expect(accounts).To(HaveLen(1))
				Expect(accounts[0].Name).To(Equal("Visible"))
			})

			It("should attach every grant on the account, not just the caller's", func() {
				acct := mockRepo.addAccount("Shared")
				mockRepo.addGrant(1, acct.ID, account.RoleCRUD)
				mockRepo.addGrant(2, acct.ID, account.RoleView)

				accounts, err := service.ListAccounts(1)
				Expect(err).NotTo(HaveOccurred())
				Expect(accounts).To(HaveLen(1))
				Expect(accounts[0].Grants).To(HaveLen(2))
			})
		})

		Context("when the user holds no grants", func() {
			It("should return an empty list", func() {
				mockRepo.addAccount("Hidden")

				accounts, err := service.ListAccounts(1)
				Expect(err).NotTo(HaveOccurred())
				Expect(accounts).To(BeEmpty())
			})
		})
	})

	Describe("GetAccount", func() {
		Context("when the account does not exist", func() {
			It("should return not found even without a grant", func() {
				_, err := service.GetAccount(1, 999)
				Expect(err).To(Equal(internal.ErrAccountNotFound))
			})
		})

		Context("when the account exists but the user has no grant", func() {
			It("should return access denied", func() {
				acct := mockRepo.addAccount("Private")
				_, err := service.GetAccount(1, acct.ID)
				Expect(err).To(Equal(internal.ErrAccessDenied))
			})
		})

		Context("when the user holds a view grant", func() {
			It("should return the account with its grants", func() {
				acct := mockRepo.addAccount("Fund")
				mockRepo.addGrant(1, acct.ID, account.RoleView)

				got, err := service.GetAccount(1, acct.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.ID).To(Equal(acct.ID))
				Expect(got.Grants).To(HaveLen(1))
			})
		})
	})

	Describe("UpdateAccount", func() {
		Context("when the user holds a crud grant", func() {
			It("should rename the account", func() {
				acct := mockRepo.addAccount("Old Name")
				mockRepo.addGrant(1, acct.ID, account.RoleCRUD)

				updated, err := service.UpdateAccount(1, acct.ID, account.UpdateAccountDTO{Name: "New Name"})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Name).To(Equal("New Name"))
			})
		})

		Context("when the user holds only a view grant", func() {
			It("should deny the update", func() {
				acct := mockRepo.addAccount("Fund")
				mockRepo.addGrant(1, acct.ID, account.RoleView)

				_, err := service.UpdateAccount(1, acct.ID, account.UpdateAccountDTO{Name: "New Name"})
				Expect(err).To(Equal(internal.ErrAccessDenied))
			})
		})

		Context("when the user holds only a post grant", func() {
			It("should deny the update", func() {
				acct := mockRepo.addAccount("Fund")
				mockRepo.addGrant(1, acct.ID, account.RolePost)

				_, err := service.UpdateAccount(1, acct.ID, account.UpdateAccountDTO{Name: "New Name"})
				Expect(err).To(Equal(internal.ErrAccessDenied))
			})
		})

		Context("when the account does not exist", func() {
			It("should prefer not found over access denied", func() {
				_, err := service.UpdateAccount(1, 999, account.UpdateAccountDTO{Name: "New Name"})
				Expect(err).To(Equal(internal.ErrAccountNotFound))
			})
		})
	})

	Describe("DeleteAccount", func() {
		Context("when the user holds a crud grant", func() {
			It("should delete the account", func() {
				acct := mockRepo.addAccount("Doomed")
				mockRepo.addGrant(1, acct.ID, account.RoleCRUD)

				err := service.DeleteAccount(1, acct.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(mockRepo.deletedIDs).To(ContainElement(acct.ID))
			})
		})

		Context("when the user holds only a view grant", func() {
			It("should deny the delete", func() {
				acct := mockRepo.addAccount("Fund")
				mockRepo.addGrant(1, acct.ID, account.RoleView)

				err := service.DeleteAccount(1, acct.ID)
				Expect(err).To(Equal(internal.ErrAccessDenied))
				Expect(mockRepo.deletedIDs).To(BeEmpty())
			})
		})

		Context("when the repository fails", func() {
			It("should wrap the error as internal", func() {
				acct := mockRepo.addAccount("Fund")
				mockRepo.addGrant(1, acct.ID, account.RoleCRUD)
				mockRepo.deleteError = errors.New("disk on fire")

				err := service.DeleteAccount(1, acct.ID)
				Expect(err).To(HaveOccurred())

				var appErr *internal.AppError
				Expect(errors.As(err, &appErr)).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(500))
			})
		})
	})
})
