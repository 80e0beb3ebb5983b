package account

import (
	"log/slog"

	"github.com/frahmantamala/investment-manager/internal"
)

// Repository defines the data access methods for accounts and grants.
type Repository interface {
	Create(account *Account) error
	GetByID(id int64) (*Account, error)
	GetForUser(userID int64) ([]*Account, error)
	Update(account *Account) error
	// Delete removes the account together with its grants and transactions
	// in a single database transaction.
	Delete(id int64) error

	GetGrant(userID, accountID int64) (*Grant, error)
	GrantsForAccount(accountID int64) ([]*Grant, error)
}

type Service struct {
	repo      Repository
	evaluator *Evaluator
	logger    *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		evaluator: NewEvaluator(repo, logger),
		logger:    logger,
	}
}

// Evaluator exposes the permission evaluator so other services can gate
// their own objects against account grants.
func (s *Service) Evaluator() *Evaluator {
	return s.evaluator
}

// CreateAccount creates an account for any authenticated caller. There is
// deliberately no ownership check on creation; grants are administered
// separately.
func (s *Service) CreateAccount(subjectID int64, dto CreateAccountDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("account validation failed", "error", err, "user_id", subjectID)
		return nil, err
	}

	acct := NewAccount(dto.Name)
	if err := s.repo.Create(acct); err != nil {
		s.logger.Error("failed to create account", "error", err, "user_id", subjectID)
		return nil, internal.NewInternalError("failed to create account", err)
	}

	s.logger.Info("account created", "account_id", acct.ID, "user_id", subjectID)
	return acct, nil
}

// ListAccounts returns only the accounts where the subject holds a grant of
// any role, with the grants attached the way the API serializes them.
func (s *Service) ListAccounts(subjectID int64) ([]*Account, error) {
	accounts, err := s.repo.GetForUser(subjectID)
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err, "user_id", subjectID)
		return nil, internal.NewInternalError("failed to list accounts", err)
	}

	for _, acct := range accounts {
		grants, err := s.repo.GrantsForAccount(acct.ID)
		if err != nil {
			s.logger.Error("failed to load grants", "error", err, "account_id", acct.ID)
			return nil, internal.NewInternalError("failed to load account grants", err)
		}
		acct.Grants = grants
	}

	return accounts, nil
}

// GetAccount fetches one account, gated by the evaluator. A missing account
// is NotFound; a missing or insufficient grant is Forbidden.
func (s *Service) GetAccount(subjectID, accountID int64) (*Account, error) {
	acct, err := s.authorize(subjectID, accountID, ActionRead)
	if err != nil {
		return nil, err
	}

	grants, err := s.repo.GrantsForAccount(acct.ID)
	if err != nil {
		s.logger.Error("failed to load grants", "error", err, "account_id", acct.ID)
		return nil, internal.NewInternalError("failed to load account grants", err)
	}
	acct.Grants = grants

	return acct, nil
}

func (s *Service) UpdateAccount(subjectID, accountID int64, dto UpdateAccountDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("account validation failed", "error", err, "user_id", subjectID)
		return nil, err
	}

	acct, err := s.authorize(subjectID, accountID, ActionUpdate)
	if err != nil {
		return nil, err
	}

	acct.Rename(dto.Name)
	if err := s.repo.Update(acct); err != nil {
		s.logger.Error("failed to update account", "error", err, "account_id", accountID)
		return nil, internal.NewInternalError("failed to update account", err)
	}

	s.logger.Info("account updated", "account_id", accountID, "user_id", subjectID)
	return acct, nil
}

// DeleteAccount removes the account and cascades to its grants and
// transactions.
func (s *Service) DeleteAccount(subjectID, accountID int64) error {
	if _, err := s.authorize(subjectID, accountID, ActionDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(accountID); err != nil {
		s.logger.Error("failed to delete account", "error", err, "account_id", accountID)
		return internal.NewInternalError("failed to delete account", err)
	}

	s.logger.Info("account deleted", "account_id", accountID, "user_id", subjectID)
	return nil
}

func (s *Service) authorize(subjectID, accountID int64, action Action) (*Account, error) {
	acct, err := s.repo.GetByID(accountID)
	if err != nil {
		return nil, internal.ErrAccountNotFound
	}

	allowed, err := s.evaluator.Evaluate(subjectID, AccountTarget(accountID), action)
	if err != nil {
		s.logger.Error("permission evaluation failed", "error", err, "account_id", accountID, "user_id", subjectID)
		return nil, internal.NewInternalError("failed to evaluate permissions", err)
	}
	if !allowed {
		return nil, internal.ErrAccessDenied
	}

	return acct, nil
}
